// Package ratelimit provides rate limiting for outbound Miro API calls.
//
// Miro's public API allows at most 4 requests per second. The Interval
// limiter enforces that ceiling as a minimum spacing between calls rather
// than a windowed quota: a run is strictly sequential, so spacing is both
// simpler and impossible to overshoot.
//
// A single Interval instance must be shared by everything that talks to
// the network during a run. The board client owns one and applies it to
// listing calls and download probes alike.
//
// Usage:
//
//	limiter := ratelimit.NewInterval(4) // 4 requests per second
//
//	limiter.Wait()
//	// issue request
//
// Tests inject ratelimit.NewNop() to avoid real delays.
package ratelimit
