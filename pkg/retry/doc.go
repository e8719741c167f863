// Package retry provides retry logic with configurable backoff for
// listing-page fetches against the Miro API.
//
// Only 429, 5xx and network failures are retried; authentication and
// not-found responses surface immediately. The retry loop delays with
// exponential backoff and jitter on top of the spacing the shared rate
// limiter already enforces.
package retry
