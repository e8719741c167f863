package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// Interval enforces a minimum spacing between successive calls so that at
// most maxRate requests per second leave the process. Every outbound HTTP
// call of a run must go through the same Interval instance, otherwise the
// board listing and the download probes would be throttled independently.
type Interval struct {
	maxRate float64
	bucket  *rate.Limiter
	mu      sync.Mutex
}

// NewInterval creates an interval limiter allowing maxRate requests per
// second with no burst allowance.
func NewInterval(maxRate float64) *Interval {
	if maxRate <= 0 {
		maxRate = DefaultRequestsPerSecond
	}
	return &Interval{
		maxRate: maxRate,
		bucket:  rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// DefaultRequestsPerSecond is the Miro public API ceiling.
const DefaultRequestsPerSecond = 4

// Wait blocks until at least 1/maxRate seconds have passed since the
// previous Wait returned.
func (i *Interval) Wait() {
	i.mu.Lock()
	bucket := i.bucket
	i.mu.Unlock()

	// The bucket has burst 1, so Wait degenerates to pure spacing.
	_ = bucket.Wait(context.Background())
}

// Reset discards accumulated timing state
func (i *Interval) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bucket = rate.NewLimiter(rate.Limit(i.maxRate), 1)
}

// MinSpacing returns the guaranteed minimum duration between calls
func (i *Interval) MinSpacing() time.Duration {
	return time.Duration(float64(time.Second) / i.maxRate)
}

// Nop is a zero-delay limiter for tests
type Nop struct{}

// NewNop creates a limiter that never blocks
func NewNop() *Nop { return &Nop{} }

// Wait returns immediately
func (*Nop) Wait() {}

// Reset does nothing
func (*Nop) Reset() {}
