package ratelimit

import (
	"testing"
	"time"
)

func TestIntervalSpacing(t *testing.T) {
	// 20 req/s keeps the test fast while still measurable
	limiter := NewInterval(20)

	const calls = 5
	start := time.Now()
	for i := 0; i < calls; i++ {
		limiter.Wait()
	}
	elapsed := time.Since(start)

	// M calls must take at least (M-1) * 1/rate
	minimum := time.Duration(calls-1) * limiter.MinSpacing()
	if elapsed < minimum {
		t.Errorf("expected %d calls to take at least %v, took %v", calls, minimum, elapsed)
	}
}

func TestIntervalFirstCallImmediate(t *testing.T) {
	limiter := NewInterval(1)

	start := time.Now()
	limiter.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first call should not block, took %v", elapsed)
	}
}

func TestIntervalReset(t *testing.T) {
	limiter := NewInterval(1)
	limiter.Wait()

	// After a reset the next call starts a fresh clock
	limiter.Reset()
	start := time.Now()
	limiter.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("call after reset should not block, took %v", elapsed)
	}
}

func TestIntervalDefaultRate(t *testing.T) {
	limiter := NewInterval(0)
	if limiter.MinSpacing() != time.Second/DefaultRequestsPerSecond {
		t.Errorf("expected default spacing of 250ms, got %v", limiter.MinSpacing())
	}
}

func TestNopNeverBlocks(t *testing.T) {
	limiter := NewNop()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		limiter.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("nop limiter blocked for %v", elapsed)
	}
}
