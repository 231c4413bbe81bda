package threecommas

import (
	"context"
	"sync"
	"time"
)

// APICallInterval is the minimum spacing between consecutive 3Commas calls.
// The platform enforces a per-key rate limit; one call per second keeps every
// sequential workload comfortably under it.
const APICallInterval = time.Second

// Throttle enforces a fixed minimum interval between consecutive calls. It is
// not a token bucket: each Wait simply delays until at least the interval has
// elapsed since the previous call completed its wait. It has no failure mode;
// Wait only returns early when ctx is cancelled during shutdown.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a Throttle with the given minimum inter-call interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Wait blocks until the minimum interval since the previous call has passed,
// then records the current time as the new reference point.
func (t *Throttle) Wait(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if d := t.interval - time.Since(t.last); d > 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return
			}
		}
	}
	t.last = time.Now()
}
