package timer

import (
	"context"
	"time"
)

// DefaultTickInterval is the wall-clock period of one tick.
const DefaultTickInterval = time.Second

// RunUntilExpiry starts t and ticks it every interval until the active phase
// expires or ctx is canceled. observe, if non-nil, sees every tick result
// together with the state after the tick.
//
// It owns the only tick source for t while it runs, so callers must not
// tick t concurrently. Returns nil on expiry and ctx.Err() on cancellation.
func RunUntilExpiry(ctx context.Context, t *Timer, interval time.Duration, observe func(TickResult, State)) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t.Start()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			result := t.Tick()
			if observe != nil {
				observe(result, t.State())
			}
			if result == TickExpired || !t.Running() {
				return nil
			}
		}
	}
}
