package mockai

import (
	"context"
	"time"
)

// Sleeper waits for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper waits on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d or until ctx is canceled.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay returns immediately unless ctx is already done.
var NoDelay Sleeper = SleeperFunc(func(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
})

// Delays configures the simulated latency of each call.
type Delays struct {
	// GenerateMin and GenerateMax bound the generation delay, [min, max).
	GenerateMin time.Duration
	GenerateMax time.Duration
	// Revise is the fixed revision delay.
	Revise time.Duration
}

// DefaultDelays returns 2-3s for generation and 1.5s for revision.
func DefaultDelays() Delays {
	return Delays{
		GenerateMin: 2000 * time.Millisecond,
		GenerateMax: 3000 * time.Millisecond,
		Revise:      1500 * time.Millisecond,
	}
}
