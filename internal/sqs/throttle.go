package sqs

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// throttle ensures a minimum interval between successive remote calls.
type throttle struct {
	interval time.Duration
	clock    clockwork.Clock

	mu   sync.Mutex
	next time.Time
}

func newThrottle(clock clockwork.Clock, interval time.Duration) *throttle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		return &throttle{clock: clock}
	}
	return &throttle{interval: interval, clock: clock}
}

func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return nil
	}
	for {
		t.mu.Lock()
		wait := t.next.Sub(t.clock.Now())
		if wait <= 0 {
			t.next = t.clock.Now().Add(t.interval)
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.clock.After(wait):
		}
	}
}
