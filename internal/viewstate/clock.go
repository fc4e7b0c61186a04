package viewstate

import (
	"context"
	"time"
)

// Clock abstracts wall time so delays and refreshes can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Refresher recomputes a value on a fixed interval until its context ends.
type Refresher[T any] struct {
	clock    Clock
	interval time.Duration
	compute  func(time.Time) T
	onUpdate func(T)
}

// NewRefresher returns a Refresher that calls compute every interval and hands
// the result to onUpdate. onUpdate may be nil when compute stores the value itself.
func NewRefresher[T any](clock Clock, interval time.Duration, compute func(time.Time) T, onUpdate func(T)) *Refresher[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Refresher[T]{clock: clock, interval: interval, compute: compute, onUpdate: onUpdate}
}

// Run publishes one value immediately, then one per interval. It returns when
// ctx is cancelled, so the owner must cancel on unmount.
func (r *Refresher[T]) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	r.publish(r.clock.Now())
	if r.interval <= 0 {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-r.clock.After(r.interval):
			if ctx.Err() != nil {
				return
			}
			r.publish(now)
		}
	}
}

func (r *Refresher[T]) publish(now time.Time) {
	v := r.compute(now)
	if r.onUpdate != nil {
		r.onUpdate(v)
	}
}
