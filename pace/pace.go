// Package pace provides the interruptible timed wait used to spread record
// emission across an interval.
package pace

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/teranos/hourgen/errors"
)

// Pacer blocks before each record. Wait returns an error marked
// errors.ErrInterrupted when ctx ends before the wait completes.
type Pacer interface {
	Wait(ctx context.Context) error
	Interval() time.Duration
}

// Interval spreads quota waits evenly over window, e.g. one hour over 100
// records is 36s.
func Interval(quota int, window time.Duration) time.Duration {
	if quota <= 0 {
		return 0
	}
	return window / time.Duration(quota)
}

// Immediate never waits. Cancellation is still observed.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}
	return nil
}

func (Immediate) Interval() time.Duration { return 0 }

// Limited waits one interval before every call, the first included. It is
// backed by a token bucket of size one so the spacing is measured between
// consecutive Waits, not from the end of the caller's work.
type Limited struct {
	interval time.Duration
	limiter  *rate.Limiter
	drain    sync.Once
}

// Every creates a pacer that releases one wait per interval. A zero or
// negative interval behaves like Immediate.
func Every(interval time.Duration) Pacer {
	if interval <= 0 {
		return Immediate{}
	}
	return &Limited{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next slot or until ctx is done.
func (l *Limited) Wait(ctx context.Context) error {
	// The bucket starts full; spend that token so the first record is delayed too
	l.drain.Do(func() { l.limiter.Allow() })

	if err := l.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return interrupted(ctxErr)
		}
		// Deadline would be exceeded before the next slot
		return interrupted(err)
	}
	return nil
}

func (l *Limited) Interval() time.Duration { return l.interval }

func interrupted(err error) error {
	return errors.Mark(errors.Wrap(err, "pacing wait interrupted"), errors.ErrInterrupted)
}
