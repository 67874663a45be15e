package testclock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WithTimeout is the mocked-clock-aware analogue of context.WithTimeout: if
// ctx has an installed clock, the returned context is cancelled with
// context.DeadlineExceeded when virtual time (not wall time) reaches the
// deadline; otherwise it behaves exactly like context.WithTimeout.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if !IsMocked(ctx) {
		return context.WithTimeout(ctx, timeout)
	}
	return newDeadlineContext(ctx, Get(ctx).Add(timeout))
}

// WithDeadline is the mocked-clock-aware analogue of context.WithDeadline,
// expressed in terms of a Timepoint rather than a time.Time since virtual
// time has no wall-clock correspondence.
func WithDeadline(ctx context.Context, deadline Timepoint) (context.Context, context.CancelFunc) {
	if !IsMocked(ctx) {
		// No virtual clock: there is nothing meaningful to convert the
		// Timepoint deadline into, so fall back to a plain cancellable
		// context; callers needing a real wall-clock deadline should use
		// context.WithDeadline directly outside of mocked tests.
		return context.WithCancel(ctx)
	}

	// A deadline that has already passed is handled by newDeadlineContext
	// itself, which fires synchronously (matching stdlib context.WithDeadline
	// cancelling with DeadlineExceeded, not Canceled, for a past deadline).
	return newDeadlineContext(ctx, deadline)
}

var _ context.Context = (*deadlineContext)(nil)

// deadlineContext is the mocked counterpart of the context returned by
// context.WithTimeout/WithDeadline: it is cancelled either explicitly or
// when a Delay registered against the installed clock fires.
type deadlineContext struct {
	context.Context

	mu    sync.Mutex
	done  chan struct{}
	err   error
	delay *Delay
}

func newDeadlineContext(parent context.Context, deadline Timepoint) (*deadlineContext, context.CancelFunc) {
	c := &deadlineContext{
		Context: parent,
		done:    make(chan struct{}),
	}

	c.delay = NewDelay(parent, deadline.SaturatingDurationSince(Get(parent)))

	// NewDelay fires synchronously when the deadline has already passed
	// (regardless of frozen/unfrozen mode); cancel right away rather than
	// spawning goroutines to observe a close that already happened.
	select {
	case <-c.delay.C():
		c.cancel(context.DeadlineExceeded)
		return c, func() { c.cancel(context.Canceled) }
	default:
	}

	if parent.Done() != nil {
		go func() {
			select {
			case <-parent.Done():
				c.cancel(parent.Err())
			case <-c.done:
			}
		}()
	}

	go func() {
		select {
		case <-c.delay.C():
			c.cancel(context.DeadlineExceeded)
		case <-c.done:
		}
	}()

	return c, func() { c.cancel(context.Canceled) }
}

func (c *deadlineContext) cancel(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return
	}
	c.err = err
	close(c.done)
	c.delay.Stop()
}

// Deadline always reports no wall-clock deadline: the context's deadline is
// expressed in virtual time, which has no correspondence to time.Time.
// Callers that need the virtual deadline should track the Timepoint passed
// to WithDeadline/WithTimeout themselves.
func (c *deadlineContext) Deadline() (time.Time, bool) { return time.Time{}, false }

func (c *deadlineContext) Done() <-chan struct{} { return c.done }

func (c *deadlineContext) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *deadlineContext) String() string {
	return fmt.Sprintf("testclock.WithDeadline(%s)", c.delay.timeout)
}
