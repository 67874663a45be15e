package testclock

import (
	"context"
	"time"
)

// Delay is the mocked equivalent of an asynchronous timer: a one-shot wait
// for virtual time to reach a deadline. Go has no built-in Future/poll
// machinery to integrate with, so where spec.md describes a poll contract
// with Pending/Ready states, Delay instead exposes a channel that closes
// exactly once when the deadline is reached — the idiomatic Go substitute,
// and the same shape as the teacher's channel-based Timer/Ticker.
//
// The zero value is not usable; construct with NewDelay.
type Delay struct {
	ctx     context.Context
	timeout Timepoint
	handle  *TimedWakerHandle
	c       chan struct{}
}

// NewDelay creates a Delay that fires after d of virtual time has passed on
// ctx's clock.
//
// If ctx's clock is not frozen, the deadline is reached immediately: virtual
// time is advanced to it and the returned Delay's channel is already closed.
//
// If the clock is frozen, a waker is registered with the SharedClock and the
// calling goroutine's local time is pulled up to the shared clock's current
// time (under a temporary unfreeze, so this alone does not itself block);
// the channel closes whenever a later AdvanceTo reaches the deadline, from
// any goroutine.
//
// Callers that may abandon a pending Delay before it fires must call Stop to
// release the registration; otherwise the registration is released when the
// drain eventually reaches (or passes) its deadline.
func NewDelay(ctx context.Context, d time.Duration) *Delay {
	lc := mustLocalClockFrom(ctx)
	t := &Delay{
		ctx:     ctx,
		timeout: lc.time.Add(d),
		c:       make(chan struct{}),
	}
	t.arm()
	return t
}

func (t *Delay) arm() {
	lc := mustLocalClockFrom(t.ctx)

	if !lc.frozen {
		AdvanceTo(t.ctx, t.timeout)
		close(t.c)
		return
	}

	c := t.c
	handle, current := lc.shared.registerTimedWaker(lc.self, func() { close(c) }, t.timeout)
	t.handle = handle

	unfrozenCtx, done := UnfreezeScope(t.ctx)
	AdvanceTo(unfrozenCtx, current)
	done()

	if handle == nil {
		close(t.c)
	}
}

// C returns the channel that closes exactly once the deadline is reached.
func (t *Delay) C() <-chan struct{} {
	return t.c
}

// Reset rearms the Delay to fire after d of virtual time from now, replacing
// any previous pending registration. Reset must not be called concurrently
// with a send on the previous channel having already been observed; callers
// that need to reuse a Delay after it fires should treat it like
// time.Timer.Reset and drain C() first.
func (t *Delay) Reset(d time.Duration) {
	if t.handle != nil {
		t.handle.Close()
		t.handle = nil
	}

	lc := mustLocalClockFrom(t.ctx)
	t.timeout = lc.time.Add(d)
	t.c = make(chan struct{})
	t.arm()
}

// Stop cancels a pending Delay. It is the Go analogue of dropping a
// TimedWakerHandle: after Stop, the Delay's channel will never close by
// virtue of this registration. It is safe to call on an already-fired or
// already-stopped Delay.
func (t *Delay) Stop() {
	if t.handle != nil {
		t.handle.Close()
		t.handle = nil
	}
}
