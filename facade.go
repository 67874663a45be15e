package testclock

import (
	"context"
	"time"
)

// Get returns the calling goroutine's current virtual time. It panics if ctx
// has no installed clock.
func Get(ctx context.Context) Timepoint {
	return mustLocalClockFrom(ctx).time
}

// Advance moves the calling goroutine's virtual time forward by d. It is
// equivalent to AdvanceTo(ctx, Get(ctx).Add(d)).
func Advance(ctx context.Context, d time.Duration) {
	AdvanceTo(ctx, Get(ctx).Add(d))
}

// AdvanceTo moves the calling goroutine's virtual time to t, if t is later
// than its current time.
//
// If the clock is frozen, this blocks until another goroutine raises the
// shared time to at least t (see FreezeScope), recording a timed-wait scope
// for the duration of the block.
//
// If the clock is not frozen, this raises the shared time to t (if t is
// later than the shared time), wakes every parked frozen goroutine, and
// drains every timed waker due at or before t, in timeout order.
func AdvanceTo(ctx context.Context, t Timepoint) {
	lc := mustLocalClockFrom(ctx)

	if t.After(lc.time) {
		lc.time = t
	}

	if lc.frozen {
		lc.shared.advanceToFrozen(lc.self, t)
		return
	}

	lc.shared.advanceToUnfrozen(t)
}

// freezeGuard restores a LocalClock's frozen flag to its value before the
// scope began. Scopes nest LIFO, as with any other deferred cleanup.
type freezeGuard struct {
	lc   *localClock
	prev bool
}

func (g *freezeGuard) Close() { g.lc.frozen = g.prev }

// FreezeScope switches the calling goroutine to frozen mode: timed waits
// will block rather than auto-advance until the returned cleanup function is
// called. It panics if ctx has no installed clock.
func FreezeScope(ctx context.Context) (context.Context, func()) {
	lc := mustLocalClockFrom(ctx)
	g := &freezeGuard{lc: lc, prev: lc.frozen}
	lc.frozen = true
	return ctx, g.Close
}

// UnfreezeScope switches the calling goroutine to unfrozen (auto-advance)
// mode until the returned cleanup function is called. It panics if ctx has
// no installed clock.
func UnfreezeScope(ctx context.Context) (context.Context, func()) {
	lc := mustLocalClockFrom(ctx)
	g := &freezeGuard{lc: lc, prev: lc.frozen}
	lc.frozen = false
	return ctx, g.Close
}

// RegistrationHandle is a transferable snapshot of a LocalClock: a reference
// to the SharedClock and the time it was taken at, always unfrozen. It is
// used to attach a newly spawned goroutine to the same SharedClock as its
// parent. The zero value is "empty": it carries no clock.
type RegistrationHandle struct {
	shared *SharedClock
	time   Timepoint
}

// RegistrationHandleFrom snapshots the calling goroutine's clock for handoff to
// a child goroutine. The result is empty if ctx has no installed clock.
func RegistrationHandleFrom(ctx context.Context) RegistrationHandle {
	lc, ok := localClockFrom(ctx)
	if !ok {
		return RegistrationHandle{}
	}
	return RegistrationHandle{shared: lc.shared, time: lc.time}
}

// IsEmpty reports whether h carries no clock.
func (h RegistrationHandle) IsEmpty() bool { return h.shared == nil }

// RegisterGoroutine installs h's clock on ctx (a no-op, returning ctx
// unchanged, if h is empty) and registers the calling goroutine in the
// shared registry. ctx must not already carry a clock.
func RegisterGoroutine(ctx context.Context, h RegistrationHandle) context.Context {
	if h.IsEmpty() {
		return ctx
	}
	if _, ok := localClockFrom(ctx); ok {
		panic(ErrAlreadyInitialized)
	}

	lc := &localClock{
		frozen: false,
		time:   h.time,
		shared: h.shared,
	}
	lc.self = h.shared.registerGoroutine()

	return context.WithValue(ctx, localClockKey, lc)
}

// SyncHandle is a transferable snapshot of local time, used to propagate
// happens-before ordering across synchronization adapters (mutex unlock,
// condition signal, goroutine join). The zero value is empty.
type SyncHandle struct {
	valid bool
	time  Timepoint
}

// SyncHandleFrom snapshots the calling goroutine's local time. The result is
// empty if ctx has no installed clock.
func SyncHandleFrom(ctx context.Context) SyncHandle {
	lc, ok := localClockFrom(ctx)
	if !ok {
		return SyncHandle{}
	}
	return SyncHandle{valid: true, time: lc.time}
}

// IsEmpty reports whether h carries no time.
func (h SyncHandle) IsEmpty() bool { return !h.valid }

// SyncWith raises the calling goroutine's local time to at least h's time.
// If h is empty and ctx has an installed clock, this is a call-contract
// violation and panics with errSyncHandleMismatch.
func SyncWith(ctx context.Context, h SyncHandle) {
	if h.IsEmpty() {
		if IsMocked(ctx) {
			panic(errSyncHandleMismatch)
		}
		return
	}
	AdvanceTo(ctx, h.time)
}

// ExpectTimedWaitOn blocks until the goroutine identified by g has entered
// at least one timed wait since the call began. It panics if ctx has no
// installed clock.
func ExpectTimedWaitOn(ctx context.Context, g GoroutineHandle) {
	lc := mustLocalClockFrom(ctx)
	lc.shared.expectTimedWaitOn(g)
}

// Self returns the calling goroutine's handle within its SharedClock's
// registry, for use with ExpectTimedWaitOn. It panics if ctx has no
// installed clock.
func Self(ctx context.Context) GoroutineHandle {
	return mustLocalClockFrom(ctx).self
}
