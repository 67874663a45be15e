package testclock

import (
	"context"
	"sync"
	"sync/atomic"
)

// Go spawns f on a new goroutine, handing it a Context carrying the same
// SharedClock as ctx (if ctx has an installed clock; otherwise f simply runs
// unmocked). It implements the three-step handoff of spec.md §4.6: the
// registration handle is captured before the goroutine starts, the child
// registers itself before running f, and Go does not return until that
// registration has completed.
func Go(ctx context.Context, f func(ctx context.Context)) *JoinHandle {
	handle := RegistrationHandleFrom(ctx)

	var ready sync.WaitGroup
	ready.Add(1)

	var final atomic.Pointer[SyncHandle]
	var done sync.WaitGroup
	done.Add(1)

	go func() {
		defer done.Done()

		childCtx := ctx
		if !handle.IsEmpty() {
			childCtx = RegisterGoroutine(context.Background(), handle)
		}
		ready.Done()

		f(childCtx)

		if IsMocked(childCtx) {
			sh := SyncHandleFrom(childCtx)
			final.Store(&sh)
		}
	}()

	ready.Wait()
	return &JoinHandle{ctx: ctx, final: &final, done: &done}
}

// JoinHandle is returned by Go; Join waits for the spawned goroutine to
// finish and, if the parent's clock is mocked, raises the parent's local
// time to at least the child's final local time (spec.md's
// happens-before-across-join guarantee).
type JoinHandle struct {
	ctx   context.Context
	final *atomic.Pointer[SyncHandle]
	done  *sync.WaitGroup
}

// Join blocks until the spawned goroutine returns, then propagates its final
// clock reading to the parent if both are mocked.
func (h *JoinHandle) Join() {
	h.done.Wait()

	if !IsMocked(h.ctx) {
		return
	}
	if sh := h.final.Load(); sh != nil {
		SyncWith(h.ctx, *sh)
	}
}
