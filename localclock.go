package testclock

import "context"

type contextKey int

const localClockKey contextKey = iota

// localClock is the Go analogue of spec.md's thread-local LocalClock: the
// calling goroutine's view of virtual time, its freeze flag, its identity
// within the SharedClock's registry, and the SharedClock itself. It is
// carried by value inside a context.Context rather than in goroutine-local
// storage, since Go has no supported equivalent of a thread-local.
type localClock struct {
	frozen bool
	time   Timepoint
	self   GoroutineHandle
	shared *SharedClock
}

func localClockFrom(ctx context.Context) (*localClock, bool) {
	lc, ok := ctx.Value(localClockKey).(*localClock)
	return lc, ok
}

func mustLocalClockFrom(ctx context.Context) *localClock {
	lc, ok := localClockFrom(ctx)
	if !ok {
		panic(errNotInstalled)
	}
	return lc
}

// Install attaches a fresh LocalClock to ctx, starting at Start, and a new
// SharedClock that the calling goroutine is alone in, for now. It returns
// ErrAlreadyInitialized if ctx already carries a clock.
//
// The returned cleanup function should be deferred by the caller (typically
// a test's cleanup hook); it exists to make the "installed until torn down"
// contract explicit, even though in Go the SharedClock itself is reclaimed
// by the garbage collector once the last Context referencing it is gone.
func Install(ctx context.Context, frozen bool) (context.Context, func(), error) {
	if _, ok := localClockFrom(ctx); ok {
		return ctx, func() {}, ErrAlreadyInitialized
	}

	shared := newSharedClock()
	lc := &localClock{
		frozen: frozen,
		time:   Start,
		shared: shared,
	}
	lc.self = shared.registerGoroutine()

	next := context.WithValue(ctx, localClockKey, lc)
	return next, func() {}, nil
}

// IsMocked reports whether ctx carries an installed clock.
func IsMocked(ctx context.Context) bool {
	_, ok := localClockFrom(ctx)
	return ok
}
