package testclock

import (
	"context"
	"testing"
	"time"

	"github.com/blugnu/test"
)

// TestMutex_LockPropagatesReleaserTime exercises spec.md §4.7's
// happens-before-across-mutex guarantee: a goroutine that acquires a Mutex
// after another releases it observes a local time at least that of the
// releaser, even though the two goroutines' LocalClocks never otherwise
// communicate.
func TestMutex_LockPropagatesReleaserTime(t *testing.T) {
	ctx, _, _ := Install(context.Background(), false)
	m := NewMutex(0)

	g := m.Lock(ctx)
	*g.Value() = 1
	g.Close()

	released := make(chan struct{})
	h := Go(ctx, func(childCtx context.Context) {
		Advance(childCtx, time.Hour)
		g := m.Lock(childCtx)
		*g.Value() = 2
		g.Close()
		close(released)
	})
	<-released

	g = m.Lock(ctx)
	test.Value(t, *g.Value()).Equals(2)
	g.Close()

	test.IsFalse(t, Get(ctx).Before(Start.Add(time.Hour)))
	h.Join()
}

func TestMutex_UnmockedContextNeverSynchronizes(t *testing.T) {
	m := NewMutex("init")

	g := m.Lock(context.Background())
	*g.Value() = "updated"
	g.Close()

	g = m.Lock(context.Background())
	test.Value(t, *g.Value()).Equals("updated")
	g.Close()
}

// TestCond_WaitObservesSignallerTime exercises the Cond analogue of the same
// guarantee: the goroutine woken from Wait picks up the signaller's time.
func TestCond_WaitObservesSignallerTime(t *testing.T) {
	ctx, _, _ := Install(context.Background(), false)
	m := NewMutex(false)
	c := NewCond(m)

	woken := make(chan struct{})
	var wokenTime Timepoint
	h := Go(ctx, func(childCtx context.Context) {
		g := m.Lock(childCtx)
		for !*g.Value() {
			c.Wait(g)
		}
		wokenTime = Get(childCtx)
		g.Close()
		close(woken)
	})

	// give the child a chance to reach Wait; this is a real-time sleep since
	// it is only pacing the test, not asserting on virtual time.
	time.Sleep(10 * time.Millisecond)

	g := m.Lock(ctx)
	Advance(ctx, time.Minute)
	*g.Value() = true
	g.Close()
	c.Signal()

	<-woken
	h.Join()

	test.IsFalse(t, wokenTime.Before(Start.Add(time.Minute)))
}
