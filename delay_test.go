package testclock

import (
	"context"
	"testing"
	"time"

	"github.com/blugnu/test"
)

func TestDelay_UnfrozenFiresImmediatelyOnArm(t *testing.T) {
	ctx, _, _ := Install(context.Background(), false)

	d := NewDelay(ctx, 2*time.Nanosecond)

	select {
	case <-d.C():
	default:
		t.Fatal("Delay did not fire for an unfrozen clock")
	}
	test.Value(t, Get(ctx)).Equals(Start.Add(2 * time.Nanosecond))
}

// Scenario 4 from spec.md §8: a Delay registered while frozen wakes when
// another goroutine advances past its timeout.
func TestScenario_DelayWakesOnAdvance(t *testing.T) {
	ctx, _, _ := Install(context.Background(), true)
	main := Self(ctx)

	d := NewDelay(ctx, 2*time.Nanosecond)

	h := Go(ctx, func(childCtx context.Context) {
		ExpectTimedWaitOn(childCtx, main)
		AdvanceTo(childCtx, Start.Add(2*time.Nanosecond))
	})

	<-d.C()
	h.Join()

	test.IsFalse(t, Get(ctx).Before(Start.Add(2*time.Nanosecond)))
}

// Scenario 5 from spec.md §8: dropping (Stop-ing) a pending Delay's handle
// cancels it — a later advance never invokes its waker.
func TestScenario_StopCancelsWaker(t *testing.T) {
	ctx, _, _ := Install(context.Background(), true)

	d := NewDelay(ctx, time.Millisecond)
	d.Stop()

	unfrozenCtx, done := UnfreezeScope(ctx)
	AdvanceTo(unfrozenCtx, Start.Add(2*time.Millisecond))
	done()

	select {
	case <-d.C():
		t.Fatal("stopped Delay fired")
	default:
	}
}

func TestDelay_ResetReplacesPendingRegistration(t *testing.T) {
	ctx, _, _ := Install(context.Background(), true)

	d := NewDelay(ctx, time.Millisecond)
	d.Reset(2 * time.Millisecond)

	select {
	case <-d.C():
		t.Fatal("Delay fired before its (reset) timeout")
	default:
	}

	unfrozenCtx, done := UnfreezeScope(ctx)
	AdvanceTo(unfrozenCtx, Start.Add(2*time.Millisecond))
	done()

	<-d.C()
}
