package testclocktest_test

import (
	"context"
	"testing"
	"time"

	"github.com/blugnu/testclock"
	"github.com/blugnu/testclock/testclocktest"
)

func TestEnable_InstallsAFreshUnfrozenClock(t *testing.T) {
	ctx := testclocktest.Enable(t, false)

	testclocktest.AssertClockEqual(t, ctx, 0)

	testclock.Advance(ctx, time.Second)
	testclocktest.AssertClockEqual(t, ctx, time.Second)
}

func TestEnable_FrozenClockBlocksUntilAdvanced(t *testing.T) {
	ctx := testclocktest.Enable(t, true)
	main := testclock.Self(ctx)

	h := testclock.Go(ctx, func(childCtx context.Context) {
		testclock.ExpectTimedWaitOn(childCtx, main)
		testclock.Advance(childCtx, time.Millisecond)
	})

	testclock.Advance(ctx, time.Millisecond)
	h.Join()

	testclocktest.AssertClockEqual(t, ctx, time.Millisecond)
}

func TestAssertClockEqual_PassesOnExactMatch(t *testing.T) {
	ctx := testclocktest.Enable(t, false)

	testclock.Advance(ctx, 90*time.Second)
	testclocktest.AssertClockEqual(t, ctx, 90*time.Second)
}
