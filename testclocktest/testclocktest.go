// Package testclocktest is the thin, external-collaborator test harness
// around testclock: the Go analogue of the attribute macro that installs a
// mocked clock at the top of a test function, and of the assertion macro for
// clock equality. Neither does anything the core testclock package does not
// already expose; they exist purely for ergonomics at test call sites.
package testclocktest

import (
	"context"
	"testing"
	"time"

	"github.com/blugnu/testclock"
)

// Enable installs a mocked clock on a fresh Context derived from
// context.Background, registers tb.Cleanup to tear it down, and fails the
// test immediately (via tb.Fatal) if a clock is somehow already installed.
//
// frozen selects the clock's initial mode: pass false for a clock that
// auto-advances through timed waits, true for one that blocks until
// advanced explicitly (see testclock.FreezeScope).
func Enable(tb testing.TB, frozen bool) context.Context {
	tb.Helper()

	ctx, cleanup, err := testclock.Install(context.Background(), frozen)
	if err != nil {
		tb.Fatalf("testclocktest: %v", err)
	}
	tb.Cleanup(cleanup)

	return ctx
}

// AssertClockEqual fails the test (via tb.Error) unless ctx's installed
// clock reads exactly want.
func AssertClockEqual(tb testing.TB, ctx context.Context, want time.Duration) {
	tb.Helper()

	got := testclock.Get(ctx)
	if !got.Equal(testclock.Start.Add(want)) {
		tb.Errorf("testclocktest: clock = %s, want %s", got, want)
	}
}
