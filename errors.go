package testclock

import "errors"

var (
	// ErrAlreadyInitialized is returned by Install when the current Context
	// already carries a LocalClock.
	ErrAlreadyInitialized = errors.New("testclock: clock already installed on this context")

	// errNotInstalled backs the panic raised when an operation that requires
	// an installed clock is called on a Context without one. This is a
	// programmer error, not a recoverable condition, so it is never returned.
	errNotInstalled = errors.New("testclock: no clock installed on this context")

	// errIncompatibleInstantVariant backs the panic raised by arithmetic or
	// comparison between an Actual and a Mocked Instant/SystemTime.
	errIncompatibleInstantVariant = errors.New("testclock: cannot compare a real time value with a mocked one")

	// errSyncHandleMismatch backs the panic raised when a SyncHandle is
	// applied somewhere a non-empty (or empty) handle was not expected.
	errSyncHandleMismatch = errors.New("testclock: sync handle does not match the expected clock state")

	// errUnregisteredGoroutine backs the panic raised when the registry is
	// asked about a goroutine it never saw register; this is always an
	// internal invariant violation, per spec: internal waiter operations
	// never fail under correct use.
	errUnregisteredGoroutine = errors.New("testclock: internal error: goroutine was not registered with the shared clock")
)
