// Package testclock provides a deterministic virtual clock for testing code
// whose correctness depends on the passage of time.
//
// A test opts in by calling Install, which attaches a LocalClock to the
// returned Context. Every subsequent call in this package that takes that
// Context consults the mocked clock instead of the operating system. Waits
// either advance automatically (the default, "unfrozen" mode) or block until
// another goroutine explicitly advances virtual time ("frozen" mode, entered
// with FreezeScope).
//
// Goroutines spawned from a test do not automatically share its clock; use Go
// (or, for code that cannot be rewritten to accept a Context, RegistrationHandle
// and RegisterGoroutine directly) to hand the SharedClock off to a child
// goroutine.
//
// testclock has no real-time guarantees and does not simulate nondeterministic
// OS scheduling; it only simulates the passage of time observed through timed
// waits (sleeps, delays, timed locks).
package testclock
