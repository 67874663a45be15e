package testclock

import (
	"context"
	"sync"
)

// Mutex is a mutual-exclusion lock that additionally propagates
// happens-before ordering across lock/unlock through the virtual clock
// (spec.md §4.7): after Lock returns, the locker's virtual time is at least
// the time of the goroutine that last held the lock.
//
// The zero value is not usable; construct with NewMutex.
type Mutex[T any] struct {
	mu     sync.Mutex
	value  T
	handle SyncHandle
}

// NewMutex returns a Mutex guarding the given initial value.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// MutexGuard is returned by Lock; callers must call Close exactly once
// (typically via defer) to release the lock.
type MutexGuard[T any] struct {
	m   *Mutex[T]
	ctx context.Context
}

// Lock acquires the mutex and, if ctx has a mocked clock, raises the calling
// goroutine's local time to at least the time recorded by the last releaser
// (under a temporary unfreeze scope, so acquiring the lock never itself
// blocks a frozen clock on an unrelated advance).
func (m *Mutex[T]) Lock(ctx context.Context) *MutexGuard[T] {
	m.mu.Lock()

	// m.handle is empty until the first Close, meaning no one has released
	// the mutex yet; there is nothing to synchronize with, so skip the call
	// rather than treating it as a SyncWith contract violation.
	if IsMocked(ctx) && !m.handle.IsEmpty() {
		unfrozenCtx, done := UnfreezeScope(ctx)
		SyncWith(unfrozenCtx, m.handle)
		done()
	}

	return &MutexGuard[T]{m: m, ctx: ctx}
}

// Value returns a pointer to the guarded value, valid until Close.
func (g *MutexGuard[T]) Value() *T { return &g.m.value }

// Close releases the mutex, recording the releasing goroutine's current
// local time so the next locker can synchronize with it.
func (g *MutexGuard[T]) Close() {
	if IsMocked(g.ctx) {
		g.m.handle = SyncHandleFrom(g.ctx)
	}
	g.m.mu.Unlock()
}

// Cond is a condition variable bound to a Mutex[T]. Wait brackets itself with
// the same sync propagation as Mutex.Lock, so that a goroutine woken from Wait
// observes a local time at least that recorded by the last goroutine to
// release the lock (through MutexGuard.Close or Wait). Signal and Broadcast
// take no Context and record no time of their own: a signaller's time reaches
// the woken goroutine only if the signaller held and released the lock after
// reaching that time.
type Cond[T any] struct {
	m    *Mutex[T]
	cond *sync.Cond
}

// NewCond returns a Cond bound to m.
func NewCond[T any](m *Mutex[T]) *Cond[T] {
	return &Cond[T]{m: m, cond: sync.NewCond(&m.mu)}
}

// Wait releases the lock held by g, blocks until signalled, then reacquires
// it and synchronizes the calling goroutine's clock with whichever goroutine
// last held the lock, exactly as Lock does.
func (c *Cond[T]) Wait(g *MutexGuard[T]) {
	if IsMocked(g.ctx) {
		c.m.handle = SyncHandleFrom(g.ctx)
	}
	c.cond.Wait()
	if IsMocked(g.ctx) {
		unfrozenCtx, done := UnfreezeScope(g.ctx)
		SyncWith(unfrozenCtx, c.m.handle)
		done()
	}
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond[T]) Signal() { c.cond.Signal() }

// Broadcast wakes every goroutine waiting on c.
func (c *Cond[T]) Broadcast() { c.cond.Broadcast() }
