package testclock

import "sync"

// SharedClock is the coordination point shared by every goroutine spawned
// from a single test: the shared virtual time, the condition used to park
// frozen advances, the timed-wait registry, and the waker queue.
//
// A SharedClock is created fresh by Install and handed to spawned goroutines
// via RegistrationHandle/RegisterGoroutine; it is never exposed directly to
// test code.
type SharedClock struct {
	mu       sync.Mutex
	advanceC *sync.Cond
	time     Timepoint
	registry *timedWaitRegistry
	wakers   *wakerQueue
	nextID   int64
}

func newSharedClock() *SharedClock {
	c := &SharedClock{
		registry: newTimedWaitRegistry(),
		wakers:   newWakerQueue(),
	}
	c.advanceC = sync.NewCond(&c.mu)
	return c
}

// registerGoroutine mints a fresh GoroutineHandle and inserts its registry
// entry. It is the Go analogue of SharedClock::register_thread, generalized
// to hand back an identity since Go goroutines carry no public id.
func (c *SharedClock) registerGoroutine() GoroutineHandle {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	g := GoroutineHandle{id: id}
	c.registry.register(g)
	return g
}

// now returns the current shared time.
func (c *SharedClock) now() Timepoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

// advanceToFrozen blocks the calling goroutine until the shared time reaches
// t, recording a timed-wait scope for the duration of the block so that
// expectTimedWaitOn observers can detect it.
func (c *SharedClock) advanceToFrozen(g GoroutineHandle, t Timepoint) {
	scope := c.registry.notifyTimedWait(g)
	defer scope.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.time.Before(t) {
		c.advanceC.Wait()
	}
}

// advanceToUnfrozen raises the shared time to t (a no-op if t does not
// advance it), broadcasts the change, and drains every waker due at or
// before t, in timeout order.
func (c *SharedClock) advanceToUnfrozen(t Timepoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.After(c.time) {
		return
	}
	c.time = t
	c.advanceC.Broadcast()
	c.wakers.drain(t)
}

// registerTimedWaker registers callback to run (at least once) no later than
// the first advance that reaches timeout. If timeout has already passed, the
// registration is skipped and a nil handle is returned along with the
// current shared time, signalling the caller should treat the wait as
// already satisfied (spec.md §4.2/§4.5/§9: timeout <= current is "already
// due").
func (c *SharedClock) registerTimedWaker(g GoroutineHandle, callback func(), timeout Timepoint) (*TimedWakerHandle, Timepoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.time
	if !timeout.After(current) {
		return nil, current
	}

	scope := c.registry.notifyTimedWait(g)
	w := c.wakers.push(timeout)
	w.callback = callback

	return &TimedWakerHandle{waker: w, scope: scope}, current
}

// expectTimedWaitOn blocks until g has entered at least one timed wait since
// the call began.
func (c *SharedClock) expectTimedWaitOn(g GoroutineHandle) {
	c.registry.expectTimedWaitOn(g)
}
