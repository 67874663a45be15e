package testclock

import (
	"container/heap"
	"sync/atomic"
)

// weakWaker is the Go substitute for a weak reference to an async waker.
// go1.23 (the version this module targets, matching the teacher's go.mod)
// has no runtime/weak package, so cancellation is instead modelled with an
// explicit flag: TimedWakerHandle.Close sets cancelled before the callback
// can ever be invoked again, and the queue drain checks it in place of a
// failed weak-pointer upgrade. cancelled is an atomic.Bool because Close can
// race with a drain happening on another goroutine under the SharedClock's
// own lock.
type weakWaker struct {
	cancelled atomic.Bool
	callback  func()
}

type wakerEntry struct {
	timeout Timepoint
	seq     uint64
	waker   *weakWaker
}

// wakerQueue is a min-heap of pending timed wakers ordered by timeout, ties
// broken by insertion order (spec.md §3/§4.4).
type wakerQueue struct {
	heap wakerHeap
	seq  uint64
}

func newWakerQueue() *wakerQueue {
	return &wakerQueue{}
}

// push inserts a new weak waker for the given timeout, returning it so the
// caller can stash the paired strong handle.
func (q *wakerQueue) push(timeout Timepoint) *weakWaker {
	w := &weakWaker{}
	heap.Push(&q.heap, &wakerEntry{timeout: timeout, seq: q.seq, waker: w})
	q.seq++
	return w
}

// drain pops and invokes every waker whose timeout is <= t, in non-decreasing
// timeout order (ties broken by insertion order, which the heap's Less
// already encodes). Cancelled wakers (the "weak reference failed to
// upgrade" case) are silently discarded. Must be called with the
// SharedClock's mutex held.
func (q *wakerQueue) drain(t Timepoint) {
	for len(q.heap) > 0 {
		top := q.heap[0]
		if top.timeout.After(t) {
			return
		}
		heap.Pop(&q.heap)
		if !top.waker.cancelled.Load() {
			top.waker.callback()
		}
	}
}

type wakerHeap []*wakerEntry

func (h wakerHeap) Len() int { return len(h) }
func (h wakerHeap) Less(i, j int) bool {
	if !h[i].timeout.Equal(h[j].timeout) {
		return h[i].timeout.Before(h[j].timeout)
	}
	return h[i].seq < h[j].seq
}
func (h wakerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *wakerHeap) Push(x any) {
	*h = append(*h, x.(*wakerEntry))
}

func (h *wakerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// TimedWakerHandle is owned by the code that registered a timed waker (a
// DelayFuture, in this module's case). Closing it drops the strong callback
// reference — so a later drain sees a cancelled entry and discards it — and
// ends the associated timed-wait scope.
type TimedWakerHandle struct {
	waker *weakWaker
	scope *timedWaitScope
}

// Close cancels the waker and ends the timed-wait scope it was registered
// under. It is safe to call more than once.
func (h *TimedWakerHandle) Close() {
	if h == nil {
		return
	}
	h.waker.cancelled.Store(true)
	h.scope.Close()
}
