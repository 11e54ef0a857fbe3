package runtime

import (
	"sort"
	"sync"
)

// Scheduler is the single-threaded cooperative event loop compiled async
// code runs against: a promise table, a FIFO microtask queue, two
// independent timer queues (deadline→promise and deadline→closure
// callback), and the deferred-resolution queue
// the async bridge posts into. Grounded on
// original_source/crates/perry-runtime/src/timer.rs's two parallel
// TIMER_QUEUE/CALLBACK_TIMERS thread_locals and promise.rs's resolve/
// reject-enqueues-waiters shape, adapted from Rust thread_locals + a
// real-time Instant clock to a single owned struct with an injectable
// logical clock (Now), so ordering tests don't depend on wall time.
type Scheduler struct {
	// Now returns the current time in milliseconds. Defaults to a
	// monotonically increasing logical clock driven by Advance; tests set
	// it directly for deterministic timer-ordering checks.
	Now func() int64

	promises   []*Promise
	microtasks []func()

	promiseTimers  []promiseTimer
	callbackTimers []callbackTimer
	nextTimerSeq   int64
	nextTimerHandle int64

	pendingMu sync.Mutex
	pending   []DeferredResolution

	logicalNow int64
}

type promiseTimer struct {
	handle   int64
	deadline int64
	seq      int64
	promise  int
	value    JSValue
	canceled bool
}

type callbackTimer struct {
	handle   int64
	deadline int64
	seq      int64
	cb       func()
	canceled bool
}

// DeferredResolution is what a worker (HTTP, DB, bcrypt, …) posts instead
// of touching the arena directly,: "each worker
// enqueues a deferred resolution consisting of (promise-ptr, success-flag,
// a thunk that builds the JSValue on the main thread)".
type DeferredResolution struct {
	PromiseIndex int
	Success      bool
	Build        func() JSValue // invoked on the main thread
}

// NewScheduler returns a scheduler with a logical clock starting at 0.
func NewScheduler() *Scheduler {
	s := &Scheduler{nextTimerHandle: 1}
	s.Now = func() int64 { return s.logicalNow }
	return s
}

// Advance moves the logical clock forward by ms milliseconds. Used by
// tests and by any driver loop that isn't wired to wall-clock sleep.
func (s *Scheduler) Advance(ms int64) { s.logicalNow += ms }

// NewPromise registers a new pending promise and returns its table index.
func (s *Scheduler) NewPromise() int {
	s.promises = append(s.promises, &Promise{state: Pending, value: Undefined})
	return len(s.promises) - 1
}

func (s *Scheduler) promise(idx int) *Promise { return s.promises[idx] }

// Resolve transitions a pending promise to fulfilled and enqueues all
// current waiters onto the microtask queue.
func (s *Scheduler) Resolve(idx int, v JSValue) {
	p := s.promise(idx)
	if p.state != Pending {
		return
	}
	p.state = Fulfilled
	p.value = v
	waiters := p.waiters
	p.waiters = nil
	for _, w := range waiters {
		w := w
		s.microtasks = append(s.microtasks, func() { w.onFulfilled(v) })
	}
}

// Reject mirrors Resolve for rejection.
func (s *Scheduler) Reject(idx int, v JSValue) {
	p := s.promise(idx)
	if p.state != Pending {
		return
	}
	p.state = Rejected
	p.value = v
	waiters := p.waiters
	p.waiters = nil
	for _, w := range waiters {
		w := w
		s.microtasks = append(s.microtasks, func() { w.onRejected(v) })
	}
}

// Then registers onFulfilled/onRejected for idx. Per ,
// "Awaiting a fulfilled promise invokes the continuation on the next
// microtask tick (not synchronously)": even an already-settled promise's
// continuation is only ever enqueued here, never invoked inline.
func (s *Scheduler) Then(idx int, onFulfilled, onRejected func(JSValue)) {
	p := s.promise(idx)
	switch p.state {
	case Pending:
		p.waiters = append(p.waiters, continuation{onFulfilled, onRejected})
	case Fulfilled:
		v := p.value
		s.microtasks = append(s.microtasks, func() { onFulfilled(v) })
	case Rejected:
		v := p.value
		s.microtasks = append(s.microtasks, func() { onRejected(v) })
	}
}

// RunMicrotasks drains the FIFO queue to empty, including microtasks
// enqueued by microtasks that ran earlier in the same drain.
func (s *Scheduler) RunMicrotasks() {
	for len(s.microtasks) > 0 {
		task := s.microtasks[0]
		s.microtasks = s.microtasks[1:]
		task()
	}
}

// SetTimeout schedules a promise to resolve with Undefined after delayMs,
// returning its promise table index and a cancellation handle.
func (s *Scheduler) SetTimeout(delayMs float64) (promiseIdx int, timerHandle int64) {
	return s.SetTimeoutValue(delayMs, Undefined)
}

// SetTimeoutValue is SetTimeout with an explicit resolve value.
func (s *Scheduler) SetTimeoutValue(delayMs float64, value JSValue) (int, int64) {
	if delayMs < 0 {
		delayMs = 0
	}
	idx := s.NewPromise()
	h := s.nextTimerHandle
	s.nextTimerHandle++
	s.promiseTimers = append(s.promiseTimers, promiseTimer{
		handle:   h,
		deadline: s.Now() + int64(delayMs),
		seq:      s.nextSeq(),
		promise:  idx,
		value:    value,
	})
	return idx, h
}

// SetTimeoutCallback schedules cb to run after delayMs, independent of
// the promise timer queue, "(b) deadline→closure".
func (s *Scheduler) SetTimeoutCallback(cb func(), delayMs float64) int64 {
	if delayMs < 0 {
		delayMs = 0
	}
	h := s.nextTimerHandle
	s.nextTimerHandle++
	s.callbackTimers = append(s.callbackTimers, callbackTimer{
		handle:   h,
		deadline: s.Now() + int64(delayMs),
		seq:      s.nextSeq(),
		cb:       cb,
	})
	return h
}

func (s *Scheduler) nextSeq() int64 {
	seq := s.nextTimerSeq
	s.nextTimerSeq++
	return seq
}

// CancelTimer removes a timer (from either queue) before it fires. A
// canceled promise timer does not resolve its promise.
func (s *Scheduler) CancelTimer(handle int64) bool {
	for i := range s.promiseTimers {
		if s.promiseTimers[i].handle == handle && !s.promiseTimers[i].canceled {
			s.promiseTimers[i].canceled = true
			return true
		}
	}
	for i := range s.callbackTimers {
		if s.callbackTimers[i].handle == handle && !s.callbackTimers[i].canceled {
			s.callbackTimers[i].canceled = true
			return true
		}
	}
	return false
}

// Tick drains all timers whose deadline has passed, firing them in
// non-decreasing deadline order with ties broken by insertion order,
// then returns the number fired.
func (s *Scheduler) Tick() int {
	now := s.Now()

	type due struct {
		deadline int64
		seq      int64
		fire     func()
	}
	var ready []due

	keptP := s.promiseTimers[:0]
	for _, t := range s.promiseTimers {
		if t.canceled {
			continue
		}
		if t.deadline <= now {
			t := t
			ready = append(ready, due{t.deadline, t.seq, func() { s.Resolve(t.promise, t.value) }})
		} else {
			keptP = append(keptP, t)
		}
	}
	s.promiseTimers = keptP

	keptC := s.callbackTimers[:0]
	for _, t := range s.callbackTimers {
		if t.canceled {
			continue
		}
		if t.deadline <= now {
			t := t
			ready = append(ready, due{t.deadline, t.seq, t.cb})
		} else {
			keptC = append(keptC, t)
		}
	}
	s.callbackTimers = keptC

	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].deadline != ready[j].deadline {
			return ready[i].deadline < ready[j].deadline
		}
		return ready[i].seq < ready[j].seq
	})

	for _, d := range ready {
		d.fire()
	}
	return len(ready)
}

// NextDeadline returns the minimum ms-until-fire across both timer
// queues, or -1 if neither has a pending (non-canceled) entry.
func (s *Scheduler) NextDeadline() float64 {
	now := s.Now()
	best := int64(-1)
	consider := func(deadline int64) {
		remaining := deadline - now
		if remaining < 0 {
			remaining = 0
		}
		if best == -1 || remaining < best {
			best = remaining
		}
	}
	for _, t := range s.promiseTimers {
		if !t.canceled {
			consider(t.deadline)
		}
	}
	for _, t := range s.callbackTimers {
		if !t.canceled {
			consider(t.deadline)
		}
	}
	if best == -1 {
		return -1
	}
	return float64(best)
}

// HasPendingTimers reports whether any non-canceled timer remains.
func (s *Scheduler) HasPendingTimers() bool {
	return s.NextDeadline() != -1
}

// PostDeferred is called by a worker goroutine (never the main thread's
// arena-owning goroutine) to hand off a completed async operation, per
// This is the only Scheduler method safe to call
// concurrently with the rest of the scheduler's API; everything else
// assumes single-threaded cooperative use, matching §5's scheduling model.
func (s *Scheduler) PostDeferred(d DeferredResolution) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending = append(s.pending, d)
}

// ProcessPending drains the deferred-resolution queue on the calling
// (arena-owning) goroutine, building each JSValue via its thunk and then
// resolving or rejecting the matching promise. Returns the count
// processed, matching the ABI's stdlib_process_pending → i32.
func (s *Scheduler) ProcessPending() int {
	s.pendingMu.Lock()
	items := s.pending
	s.pending = nil
	s.pendingMu.Unlock()
	for _, d := range items {
		v := d.Build()
		if d.Success {
			s.Resolve(d.PromiseIndex, v)
		} else {
			s.Reject(d.PromiseIndex, v)
		}
	}
	return len(items)
}

// RunLoop drives the event loop:
//
//	loop:
//	  run microtasks to empty
//	  if no microtasks, no ready timers, no pending async -> exit
//	  else sleep max(next_deadline, 0) and continue
//
// sleep is a caller-supplied function so a test can advance the logical
// clock instead of blocking on wall time.
func (s *Scheduler) RunLoop(sleep func(ms float64)) {
	for {
		s.ProcessPending()
		s.RunMicrotasks()
		fired := s.Tick()
		s.ProcessPending()
		s.RunMicrotasks()

		if fired == 0 && len(s.microtasks) == 0 && len(s.pending) == 0 && !s.HasPendingTimers() {
			return
		}
		if fired == 0 {
			next := s.NextDeadline()
			if next < 0 {
				next = 0
			}
			sleep(next)
		}
	}
}
