package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromiseResolveDefersContinuationPastQueuedMicrotasks(t *testing.T) {
	s := NewScheduler()
	p := s.NewPromise()

	var order []string
	s.microtasks = append(s.microtasks, func() { order = append(order, "queued-before-resolve") })

	s.Then(p, func(JSValue) { order = append(order, "continuation") }, nil)
	s.Resolve(p, NumberValue(1))

	// Then was registered before Resolve, so the continuation was enqueued
	// at resolve time; the already-queued microtask must still run first.
	s.RunMicrotasks()
	require.Equal(t, []string{"queued-before-resolve", "continuation"}, order)
}

func TestThenOnAlreadySettledPromiseStillDefers(t *testing.T) {
	s := NewScheduler()
	p := s.NewPromise()
	s.Resolve(p, NumberValue(7))

	var ran bool
	s.Then(p, func(JSValue) { ran = true }, nil)
	assert.False(t, ran, "continuation must not run synchronously even on an already-fulfilled promise")

	s.RunMicrotasks()
	assert.True(t, ran)
}

func TestRejectInvokesOnRejected(t *testing.T) {
	s := NewScheduler()
	p := s.NewPromise()
	var got JSValue
	s.Then(p, nil, func(v JSValue) { got = v })
	s.Reject(p, NumberValue(500))
	s.RunMicrotasks()
	assert.Equal(t, 500.0, got.Number())
}

func TestTimerOrderingEqualDeadlinesFireInInsertionOrder(t *testing.T) {
	s := NewScheduler()
	var fired []string

	s.SetTimeoutCallback(func() { fired = append(fired, "a@10") }, 10)
	s.SetTimeoutCallback(func() { fired = append(fired, "b@10") }, 10)
	s.SetTimeoutCallback(func() { fired = append(fired, "c@5") }, 5)

	s.Advance(10)
	n := s.Tick()

	require.Equal(t, 3, n)
	assert.Equal(t, []string{"c@5", "a@10", "b@10"}, fired)
}

func TestCancelTimerPreventsResolution(t *testing.T) {
	s := NewScheduler()
	idx, handle := s.SetTimeout(10)
	assert.True(t, s.CancelTimer(handle))

	s.Advance(10)
	s.Tick()

	assert.Equal(t, Pending, s.promise(idx).state)
}

func TestNextDeadlineReportsMinimumAcrossBothQueues(t *testing.T) {
	s := NewScheduler()
	assert.Equal(t, -1.0, s.NextDeadline())

	s.SetTimeout(50)
	s.SetTimeoutCallback(func() {}, 5)
	assert.Equal(t, 5.0, s.NextDeadline())
}

func TestProcessPendingResolvesViaDeferredThunk(t *testing.T) {
	s := NewScheduler()
	p := s.NewPromise()

	s.PostDeferred(DeferredResolution{
		PromiseIndex: p,
		Success:      true,
		Build:        func() JSValue { return NumberValue(123) },
	})

	n := s.ProcessPending()
	assert.Equal(t, 1, n)
	assert.Equal(t, Fulfilled, s.promise(p).state)
	assert.Equal(t, 123.0, s.promise(p).value.Number())
}

func TestRunLoopExitsWhenQuiescent(t *testing.T) {
	s := NewScheduler()
	sleeps := 0
	s.SetTimeoutCallback(func() {}, 5)

	s.RunLoop(func(ms float64) {
		sleeps++
		s.Advance(int64(ms))
	})

	assert.Equal(t, 1, sleeps)
	assert.False(t, s.HasPendingTimers())
}
