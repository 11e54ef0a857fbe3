package asyncbridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/runtime"
)

func TestSubmitResolvesOnSuccess(t *testing.T) {
	sched := runtime.NewScheduler()
	idx := sched.NewPromise()
	b := New(context.Background(), sched, 4)

	Submit(b, idx, func(context.Context) (int, error) {
		return 42, nil
	}, func(n int) runtime.JSValue { return runtime.NumberValue(float64(n)) }, func(error) runtime.JSValue { return runtime.Undefined })

	require.NoError(t, b.Wait())
	n := sched.ProcessPending()
	assert.Equal(t, 1, n)
}

func TestSubmitRejectsOnError(t *testing.T) {
	sched := runtime.NewScheduler()
	idx := sched.NewPromise()
	b := New(context.Background(), sched, 4)

	boom := errors.New("boom")
	Submit(b, idx, func(context.Context) (int, error) {
		return 0, boom
	}, func(n int) runtime.JSValue { return runtime.NumberValue(float64(n)) },
		func(err error) runtime.JSValue { return runtime.NumberValue(-1) })

	require.NoError(t, b.Wait())
	sched.ProcessPending()
	sched.Then(idx, nil, func(v runtime.JSValue) {
		assert.Equal(t, -1.0, v.Number())
	})
	sched.RunMicrotasks()
}

func TestSubmitDoesNotBlockCaller(t *testing.T) {
	sched := runtime.NewScheduler()
	b := New(context.Background(), sched, 1)

	const n = 8
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = sched.NewPromise()
		i := i
		Submit(b, idxs[i], func(context.Context) (int, error) {
			return i, nil
		}, func(v int) runtime.JSValue { return runtime.NumberValue(float64(v)) }, func(error) runtime.JSValue { return runtime.Undefined })
	}

	require.NoError(t, b.Wait())
	assert.Equal(t, n, sched.ProcessPending())
}
