package passwordhash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/runtime"
)

func TestHashThenCompareRoundTrips(t *testing.T) {
	sched := runtime.NewScheduler()
	arena := runtime.New()
	bridge := asyncbridge.New(context.Background(), sched, 2)

	hashIdx := Hash(bridge, sched, arena, "hunter2", 4)
	require.NoError(t, bridge.Wait())
	sched.ProcessPending()

	var hash string
	sched.Then(hashIdx, func(v runtime.JSValue) {
		hash = string(runtime.StringBytes(arena, v.Addr()))
	}, nil)
	sched.RunMicrotasks()
	require.NotEmpty(t, hash)

	bridge2 := asyncbridge.New(context.Background(), sched, 2)
	compareIdx := Compare(bridge2, sched, arena, "hunter2", hash)
	require.NoError(t, bridge2.Wait())
	sched.ProcessPending()

	var matched bool
	sched.Then(compareIdx, func(v runtime.JSValue) {
		matched = v.Bool()
	}, nil)
	sched.RunMicrotasks()
	assert.True(t, matched)
}
