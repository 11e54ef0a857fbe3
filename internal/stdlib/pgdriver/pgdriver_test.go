package pgdriver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

func TestQueryOnUnknownHandleRejects(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()
	arena := runtime.New()
	bridge := asyncbridge.New(context.Background(), sched, 2)

	idx := Query(reg, bridge, sched, arena, handle.Handle(404), "select 1")
	require.NoError(t, bridge.Wait())
	sched.ProcessPending()

	var got string
	sched.Then(idx, nil, func(v runtime.JSValue) {
		got = string(runtime.StringBytes(arena, v.Addr()))
	})
	sched.RunMicrotasks()
	assert.Contains(t, got, "unknown handle")
}

func TestColumnValueConvertsScalars(t *testing.T) {
	arena := runtime.New()
	assert.True(t, columnValue(arena, nil).IsNullish())
	assert.Equal(t, int32(7), columnValue(arena, int32(7)).Int32())
	assert.True(t, columnValue(arena, true).Bool())
	s := columnValue(arena, "hi")
	assert.Equal(t, "hi", string(runtime.StringBytes(arena, s.Addr())))
}

func TestConnectRejectsBadDSN(t *testing.T) {
	reg := handle.New()
	_, err := Connect(reg, "not a dsn :: at all")
	assert.Error(t, err)
}
