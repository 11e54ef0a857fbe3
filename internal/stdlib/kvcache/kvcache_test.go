package kvcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

func TestGetOnUnknownHandleRejects(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()
	arena := runtime.New()
	bridge := asyncbridge.New(context.Background(), sched, 2)

	idx := Get(reg, bridge, sched, arena, handle.Handle(999), "missing-key")
	require.NoError(t, bridge.Wait())
	sched.ProcessPending()

	var got string
	sched.Then(idx, nil, func(v runtime.JSValue) {
		got = string(runtime.StringBytes(arena, v.Addr()))
	})
	sched.RunMicrotasks()
	assert.Contains(t, got, "unknown handle")
}

func TestConnectRegistersAResource(t *testing.T) {
	reg := handle.New()
	h := Connect(reg, Config{Host: "127.0.0.1", Port: 6399})
	assert.True(t, reg.Exists(h))

	client, ok := handle.GetAs[*Client](reg, h)
	require.True(t, ok)
	assert.NoError(t, client.Close())
}
