package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

func TestGetRegistersResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	reg := handle.New()
	sched := runtime.NewScheduler()
	arena := runtime.New()
	bridge := asyncbridge.New(context.Background(), sched, 2)

	idx := Get(reg, bridge, sched, arena, srv.URL)
	require.NoError(t, bridge.Wait())
	sched.ProcessPending()

	var h handle.Handle
	sched.Then(idx, func(v runtime.JSValue) {
		h = handle.Handle(int64(v.Number()))
	}, nil)
	sched.RunMicrotasks()

	status, ok := ResponseStatus(reg, h)
	require.True(t, ok)
	assert.Equal(t, http.StatusCreated, status)

	data, ok := ResponseData(reg, h)
	require.True(t, ok)
	assert.Equal(t, "hello", data)
}

func TestGetOnUnreachableHostRejects(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()
	arena := runtime.New()
	bridge := asyncbridge.New(context.Background(), sched, 2)

	idx := Get(reg, bridge, sched, arena, "http://127.0.0.1:1/")
	require.NoError(t, bridge.Wait())
	sched.ProcessPending()

	var got string
	sched.Then(idx, nil, func(v runtime.JSValue) {
		got = string(runtime.StringBytes(arena, v.Addr()))
	})
	sched.RunMicrotasks()
	assert.NotEmpty(t, got)
}
