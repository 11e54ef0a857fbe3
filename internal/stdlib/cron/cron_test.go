package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

func TestValidateAcceptsAndRejects(t *testing.T) {
	assert.True(t, Validate("* * * * *"))
	assert.True(t, Validate("*/5 0,12 1 * *"))
	assert.False(t, Validate("* * * *"))
	assert.False(t, Validate("61 * * * *"))
}

func TestScheduleStartStopLifecycle(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()

	fired := 0
	h, err := Schedule(reg, sched, "* * * * *", func() { fired++ })
	require.NoError(t, err)
	assert.False(t, IsRunning(reg, h))

	Start(reg, h)
	assert.True(t, IsRunning(reg, h))

	Stop(reg, h)
	assert.False(t, IsRunning(reg, h))
}

func TestNextDateIsInTheFuture(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()
	h, err := Schedule(reg, sched, "* * * * *", func() {})
	require.NoError(t, err)

	next, ok := NextDate(reg, h)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, next)
	require.NoError(t, err)
	assert.True(t, parsed.After(time.Now()))
}

func TestCloseStopsJob(t *testing.T) {
	reg := handle.New()
	sched := runtime.NewScheduler()
	h, err := Schedule(reg, sched, "* * * * *", func() {})
	require.NoError(t, err)
	Start(reg, h)

	require.NoError(t, reg.DropResource(h))
	assert.False(t, reg.Exists(h))
}
