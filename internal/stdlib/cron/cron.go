// Package cron adapts node-cron-shaped job scheduling onto the
// runtime's own timer queue. Grounded on
// original_source/crates/perry-stdlib/src/cron.rs, whose job handle
// carries a parsed schedule, an atomic running flag, and a callback id,
// and whose start loop repeatedly sleeps until the next occurrence and
// fires the callback while running stays true; this package keeps that
// same handle shape and loop, driven by runtime.Scheduler's
// SetTimeoutCallback instead of a second tokio-backed sleep, since a
// cron job is exactly a deadline-to-closure queue entry that
// re-arms itself on each fire — the queue the scheduler already
// implements, not a new scheduling primitive.
package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

// schedule is a parsed 5-field cron expression (minute hour
// day-of-month month day-of-week), each field either "*" or a set of
// accepted values.
type schedule struct {
	minute, hour, dom, month, dow fieldSet
}

type fieldSet struct {
	any    bool
	values map[int]bool
}

// Job is the registered handle value job.start/.stop/.isRunning act on.
type Job struct {
	expr     string
	sched    schedule
	running  bool
	runner   *runtime.Scheduler
	onFire   func()
	timer    int64
	canceled bool
}

// Close implements handle.Resource.
func (j *Job) Close() error {
	j.Stop()
	return nil
}

// Validate reports whether expr parses as a 5-field cron expression,
// matching js_cron_validate.
func Validate(expr string) bool {
	_, err := parse(expr)
	return err == nil
}

// Schedule parses expr and registers a (not yet started) job that
// calls onFire on each occurrence, matching js_cron_schedule.
func Schedule(reg *handle.Registry, sched *runtime.Scheduler, expr string, onFire func()) (handle.Handle, error) {
	parsed, err := parse(expr)
	if err != nil {
		return handle.Invalid, err
	}
	job := &Job{expr: expr, sched: parsed, runner: sched, onFire: onFire}
	return reg.Register(job), nil
}

// Start arms the job, matching job.start(). After each occurrence the
// timer callback re-arms the job for the next one while it is still
// running; calling Start while already running is a no-op.
func Start(reg *handle.Registry, h handle.Handle) {
	job, ok := handle.GetAs[*Job](reg, h)
	if !ok || job.running {
		return
	}
	job.running = true
	job.arm()
}

func (j *Job) arm() {
	if !j.running {
		return
	}
	next := nextOccurrence(j.sched, time.Now())
	delayMs := float64(time.Until(next).Milliseconds())
	if delayMs < 0 {
		delayMs = 0
	}
	j.timer = j.runner.SetTimeoutCallback(func() {
		if !j.running {
			return
		}
		j.onFire()
		j.arm()
	}, delayMs)
}

// Stop disarms the job, matching job.stop().
func Stop(reg *handle.Registry, h handle.Handle) {
	job, ok := handle.GetAs[*Job](reg, h)
	if !ok {
		return
	}
	job.Stop()
}

func (j *Job) Stop() {
	j.running = false
	j.runner.CancelTimer(j.timer)
}

// IsRunning matches job.isRunning().
func IsRunning(reg *handle.Registry, h handle.Handle) bool {
	job, ok := handle.GetAs[*Job](reg, h)
	return ok && job.running
}

// NextDate returns the job's next occurrence in RFC3339, matching
// js_cron_next_date.
func NextDate(reg *handle.Registry, h handle.Handle) (string, bool) {
	job, ok := handle.GetAs[*Job](reg, h)
	if !ok {
		return "", false
	}
	return nextOccurrence(job.sched, time.Now()).Format(time.RFC3339), true
}

func parse(expr string) (schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return schedule{}, fmt.Errorf("cron: expected 5 fields, got %d", len(fields))
	}
	minute, err := parseField(fields[0], 0, 59)
	if err != nil {
		return schedule{}, err
	}
	hour, err := parseField(fields[1], 0, 23)
	if err != nil {
		return schedule{}, err
	}
	dom, err := parseField(fields[2], 1, 31)
	if err != nil {
		return schedule{}, err
	}
	month, err := parseField(fields[3], 1, 12)
	if err != nil {
		return schedule{}, err
	}
	dow, err := parseField(fields[4], 0, 6)
	if err != nil {
		return schedule{}, err
	}
	return schedule{minute, hour, dom, month, dow}, nil
}

func parseField(field string, min, max int) (fieldSet, error) {
	if field == "*" {
		return fieldSet{any: true}, nil
	}
	values := map[int]bool{}
	for _, part := range strings.Split(field, ",") {
		if strings.HasPrefix(part, "*/") {
			step, err := strconv.Atoi(part[2:])
			if err != nil || step <= 0 {
				return fieldSet{}, fmt.Errorf("cron: bad step %q", part)
			}
			for v := min; v <= max; v += step {
				values[v] = true
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < min || n > max {
			return fieldSet{}, fmt.Errorf("cron: bad field value %q", part)
		}
		values[n] = true
	}
	return fieldSet{values: values}, nil
}

func (f fieldSet) matches(v int) bool {
	return f.any || f.values[v]
}

// nextOccurrence scans forward minute by minute (bounded to four
// years) for the next time satisfying sched, matching the ceiling the
// original's chrono-based `upcoming` iterator gives.
func nextOccurrence(sched schedule, from time.Time) time.Time {
	t := from.Truncate(time.Minute).Add(time.Minute)
	limit := from.AddDate(4, 0, 0)
	for t.Before(limit) {
		if sched.month.matches(int(t.Month())) &&
			sched.dom.matches(t.Day()) &&
			sched.dow.matches(int(t.Weekday())) &&
			sched.hour.matches(t.Hour()) &&
			sched.minute.matches(t.Minute()) {
			return t
		}
		t = t.Add(time.Minute)
	}
	return limit
}
