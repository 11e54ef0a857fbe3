// Package passwordhash adapts the bcrypt password-hashing stdlib binding
// to the runtime's async/handle model. Grounded on
// original_source/crates/perry-stdlib/src/bcrypt.rs's hash/compare pair,
// which spawns the (CPU-bound) bcrypt work on a blocking task and queues a
// deferred promise resolution with the result string — the same shape
// this adapter gives asyncbridge.Submit.
package passwordhash

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/runtime"
)

// Hash schedules bcrypt.hash(password, cost) on the worker pool and
// returns the promise index the caller hands back to compiled code.
func Hash(b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, password string, cost int) int {
	idx := sched.NewPromise()
	asyncbridge.Submit(b, idx, func(context.Context) (string, error) {
		out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}, func(hash string) runtime.JSValue {
		return runtime.StringValue(runtime.NewString(arena, []byte(hash)))
	}, func(err error) runtime.JSValue {
		return runtime.StringValue(runtime.NewString(arena, []byte(err.Error())))
	})
	return idx
}

// Compare schedules bcrypt.compare(password, hash) on the worker pool,
// resolving to a boolean JSValue.
func Compare(b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, password, hash string) int {
	idx := sched.NewPromise()
	asyncbridge.Submit(b, idx, func(context.Context) (bool, error) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err != nil {
			return false, nil
		}
		return true, nil
	}, func(match bool) runtime.JSValue {
		return runtime.BoolValue(match)
	}, func(err error) runtime.JSValue {
		return runtime.StringValue(runtime.NewString(arena, []byte(err.Error())))
	})
	return idx
}
