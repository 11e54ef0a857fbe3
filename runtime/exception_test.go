package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrowExecutesInnermostCatch(t *testing.T) {
	s := NewExceptionStack()
	var caught JSValue
	var outerRan bool

	ExecuteTry(s, func() {
		ExecuteTry(s, func() {
			s.Throw(NumberValue(42))
		}, func(exc JSValue) {
			caught = exc
		}, nil)
	}, func(JSValue) {
		outerRan = true
	}, nil)

	assert.Equal(t, 42.0, caught.Number())
	assert.False(t, outerRan, "inner catch must handle it; outer catch must not also run")
}

func TestFinallyRunsOnEveryExitPath(t *testing.T) {
	s := NewExceptionStack()

	var finallyRan bool
	ExecuteTry(s, func() {}, nil, func() { finallyRan = true })
	assert.True(t, finallyRan, "finally runs on the non-throwing path")

	finallyRan = false
	ExecuteTry(s, func() {
		s.Throw(NumberValue(1))
	}, func(JSValue) {}, func() { finallyRan = true })
	assert.True(t, finallyRan, "finally runs when the try body throws and is caught")
}

func TestThrowDuringFinallyAborts(t *testing.T) {
	s := NewExceptionStack()
	require.Panics(t, func() {
		ExecuteTry(s, func() {}, nil, func() {
			s.Throw(NumberValue(1))
		})
	})
}

func TestUncaughtThrowPropagatesPastTry(t *testing.T) {
	s := NewExceptionStack()
	assert.Panics(t, func() {
		ExecuteTry(s, func() {
			s.Throw(NumberValue(99))
		}, nil, nil)
	})
}

func TestClearExceptionIsExplicit(t *testing.T) {
	s := NewExceptionStack()
	ExecuteTry(s, func() {
		s.Throw(NumberValue(1))
	}, func(exc JSValue) {
		assert.True(t, s.HasException())
		s.ClearException()
		assert.False(t, s.HasException())
	}, nil)
}
