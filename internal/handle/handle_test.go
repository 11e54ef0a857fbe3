package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterYieldsNonZeroDistinctHandles(t *testing.T) {
	r := New()
	a := r.Register("one")
	b := r.Register("two")
	assert.NotEqual(t, Invalid, a)
	assert.NotEqual(t, a, b)
}

func TestTakeThenGetIsAbsent(t *testing.T) {
	r := New()
	h := r.Register(42)

	taken, ok := r.Take(h)
	require.True(t, ok)
	assert.Equal(t, 42, taken)

	_, ok = r.Get(h)
	assert.False(t, ok)
}

func TestDropRemovesHandle(t *testing.T) {
	r := New()
	h := r.Register("x")
	assert.True(t, r.Exists(h))
	assert.True(t, r.Drop(h))
	assert.False(t, r.Exists(h))
	assert.False(t, r.Drop(h))
}

func TestInvalidHandleAlwaysAbsent(t *testing.T) {
	r := New()
	_, ok := r.Get(Invalid)
	assert.False(t, ok)
	assert.False(t, r.Exists(Invalid))
}

func TestGetAsTypedAccess(t *testing.T) {
	r := New()
	h := r.Register(7)

	v, ok := GetAs[int](r, h)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = GetAs[string](r, h)
	assert.False(t, ok)
}
