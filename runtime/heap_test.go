package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTripAndEquality(t *testing.T) {
	a := New()
	s1 := NewString(a, []byte("hello"))
	s2 := NewString(a, []byte("hello"))
	s3 := NewString(a, []byte("world"))

	assert.Equal(t, "hello", string(StringBytes(a, s1)))
	assert.NotEqual(t, s1, s2, "distinct allocations get distinct addresses")
	assert.True(t, StringsEqual(a, s1, s2), "equal content compares equal despite different pointers")
	assert.False(t, StringsEqual(a, s1, s3))
}

func TestArrayPushGrowsAndPreservesHeaderAddress(t *testing.T) {
	a := New()
	arr := ArrayAlloc(a, 0)
	for i := 0; i < 10; i++ {
		ArrayPush(a, arr, NumberValue(float64(i)))
	}
	require.Equal(t, 10, ArrayLength(a, arr))
	for i := 0; i < 10; i++ {
		assert.Equal(t, float64(i), ArrayGet(a, arr, i).Number())
	}
	// Out of range reads return Undefined rather than panicking.
	assert.Equal(t, Undefined, ArrayGet(a, arr, 999))
}

func TestMapSetDeleteSizeInvariant(t *testing.T) {
	a := New()
	m := MapAlloc(a)

	keys := []JSValue{NumberValue(1), NumberValue(2), NumberValue(3)}
	for i, k := range keys {
		MapSet(a, m, k, NumberValue(float64(i*10)))
	}
	assert.Equal(t, 3, MapSize(a, m))

	v, ok := MapGet(a, m, NumberValue(2))
	require.True(t, ok)
	assert.Equal(t, 10.0, v.Number())

	// Overwrite keeps size the same.
	MapSet(a, m, NumberValue(2), NumberValue(99))
	assert.Equal(t, 3, MapSize(a, m))
	v, _ = MapGet(a, m, NumberValue(2))
	assert.Equal(t, 99.0, v.Number())

	removed := MapDelete(a, m, NumberValue(1))
	assert.True(t, removed)
	assert.Equal(t, 2, MapSize(a, m))
	_, ok = MapGet(a, m, NumberValue(1))
	assert.False(t, ok)

	// Surviving keys still resolve to their last-set value.
	v, ok = MapGet(a, m, NumberValue(3))
	require.True(t, ok)
	assert.Equal(t, 20.0, v.Number())
}

func TestMapKeyEqualityByStringContent(t *testing.T) {
	a := New()
	m := MapAlloc(a)
	k1 := StringValue(NewString(a, []byte("key")))
	k2 := StringValue(NewString(a, []byte("key")))

	MapSet(a, m, k1, NumberValue(1))
	v, ok := MapGet(a, m, k2)
	require.True(t, ok, "distinct string pointers with equal content must hit the same map key")
	assert.Equal(t, 1.0, v.Number())
}

func TestSetAddHasDelete(t *testing.T) {
	a := New()
	s := SetAlloc(a)
	SetAdd(a, s, NumberValue(1))
	SetAdd(a, s, NumberValue(1))
	SetAdd(a, s, NumberValue(2))
	assert.Equal(t, 2, SetSize(a, s))
	assert.True(t, SetHas(a, s, NumberValue(1)))
	assert.True(t, SetDelete(a, s, NumberValue(1)))
	assert.False(t, SetHas(a, s, NumberValue(1)))
	assert.Equal(t, 1, SetSize(a, s))
}

func TestObjectFieldAccessByIndexAndName(t *testing.T) {
	a := New()
	obj := ObjectAlloc(a, 7, 2)
	ObjectSetField(a, obj, 0, NumberValue(1))
	ObjectSetField(a, obj, 1, StringValue(NewString(a, []byte("v"))))

	keys := ArrayAlloc(a, 0)
	ArrayPush(a, keys, StringValue(NewString(a, []byte("x"))))
	ArrayPush(a, keys, StringValue(NewString(a, []byte("y"))))
	ObjectSetKeys(a, obj, keys)

	assert.Equal(t, 1.0, ObjectGetFieldByName(a, obj, "x").Number())
	ObjectSetFieldByName(a, obj, "y", NumberValue(42))
	assert.Equal(t, 42.0, ObjectGetField(a, obj, 1).Number())

	// Unknown name is a no-op/Undefined: objects are strict-schema.
	ObjectSetFieldByName(a, obj, "z", NumberValue(7))
	assert.Equal(t, Undefined, ObjectGetFieldByName(a, obj, "z"))
}

func TestErrorDiscriminantDistinguishesFromObject(t *testing.T) {
	a := New()
	obj := ObjectAlloc(a, 1, 0)
	errObj := NewError(a, "boom")

	assert.Equal(t, ObjectTypeRegular, ObjectType(a, obj))
	assert.False(t, IsError(a, obj))
	assert.True(t, IsError(a, errObj))
	assert.Equal(t, "boom", ErrorMessage(a, errObj))
	assert.Equal(t, "Error", ErrorName(a, errObj))
}

func TestClosureCaptures(t *testing.T) {
	a := New()
	cl := NewClosure(a, "makeCounter$inner", []JSValue{NumberValue(0)})
	assert.Equal(t, "makeCounter$inner", ClosureFuncName(a, cl))
	assert.Equal(t, 1, ClosureCaptureCount(a, cl))
	assert.Equal(t, 0.0, ClosureCapture(a, cl, 0).Number())
}

func TestArenaReportsUsedAndTotal(t *testing.T) {
	a := New()
	before := a.Used()
	NewString(a, []byte("0123456789"))
	after := a.Used()
	assert.Greater(t, after, before)
	assert.GreaterOrEqual(t, a.Total(), after)
}
