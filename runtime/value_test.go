package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaNBoxRoundTrip(t *testing.T) {
	numbers := []float64{0, 1, -1, 3.14159, -3.14159, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, n := range numbers {
		v := NumberValue(n)
		assert.True(t, v.IsNumber())
		assert.Equal(t, n, v.Number())
	}

	assert.True(t, Undefined.IsNullish())
	assert.False(t, Undefined.IsNumber())

	assert.True(t, Null.IsNullish())
	assert.Equal(t, TagNull, Null.Tag())

	for _, b := range []bool{true, false} {
		v := BoolValue(b)
		assert.False(t, v.IsNumber())
		assert.Equal(t, TagBool, v.Tag())
		assert.Equal(t, b, v.Bool())
	}

	for _, i := range []int32{0, 1, -1, 1 << 20, -(1 << 20)} {
		v := Int32Value(i)
		assert.Equal(t, TagInt32, v.Tag())
		assert.Equal(t, i, v.Int32())
	}
}

func TestUndefinedHasSingleCanonicalBitPattern(t *testing.T) {
	a := Undefined
	b := encode(TagUndefined, 0)
	assert.Equal(t, a, b)

	// A NaN arithmetic result must canonicalize onto the same bit pattern,
	// never collide with any other tag.
	nan := NumberValue(math.NaN())
	assert.Equal(t, Undefined, nan)
}

func TestNaNDoesNotCollideWithNumbers(t *testing.T) {
	v := NumberValue(12345.6789)
	assert.True(t, v.IsNumber())
	assert.NotEqual(t, Undefined, v)
}

func TestTruthiness(t *testing.T) {
	assert.False(t, NumberValue(0).Truthy())
	assert.True(t, NumberValue(1).Truthy())
	assert.False(t, Undefined.Truthy())
	assert.False(t, Null.Truthy())
	assert.True(t, BoolValue(true).Truthy())
	assert.False(t, BoolValue(false).Truthy())
	assert.False(t, Int32Value(0).Truthy())
	assert.True(t, Int32Value(5).Truthy())
}
