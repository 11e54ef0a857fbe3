package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionDedupesAndFlattens(t *testing.T) {
	u := Union(String(), Number(), String(), Union(Boolean(), Number()))
	require.Equal(t, KindUnion, u.Kind)
	require.Len(t, u.Elems, 3) // string, number, boolean
}

func TestUnionOfOneCollapses(t *testing.T) {
	u := Union(String())
	require.Equal(t, KindString, u.Kind)
}

func TestNeverIsSubtypeOfEverything(t *testing.T) {
	require.True(t, IsSubtype(Never(), String()))
	require.True(t, IsSubtype(Never(), Object("", nil, nil)))
	require.True(t, IsSubtype(Never(), Never()))
}

func TestAnyUnknownNullable(t *testing.T) {
	require.True(t, IsNullable(Any()))
	require.True(t, IsNullable(Unknown()))
	require.False(t, IsNullable(String()))
}

func TestObjectStructuralWidthSubtyping(t *testing.T) {
	wide := Object("", []Field{
		{Name: "x", Type: Number()},
		{Name: "y", Type: Number()},
	}, nil)
	narrow := Object("", []Field{{Name: "x", Type: Number()}}, nil)

	require.True(t, IsSubtype(wide, narrow))
	require.False(t, IsSubtype(narrow, wide))
}

func TestNamedEqualityIsNominal(t *testing.T) {
	require.True(t, Equal(Named("Foo"), Named("Foo")))
	require.False(t, Equal(Named("Foo"), Named("Bar")))
}

func TestInstantiateSubstitutesTypeVar(t *testing.T) {
	generic := Array(TypeVar("T"))
	concrete := Instantiate(generic, Subst{"T": Number()})
	require.True(t, Equal(concrete, Array(Number())))
	require.False(t, ContainsTypeVar(concrete))
}

func TestInstantiateIntoGenericProducesReadyRequest(t *testing.T) {
	box := Generic(Named("Box"), TypeVar("T"))
	concrete := Instantiate(box, Subst{"T": String()})
	require.Equal(t, KindGeneric, concrete.Kind)
	require.True(t, Equal(concrete.Args[0], String()))
	require.False(t, ContainsTypeVar(concrete))
}
