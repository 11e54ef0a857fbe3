package mono

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

func TestMangleInjective(t *testing.T) {
	cases := [][]*types.Type{
		{types.Number()},
		{types.String()},
		{types.Array(types.Number())},
		{types.Array(types.String())},
		{types.Named("Box")},
		{types.Named("Box"), types.Number()},
		{types.Union(types.Number(), types.String())},
		{types.Object("", []types.Field{{Name: "x", Type: types.Number()}}, nil)},
		{types.Object("", []types.Field{{Name: "x", Type: types.String()}}, nil)},
		{types.Generic(types.Named("Box"), types.Number())},
		{types.Generic(types.Named("Box"), types.String())},
	}
	seen := make(map[string]int)
	for i, c := range cases {
		m := Mangle(c)
		if prev, ok := seen[m]; ok {
			t.Fatalf("mangle collision: case %d and %d both produced %q", prev, i, m)
		}
		seen[m] = i
	}
}

func TestMangleDeterministic(t *testing.T) {
	args := []*types.Type{types.Array(types.Number()), types.Named("Box")}
	assert.Equal(t, Mangle(args), Mangle(args))
}

// identity[T](x: T): T { return x } called as identity<number>(1) and
// identity<string>("a") must produce two distinct specializations with no
// TypeVar left in either.
func TestMonomorphizeGenericFunction(t *testing.T) {
	mod := hir.NewModule()

	idFunc := &hir.Func{
		ID:      mod.NewFuncID(),
		Name:    "identity",
		Generic: []string{"T"},
		Params:  []hir.Param{{Name: "x", Type: types.TypeVar("T")}},
		Return:  types.TypeVar("T"),
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.Ident{Name: "x"}},
		},
	}
	mod.AddFunc(idFunc)

	mainFunc := &hir.Func{
		ID:   mod.NewFuncID(),
		Name: "main",
		Body: []hir.Stmt{
			&hir.ExprStmt{X: &hir.Call{
				DirectTo: idFunc.ID,
				IsDirect: true,
				Args:     []hir.Expr{numberLit(1)},
				TypeArgs: []*types.Type{types.Number()},
			}},
			&hir.ExprStmt{X: &hir.Call{
				DirectTo: idFunc.ID,
				IsDirect: true,
				Args:     []hir.Expr{stringLit("a")},
				TypeArgs: []*types.Type{types.String()},
			}},
		},
	}
	mod.AddFunc(mainFunc)

	err := Monomorphize(mod)
	require.NoError(t, err)

	// main's two call sites now target two distinct, non-generic funcs.
	call1 := mainFunc.Body[0].(*hir.ExprStmt).X.(*hir.Call)
	call2 := mainFunc.Body[1].(*hir.ExprStmt).X.(*hir.Call)
	assert.NotEqual(t, call1.DirectTo, call2.DirectTo)
	assert.NotEqual(t, idFunc.ID, call1.DirectTo)
	assert.Empty(t, call1.TypeArgs)

	spec1 := mod.Funcs[call1.DirectTo]
	spec2 := mod.Funcs[call2.DirectTo]
	require.NotNil(t, spec1)
	require.NotNil(t, spec2)
	assert.Empty(t, spec1.Generic)
	assert.Empty(t, spec2.Generic)
	assert.False(t, types.ContainsTypeVar(spec1.Return))
	assert.False(t, types.ContainsTypeVar(spec2.Return))
}

// Requesting the same (function, type-argument) pair twice must reuse the
// memoized specialization rather than cloning again (property #3).
func TestMonomorphizeIdempotentRequests(t *testing.T) {
	mod := hir.NewModule()
	idFunc := &hir.Func{
		ID:      mod.NewFuncID(),
		Name:    "identity",
		Generic: []string{"T"},
		Params:  []hir.Param{{Name: "x", Type: types.TypeVar("T")}},
		Return:  types.TypeVar("T"),
		Body:    []hir.Stmt{&hir.Return{Value: &hir.Ident{Name: "x"}}},
	}
	mod.AddFunc(idFunc)

	mm := newMonomorphizer(mod)
	id1 := mm.requestFunc(idFunc.ID, []*types.Type{types.Number()})
	id2 := mm.requestFunc(idFunc.ID, []*types.Type{types.Number()})
	assert.Equal(t, id1, id2)

	id3 := mm.requestFunc(idFunc.ID, []*types.Type{types.String()})
	assert.NotEqual(t, id1, id3)
}

func numberLit(v float64) hir.Expr {
	return &hir.NumberLit{Value: v}
}

func stringLit(v string) hir.Expr {
	return &hir.StringLit{Value: v}
}
