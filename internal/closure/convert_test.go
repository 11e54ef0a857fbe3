package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

func identOf(name string, ty *types.Type) *hir.Ident {
	id := &hir.Ident{Name: name}
	id.Ty = ty
	return id
}

// function makeCounter() { let n = 0; return () => { n = n + 1; return n }; }
func TestConvertCapturesMutatedVariable(t *testing.T) {
	inner := &hir.Func{
		Body: []hir.Stmt{
			&hir.ExprStmt{X: &hir.Assign{
				Target: identOf("n", types.Number()),
				Value: &hir.Binary{
					Op:    "+",
					Left:  identOf("n", types.Number()),
					Right: &hir.NumberLit{Value: 1},
				},
			}},
			&hir.Return{Value: identOf("n", types.Number())},
		},
	}
	outer := &hir.Func{
		Name: "makeCounter",
		Body: []hir.Stmt{
			&hir.VarDecl{Name: "n", Init: &hir.NumberLit{Value: 0}},
			&hir.Return{Value: &hir.FuncLit{Func: inner}},
		},
	}

	mod := hir.NewModule()
	outer.ID = mod.NewFuncID()
	mod.AddFunc(outer)

	Convert(mod)

	require.Len(t, inner.Captures, 1)
	assert.Equal(t, "n", inner.Captures[0].Name)
	assert.True(t, inner.Captures[0].Boxed, "n is mutated inside the closure and must be boxed")
}

// function constant() { return () => 1; } — no free variables, so no captures.
func TestConvertNoCaptureWhenNoFreeVars(t *testing.T) {
	inner := &hir.Func{Body: []hir.Stmt{&hir.Return{Value: &hir.NumberLit{Value: 1}}}}
	outer := &hir.Func{
		Name: "constant",
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.FuncLit{Func: inner}},
		},
	}
	mod := hir.NewModule()
	outer.ID = mod.NewFuncID()
	mod.AddFunc(outer)

	Convert(mod)

	assert.Empty(t, inner.Captures)
}

// function adder(x) { return () => x; } — no mutation, so not boxed.
func TestConvertUnboxedWhenNotMutated(t *testing.T) {
	inner := &hir.Func{
		Body: []hir.Stmt{
			&hir.Return{Value: identOf("x", types.Number())},
		},
	}
	outer := &hir.Func{
		Name:   "adder",
		Params: []hir.Param{{Name: "x", Type: types.Number()}},
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.FuncLit{Func: inner}},
		},
	}
	mod := hir.NewModule()
	outer.ID = mod.NewFuncID()
	mod.AddFunc(outer)

	Convert(mod)

	require.Len(t, inner.Captures, 1)
	assert.Equal(t, "x", inner.Captures[0].Name)
	assert.False(t, inner.Captures[0].Boxed)
}
