package codegen

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

func numLit(v float64) *hir.NumberLit {
	n := &hir.NumberLit{Value: v}
	n.Ty = types.Number()
	return n
}

// function add(a: number, b: number): number { return a + b; }
func TestLowerAndRunArithmetic(t *testing.T) {
	mod := hir.NewModule()
	add := &hir.Func{
		Name:   "add",
		Params: []hir.Param{{Name: "a", Type: types.Number()}, {Name: "b", Type: types.Number()}},
		Return: types.Number(),
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.Binary{
				Op:    "+",
				Left:  identOf("a", types.Number()),
				Right: identOf("b", types.Number()),
			}},
		},
	}
	add.ID = mod.NewFuncID()
	mod.AddFunc(add)

	mir := Lower(mod)
	require.Len(t, mir.Funcs, 1)

	vm := NewVM(mir)
	result, err := vm.Run("add", []any{2.0, 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

// function abs(n: number): number { if (n < 0) { return -n; } return n; }
func TestLowerAndRunBranch(t *testing.T) {
	mod := hir.NewModule()
	abs := &hir.Func{
		Name:   "abs",
		Params: []hir.Param{{Name: "n", Type: types.Number()}},
		Return: types.Number(),
		Body: []hir.Stmt{
			&hir.If{
				Cond: &hir.Binary{Op: "<", Left: identOf("n", types.Number()), Right: numLit(0)},
				Then: []hir.Stmt{
					&hir.Return{Value: &hir.Unary{Op: "-", Operand: identOf("n", types.Number())}},
				},
			},
			&hir.Return{Value: identOf("n", types.Number())},
		},
	}
	abs.ID = mod.NewFuncID()
	mod.AddFunc(abs)

	mir := Lower(mod)
	vm := NewVM(mir)

	result, err := vm.Run("abs", []any{-4.0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)

	result, err = vm.Run("abs", []any{4.0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)
}

// function sumTo(n: number): number {
//   let total = 0; let i = 0;
//   while (i < n) { total = total + i; i = i + 1; }
//   return total;
// }
func TestLowerAndRunLoop(t *testing.T) {
	mod := hir.NewModule()
	sumTo := &hir.Func{
		Name:   "sumTo",
		Params: []hir.Param{{Name: "n", Type: types.Number()}},
		Return: types.Number(),
		Body: []hir.Stmt{
			&hir.VarDecl{Name: "total", Init: numLit(0)},
			&hir.VarDecl{Name: "i", Init: numLit(0)},
			&hir.While{
				Cond: &hir.Binary{Op: "<", Left: identOf("i", types.Number()), Right: identOf("n", types.Number())},
				Body: []hir.Stmt{
					&hir.ExprStmt{X: &hir.Assign{
						Target: identOf("total", types.Number()),
						Value: &hir.Binary{
							Op:    "+",
							Left:  identOf("total", types.Number()),
							Right: identOf("i", types.Number()),
						},
					}},
					&hir.ExprStmt{X: &hir.Assign{
						Target: identOf("i", types.Number()),
						Value: &hir.Binary{
							Op:    "+",
							Left:  identOf("i", types.Number()),
							Right: numLit(1),
						},
					}},
				},
			},
			&hir.Return{Value: identOf("total", types.Number())},
		},
	}
	sumTo.ID = mod.NewFuncID()
	mod.AddFunc(sumTo)

	mir := Lower(mod)
	vm := NewVM(mir)

	result, err := vm.Run("sumTo", []any{5.0})
	require.NoError(t, err)
	assert.Equal(t, 10.0, result) // 0+1+2+3+4
}

// function callsAdd(a, b) { return add(a, b); }, exercising a direct call.
func TestLowerAndRunDirectCall(t *testing.T) {
	mod := hir.NewModule()
	add := &hir.Func{
		Name:   "add",
		Params: []hir.Param{{Name: "a", Type: types.Number()}, {Name: "b", Type: types.Number()}},
		Return: types.Number(),
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.Binary{Op: "+", Left: identOf("a", types.Number()), Right: identOf("b", types.Number())}},
		},
	}
	add.ID = mod.NewFuncID()
	mod.AddFunc(add)

	caller := &hir.Func{
		Name:   "callsAdd",
		Params: []hir.Param{{Name: "a", Type: types.Number()}, {Name: "b", Type: types.Number()}},
		Return: types.Number(),
		Body: []hir.Stmt{
			&hir.Return{Value: &hir.Call{
				DirectTo: add.ID,
				IsDirect: true,
				Args:     []hir.Expr{identOf("a", types.Number()), identOf("b", types.Number())},
			}},
		},
	}
	caller.ID = mod.NewFuncID()
	mod.AddFunc(caller)

	mir := Lower(mod)
	vm := NewVM(mir)

	result, err := vm.Run("callsAdd", []any{7.0, 8.0})
	require.NoError(t, err)
	assert.Equal(t, 15.0, result)
}
