package closure

import (
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// Convert walks every function in mod (after monomorphization has removed
// all generics) and, for each function literal found, computes its free
// variables and populates its Func.Captures. A literal with no free
// variables keeps Captures empty and compiles to a plain code pointer;
// leaves that branch to codegen, not to this pass.
func Convert(mod *hir.Module) {
	globalMutated := mutatedNames(mod.Globals)
	for _, id := range mod.FuncOrder {
		f := mod.Funcs[id]
		mutated := mutatedNames(f.Body)
		for name := range globalMutated {
			mutated[name] = true
		}
		convertBody(f.Body, mutated)
	}
	convertBody(mod.Globals, globalMutated)
}

// convertBody converts every function literal in body. enclosingMutated
// holds the names assigned anywhere in the function (or global statement
// list) being converted, nested literals included, plus those assigned at
// global level, so a capture reassigned outside the literal is boxed too.
// Assignments in the body of a function that encloses a nested named
// function declaration are not included for that declaration's literals.
func convertBody(body []hir.Stmt, enclosingMutated map[string]bool) {
	walkBodyNonDescending(body, func(e hir.Expr) {
		hir.WalkExpr(e, func(inner hir.Expr) {
			if fl, ok := inner.(*hir.FuncLit); ok {
				convertLiteral(fl.Func, enclosingMutated)
			}
		})
	})
}

// convertLiteral fills in fn.Captures, then recurses into fn's own body so
// a closure nested inside another closure gets its own capture list
// computed against its own (not its parent's) free-variable boundary.
func convertLiteral(fn *hir.Func, enclosingMutated map[string]bool) {
	names := freeVars(fn)
	if len(names) == 0 {
		fn.Captures = nil
		convertBody(fn.Body, enclosingMutated)
		return
	}

	mutated := mutatedNames(fn.Body)
	caps := make([]hir.Capture, len(names))
	for i, name := range names {
		caps[i] = hir.Capture{
			Name:  name,
			Type:  captureType(fn, name),
			Boxed: mutated[name] || enclosingMutated[name],
		}
	}
	fn.Captures = caps
	convertBody(fn.Body, enclosingMutated)
}

// captureType gives codegen a type to size a capture slot: a capture
// always originates outside fn, so fn's parameter list is not consulted;
// instead captureType reads the type off the first Ident with that name in
// fn's own body (nested literals are not searched), falling back to Any
// when there is none.
func captureType(fn *hir.Func, name string) *types.Type {
	var found *types.Type
	walkBodyNonDescending(fn.Body, func(e hir.Expr) {
		if found != nil {
			return
		}
		hir.WalkExpr(e, func(inner hir.Expr) {
			if found != nil {
				return
			}
			if id, ok := inner.(*hir.Ident); ok && id.Name == name {
				found = id.Ty
			}
		})
	})
	if found == nil {
		return types.Any()
	}
	return found
}
