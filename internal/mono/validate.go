package mono

import (
	"fmt"

	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// ErrIncomplete is the fatal internal error calls for
// when a TypeVar is still reachable from a non-generic declaration after
// the worklist has drained.
type ErrIncomplete struct {
	Where string
}

func (e *ErrIncomplete) Error() string {
	return fmt.Sprintf("monomorphization incomplete: %s", e.Where)
}

// checkNoTypeVars walks every non-generic function and class left in mod
// and fails if any reachable Type still contains a TypeVar. A declaration
// with a non-empty Generic list is an original template, never itself
// emitted by codegen, and is skipped — it is expected to still mention its
// own type parameters.
func checkNoTypeVars(mod *hir.Module) error {
	for _, id := range mod.FuncOrder {
		f := mod.Funcs[id]
		if len(f.Generic) > 0 {
			continue
		}
		if err := checkFunc(f); err != nil {
			return err
		}
	}
	for _, id := range mod.ClassOrder {
		c := mod.Classes[id]
		if len(c.Generic) > 0 {
			continue
		}
		for _, field := range c.Fields {
			if types.ContainsTypeVar(field.Type) {
				return &ErrIncomplete{Where: fmt.Sprintf("class %s field %s", c.Name, field.Name)}
			}
		}
	}
	return nil
}

func checkFunc(f *hir.Func) error {
	for _, p := range f.Params {
		if types.ContainsTypeVar(p.Type) {
			return &ErrIncomplete{Where: fmt.Sprintf("function %s parameter %s", f.Name, p.Name)}
		}
	}
	if types.ContainsTypeVar(f.Return) {
		return &ErrIncomplete{Where: fmt.Sprintf("function %s return type", f.Name)}
	}
	var firstErr error
	hir.WalkStmt(f.Body, func(s hir.Stmt) {
		if firstErr != nil {
			return
		}
		if vd, ok := s.(*hir.VarDecl); ok && types.ContainsTypeVar(vd.Type) {
			firstErr = &ErrIncomplete{Where: fmt.Sprintf("function %s local %s", f.Name, vd.Name)}
		}
	}, func(e hir.Expr) {
		if firstErr != nil {
			return
		}
		if types.ContainsTypeVar(e.Type()) {
			firstErr = &ErrIncomplete{Where: fmt.Sprintf("function %s expression", f.Name)}
		}
	})
	return firstErr
}
