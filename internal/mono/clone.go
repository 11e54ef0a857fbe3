package mono

import (
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// cloneExpr deep-clones e, substituting subst into every node's resolved
// Type and into any TypeArgs carried by nested Call/New sites. Substitution
// must reach every node, not just the leaves, because a specialized clone's
// own type annotations (e.g. a `let x: T` inside a generic function body)
// are exactly the TypeVar occurrences monomorphization exists to eliminate.
func cloneExpr(e hir.Expr, subst types.Subst) hir.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *hir.NumberLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.Int32Lit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.StringLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.BoolLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.NullLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.VoidLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.BigIntLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.Ident:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		return &c
	case *hir.Binary:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Left = cloneExpr(n.Left, subst)
		c.Right = cloneExpr(n.Right, subst)
		return &c
	case *hir.Unary:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Operand = cloneExpr(n.Operand, subst)
		return &c
	case *hir.Call:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Callee = cloneExpr(n.Callee, subst)
		c.Args = cloneExprs(n.Args, subst)
		c.TypeArgs = instantiateAll(n.TypeArgs, subst)
		return &c
	case *hir.New:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Args = cloneExprs(n.Args, subst)
		c.TypeArgs = instantiateAll(n.TypeArgs, subst)
		return &c
	case *hir.Member:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Obj = cloneExpr(n.Obj, subst)
		return &c
	case *hir.Index:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Obj = cloneExpr(n.Obj, subst)
		c.Key = cloneExpr(n.Key, subst)
		return &c
	case *hir.ArrayLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Elems = cloneExprs(n.Elems, subst)
		return &c
	case *hir.ObjectLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Values = cloneExprs(n.Values, subst)
		return &c
	case *hir.FuncLit:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Func = cloneFuncShallow(n.Func, subst)
		return &c
	case *hir.Await:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Operand = cloneExpr(n.Operand, subst)
		return &c
	case *hir.Ternary:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Cond = cloneExpr(n.Cond, subst)
		c.Then = cloneExpr(n.Then, subst)
		c.Else = cloneExpr(n.Else, subst)
		return &c
	case *hir.Assign:
		c := *n
		c.Ty = types.Instantiate(n.Ty, subst)
		c.Target = cloneExpr(n.Target, subst)
		c.Value = cloneExpr(n.Value, subst)
		return &c
	default:
		return e
	}
}

func cloneExprs(es []hir.Expr, subst types.Subst) []hir.Expr {
	if es == nil {
		return nil
	}
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = cloneExpr(e, subst)
	}
	return out
}

func instantiateAll(ts []*types.Type, subst types.Subst) []*types.Type {
	if ts == nil {
		return nil
	}
	out := make([]*types.Type, len(ts))
	for i, t := range ts {
		out[i] = types.Instantiate(t, subst)
	}
	return out
}

// cloneStmts deep-clones a statement list under subst.
func cloneStmts(stmts []hir.Stmt, subst types.Subst) []hir.Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]hir.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = cloneStmt(s, subst)
	}
	return out
}

func cloneStmt(s hir.Stmt, subst types.Subst) hir.Stmt {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *hir.VarDecl:
		c := *n
		c.Type = types.Instantiate(n.Type, subst)
		c.Init = cloneExpr(n.Init, subst)
		return &c
	case *hir.ExprStmt:
		c := *n
		c.X = cloneExpr(n.X, subst)
		return &c
	case *hir.Return:
		c := *n
		c.Value = cloneExpr(n.Value, subst)
		return &c
	case *hir.If:
		c := *n
		c.Cond = cloneExpr(n.Cond, subst)
		c.Then = cloneStmts(n.Then, subst)
		c.Else = cloneStmts(n.Else, subst)
		return &c
	case *hir.While:
		c := *n
		c.Cond = cloneExpr(n.Cond, subst)
		c.Body = cloneStmts(n.Body, subst)
		return &c
	case *hir.For:
		c := *n
		c.Init = cloneStmt(n.Init, subst)
		c.Cond = cloneExpr(n.Cond, subst)
		c.Post = cloneStmt(n.Post, subst)
		c.Body = cloneStmts(n.Body, subst)
		return &c
	case *hir.Block:
		c := *n
		c.Body = cloneStmts(n.Body, subst)
		return &c
	case *hir.Try:
		c := *n
		c.Body = cloneStmts(n.Body, subst)
		c.Catch = cloneStmts(n.Catch, subst)
		c.Finally = cloneStmts(n.Finally, subst)
		return &c
	case *hir.Throw:
		c := *n
		c.Value = cloneExpr(n.Value, subst)
		return &c
	default:
		// Break, Continue, ClassDecl, FuncDecl carry no substitutable type
		// and no nested body of their own (a nested FuncDecl/ClassDecl
		// still points at the original un-specialized ID — monomorphizing
		// a nested declaration requires its own request, handled by the
		// worklist scanning the clone after this copy completes).
		return s
	}
}

// cloneFuncShallow clones a function literal's Func for substitution into an
// enclosing generic clone, without registering it in the module — it isn't
// itself the target of a monomorphization request, only a nested closure
// whose captured type annotations must track the enclosing substitution.
func cloneFuncShallow(f *hir.Func, subst types.Subst) *hir.Func {
	if f == nil {
		return nil
	}
	c := *f
	c.Params = cloneParams(f.Params, subst)
	c.Return = types.Instantiate(f.Return, subst)
	c.Body = cloneStmts(f.Body, subst)
	c.Captures = cloneCaptures(f.Captures, subst)
	return &c
}

func cloneParams(ps []hir.Param, subst types.Subst) []hir.Param {
	if ps == nil {
		return nil
	}
	out := make([]hir.Param, len(ps))
	for i, p := range ps {
		out[i] = hir.Param{Name: p.Name, Type: types.Instantiate(p.Type, subst), Optional: p.Optional}
	}
	return out
}

func cloneCaptures(cs []hir.Capture, subst types.Subst) []hir.Capture {
	if cs == nil {
		return nil
	}
	out := make([]hir.Capture, len(cs))
	for i, c := range cs {
		out[i] = hir.Capture{Name: c.Name, Type: types.Instantiate(c.Type, subst), Boxed: c.Boxed}
	}
	return out
}

func cloneFields(fs []hir.Field, subst types.Subst) []hir.Field {
	if fs == nil {
		return nil
	}
	out := make([]hir.Field, len(fs))
	for i, f := range fs {
		out[i] = hir.Field{Name: f.Name, Type: types.Instantiate(f.Type, subst), Readonly: f.Readonly}
	}
	return out
}
