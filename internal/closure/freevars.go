// Package closure implements closure conversion: for
// every function literal, compute its free variables, decide which must be
// boxed, and populate hir.Func.Captures so codegen can lower it to either a
// plain code pointer (no captures) or a closure record.
package closure

import "github.com/skelpo/perryc/internal/hir"

// freeVars returns the names referenced inside fn's body that are not bound
// by fn's own parameters or by a `let`/`const` declared somewhere in fn's
// own body — i.e. names fn must have received from an enclosing scope.
// Nested FuncLits are walked one level at a time via their own freeVars
// call (not by descending through hir.WalkStmt, which is deliberately
// non-discriminating about scope boundaries): a name free in a nested
// literal propagates outward only if it also isn't bound in fn, which is
// exactly how captures chain through nested closures.
func freeVars(fn *hir.Func) []string {
	bound := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		bound[p.Name] = true
	}
	collectDecls(fn.Body, bound)

	free := make(map[string]bool)
	var order []string
	markFree := func(name string) {
		if bound[name] || free[name] {
			return
		}
		free[name] = true
		order = append(order, name)
	}

	walkBodyNonDescending(fn.Body, func(e hir.Expr) {
		hir.WalkExpr(e, func(inner hir.Expr) {
			switch n := inner.(type) {
			case *hir.Ident:
				markFree(n.Name)
			case *hir.FuncLit:
				for _, name := range freeVars(n.Func) {
					markFree(name)
				}
			}
		})
	})
	return order
}

// collectDecls records every name directly bound within body (a nested
// FuncLit's own locals are handled recursively by freeVars itself and are
// not collected here).
func collectDecls(body []hir.Stmt, bound map[string]bool) {
	for _, s := range body {
		switch n := s.(type) {
		case *hir.VarDecl:
			bound[n.Name] = true
		case *hir.If:
			collectDecls(n.Then, bound)
			collectDecls(n.Else, bound)
		case *hir.While:
			collectDecls(n.Body, bound)
		case *hir.For:
			if vd, ok := n.Init.(*hir.VarDecl); ok {
				bound[vd.Name] = true
			}
			collectDecls(n.Body, bound)
		case *hir.Block:
			collectDecls(n.Body, bound)
		case *hir.Try:
			collectDecls(n.Body, bound)
			if n.HasCatch && n.CatchName != "" {
				bound[n.CatchName] = true
			}
			collectDecls(n.Catch, bound)
			collectDecls(n.Finally, bound)
		}
	}
}

// walkBodyNonDescending visits every expression directly reachable from
// body's statements (recursing through If/While/For/Block/Try control
// flow) via visit, using hir.WalkExpr per expression — which stops at a
// FuncLit boundary rather than reaching into its body — so callers that
// need to treat nested closures as their own scope (freeVars, mutatedNames)
// see each FuncLit node exactly once, undescended.
func walkBodyNonDescending(body []hir.Stmt, visit func(hir.Expr)) {
	for _, s := range body {
		switch n := s.(type) {
		case *hir.VarDecl:
			visit(n.Init)
		case *hir.ExprStmt:
			visit(n.X)
		case *hir.Return:
			visit(n.Value)
		case *hir.If:
			visit(n.Cond)
			walkBodyNonDescending(n.Then, visit)
			walkBodyNonDescending(n.Else, visit)
		case *hir.While:
			visit(n.Cond)
			walkBodyNonDescending(n.Body, visit)
		case *hir.For:
			if n.Init != nil {
				walkBodyNonDescending([]hir.Stmt{n.Init}, visit)
			}
			visit(n.Cond)
			if n.Post != nil {
				walkBodyNonDescending([]hir.Stmt{n.Post}, visit)
			}
			walkBodyNonDescending(n.Body, visit)
		case *hir.Block:
			walkBodyNonDescending(n.Body, visit)
		case *hir.Try:
			walkBodyNonDescending(n.Body, visit)
			walkBodyNonDescending(n.Catch, visit)
			walkBodyNonDescending(n.Finally, visit)
		case *hir.Throw:
			visit(n.Value)
		}
	}
}

// mutatedNames returns the set of names assigned to anywhere within body,
// including inside nested FuncLit bodies — a capture mutated by the inner
// closure must be boxed just as much as one mutated by the outer scope.
func mutatedNames(body []hir.Stmt) map[string]bool {
	mutated := make(map[string]bool)
	var scan func([]hir.Stmt)
	scan = func(b []hir.Stmt) {
		walkBodyNonDescending(b, func(e hir.Expr) {
			hir.WalkExpr(e, func(inner hir.Expr) {
				switch n := inner.(type) {
				case *hir.Assign:
					if id, ok := n.Target.(*hir.Ident); ok {
						mutated[id.Name] = true
					}
				case *hir.FuncLit:
					scan(n.Func.Body)
				}
			})
		})
	}
	scan(body)
	return mutated
}
