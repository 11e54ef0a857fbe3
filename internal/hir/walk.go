package hir

// WalkExpr visits e and every sub-expression reachable from it, in
// pre-order, calling visit on each. It does not descend into a nested
// FuncLit's body — callers that need that (closure conversion's free
// variable scan) walk function bodies explicitly, one function at a time,
// so that each function's own scope is analyzed independently.
func WalkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *Binary:
		WalkExpr(n.Left, visit)
		WalkExpr(n.Right, visit)
	case *Unary:
		WalkExpr(n.Operand, visit)
	case *Call:
		WalkExpr(n.Callee, visit)
		for _, a := range n.Args {
			WalkExpr(a, visit)
		}
	case *New:
		for _, a := range n.Args {
			WalkExpr(a, visit)
		}
	case *Member:
		WalkExpr(n.Obj, visit)
	case *Index:
		WalkExpr(n.Obj, visit)
		WalkExpr(n.Key, visit)
	case *ArrayLit:
		for _, el := range n.Elems {
			WalkExpr(el, visit)
		}
	case *ObjectLit:
		for _, v := range n.Values {
			WalkExpr(v, visit)
		}
	case *Await:
		WalkExpr(n.Operand, visit)
	case *Ternary:
		WalkExpr(n.Cond, visit)
		WalkExpr(n.Then, visit)
		WalkExpr(n.Else, visit)
	case *Assign:
		WalkExpr(n.Target, visit)
		WalkExpr(n.Value, visit)
	}
}

// WalkStmt visits every statement reachable from body in pre-order, and
// every expression reachable from each statement via exprVisit. It descends
// into FuncLit bodies found in expressions so that a module-wide scan (e.g.
// the monomorphizer's nested-instantiation scan) reaches calls nested
// inside closures.
func WalkStmt(body []Stmt, stmtVisit func(Stmt), exprVisit func(Expr)) {
	for _, s := range body {
		if s == nil {
			continue
		}
		stmtVisit(s)
		walkStmtExprs(s, exprVisit)
		switch n := s.(type) {
		case *If:
			WalkStmt(n.Then, stmtVisit, exprVisit)
			WalkStmt(n.Else, stmtVisit, exprVisit)
		case *While:
			WalkStmt(n.Body, stmtVisit, exprVisit)
		case *For:
			if n.Init != nil {
				WalkStmt([]Stmt{n.Init}, stmtVisit, exprVisit)
			}
			if n.Post != nil {
				WalkStmt([]Stmt{n.Post}, stmtVisit, exprVisit)
			}
			WalkStmt(n.Body, stmtVisit, exprVisit)
		case *Block:
			WalkStmt(n.Body, stmtVisit, exprVisit)
		case *Try:
			WalkStmt(n.Body, stmtVisit, exprVisit)
			WalkStmt(n.Catch, stmtVisit, exprVisit)
			WalkStmt(n.Finally, stmtVisit, exprVisit)
		}
	}
}

func walkStmtExprs(s Stmt, visit func(Expr)) {
	if visit == nil {
		return
	}
	var descendFuncLit func(Expr)
	descendFuncLit = func(e Expr) {
		WalkExpr(e, func(inner Expr) {
			visit(inner)
			if fl, ok := inner.(*FuncLit); ok {
				WalkStmt(fl.Func.Body, func(Stmt) {}, descendFuncLit)
			}
		})
	}
	switch n := s.(type) {
	case *VarDecl:
		descendFuncLit(n.Init)
	case *ExprStmt:
		descendFuncLit(n.X)
	case *Return:
		descendFuncLit(n.Value)
	case *If:
		descendFuncLit(n.Cond)
	case *While:
		descendFuncLit(n.Cond)
	case *For:
		descendFuncLit(n.Cond)
	case *Throw:
		descendFuncLit(n.Value)
	}
}
