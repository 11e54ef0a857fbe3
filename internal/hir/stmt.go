package hir

import (
	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/types"
)

// Stmt is any typed HIR statement node.
type Stmt interface {
	stmtNode()
	Span() diag.Span
}

type stmtBase struct {
	Sp diag.Span
}

func (s stmtBase) Span() diag.Span { return s.Sp }

// VarDecl declares a local (let/const) with an optional initializer.
type VarDecl struct {
	stmtBase
	Name    string
	Type    *types.Type
	Const   bool
	Init    Expr // nil if uninitialized
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	stmtBase
	X Expr
}

// Return returns from the enclosing function. Value is nil for a bare
// `return;`.
type Return struct {
	stmtBase
	Value Expr
}

// If is an if/else statement. Else is nil if absent.
type If struct {
	stmtBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// While is a while loop.
type While struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

// For is a C-style for loop. Init/Post may be nil.
type For struct {
	stmtBase
	Init Stmt
	Cond Expr
	Post Stmt
	Body []Stmt
}

// Break exits the innermost loop.
type Break struct{ stmtBase }

// Continue restarts the innermost loop.
type Continue struct{ stmtBase }

// Block is a nested lexical block.
type Block struct {
	stmtBase
	Body []Stmt
}

// Try implements the exception-handling shape from /§4.6.7.
// Catch/CatchName/Finally are each optional (nil/empty) except that at
// least one of Catch or Finally must be present — the frontend enforces
// this, not the HIR type itself.
type Try struct {
	stmtBase
	Body      []Stmt
	CatchName string // bound exception variable name; "" if no catch clause
	HasCatch  bool
	Catch     []Stmt
	Finally   []Stmt
	HasFinally bool
}

// Throw raises an exception.
type Throw struct {
	stmtBase
	Value Expr
}

// ClassDecl hoists a class declaration into the enclosing block's scope.
type ClassDecl struct {
	stmtBase
	Class ClassID
}

// FuncDecl hoists a named function declaration.
type FuncDecl struct {
	stmtBase
	Func FuncID
}

func (VarDecl) stmtNode()   {}
func (ExprStmt) stmtNode()  {}
func (Return) stmtNode()    {}
func (If) stmtNode()        {}
func (While) stmtNode()     {}
func (For) stmtNode()       {}
func (Break) stmtNode()     {}
func (Continue) stmtNode()  {}
func (Block) stmtNode()     {}
func (Try) stmtNode()       {}
func (Throw) stmtNode()     {}
func (ClassDecl) stmtNode() {}
func (FuncDecl) stmtNode()  {}
