package hir

import (
	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/types"
)

// Expr is any typed HIR expression node. Every node carries a resolved Type
// and a source Span. The sum is closed and dispatched by type switch —
// calls for tagged unions with exhaustive dispatch rather
// than an open class hierarchy.
type Expr interface {
	exprNode()
	Type() *types.Type
	Span() diag.Span
}

type exprBase struct {
	Ty  *types.Type
	Sp  diag.Span
}

func (e exprBase) Type() *types.Type { return e.Ty }
func (e exprBase) Span() diag.Span   { return e.Sp }

// Literal kinds.
type (
	NumberLit struct {
		exprBase
		Value float64
	}
	Int32Lit struct {
		exprBase
		Value int32
	}
	StringLit struct {
		exprBase
		Value string
	}
	BoolLit struct {
		exprBase
		Value bool
	}
	NullLit  struct{ exprBase }
	VoidLit  struct{ exprBase } // `undefined`
	BigIntLit struct {
		exprBase
		Value string // decimal digits, sign-prefixed
	}
)

// Ident references a resolved variable, function, or class by symbol.
type Ident struct {
	exprBase
	Name string
	Sym  *Symbol
}

// Binary is a binary operator application. Op is the source operator text
// ("+", "==", "&&", …); codegen decides the lowering strategy per
// based on Op and the operand types.
type Binary struct {
	exprBase
	Op          string
	Left, Right Expr
}

// Unary is a unary operator application ("!", "-", "typeof", …).
type Unary struct {
	exprBase
	Op      string
	Operand Expr
}

// Call invokes a function value. Callee may resolve to a known FuncID
// (direct call) or an arbitrary expression (indirect call through a
// closure) — codegen distinguishes the two
type Call struct {
	exprBase
	Callee   Expr
	DirectTo FuncID
	IsDirect bool
	Args     []Expr
	// TypeArgs holds the concrete type arguments for a call to a generic
	// function; empty for a non-generic call.
	TypeArgs []*types.Type
}

// New constructs an instance of a class.
type New struct {
	exprBase
	Class ClassID
	Args  []Expr
	// TypeArgs holds the concrete type arguments for a generic class
	// instantiation; empty for a non-generic class.
	TypeArgs []*types.Type
}

// Member accesses obj.Name. Codegen picks a field-offset load when Obj's
// class is statically known, or object_get_by_name when it isn't
//.
type Member struct {
	exprBase
	Obj  Expr
	Name string
}

// Index accesses obj[key] (array/map/dynamic object index).
type Index struct {
	exprBase
	Obj Expr
	Key Expr
}

// ArrayLit is an array literal.
type ArrayLit struct {
	exprBase
	Elems []Expr
}

// ObjectLit is an object literal with a fixed, statically-known field set.
type ObjectLit struct {
	exprBase
	Names  []string
	Values []Expr
}

// FuncLit is a function expression / arrow function. Closure conversion
// fills in Func.Captures once free variables are
// computed; before that pass it is empty.
type FuncLit struct {
	exprBase
	Func *Func
}

// Await suspends evaluation on a Promise-typed expression.
type Await struct {
	exprBase
	Operand Expr
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	exprBase
	Cond, Then, Else Expr
}

// Assign is `target = value` (and compound forms, carried in Op; "" for a
// plain assignment).
type Assign struct {
	exprBase
	Op     string
	Target Expr
	Value  Expr
}

func (NumberLit) exprNode() {}
func (Int32Lit) exprNode()  {}
func (StringLit) exprNode() {}
func (BoolLit) exprNode()   {}
func (NullLit) exprNode()   {}
func (VoidLit) exprNode()   {}
func (BigIntLit) exprNode() {}
func (Ident) exprNode()     {}
func (Binary) exprNode()    {}
func (Unary) exprNode()     {}
func (Call) exprNode()      {}
func (New) exprNode()       {}
func (Member) exprNode()    {}
func (Index) exprNode()     {}
func (ArrayLit) exprNode()  {}
func (ObjectLit) exprNode() {}
func (FuncLit) exprNode()   {}
func (Await) exprNode()     {}
func (Ternary) exprNode()   {}
func (Assign) exprNode()    {}
