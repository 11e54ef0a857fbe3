package hir

import "github.com/skelpo/perryc/internal/types"

// Module is a namespace of classes, functions, and top-level statements —
// the fully typed, name-resolved program handed from the frontend to the
// monomorphizer.
type Module struct {
	Funcs   map[FuncID]*Func
	Classes map[ClassID]*Class

	// FuncOrder/ClassOrder preserve declaration order for deterministic
	// output (iteration over the maps above is not ordered).
	FuncOrder   []FuncID
	ClassOrder  []ClassID

	Globals []Stmt // top-level statements, executed once at program start

	Symbols *SymbolTable

	nextFuncID  FuncID
	nextClassID ClassID
}

// NewModule returns an empty Module ready to receive declarations.
func NewModule() *Module {
	return &Module{
		Funcs:   make(map[FuncID]*Func),
		Classes: make(map[ClassID]*Class),
		Symbols: NewSymbolTable(),
	}
}

// NewFuncID allocates a fresh FuncID. The monomorphizer calls this for every
// specialized clone it creates, ("fresh IDs are
// allocated above the original max").
func (m *Module) NewFuncID() FuncID {
	id := m.nextFuncID
	m.nextFuncID++
	return id
}

// NewClassID allocates a fresh ClassID.
func (m *Module) NewClassID() ClassID {
	id := m.nextClassID
	m.nextClassID++
	return id
}

// AddFunc registers fn under fn.ID (callers allocate it with NewFuncID
// first), records declaration order, and moves the id counter past fn.ID.
func (m *Module) AddFunc(fn *Func) {
	if _, exists := m.Funcs[fn.ID]; !exists {
		m.FuncOrder = append(m.FuncOrder, fn.ID)
	}
	m.Funcs[fn.ID] = fn
	if fn.ID >= m.nextFuncID {
		m.nextFuncID = fn.ID + 1
	}
}

// AddClass registers cls, recording declaration order.
func (m *Module) AddClass(cls *Class) {
	if _, exists := m.Classes[cls.ID]; !exists {
		m.ClassOrder = append(m.ClassOrder, cls.ID)
	}
	m.Classes[cls.ID] = cls
	if cls.ID >= m.nextClassID {
		m.nextClassID = cls.ID + 1
	}
}

// Func is a typed, name-resolved function declaration (top-level function,
// method, or a monomorphizer-generated specialization of either).
type Func struct {
	ID      FuncID
	Name    string // mangled name for specializations; declared name otherwise
	Generic []string // type parameter names; empty for a non-generic function
	Params  []Param
	Return  *types.Type
	IsAsync bool
	IsGenerator bool
	Body    []Stmt

	// Captures is populated by closure conversion for
	// function literals with free variables; empty for top-level functions
	// and for literals with none.
	Captures []Capture

	// OwnerClass is set for methods: the class this function was declared
	// on, prior to monomorphization specializing both together.
	OwnerClass ClassID
	HasOwner   bool
}

// Param is a typed function parameter.
type Param struct {
	Name     string
	Type     *types.Type
	Optional bool
}

// Capture describes one free variable captured by a closure, and whether it
// must be boxed.
type Capture struct {
	Name   string
	Type   *types.Type
	Boxed  bool
}

// Class is a typed, name-resolved class declaration.
type Class struct {
	ID      ClassID
	Name    string
	Generic []string
	Fields  []Field
	Methods []FuncID
	// Extends names the superclass, if any ("" for none). Nothing in HIR
	// resolves methods across inheritance: only a call to a declared
	// function by name carries a resolved FuncID (Call.IsDirect); a method
	// call through a member expression does not.
	Extends string
}

// Field is a typed class field.
type Field struct {
	Name     string
	Type     *types.Type
	Readonly bool
}
