// Package hir implements the typed, name-resolved high-level intermediate
// representation used between parsing and lowering. Cyclic references (a
// class's methods referencing the class, a function calling itself or a
// sibling declared later) are represented by FuncID/ClassID indirection
// into the Module's tables, never by Go pointer cycles — the same
// discipline std/compiler/ir.go uses for its function-name-keyed maps,
// generalized to small integer ids
package hir

// FuncID uniquely identifies a function (including methods and specialized
// clones produced by the monomorphizer) within a Module.
type FuncID uint32

// ClassID uniquely identifies a class (including specialized clones).
type ClassID uint32
