// Package codegen lowers a monomorphized, closure-converted hir.Module to
// mir.Module, then hands the result to a backend — the
// VM interpreter (vm.go, used by tests) or the linux/amd64 ELF emitter
// (elf_amd64.go, the one the driver uses, adapted from std/compiler's
// backend.go/backend_x64.go/elf_x64.go CodeGen).
package codegen

import (
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/mir"
	"github.com/skelpo/perryc/internal/types"
)

// Lower converts every function in mod to machine IR.
func Lower(mod *hir.Module) *mir.Module {
	out := &mir.Module{}
	for _, id := range mod.FuncOrder {
		f := mod.Funcs[id]
		if len(f.Generic) > 0 {
			// An un-specialized template; nothing calls it after
			// monomorphization, so it is never lowered.
			continue
		}
		out.Funcs = append(out.Funcs, lowerFunc(mod, f))
	}
	return out
}

type builder struct {
	mod     *hir.Module
	fn      *mir.Func
	locals  map[string]int
	nextVal mir.ValueID
	cur     *mir.Block
	nextBlk mir.BlockID
}

func lowerFunc(mod *hir.Module, f *hir.Func) *mir.Func {
	b := &builder{
		mod:    mod,
		locals: make(map[string]int),
	}
	b.fn = &mir.Func{
		Name:        f.Name,
		NumParams:   len(f.Params),
		IsAsync:     f.IsAsync,
		NumCaptures: len(f.Captures),
	}
	for i, p := range f.Params {
		b.locals[p.Name] = i
	}
	for i, c := range f.Captures {
		b.locals[c.Name] = len(f.Params) + i
	}
	b.fn.NumLocals = len(f.Params) + len(f.Captures)
	b.fn.Entry = b.newBlock()

	b.lowerStmts(f.Body)
	if b.cur.Term == nil {
		b.cur.Term = mir.Ret{HasValue: false}
	}
	return b.fn
}

func (b *builder) newBlock() mir.BlockID {
	id := b.nextBlk
	b.nextBlk++
	blk := &mir.Block{ID: id}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.cur = blk
	return id
}

func (b *builder) setBlock(id mir.BlockID) {
	b.cur = b.fn.Block(id)
}

func (b *builder) emit(op mir.Op, ty *types.Type, args ...mir.ValueID) mir.ValueID {
	id := b.nextVal
	b.nextVal++
	b.cur.Instrs = append(b.cur.Instrs, &mir.Instr{ID: id, Op: op, Type: ty, Args: args})
	return id
}

func (b *builder) localSlot(name string) int {
	if idx, ok := b.locals[name]; ok {
		return idx
	}
	idx := b.fn.NumLocals
	b.locals[name] = idx
	b.fn.NumLocals++
	return idx
}

func (b *builder) lowerStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		if b.cur.Term != nil {
			// Unreachable code following a terminator-producing statement
			// (e.g. a `return` mid-block); the frontend should not emit
			// this, but codegen doesn't fail on it — it just stops
			// building, matching std/compiler's own dead-code-by-construction
			// tolerance in its backend.
			return
		}
		b.lowerStmt(s)
	}
}

func (b *builder) lowerStmt(s hir.Stmt) {
	switch n := s.(type) {
	case *hir.VarDecl:
		slot := b.localSlot(n.Name)
		if n.Init != nil {
			v := b.lowerExpr(n.Init)
			b.emit(mir.OpLocalSet, nil, v)
			b.lastInstr().LocalIndex = slot
		}
	case *hir.ExprStmt:
		b.lowerExpr(n.X)
	case *hir.Return:
		if n.Value == nil {
			b.cur.Term = mir.Ret{HasValue: false}
			return
		}
		v := b.lowerExpr(n.Value)
		b.cur.Term = mir.Ret{Value: v, HasValue: true}
	case *hir.If:
		b.lowerIf(n)
	case *hir.While:
		b.lowerWhile(n)
	case *hir.For:
		b.lowerFor(n)
	case *hir.Block:
		b.lowerStmts(n.Body)
	case *hir.Throw:
		v := b.lowerExpr(n.Value)
		b.emit(mir.OpThrow, nil, v)
	case *hir.Try:
		b.lowerTry(n)
	case *hir.Break, *hir.Continue, *hir.ClassDecl, *hir.FuncDecl:
		// Break/Continue lower to nothing: neither this switch nor
		// lowerWhile/lowerFor wires them to a loop's exit or head block.
		// Class/func declarations carry no runtime effect of their own at
		// the point they're hoisted.
	}
}

// lastInstr returns the most recently emitted instruction in the current
// block, so a caller can patch an immediate (e.g. LocalIndex) that emit's
// fixed signature doesn't take directly.
func (b *builder) lastInstr() *mir.Instr {
	return b.cur.Instrs[len(b.cur.Instrs)-1]
}

func (b *builder) lowerIf(n *hir.If) {
	entry := b.cur
	cond := b.lowerExpr(n.Cond)
	entry = b.cur // lowering Cond may itself have opened new blocks (e.g. a
	// nested ternary); the branch belongs wherever control sits once Cond
	// is fully evaluated, not necessarily the block active on entry.

	thenID := b.newBlock()
	b.lowerStmts(n.Then)
	thenEnd := b.cur

	var elseID mir.BlockID
	hasElse := len(n.Else) > 0
	var elseEnd *mir.Block
	if hasElse {
		elseID = b.newBlock()
		b.lowerStmts(n.Else)
		elseEnd = b.cur
	}

	joinID := b.newBlock()
	if thenEnd.Term == nil {
		thenEnd.Term = mir.Jump{Target: joinID}
	}
	if elseEnd != nil && elseEnd.Term == nil {
		elseEnd.Term = mir.Jump{Target: joinID}
	}

	elseTarget := joinID
	if hasElse {
		elseTarget = elseID
	}
	entry.Term = mir.Branch{Cond: cond, Then: thenID, Else: elseTarget}
	b.setBlock(joinID)
}

func (b *builder) lowerWhile(n *hir.While) {
	entry := b.cur
	headID := b.newBlock()
	entry.Term = mir.Jump{Target: headID}

	cond := b.lowerExpr(n.Cond)
	condEnd := b.cur

	bodyID := b.newBlock()
	b.lowerStmts(n.Body)
	if b.cur.Term == nil {
		b.cur.Term = mir.Jump{Target: headID}
	}

	exitID := b.newBlock()
	condEnd.Term = mir.Branch{Cond: cond, Then: bodyID, Else: exitID}
}

func (b *builder) lowerFor(n *hir.For) {
	if n.Init != nil {
		b.lowerStmt(n.Init)
	}
	entry := b.cur
	headID := b.newBlock()
	entry.Term = mir.Jump{Target: headID}

	var cond mir.ValueID
	hasCond := n.Cond != nil
	if hasCond {
		cond = b.lowerExpr(n.Cond)
	}
	condEnd := b.cur

	bodyID := b.newBlock()
	b.lowerStmts(n.Body)
	if n.Post != nil && b.cur.Term == nil {
		b.lowerStmt(n.Post)
	}
	if b.cur.Term == nil {
		b.cur.Term = mir.Jump{Target: headID}
	}

	exitID := b.newBlock()
	if hasCond {
		condEnd.Term = mir.Branch{Cond: cond, Then: bodyID, Else: exitID}
	} else {
		condEnd.Term = mir.Jump{Target: bodyID}
	}
}

// lowerTry emits the fixed-depth jump-buffer protocol: a try_push before
// the body, try_end right after the body, clear_exception at the start of
// the catch block, and enter/leave markers bracketing finally so the runtime
// can make a throw during finally fatal.
func (b *builder) lowerTry(n *hir.Try) {
	b.emit(mir.OpTryPush, nil)
	b.lowerStmts(n.Body)
	b.emit(mir.OpTryEnd, nil)
	if n.HasCatch {
		b.emit(mir.OpClearExc, nil)
		b.lowerStmts(n.Catch)
	}
	if n.HasFinally {
		b.emit(mir.OpEnterFin, nil)
		b.lowerStmts(n.Finally)
		b.emit(mir.OpLeaveFin, nil)
	}
}
