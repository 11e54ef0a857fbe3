package mono

import (
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// Monomorphizer drives the fixed-point worklist that specializes every
// generic function/class reachable from the module's entry points,
// generalizing dce.go's reachable-set BFS from "function names reachable
// from main" to "(declaration, type argument tuple) specializations
// reachable from the module's non-generic entry points".
type Monomorphizer struct {
	mod *hir.Module

	funcMemo  map[hir.FuncID]map[string]hir.FuncID
	classMemo map[hir.ClassID]map[string]hir.ClassID

	funcQueue  []pendingFunc
	classQueue []pendingClass

	ownerFixups []ownerFixup
}

type pendingFunc struct {
	newID hir.FuncID
	orig  *hir.Func
	args  []*types.Type
}

type pendingClass struct {
	newID hir.ClassID
	orig  *hir.Class
	args  []*types.Type
}

func newMonomorphizer(mod *hir.Module) *Monomorphizer {
	return &Monomorphizer{
		mod:       mod,
		funcMemo:  make(map[hir.FuncID]map[string]hir.FuncID),
		classMemo: make(map[hir.ClassID]map[string]hir.ClassID),
	}
}

// Monomorphize replaces every generic declaration reachable from mod's
// non-generic functions and top-level statements with concrete
// specializations, rewriting call/new sites to target them in place. It
// returns an error if a TypeVar is still reachable from a non-generic
// declaration once the worklist drains — that case is the
// "monomorphization incomplete" fatal condition.
func Monomorphize(mod *hir.Module) error {
	mm := newMonomorphizer(mod)

	for _, id := range mod.FuncOrder {
		f := mod.Funcs[id]
		if len(f.Generic) == 0 {
			mm.rewriteGenerics(f.Body)
		}
	}
	mm.rewriteGenerics(mod.Globals)
	mm.drain()
	mm.applyOwnerFixups()

	return checkNoTypeVars(mod)
}

// applyOwnerFixups repoints each specialized method's OwnerClass at the
// specialized class that now owns it. This runs after drain() rather than
// inline in processClass because a requested method specialization may not
// exist yet at the moment processClass queues it — only once drain()
// actually processes that queued request does mod.Funcs[newMethod] exist.
func (mm *Monomorphizer) applyOwnerFixups() {
	for _, fix := range mm.ownerFixups {
		for _, methodID := range fix.methods {
			f, ok := mm.mod.Funcs[methodID]
			if !ok || !f.HasOwner {
				continue
			}
			patched := *f
			patched.OwnerClass = fix.class
			mm.mod.Funcs[methodID] = &patched
		}
	}
}

// drain processes queued requests to a fixed point. Termination follows
// from the memo tables: the memo table admits each (origin, mangled args) pair
// once, and Types are finite in a closed program, so the queue empties.
func (mm *Monomorphizer) drain() {
	for len(mm.funcQueue) > 0 || len(mm.classQueue) > 0 {
		if n := len(mm.funcQueue); n > 0 {
			item := mm.funcQueue[n-1]
			mm.funcQueue = mm.funcQueue[:n-1]
			mm.processFunc(item)
			continue
		}
		n := len(mm.classQueue)
		item := mm.classQueue[n-1]
		mm.classQueue = mm.classQueue[:n-1]
		mm.processClass(item)
	}
}

// requestFunc returns the FuncID to call for origID instantiated at args,
// specializing it if this is the first time this (origID, args) pair has
// been requested. A non-generic origID is returned unchanged.
func (mm *Monomorphizer) requestFunc(origID hir.FuncID, args []*types.Type) hir.FuncID {
	orig, ok := mm.mod.Funcs[origID]
	if !ok || len(orig.Generic) == 0 {
		return origID
	}
	key := Mangle(args)
	byKey, ok := mm.funcMemo[origID]
	if !ok {
		byKey = make(map[string]hir.FuncID)
		mm.funcMemo[origID] = byKey
	}
	if id, ok := byKey[key]; ok {
		return id
	}
	newID := mm.mod.NewFuncID()
	byKey[key] = newID
	mm.funcQueue = append(mm.funcQueue, pendingFunc{newID: newID, orig: orig, args: args})
	return newID
}

// requestClass is requestFunc's analogue for class instantiation sites.
func (mm *Monomorphizer) requestClass(origID hir.ClassID, args []*types.Type) hir.ClassID {
	orig, ok := mm.mod.Classes[origID]
	if !ok || len(orig.Generic) == 0 {
		return origID
	}
	key := Mangle(args)
	byKey, ok := mm.classMemo[origID]
	if !ok {
		byKey = make(map[string]hir.ClassID)
		mm.classMemo[origID] = byKey
	}
	if id, ok := byKey[key]; ok {
		return id
	}
	newID := mm.mod.NewClassID()
	byKey[key] = newID
	mm.classQueue = append(mm.classQueue, pendingClass{newID: newID, orig: orig, args: args})
	return newID
}

func (mm *Monomorphizer) processFunc(item pendingFunc) {
	subst := buildSubst(item.orig.Generic, item.args)
	clone := cloneFuncShallow(item.orig, subst)
	clone.ID = item.newID
	clone.Name = item.orig.Name + Mangle(item.args)
	clone.Generic = nil
	mm.mod.AddFunc(clone)
	mm.rewriteGenerics(clone.Body)
}

func (mm *Monomorphizer) processClass(item pendingClass) {
	subst := buildSubst(item.orig.Generic, item.args)
	clone := &hir.Class{
		ID:      item.newID,
		Name:    item.orig.Name + Mangle(item.args),
		Generic: nil,
		Fields:  cloneFields(item.orig.Fields, subst),
		Extends: item.orig.Extends,
	}
	clone.Methods = make([]hir.FuncID, len(item.orig.Methods))
	for i, origMethod := range item.orig.Methods {
		newMethod := mm.requestFunc(origMethod, item.args)
		clone.Methods[i] = newMethod
		// requestFunc may have only just enqueued newMethod; re-owning it
		// to the new class happens once its clone exists, after drain
		// processes the queued request, so patch it up on the clone's own
		// record at that time instead of here.
	}
	mm.mod.AddClass(clone)
	mm.ownerFixups = append(mm.ownerFixups, ownerFixup{class: item.newID, methods: clone.Methods})
}

type ownerFixup struct {
	class   hir.ClassID
	methods []hir.FuncID
}

// rewriteGenerics scans body for direct Call/New sites whose target is
// still a generic declaration, requests (or reuses) the matching
// specialization, and repoints the site at it with its TypeArgs cleared —
// the specialized target takes no type parameters, so there is nothing
// left to carry.
func (mm *Monomorphizer) rewriteGenerics(body []hir.Stmt) {
	hir.WalkStmt(body, func(hir.Stmt) {}, func(e hir.Expr) {
		switch n := e.(type) {
		case *hir.Call:
			if n.IsDirect && len(n.TypeArgs) > 0 {
				if orig, ok := mm.mod.Funcs[n.DirectTo]; ok && len(orig.Generic) > 0 {
					n.DirectTo = mm.requestFunc(n.DirectTo, n.TypeArgs)
					n.TypeArgs = nil
				}
			}
		case *hir.New:
			if len(n.TypeArgs) > 0 {
				if orig, ok := mm.mod.Classes[n.Class]; ok && len(orig.Generic) > 0 {
					n.Class = mm.requestClass(n.Class, n.TypeArgs)
					n.TypeArgs = nil
				}
			}
		}
	})
}

func buildSubst(names []string, args []*types.Type) types.Subst {
	s := make(types.Subst, len(names))
	for i, name := range names {
		if i < len(args) {
			s[name] = args[i]
		}
	}
	return s
}
