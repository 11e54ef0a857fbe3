package codegen

import (
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/mir"
	"github.com/skelpo/perryc/internal/types"
)

func (b *builder) lowerExpr(e hir.Expr) mir.ValueID {
	switch n := e.(type) {
	case *hir.NumberLit:
		id := b.emit(mir.OpConstF64, types.Number())
		b.lastInstr().ImmF64 = n.Value
		return id
	case *hir.Int32Lit:
		id := b.emit(mir.OpConstI32, types.Int32())
		b.lastInstr().ImmI32 = n.Value
		return id
	case *hir.StringLit:
		id := b.emit(mir.OpConstString, types.String())
		b.lastInstr().ImmString = n.Value
		return id
	case *hir.BoolLit:
		id := b.emit(mir.OpConstBool, types.Boolean())
		b.lastInstr().ImmBool = n.Value
		return id
	case *hir.NullLit:
		return b.emit(mir.OpConstNull, types.Null())
	case *hir.VoidLit:
		return b.emit(mir.OpConstUndefined, types.Void())
	case *hir.BigIntLit:
		id := b.emit(mir.OpConstString, types.BigInt())
		b.lastInstr().ImmString = n.Value
		return id
	case *hir.Ident:
		slot := b.localSlot(n.Name)
		id := b.emit(mir.OpLocalGet, n.Type())
		b.lastInstr().LocalIndex = slot
		return id
	case *hir.Binary:
		return b.lowerBinary(n)
	case *hir.Unary:
		v := b.lowerExpr(n.Operand)
		if n.Op == "!" {
			return b.emit(mir.OpNot, types.Boolean(), v)
		}
		return b.emit(mir.OpNeg, n.Type(), v)
	case *hir.Call:
		return b.lowerCall(n)
	case *hir.New:
		args := b.lowerExprs(n.Args)
		id := b.emit(mir.OpNewObject, n.Type(), args...)
		if cls, ok := b.mod.Classes[n.Class]; ok {
			b.lastInstr().CalleeName = cls.Name
		}
		return id
	case *hir.Member:
		return b.lowerMember(n)
	case *hir.Index:
		obj := b.lowerExpr(n.Obj)
		key := b.lowerExpr(n.Key)
		return b.emit(mir.OpIndexLoad, n.Type(), obj, key)
	case *hir.ArrayLit:
		args := b.lowerExprs(n.Elems)
		return b.emit(mir.OpNewArray, n.Type(), args...)
	case *hir.ObjectLit:
		args := b.lowerExprs(n.Values)
		id := b.emit(mir.OpNewObject, n.Type(), args...)
		b.lastInstr().CalleeName = "" // anonymous object literal: no class
		return id
	case *hir.FuncLit:
		id := b.emit(mir.OpNewClosure, n.Type())
		b.lastInstr().CalleeName = n.Func.Name
		return id
	case *hir.Await:
		v := b.lowerExpr(n.Operand)
		return b.emit(mir.OpAwaitSplit, n.Type(), v)
	case *hir.Ternary:
		return b.lowerTernary(n)
	case *hir.Assign:
		return b.lowerAssign(n)
	default:
		return b.emit(mir.OpConstUndefined, types.Void())
	}
}

func (b *builder) lowerExprs(es []hir.Expr) []mir.ValueID {
	out := make([]mir.ValueID, len(es))
	for i, e := range es {
		out[i] = b.lowerExpr(e)
	}
	return out
}

// lowerBinary implements the arithmetic dispatch from :
// `+` on Number is a fused fp add; on String, a runtime call; at Any or a
// mixed operand type, a runtime dispatch routine. Other operators lower
// directly to their fp/compare opcode — the source language has no
// operator overloading beyond `+`.
func (b *builder) lowerBinary(n *hir.Binary) mir.ValueID {
	l := b.lowerExpr(n.Left)
	r := b.lowerExpr(n.Right)
	ty := n.Type()

	if n.Op == "+" {
		switch {
		case isStringType(n.Left.Type()) && isStringType(n.Right.Type()):
			return b.emit(mir.OpAddString, ty, l, r)
		case isNumberType(n.Left.Type()) && isNumberType(n.Right.Type()):
			return b.emit(mir.OpAddF64, ty, l, r)
		default:
			return b.emit(mir.OpAddDynamic, ty, l, r)
		}
	}

	switch n.Op {
	case "-":
		return b.emit(mir.OpSubF64, ty, l, r)
	case "*":
		return b.emit(mir.OpMulF64, ty, l, r)
	case "/":
		return b.emit(mir.OpDivF64, ty, l, r)
	case "==", "===":
		return b.emit(mir.OpCmpEq, types.Boolean(), l, r)
	case "!=", "!==":
		return b.emit(mir.OpCmpNeq, types.Boolean(), l, r)
	case "<":
		return b.emit(mir.OpCmpLt, types.Boolean(), l, r)
	case ">":
		return b.emit(mir.OpCmpGt, types.Boolean(), l, r)
	case "<=":
		return b.emit(mir.OpCmpLeq, types.Boolean(), l, r)
	case ">=":
		return b.emit(mir.OpCmpGeq, types.Boolean(), l, r)
	default:
		return b.emit(mir.OpAddDynamic, ty, l, r)
	}
}

func isStringType(t *types.Type) bool { return t != nil && t.Kind == types.KindString }
func isNumberType(t *types.Type) bool {
	return t != nil && (t.Kind == types.KindNumber || t.Kind == types.KindInt32)
}

// lowerCall distinguishes a direct call to a known FuncID from an indirect
// call through a closure value,
func (b *builder) lowerCall(n *hir.Call) mir.ValueID {
	args := b.lowerExprs(n.Args)
	if n.IsDirect {
		id := b.emit(mir.OpCallDirect, n.Type(), args...)
		if fn, ok := b.mod.Funcs[n.DirectTo]; ok {
			b.lastInstr().CalleeName = fn.Name
		}
		return id
	}
	closure := b.lowerExpr(n.Callee)
	all := append([]mir.ValueID{closure}, args...)
	return b.emit(mir.OpCallIndirect, n.Type(), all...)
}

// lowerMember picks a field-offset load when Obj's static type is a known
// class, falling back to object_get_by_name otherwise.
func (b *builder) lowerMember(n *hir.Member) mir.ValueID {
	obj := b.lowerExpr(n.Obj)
	if idx, ok := b.fieldIndex(n.Obj.Type(), n.Name); ok {
		id := b.emit(mir.OpFieldLoad, n.Type(), obj)
		b.lastInstr().FieldIndex = idx
		b.lastInstr().CalleeName = n.Name
		return id
	}
	id := b.emit(mir.OpGetByName, n.Type(), obj)
	b.lastInstr().CalleeName = n.Name
	return id
}

func (b *builder) fieldIndex(objType *types.Type, name string) (int, bool) {
	if objType == nil || objType.Kind != types.KindNamed {
		return 0, false
	}
	for _, id := range b.mod.ClassOrder {
		cls := b.mod.Classes[id]
		if cls.Name != objType.Name {
			continue
		}
		for i, f := range cls.Fields {
			if f.Name == name {
				return i, true
			}
		}
	}
	return 0, false
}

func (b *builder) lowerTernary(n *hir.Ternary) mir.ValueID {
	cond := b.lowerExpr(n.Cond)
	condEnd := b.cur

	thenID := b.newBlock()
	thenVal := b.lowerExpr(n.Then)
	thenSlot := b.fn.NumLocals
	b.fn.NumLocals++
	b.emit(mir.OpLocalSet, nil, thenVal)
	b.lastInstr().LocalIndex = thenSlot
	thenEnd := b.cur

	elseID := b.newBlock()
	elseVal := b.lowerExpr(n.Else)
	b.emit(mir.OpLocalSet, nil, elseVal)
	b.lastInstr().LocalIndex = thenSlot
	elseEnd := b.cur

	joinID := b.newBlock()
	condEnd.Term = mir.Branch{Cond: cond, Then: thenID, Else: elseID}
	if thenEnd.Term == nil {
		thenEnd.Term = mir.Jump{Target: joinID}
	}
	if elseEnd.Term == nil {
		elseEnd.Term = mir.Jump{Target: joinID}
	}

	id := b.emit(mir.OpLocalGet, n.Type())
	b.lastInstr().LocalIndex = thenSlot
	return id
}

func (b *builder) lowerAssign(n *hir.Assign) mir.ValueID {
	v := b.lowerExpr(n.Value)
	switch target := n.Target.(type) {
	case *hir.Ident:
		slot := b.localSlot(target.Name)
		b.emit(mir.OpLocalSet, nil, v)
		b.lastInstr().LocalIndex = slot
		return v
	case *hir.Member:
		obj := b.lowerExpr(target.Obj)
		if idx, ok := b.fieldIndex(target.Obj.Type(), target.Name); ok {
			b.emit(mir.OpFieldStore, nil, obj, v)
			b.lastInstr().FieldIndex = idx
			b.lastInstr().CalleeName = target.Name
			return v
		}
		b.emit(mir.OpSetByName, nil, obj, v)
		b.lastInstr().CalleeName = target.Name
		return v
	case *hir.Index:
		obj := b.lowerExpr(target.Obj)
		key := b.lowerExpr(target.Key)
		b.emit(mir.OpIndexStore, nil, obj, key, v)
		return v
	default:
		return v
	}
}
