package types

// Equal implements : structural equality for
// Object/Function/Union/Tuple/Array/Promise/Generic, nominal equality for
// Named, and identity for TypeVar.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindVoid, KindNull, KindBoolean, KindNumber, KindInt32, KindBigInt,
		KindString, KindSymbol, KindAny, KindUnknown, KindNever:
		return true
	case KindNamed:
		return a.Name == b.Name
	case KindTypeVar:
		return a.Name == b.Name
	case KindArray, KindPromise:
		return Equal(a.Elem, b.Elem)
	case KindTuple:
		return elemsEqual(a.Elems, b.Elems)
	case KindUnion:
		return unionEqual(a.Elems, b.Elems)
	case KindObject:
		return objectEqual(a, b)
	case KindFunction:
		return functionEqual(a, b)
	case KindGeneric:
		return Equal(a.Base, b.Base) && elemsEqual(a.Args, b.Args)
	default:
		return false
	}
}

func elemsEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// unionEqual compares member sets order-independently, since §3 only
// guarantees members are deduplicated, not ordered.
func unionEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ma := range a {
		found := false
		for j, mb := range b {
			if !used[j] && Equal(ma, mb) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func objectEqual(a, b *Type) bool {
	if a.ObjName != "" || b.ObjName != "" {
		// Nominal objects (name set) compare by name only, like Named.
		if a.ObjName != b.ObjName {
			return false
		}
	}
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	bFields := make(map[string]Field, len(b.Fields))
	for _, f := range b.Fields {
		bFields[f.Name] = f
	}
	for _, fa := range a.Fields {
		fb, ok := bFields[fa.Name]
		if !ok {
			return false
		}
		if fa.Optional != fb.Optional || fa.Readonly != fb.Readonly {
			return false
		}
		if !Equal(fa.Type, fb.Type) {
			return false
		}
	}
	if (a.IndexValue == nil) != (b.IndexValue == nil) {
		return false
	}
	if a.IndexValue != nil && !Equal(a.IndexValue, b.IndexValue) {
		return false
	}
	return true
}

func functionEqual(a, b *Type) bool {
	if a.IsAsync != b.IsAsync || a.IsGenerator != b.IsGenerator {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Optional != b.Params[i].Optional {
			return false
		}
		if !Equal(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return Equal(a.Return, b.Return)
}

// IsSubtype reports whether sub is assignable to super, implementing the
// Never/Any/Unknown lattice from §3 plus structural width subtyping on
// Object and covariant Array/Promise/Function-return subtyping.
func IsSubtype(sub, super *Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.Kind == KindNever {
		return true // Never is a subtype of everything
	}
	if super.Kind == KindAny || super.Kind == KindUnknown {
		return true
	}
	if Equal(sub, super) {
		return true
	}
	if super.Kind == KindUnion {
		for _, m := range super.Elems {
			if IsSubtype(sub, m) {
				return true
			}
		}
		return false
	}
	if sub.Kind == KindUnion {
		for _, m := range sub.Elems {
			if !IsSubtype(m, super) {
				return false
			}
		}
		return true
	}
	switch {
	case sub.Kind == KindArray && super.Kind == KindArray:
		return IsSubtype(sub.Elem, super.Elem)
	case sub.Kind == KindPromise && super.Kind == KindPromise:
		return IsSubtype(sub.Elem, super.Elem)
	case sub.Kind == KindObject && super.Kind == KindObject:
		return objectIsSubtype(sub, super)
	case sub.Kind == KindFunction && super.Kind == KindFunction:
		return functionIsSubtype(sub, super)
	}
	return false
}

// objectIsSubtype implements structural width subtyping: sub must provide
// every non-optional field super requires, with a subtype-compatible type.
func objectIsSubtype(sub, super *Type) bool {
	subFields := make(map[string]Field, len(sub.Fields))
	for _, f := range sub.Fields {
		subFields[f.Name] = f
	}
	for _, sf := range super.Fields {
		f, ok := subFields[sf.Name]
		if !ok {
			if sf.Optional {
				continue
			}
			return false
		}
		if !IsSubtype(f.Type, sf.Type) {
			return false
		}
	}
	return true
}

// functionIsSubtype checks contravariant parameters, covariant return.
func functionIsSubtype(sub, super *Type) bool {
	if len(sub.Params) > len(super.Params) {
		return false
	}
	for i, sp := range sub.Params {
		if !IsSubtype(super.Params[i].Type, sp.Type) {
			return false
		}
	}
	return IsSubtype(sub.Return, super.Return)
}
