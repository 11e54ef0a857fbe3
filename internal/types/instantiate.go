package types

// Subst maps a TypeVar name to the concrete Type substituted for it.
type Subst map[string]*Type

// Instantiate walks ty, replacing every TypeVar reachable in it according to
// subst. A TypeVar absent from subst is left as-is (the monomorphizer only
// calls Instantiate with a subst covering every parameter in scope, so this
// path should not be hit in practice; it exists so partial substitution
// during incremental resolution doesn't panic).
//
// Substituting into a Generic whose Base resolves to a generic declaration
// produces a type ready to feed to the monomorphizer as an instantiation
// request.
func Instantiate(ty *Type, subst Subst) *Type {
	if ty == nil {
		return nil
	}
	switch ty.Kind {
	case KindTypeVar:
		if repl, ok := subst[ty.Name]; ok {
			return repl
		}
		return ty
	case KindArray:
		return Array(Instantiate(ty.Elem, subst))
	case KindPromise:
		return Promise(Instantiate(ty.Elem, subst))
	case KindTuple:
		return &Type{Kind: KindTuple, Elems: instantiateAll(ty.Elems, subst)}
	case KindUnion:
		return Union(instantiateAll(ty.Elems, subst)...)
	case KindObject:
		fields := make([]Field, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = Field{Name: f.Name, Type: Instantiate(f.Type, subst), Optional: f.Optional, Readonly: f.Readonly}
		}
		var idx *Type
		if ty.IndexValue != nil {
			idx = Instantiate(ty.IndexValue, subst)
		}
		return Object(ty.ObjName, fields, idx)
	case KindFunction:
		params := make([]Param, len(ty.Params))
		for i, p := range ty.Params {
			params[i] = Param{Name: p.Name, Type: Instantiate(p.Type, subst), Optional: p.Optional}
		}
		return Function(params, Instantiate(ty.Return, subst), ty.IsAsync, ty.IsGenerator)
	case KindGeneric:
		return &Type{Kind: KindGeneric, Base: Instantiate(ty.Base, subst), Args: instantiateAll(ty.Args, subst)}
	default:
		// Void, Null, Boolean, Number, Int32, BigInt, String, Symbol, Any,
		// Unknown, Never, Named: no TypeVar reachable, returned unchanged.
		return ty
	}
}

func instantiateAll(ts []*Type, subst Subst) []*Type {
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = Instantiate(t, subst)
	}
	return out
}

// ContainsTypeVar reports whether any TypeVar is reachable from ty. The
// monomorphizer's final check (checkNoTypeVars in internal/mono) calls it
// to report any TypeVar left after monomorphization as an error.
func ContainsTypeVar(ty *Type) bool {
	if ty == nil {
		return false
	}
	switch ty.Kind {
	case KindTypeVar:
		return true
	case KindArray, KindPromise:
		return ContainsTypeVar(ty.Elem)
	case KindTuple, KindUnion:
		return anyContainsTypeVar(ty.Elems)
	case KindObject:
		for _, f := range ty.Fields {
			if ContainsTypeVar(f.Type) {
				return true
			}
		}
		return ContainsTypeVar(ty.IndexValue)
	case KindFunction:
		for _, p := range ty.Params {
			if ContainsTypeVar(p.Type) {
				return true
			}
		}
		return ContainsTypeVar(ty.Return)
	case KindGeneric:
		return ContainsTypeVar(ty.Base) || anyContainsTypeVar(ty.Args)
	default:
		return false
	}
}

func anyContainsTypeVar(ts []*Type) bool {
	for _, t := range ts {
		if ContainsTypeVar(t) {
			return true
		}
	}
	return false
}
