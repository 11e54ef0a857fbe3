// Package mono implements the monomorphizer: it walks a
// hir.Module from its entry points, replacing every generic function/class
// declaration with one specialized clone per concrete type-argument tuple
// actually used, until no TypeVar remains reachable.
//
// The work-queue/memo-table/clone-and-rescan shape is adapted from
// std/compiler's dead-code-elimination pass (dce.go's
// eliminateDeadFunctions): a reachable-set keyed worklist walked to a fixed
// point, generalized here from "reachable function names" to "requested
// (declaration, type-argument) specializations".
package mono

import (
	"fmt"
	"strings"

	"github.com/skelpo/perryc/internal/types"
)

// Mangle produces the deterministic, injective name suffix for a tuple of
// concrete type arguments, `base$arg1_arg2…` scheme.
// Injectivity over the closed Type set matters more than readability here:
// two distinct argument tuples must never mangle to the same string, or the
// memo table would wrongly unify two different specializations.
func Mangle(args []*types.Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = mangleType(a)
	}
	return "$" + strings.Join(parts, "_")
}

func mangleType(t *types.Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case types.KindVoid:
		return "void"
	case types.KindNull:
		return "null"
	case types.KindBoolean:
		return "boolean"
	case types.KindNumber:
		return "number"
	case types.KindInt32:
		return "int32"
	case types.KindBigInt:
		return "bigint"
	case types.KindString:
		return "string"
	case types.KindSymbol:
		return "symbol"
	case types.KindAny:
		return "any"
	case types.KindUnknown:
		return "unknown"
	case types.KindNever:
		return "never"
	case types.KindNamed:
		// Identifiers may contain '$' and '_' (the lexer's isAlpha), the
		// characters Mangle uses as separators, so the name is
		// length-prefixed: otherwise [Named "a_Nb"] and [Named "a",
		// Named "b"] would both mangle to "$Na_Nb".
		return fmt.Sprintf("N%d%s", len(t.Name), t.Name)
	case types.KindTypeVar:
		// A TypeVar reaching Mangle means monomorphization is being asked
		// to specialize with an unresolved parameter; nothing in
		// worklist.go checks for it. It is length-prefixed like Named.
		return fmt.Sprintf("V%d%s", len(t.Name), t.Name)
	case types.KindArray:
		return "A<" + mangleType(t.Elem) + ">"
	case types.KindTuple:
		return "T<" + mangleList(t.Elems) + ">"
	case types.KindPromise:
		return "P<" + mangleType(t.Elem) + ">"
	case types.KindUnion:
		return "U<" + mangleList(t.Elems) + ">"
	case types.KindObject:
		var b strings.Builder
		b.WriteString("O")
		if t.ObjName != "" {
			b.WriteString(t.ObjName)
		}
		b.WriteString("{")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s:%s", f.Name, mangleType(f.Type))
			if f.Optional {
				b.WriteString("?")
			}
		}
		b.WriteString("}")
		return b.String()
	case types.KindFunction:
		var b strings.Builder
		b.WriteString("F(")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(mangleType(p.Type))
		}
		b.WriteString(")=>")
		b.WriteString(mangleType(t.Return))
		return b.String()
	case types.KindGeneric:
		return mangleType(t.Base) + "<" + mangleList(t.Args) + ">"
	default:
		return "?"
	}
}

func mangleList(ts []*types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = mangleType(t)
	}
	return strings.Join(parts, ",")
}
