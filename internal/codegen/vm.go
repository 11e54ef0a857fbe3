package codegen

import (
	"fmt"

	"github.com/skelpo/perryc/internal/mir"
)

// VM is the portable backend alongside the linux/amd64 ELF emitter: it
// interprets mir.Module
// directly, with no linker or object-file step, and is what the test suite
// exercises end-to-end without needing a real linker on the build machine.
// The driver does not use it: it always emits an ELF object.
type VM struct {
	mod   *mir.Module
	funcs map[string]*mir.Func
}

// NewVM prepares an interpreter over mod.
func NewVM(mod *mir.Module) *VM {
	vm := &VM{mod: mod, funcs: make(map[string]*mir.Func)}
	for _, f := range mod.Funcs {
		vm.funcs[f.Name] = f
	}
	return vm
}

// Closure is the VM's runtime representation of a compiled closure value,
// mirroring the `{code_ptr, captures[...]}` record.
type Closure struct {
	FuncName string
	Captures []any
}

// Run executes funcName with args and returns its result value (nil for a
// void/undefined return).
func (vm *VM) Run(funcName string, args []any) (any, error) {
	fn, ok := vm.funcs[funcName]
	if !ok {
		return nil, fmt.Errorf("codegen/vm: function %q not found", funcName)
	}
	return vm.call(fn, args)
}

func (vm *VM) call(fn *mir.Func, args []any) (any, error) {
	frame := &vmFrame{
		vm:     vm,
		fn:     fn,
		locals: make([]any, fn.NumLocals),
		values: make(map[mir.ValueID]any),
	}
	copy(frame.locals, args)
	return frame.run(fn.Entry)
}

type vmFrame struct {
	vm     *VM
	fn     *mir.Func
	locals []any
	values map[mir.ValueID]any
}

func (f *vmFrame) run(blockID mir.BlockID) (any, error) {
	for {
		blk := f.fn.Block(blockID)
		if blk == nil {
			return nil, fmt.Errorf("codegen/vm: %s: missing block %d", f.fn.Name, blockID)
		}
		for _, instr := range blk.Instrs {
			if err := f.exec(instr); err != nil {
				return nil, err
			}
		}
		switch term := blk.Term.(type) {
		case mir.Ret:
			if !term.HasValue {
				return nil, nil
			}
			return f.values[term.Value], nil
		case mir.Jump:
			blockID = term.Target
			continue
		case mir.Branch:
			if truthy(f.values[term.Cond]) {
				blockID = term.Then
			} else {
				blockID = term.Else
			}
			continue
		case mir.Unreachable:
			return nil, fmt.Errorf("codegen/vm: %s: reached an unreachable block", f.fn.Name)
		default:
			return nil, fmt.Errorf("codegen/vm: %s: block %d has no terminator", f.fn.Name, blockID)
		}
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int32:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func (f *vmFrame) exec(in *mir.Instr) error {
	switch in.Op {
	case mir.OpConstF64:
		f.values[in.ID] = in.ImmF64
	case mir.OpConstI32:
		f.values[in.ID] = in.ImmI32
	case mir.OpConstBool:
		f.values[in.ID] = in.ImmBool
	case mir.OpConstString:
		f.values[in.ID] = in.ImmString
	case mir.OpConstNull, mir.OpConstUndefined:
		f.values[in.ID] = nil

	case mir.OpLocalGet:
		f.values[in.ID] = f.locals[in.LocalIndex]
	case mir.OpLocalSet:
		f.locals[in.LocalIndex] = f.values[in.Args[0]]

	case mir.OpAddF64:
		f.values[in.ID] = f.num(in.Args[0]) + f.num(in.Args[1])
	case mir.OpSubF64:
		f.values[in.ID] = f.num(in.Args[0]) - f.num(in.Args[1])
	case mir.OpMulF64:
		f.values[in.ID] = f.num(in.Args[0]) * f.num(in.Args[1])
	case mir.OpDivF64:
		f.values[in.ID] = f.num(in.Args[0]) / f.num(in.Args[1])
	case mir.OpAddString:
		f.values[in.ID] = fmt.Sprint(f.values[in.Args[0]]) + fmt.Sprint(f.values[in.Args[1]])
	case mir.OpAddDynamic:
		f.values[in.ID] = dynamicAdd(f.values[in.Args[0]], f.values[in.Args[1]])
	case mir.OpNeg:
		f.values[in.ID] = -f.num(in.Args[0])
	case mir.OpNot:
		f.values[in.ID] = !truthy(f.values[in.Args[0]])

	case mir.OpCmpEq:
		f.values[in.ID] = f.values[in.Args[0]] == f.values[in.Args[1]]
	case mir.OpCmpNeq:
		f.values[in.ID] = f.values[in.Args[0]] != f.values[in.Args[1]]
	case mir.OpCmpLt:
		f.values[in.ID] = f.num(in.Args[0]) < f.num(in.Args[1])
	case mir.OpCmpGt:
		f.values[in.ID] = f.num(in.Args[0]) > f.num(in.Args[1])
	case mir.OpCmpLeq:
		f.values[in.ID] = f.num(in.Args[0]) <= f.num(in.Args[1])
	case mir.OpCmpGeq:
		f.values[in.ID] = f.num(in.Args[0]) >= f.num(in.Args[1])

	case mir.OpCallDirect:
		target, ok := f.vm.funcs[in.CalleeName]
		if !ok {
			return fmt.Errorf("codegen/vm: call to unknown function %q", in.CalleeName)
		}
		callArgs := make([]any, len(in.Args))
		for i, a := range in.Args {
			callArgs[i] = f.values[a]
		}
		result, err := f.vm.call(target, callArgs)
		if err != nil {
			return err
		}
		f.values[in.ID] = result

	case mir.OpNewClosure:
		f.values[in.ID] = &Closure{FuncName: in.CalleeName}

	case mir.OpCallIndirect:
		cl, ok := f.values[in.Args[0]].(*Closure)
		if !ok {
			return fmt.Errorf("codegen/vm: indirect call target is not a closure")
		}
		target, ok := f.vm.funcs[cl.FuncName]
		if !ok {
			return fmt.Errorf("codegen/vm: closure targets unknown function %q", cl.FuncName)
		}
		callArgs := make([]any, 0, len(in.Args)-1+len(cl.Captures))
		callArgs = append(callArgs, cl.Captures...)
		for _, a := range in.Args[1:] {
			callArgs = append(callArgs, f.values[a])
		}
		result, err := f.vm.call(target, callArgs)
		if err != nil {
			return err
		}
		f.values[in.ID] = result

	default:
		return fmt.Errorf("codegen/vm: opcode %v not supported by the VM backend", in.Op)
	}
	return nil
}

func (f *vmFrame) num(id mir.ValueID) float64 {
	switch v := f.values[id].(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	default:
		return 0
	}
}

func dynamicAdd(a, b any) any {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr || bIsStr {
		if !aIsStr {
			as = fmt.Sprint(a)
		}
		if !bIsStr {
			bs = fmt.Sprint(b)
		}
		return as + bs
	}
	af, _ := a.(float64)
	bf, _ := b.(float64)
	return af + bf
}
