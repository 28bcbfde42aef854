package vm

import "fmt"

// Validate performs a static check of every invariant in §3 of the core's
// data model that can be verified without executing the program: operand
// indices in range for their register kind, jump targets in range for
// their enclosing function, and constant/global pool indices in range.
//
// This is not required by the dispatch loop — engine.go already rejects
// any violation at the instruction that would trigger it, wrapped in
// ErrMalformedProgram — but a host that wants to reject a bad program
// before spending any gas/time on it can call Validate once at load time
// instead of discovering the same fault mid-execution.
func (p *Program) Validate() error {
	for fi, fn := range p.Functions {
		if err := fn.validate(p, fi); err != nil {
			return err
		}
	}
	for gi, g := range p.Globals {
		if g.Valid() && (g.Index() < 0 || g.Index() >= len(p.Functions)) {
			return fmt.Errorf("program: global %d references out-of-range function %d", gi, g.Index())
		}
	}
	return nil
}

func (fn *Function) validate(p *Program, fi int) error {
	locals := fn.Locals
	for ii, ins := range fn.Code {
		loc := func(what string) string { return fmt.Sprintf("function %d instruction %d: %s", fi, ii, what) }

		inRange := func(kind RegisterKind, idx int) bool {
			switch kind {
			case KindInt:
				return idx >= 0 && idx < locals.Ints
			case KindBool:
				return idx >= 0 && idx < locals.Bools
			case KindFunc:
				return idx >= 0 && idx < locals.Funcs
			}
			return false
		}

		switch ins.Op {
		case OpReturn:
			// Reserved/unimplemented; structurally valid, fatal at runtime.
		case OpReturnValue:
			if !inRange(KindInt, ins.A) {
				return fmt.Errorf("%s: int register %d out of range", loc("ReturnValue"), ins.A)
			}
		case OpJump:
			if ins.Target < 0 || ins.Target > len(fn.Code) {
				return fmt.Errorf("%s: jump target %d out of range", loc("Jump"), ins.Target)
			}
		case OpJumpIfFalse:
			if !inRange(KindBool, ins.A) {
				return fmt.Errorf("%s: bool register %d out of range", loc("JumpIfFalse"), ins.A)
			}
			if ins.Target < 0 || ins.Target > len(fn.Code) {
				return fmt.Errorf("%s: jump target %d out of range", loc("JumpIfFalse"), ins.Target)
			}
		case OpIntConstantLoad:
			if ins.A < 0 || ins.A >= len(p.Constants) {
				return fmt.Errorf("%s: constant index %d out of range", loc("IntConstantLoad"), ins.A)
			}
			if !inRange(KindInt, ins.B) {
				return fmt.Errorf("%s: int register %d out of range", loc("IntConstantLoad"), ins.B)
			}
		case OpIntMove:
			if !inRange(KindInt, ins.A) || !inRange(KindInt, ins.B) {
				return fmt.Errorf("%s: int register out of range", loc("IntMove"))
			}
		case OpIntAdd, OpIntSub, OpIntMul:
			if !inRange(KindInt, ins.A) || !inRange(KindInt, ins.B) || !inRange(KindInt, ins.C) {
				return fmt.Errorf("%s: int register out of range", loc(ins.Op.String()))
			}
		case OpIntLess, OpIntLessEq, OpIntEqual, OpIntGreaterEq, OpIntGreater:
			if !inRange(KindInt, ins.A) || !inRange(KindInt, ins.B) {
				return fmt.Errorf("%s: int register out of range", loc(ins.Op.String()))
			}
			if !inRange(KindBool, ins.C) {
				return fmt.Errorf("%s: bool register %d out of range", loc(ins.Op.String()), ins.C)
			}
		case OpTrue, OpFalse:
			if !inRange(KindBool, ins.A) {
				return fmt.Errorf("%s: bool register %d out of range", loc(ins.Op.String()), ins.A)
			}
		case OpGlobalFuncLoad:
			if ins.A < 0 || ins.A >= len(p.Globals) {
				return fmt.Errorf("%s: global index %d out of range", loc("GlobalFuncLoad"), ins.A)
			}
			if !inRange(KindFunc, ins.B) {
				return fmt.Errorf("%s: func register %d out of range", loc("GlobalFuncLoad"), ins.B)
			}
		case OpCall:
			if !inRange(KindFunc, ins.A) {
				return fmt.Errorf("%s: func register %d out of range", loc("Call"), ins.A)
			}
			if !inRange(KindInt, ins.B) {
				return fmt.Errorf("%s: result register %d out of range", loc("Call"), ins.B)
			}
			for _, arg := range ins.Args {
				if !inRange(arg.Kind, arg.Src) {
					return fmt.Errorf("%s: %s argument register %d out of range", loc("Call"), arg.Kind, arg.Src)
				}
			}
		default:
			return fmt.Errorf("%s: unknown opcode %d", loc("?"), ins.Op)
		}
	}
	return nil
}
