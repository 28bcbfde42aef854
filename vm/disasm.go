package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of fn's instructions, one
// per line, prefixed with its code offset. It is a debugging aid only — the
// engine never parses its own output — adapted from the flat per-opcode
// formatting the teacher VM used for its packed-word bytecode, generalised
// here to the struct-based Instruction.
func Disassemble(fn *Function) string {
	var b strings.Builder
	for i, ins := range fn.Code {
		fmt.Fprintf(&b, "[%04d] %-16s %s\n", i, ins.Op, formatOperands(ins))
	}
	return b.String()
}

func formatOperands(ins Instruction) string {
	switch ins.Op {
	case OpReturn:
		return ""
	case OpReturnValue:
		return fmt.Sprintf("I%d", ins.A)
	case OpJump:
		return fmt.Sprintf("-> %d", ins.Target)
	case OpJumpIfFalse:
		return fmt.Sprintf("B%d, -> %d", ins.A, ins.Target)
	case OpIntConstantLoad:
		return fmt.Sprintf("const[%d], I%d", ins.A, ins.B)
	case OpIntMove:
		return fmt.Sprintf("I%d, I%d", ins.A, ins.B)
	case OpIntAdd, OpIntSub, OpIntMul:
		return fmt.Sprintf("I%d, I%d, I%d", ins.A, ins.B, ins.C)
	case OpIntLess, OpIntLessEq, OpIntEqual, OpIntGreaterEq, OpIntGreater:
		return fmt.Sprintf("I%d, I%d, B%d", ins.A, ins.B, ins.C)
	case OpTrue, OpFalse:
		return fmt.Sprintf("B%d", ins.A)
	case OpGlobalFuncLoad:
		return fmt.Sprintf("global[%d], F%d", ins.A, ins.B)
	case OpCall:
		args := make([]string, len(ins.Args))
		for i, a := range ins.Args {
			args[i] = fmt.Sprintf("%s%d", kindPrefix(a.Kind), a.Src)
		}
		return fmt.Sprintf("F%d(%s), I%d", ins.A, strings.Join(args, ", "), ins.B)
	default:
		return ""
	}
}

func kindPrefix(k RegisterKind) string {
	switch k {
	case KindInt:
		return "I"
	case KindBool:
		return "B"
	case KindFunc:
		return "F"
	default:
		return "?"
	}
}
