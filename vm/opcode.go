// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// Package vm implements the PROBE language register-based execution core: a
// closed instruction set, three typed per-frame register banks, and the
// call-frame dispatch loop that interprets compiled functions.
//
// The package loads an already-compiled Program — functions, a constant
// pool, and a global function-handle pool — and executes a single entry
// function against one integer argument. Lexing, parsing, type checking and
// bytecode generation are upstream concerns handled by other collaborators;
// this package only runs what they produce.
package vm

// OpCode is an 8-bit tag identifying a PROBE core instruction. The set is
// closed: every instruction the engine understands has a case in the
// dispatch switch in engine.go, and no other opcode values are defined.
type OpCode uint8

const (
	// OpReturn pops the current frame without delivering a value to the
	// caller. No implementation exists yet in either upstream source this
	// core was distilled from; encountering it is a fatal, unimplemented
	// opcode until a no-value return protocol is specified.
	OpReturn OpCode = iota

	// OpReturnValue pops the current frame, reading the return value from
	// ints[A] of the popped frame. If the popped frame was the last one on
	// the stack the value becomes the engine's final result; otherwise it is
	// written to ints[returnTo] of the new top frame.
	OpReturnValue

	// OpJump sets ip unconditionally to Target.
	OpJump

	// OpJumpIfFalse sets ip to Target when bools[A] is false; otherwise
	// falls through to the next instruction.
	OpJumpIfFalse

	// OpIntConstantLoad sets ints[B] to constants[A].
	OpIntConstantLoad

	// OpIntMove sets ints[B] to ints[A].
	OpIntMove

	// OpIntAdd sets ints[C] to ints[A] + ints[B] (wrapping).
	OpIntAdd
	// OpIntSub sets ints[C] to ints[A] - ints[B] (wrapping).
	OpIntSub
	// OpIntMul sets ints[C] to ints[A] * ints[B] (wrapping).
	OpIntMul

	// OpIntLess sets bools[C] to ints[A] < ints[B].
	OpIntLess
	// OpIntLessEq sets bools[C] to ints[A] <= ints[B].
	OpIntLessEq
	// OpIntEqual sets bools[C] to ints[A] == ints[B].
	OpIntEqual
	// OpIntGreaterEq sets bools[C] to ints[A] >= ints[B].
	OpIntGreaterEq
	// OpIntGreater sets bools[C] to ints[A] > ints[B].
	OpIntGreater

	// OpTrue sets bools[A] to true.
	OpTrue
	// OpFalse sets bools[A] to false.
	OpFalse

	// OpGlobalFuncLoad sets funcs[B] to globals[A].
	OpGlobalFuncLoad

	// OpCall pushes a new frame for the function held in funcs[A], copying
	// Args into the callee's bank per the calling convention, and records B
	// as the caller's register to receive the eventual return value.
	OpCall

	opcodeCount
)

type opcodeInfo struct {
	name     string
	operands string // human-readable operand shape; Disassemble formats operands itself and does not read it
}

var opcodeTable = [opcodeCount]opcodeInfo{
	OpReturn:          {"RETURN", ""},
	OpReturnValue:     {"RETURN_VALUE", "I(A)"},
	OpJump:            {"JUMP", "target"},
	OpJumpIfFalse:     {"JUMP_IF_FALSE", "B(A), target"},
	OpIntConstantLoad: {"INT_CONST_LOAD", "const(A), I(B)"},
	OpIntMove:         {"INT_MOVE", "I(A), I(B)"},
	OpIntAdd:          {"INT_ADD", "I(A), I(B), I(C)"},
	OpIntSub:          {"INT_SUB", "I(A), I(B), I(C)"},
	OpIntMul:          {"INT_MUL", "I(A), I(B), I(C)"},
	OpIntLess:         {"INT_LESS", "I(A), I(B), B(C)"},
	OpIntLessEq:       {"INT_LESS_EQ", "I(A), I(B), B(C)"},
	OpIntEqual:        {"INT_EQUAL", "I(A), I(B), B(C)"},
	OpIntGreaterEq:    {"INT_GREATER_EQ", "I(A), I(B), B(C)"},
	OpIntGreater:      {"INT_GREATER", "I(A), I(B), B(C)"},
	OpTrue:            {"TRUE", "B(A)"},
	OpFalse:           {"FALSE", "B(A)"},
	OpGlobalFuncLoad:  {"GLOBAL_FUNC_LOAD", "global(A), F(B)"},
	OpCall:            {"CALL", "F(A), args, I(B)"},
}

// String returns the mnemonic used in disassembly and error messages.
func (op OpCode) String() string {
	if int(op) >= len(opcodeTable) {
		return "UNKNOWN"
	}
	return opcodeTable[op].name
}
