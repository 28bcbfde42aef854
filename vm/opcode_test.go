package vm

import "testing"

func TestOpCodeStringKnown(t *testing.T) {
	cases := map[OpCode]string{
		OpReturn:          "RETURN",
		OpReturnValue:     "RETURN_VALUE",
		OpJump:            "JUMP",
		OpJumpIfFalse:     "JUMP_IF_FALSE",
		OpIntConstantLoad: "INT_CONST_LOAD",
		OpIntMove:         "INT_MOVE",
		OpIntAdd:          "INT_ADD",
		OpIntSub:          "INT_SUB",
		OpIntMul:          "INT_MUL",
		OpIntLess:         "INT_LESS",
		OpIntLessEq:       "INT_LESS_EQ",
		OpIntEqual:        "INT_EQUAL",
		OpIntGreaterEq:    "INT_GREATER_EQ",
		OpIntGreater:      "INT_GREATER",
		OpTrue:            "TRUE",
		OpFalse:           "FALSE",
		OpGlobalFuncLoad:  "GLOBAL_FUNC_LOAD",
		OpCall:            "CALL",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("OpCode(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestOpCodeStringUnknown(t *testing.T) {
	if got := opcodeCount.String(); got != "UNKNOWN" {
		t.Errorf("opcodeCount.String() = %q, want UNKNOWN", got)
	}
	if got := OpCode(255).String(); got != "UNKNOWN" {
		t.Errorf("OpCode(255).String() = %q, want UNKNOWN", got)
	}
}

func TestOpcodeTableCoversEveryDefinedOpcode(t *testing.T) {
	for op := OpCode(0); op < opcodeCount; op++ {
		if opcodeTable[op].name == "" {
			t.Errorf("opcodeTable[%d] has no name entry", op)
		}
	}
}
