package vm

import "strings"

import "testing"

func TestDisassembleListsOneLinePerInstruction(t *testing.T) {
	fn := NewFunction(LocalCounts{Ints: 2}, []Instruction{
		IntConstantLoad(0, 1),
		ReturnValue(1),
	})

	out := Disassemble(fn)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "INT_CONST_LOAD") {
		t.Errorf("line 0 = %q, want it to mention INT_CONST_LOAD", lines[0])
	}
	if !strings.Contains(lines[1], "RETURN_VALUE") {
		t.Errorf("line 1 = %q, want it to mention RETURN_VALUE", lines[1])
	}
}

func TestDisassembleCallFormatsArguments(t *testing.T) {
	fn := NewFunction(LocalCounts{Ints: 2, Funcs: 1}, []Instruction{
		Call(0, 1, IntArg(0)),
	})

	out := Disassemble(fn)
	if !strings.Contains(out, "F0(I0), I1") {
		t.Errorf("disassembly = %q, want it to contain %q", out, "F0(I0), I1")
	}
}
