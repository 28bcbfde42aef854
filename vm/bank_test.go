package vm

import "testing"

func TestNewBankZeroInitialised(t *testing.T) {
	b := NewBank(LocalCounts{Ints: 3, Bools: 2, Funcs: 1})

	for i, v := range b.Ints {
		if v != 0 {
			t.Errorf("Ints[%d] = %d, want 0", i, v)
		}
	}
	for i, v := range b.Bools {
		if v != false {
			t.Errorf("Bools[%d] = %v, want false", i, v)
		}
	}
	for i, v := range b.Funcs {
		if v.Valid() {
			t.Errorf("Funcs[%d] = %v, want empty handle", i, v)
		}
	}
}

func TestBindArgumentsPacksByKindIndependently(t *testing.T) {
	src := NewBank(LocalCounts{Ints: 6, Bools: 2, Funcs: 2})
	src.Ints[3] = 100
	src.Ints[5] = 200
	src.Bools[1] = true
	src.Funcs[0] = NewFuncHandle(7)

	dst := NewBank(LocalCounts{Ints: 2, Bools: 1, Funcs: 1})

	src.BindArguments([]Argument{
		IntArg(3),
		BoolArg(1),
		IntArg(5),
		FuncArg(0),
	}, dst)

	if dst.Ints[0] != 100 || dst.Ints[1] != 200 {
		t.Fatalf("Ints = %v, want [100 200]", dst.Ints)
	}
	if !dst.Bools[0] {
		t.Fatalf("Bools[0] = false, want true")
	}
	if dst.Funcs[0].Index() != 7 {
		t.Fatalf("Funcs[0].Index() = %d, want 7", dst.Funcs[0].Index())
	}
}

func TestBindArgumentsEmptyList(t *testing.T) {
	src := NewBank(LocalCounts{Ints: 1})
	dst := NewBank(LocalCounts{})
	src.BindArguments(nil, dst) // must not panic
}
