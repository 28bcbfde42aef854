package vm

// LocalCounts is the static shape of a function's local storage: the number
// of int, bool, and func registers its frame allocates. It is fixed at
// compile time and never changes for the lifetime of a frame built from it.
type LocalCounts struct {
	Ints  int
	Bools int
	Funcs int
}

// Bank holds the three parallel, fixed-size register arrays local to one
// call frame. Sizes come from the owning function's LocalCounts; ints are
// zero-initialised, bools are false-initialised, and func slots start
// holding the empty handle. No bank is ever resized after construction.
type Bank struct {
	Ints  []int64
	Bools []bool
	Funcs []FuncHandle
}

// NewBank allocates a zero-valued register bank sized for d.
func NewBank(d LocalCounts) Bank {
	return Bank{
		Ints:  make([]int64, d.Ints),
		Bools: make([]bool, d.Bools),
		Funcs: make([]FuncHandle, d.Funcs),
	}
}

// BindArguments implements the calling convention: it copies the k-th
// argument of each kind from the caller's bank into position k of the same
// kind in dst, where k counts only arguments of that kind in args' order.
// Integer arguments land at dst.Ints[0], dst.Ints[1], ...; booleans and func
// handles are packed the same way, independently per kind. There is no
// range checking beyond what slice indexing provides — a malformed argument
// list (too many of one kind, or an out-of-range Src) is a caller error, not
// something this method detects.
func (src Bank) BindArguments(args []Argument, dst Bank) {
	var nextInt, nextBool, nextFunc int
	for _, arg := range args {
		switch arg.Kind {
		case KindInt:
			dst.Ints[nextInt] = src.Ints[arg.Src]
			nextInt++
		case KindBool:
			dst.Bools[nextBool] = src.Bools[arg.Src]
			nextBool++
		case KindFunc:
			dst.Funcs[nextFunc] = src.Funcs[arg.Src]
			nextFunc++
		}
	}
}
