package vm

// This file holds the value domain: the three kinds of value an
// instruction can name, and the operations defined over them. Unlike the
// teacher VM this core is distilled from — which keeps one heterogeneous
// 64-bit register file — the engine keeps three separately typed banks (see
// bank.go) so that every operand is already type-indexed by the opcode that
// names it; there is no runtime tag to check or dispatch on in the hot
// loop. Integer arithmetic below is the only place a Value "operation" is
// written as a function instead of being inlined straight into engine.go's
// switch; the dispatch loop is its only caller.

// addInt, subInt and mulInt implement two's-complement wrapping arithmetic
// on a signed machine word. Go's int64 already wraps on overflow for these
// operators, so no explicit masking is needed; this is deliberate, per the
// core's contract — a full runtime would trap on overflow, but gas-metered
// trapping is a host concern layered above this engine, not the core's job.
func addInt(l, r int64) int64 { return l + r }
func subInt(l, r int64) int64 { return l - r }
func mulInt(l, r int64) int64 { return l * r }

// FuncHandle is an opaque, immutable reference to a Function within a
// Program. It is modelled as an index into Program.Functions rather than a
// pointer: the referent is addressed, not owned, which keeps a Program
// relocatable and serialisable (see package loader) without entangling
// frame lifetimes with function lifetimes. The empty handle (the zero
// value) holds no function; Valid reports whether a handle was built by
// NewFuncHandle rather than being the empty handle.
type FuncHandle struct {
	valid bool
	index int
}

// EmptyFuncHandle is the zero-value, non-referencing handle that every
// func-register slot starts out holding.
var EmptyFuncHandle = FuncHandle{}

// NewFuncHandle returns a handle referencing the function at index within
// whatever Program it is later resolved against.
func NewFuncHandle(index int) FuncHandle {
	return FuncHandle{valid: true, index: index}
}

// Valid reports whether h references a function, as opposed to being the
// empty handle every func register starts out holding.
func (h FuncHandle) Valid() bool { return h.valid }

// Index returns the referenced function's position in Program.Functions.
// Only meaningful when Valid reports true.
func (h FuncHandle) Index() int { return h.index }
