package vm

// Function is an immutable pair of a local-count descriptor and an ordered
// instruction sequence. It is constructed once by program assembly and
// never mutated afterward; every frame that executes it only reads Code and
// only ever allocates its own Bank sized from Locals.
type Function struct {
	Locals LocalCounts
	Code   []Instruction
}

// NewFunction builds a Function from its local-count descriptor and code.
func NewFunction(locals LocalCounts, code []Instruction) *Function {
	return &Function{Locals: locals, Code: code}
}

// Program aggregates everything the engine needs to run a Function: the
// constant pool, the global function-handle pool, and the function table
// those handles (and FuncHandle values produced by GlobalFuncLoad) index
// into. All three are read-only for the lifetime of an execution; nothing
// in package vm mutates them after NewProgram returns.
type Program struct {
	Constants []int64
	Globals   []FuncHandle
	Functions []*Function

	// Names is an optional name→function lookup, reserved for a future
	// collaborator (e.g. a host that resolves call targets by source name
	// before lowering them to FuncHandle indices). The core never reads it.
	Names map[string]*Function
}

// NewProgram builds a Program from externally supplied data: an ordered
// constant pool, an ordered global pool, and the ordered function table
// those globals (and any GlobalFuncLoad) index into. It performs no
// validation beyond what its caller already promises — see Program.Validate
// for an opt-in invariant check a host can run once at load time.
func NewProgram(constants []int64, globals []FuncHandle, functions []*Function) *Program {
	return &Program{
		Constants: constants,
		Globals:   globals,
		Functions: functions,
	}
}

// Function resolves a FuncHandle to the Function it names. The handle must
// be valid and in range; callers that accept handles from untrusted input
// should check Valid() and the index bound themselves first — Engine.call
// does exactly that before every call to Function.
func (p *Program) Function(h FuncHandle) *Function {
	return p.Functions[h.index]
}
