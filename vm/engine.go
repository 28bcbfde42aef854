package vm

// Frame is a call-frame activation record: the register bank for the
// executing function, the function itself, the next-instruction pointer,
// and the index of the integer register in the *caller's* frame that should
// receive this frame's return value. A frame is created on entry (Invoke or
// OpCall) and destroyed on OpReturnValue/OpReturn; it is mutated only by
// its own executing instructions while it is the top of the call stack.
type Frame struct {
	function *Function
	bank     Bank
	ip       int
	returnTo int
}

func newFrame(fn *Function, returnTo int) *Frame {
	return &Frame{
		function: fn,
		bank:     NewBank(fn.Locals),
		returnTo: returnTo,
	}
}

// Engine holds the program-level state (constants, globals, function table)
// and the mutable call stack for one execution. It is strictly
// single-threaded and synchronous: a single Invoke runs to completion, or to
// a fatal error, before returning. Multiple Engines may share one *Program
// concurrently provided each owns its own call stack, since nothing in the
// dispatch loop ever mutates Program state.
type Engine struct {
	program *Program
	stack   []*Frame
	result  int64

	// StepHook, if non-nil, is called once per dispatch-loop iteration
	// before the fetched instruction executes. Returning a non-nil error
	// aborts the run immediately with that error, before the instruction
	// runs. This exists solely so a host can bound execution (a step
	// budget, a deadline) without the engine itself knowing what a
	// "budget" is — see hostconfig.BoundedEngine for the concrete use.
	StepHook func() error
}

// NewEngine creates an Engine bound to program. The returned Engine has no
// active call stack until Invoke is called.
func NewEngine(program *Program) *Engine {
	return &Engine{program: program}
}

// Invoke runs fn against a single integer argument and returns its result.
// It constructs a zeroed bank for fn, writes argument into ints[0] — the
// calling convention's first int parameter — if fn declares at least one int
// register (a zero-int-register function simply never sees the argument),
// pushes the initial frame with ip=0, and runs the dispatch loop until the
// call stack empties.
//
// The initial frame's returnTo is meaningless (there is no caller to
// receive a value); it is fixed at 0 and never read, since a pop of the
// last frame always stores into the engine's own result slot instead.
func (e *Engine) Invoke(fn *Function, argument int64) (int64, error) {
	frame := newFrame(fn, 0)
	if len(frame.bank.Ints) > 0 {
		frame.bank.Ints[0] = argument
	}

	e.stack = []*Frame{frame}
	e.result = 0

	if err := e.run(); err != nil {
		return 0, err
	}
	return e.result, nil
}

func (e *Engine) top() *Frame {
	return e.stack[len(e.stack)-1]
}

// run drives the dispatch loop: while the call stack is non-empty, fetch
// the next instruction from the top frame, advance ip, and execute it. The
// increment happens before execution so that control-flow instructions can
// overwrite ip with their own target — jumps always win over the
// just-applied +1, because the +1 already happened by the time a jump's
// handler runs.
func (e *Engine) run() error {
	for len(e.stack) > 0 {
		if e.StepHook != nil {
			if err := e.StepHook(); err != nil {
				return err
			}
		}

		frame := e.top()
		code := frame.function.Code

		if frame.ip >= len(code) {
			// Falling off the end of a function's code is an implicit
			// return with no value, per the core's contract for OpReturn.
			if err := e.popFrame(0, false); err != nil {
				return err
			}
			continue
		}

		op := code[frame.ip]
		frame.ip++

		if err := e.execute(frame, op); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execute(frame *Frame, ins Instruction) error {
	switch ins.Op {

	case OpReturn:
		return unimplementedOpcodeError(ins.Op)

	case OpReturnValue:
		idx := ins.A
		if idx < 0 || idx >= len(frame.bank.Ints) {
			return malformedProgramError("ReturnValue: int register %d out of range", idx)
		}
		return e.popFrame(idx, true)

	case OpJump:
		return e.jumpTo(frame, ins.Target)

	case OpJumpIfFalse:
		cond := ins.A
		if cond < 0 || cond >= len(frame.bank.Bools) {
			return malformedProgramError("JumpIfFalse: bool register %d out of range", cond)
		}
		if !frame.bank.Bools[cond] {
			return e.jumpTo(frame, ins.Target)
		}
		return nil

	case OpIntConstantLoad:
		constIdx, target := ins.A, ins.B
		if constIdx < 0 || constIdx >= len(e.program.Constants) {
			return malformedProgramError("IntConstantLoad: constant index %d out of range", constIdx)
		}
		if target < 0 || target >= len(frame.bank.Ints) {
			return malformedProgramError("IntConstantLoad: int register %d out of range", target)
		}
		frame.bank.Ints[target] = e.program.Constants[constIdx]
		return nil

	case OpIntMove:
		from, to := ins.A, ins.B
		if err := checkIntRegs(frame, from, to); err != nil {
			return err
		}
		frame.bank.Ints[to] = frame.bank.Ints[from]
		return nil

	case OpIntAdd, OpIntSub, OpIntMul:
		l, r, result := ins.A, ins.B, ins.C
		if err := checkIntRegs(frame, l, r, result); err != nil {
			return err
		}
		switch ins.Op {
		case OpIntAdd:
			frame.bank.Ints[result] = addInt(frame.bank.Ints[l], frame.bank.Ints[r])
		case OpIntSub:
			frame.bank.Ints[result] = subInt(frame.bank.Ints[l], frame.bank.Ints[r])
		case OpIntMul:
			frame.bank.Ints[result] = mulInt(frame.bank.Ints[l], frame.bank.Ints[r])
		}
		return nil

	case OpIntLess, OpIntLessEq, OpIntEqual, OpIntGreaterEq, OpIntGreater:
		l, r := ins.A, ins.B
		result := ins.C
		if l < 0 || l >= len(frame.bank.Ints) || r < 0 || r >= len(frame.bank.Ints) {
			return malformedProgramError("%s: int register out of range", ins.Op)
		}
		if result < 0 || result >= len(frame.bank.Bools) {
			return malformedProgramError("%s: bool register %d out of range", ins.Op, result)
		}
		lv, rv := frame.bank.Ints[l], frame.bank.Ints[r]
		var out bool
		switch ins.Op {
		case OpIntLess:
			out = lv < rv
		case OpIntLessEq:
			out = lv <= rv
		case OpIntEqual:
			out = lv == rv
		case OpIntGreaterEq:
			out = lv >= rv
		case OpIntGreater:
			out = lv > rv
		}
		frame.bank.Bools[result] = out
		return nil

	case OpTrue, OpFalse:
		idx := ins.A
		if idx < 0 || idx >= len(frame.bank.Bools) {
			return malformedProgramError("%s: bool register %d out of range", ins.Op, idx)
		}
		frame.bank.Bools[idx] = ins.Op == OpTrue
		return nil

	case OpGlobalFuncLoad:
		globalIdx, target := ins.A, ins.B
		if globalIdx < 0 || globalIdx >= len(e.program.Globals) {
			return malformedProgramError("GlobalFuncLoad: global index %d out of range", globalIdx)
		}
		if target < 0 || target >= len(frame.bank.Funcs) {
			return malformedProgramError("GlobalFuncLoad: func register %d out of range", target)
		}
		frame.bank.Funcs[target] = e.program.Globals[globalIdx]
		return nil

	case OpCall:
		return e.call(frame, ins)

	default:
		return unimplementedOpcodeError(ins.Op)
	}
}

// jumpTo validates target as a code offset before installing it. len(code)
// is itself a valid target: it terminates the function on the next fetch,
// the same as falling off the end without ever jumping.
func (e *Engine) jumpTo(frame *Frame, target int) error {
	if target < 0 || target > len(frame.function.Code) {
		return malformedProgramError("jump target %d out of range (code length %d)", target, len(frame.function.Code))
	}
	frame.ip = target
	return nil
}

func checkIntRegs(frame *Frame, regs ...int) error {
	for _, r := range regs {
		if r < 0 || r >= len(frame.bank.Ints) {
			return malformedProgramError("int register %d out of range", r)
		}
	}
	return nil
}

// call pushes a new frame for the function held in funcs[ins.A], binding
// ins.Args into the callee's bank per the calling convention, and records
// ins.B as the register in this (the caller's) frame that should receive
// the callee's eventual return value.
func (e *Engine) call(caller *Frame, ins Instruction) error {
	funcReg, resultReg := ins.A, ins.B
	if funcReg < 0 || funcReg >= len(caller.bank.Funcs) {
		return malformedProgramError("Call: func register %d out of range", funcReg)
	}
	if resultReg < 0 || resultReg >= len(caller.bank.Ints) {
		return malformedProgramError("Call: result register %d out of range", resultReg)
	}

	handle := caller.bank.Funcs[funcReg]
	if !handle.Valid() {
		return malformedProgramError("Call: func register %d holds no function", funcReg)
	}
	if handle.Index() < 0 || handle.Index() >= len(e.program.Functions) {
		return malformedProgramError("Call: function index %d out of range", handle.Index())
	}

	callee := e.program.Function(handle)
	calleeFrame := newFrame(callee, resultReg)

	var nInt, nBool, nFunc int
	for _, arg := range ins.Args {
		switch arg.Kind {
		case KindInt:
			if arg.Src < 0 || arg.Src >= len(caller.bank.Ints) {
				return malformedProgramError("Call: int argument register %d out of range", arg.Src)
			}
			nInt++
		case KindBool:
			if arg.Src < 0 || arg.Src >= len(caller.bank.Bools) {
				return malformedProgramError("Call: bool argument register %d out of range", arg.Src)
			}
			nBool++
		case KindFunc:
			if arg.Src < 0 || arg.Src >= len(caller.bank.Funcs) {
				return malformedProgramError("Call: func argument register %d out of range", arg.Src)
			}
			nFunc++
		}
	}
	if nInt > len(calleeFrame.bank.Ints) || nBool > len(calleeFrame.bank.Bools) || nFunc > len(calleeFrame.bank.Funcs) {
		return malformedProgramError("Call: argument list does not fit callee's register banks")
	}

	caller.bank.BindArguments(ins.Args, calleeFrame.bank)

	e.stack = append(e.stack, calleeFrame)
	return nil
}

// popFrame pops the top frame. When haveValue is true the value is read
// from the popped frame's ints[valueReg]; otherwise the popped frame
// contributes no value (OpReturn's semantics, once implemented, or falling
// off the end of a function's code). If the popped frame was the engine's
// last, the value becomes the final result; otherwise it is written to the
// new top frame's ints[returnTo].
func (e *Engine) popFrame(valueReg int, haveValue bool) error {
	popped := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	var value int64
	if haveValue {
		value = popped.bank.Ints[valueReg]
	}

	if len(e.stack) == 0 {
		e.result = value
		return nil
	}

	if haveValue {
		parent := e.top()
		if popped.returnTo < 0 || popped.returnTo >= len(parent.bank.Ints) {
			return malformedProgramError("return target register %d out of range in caller", popped.returnTo)
		}
		parent.bank.Ints[popped.returnTo] = value
	}
	return nil
}
