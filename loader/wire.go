package loader

import (
	"fmt"

	"github.com/golang/snappy"

	"github.com/probevm/probevm/vm"
)

// magic identifies a probevm program envelope, the direct descendant of the
// source lineage's own 4-byte contract-bytecode prefix.
var magic = [4]byte{'P', 'V', 'M', '1'}

const formatVersion = 1

const flagCompressed = 1 << 0

// Encode serialises p into the wire envelope: magic, version, flags, payload
// length, payload. When compress is true the payload is snappy-compressed
// and flagCompressed is set.
func Encode(p *vm.Program, compress bool) ([]byte, error) {
	payload := encodeProgram(p)

	flags := byte(0)
	if compress {
		payload = snappy.Encode(nil, payload)
		flags |= flagCompressed
	}

	out := make([]byte, 0, 4+1+1+4+len(payload))
	out = append(out, magic[:]...)
	out = append(out, formatVersion, flags)
	out = appendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	return out, nil
}

// Decode parses data as a program envelope and validates the result before
// returning it, so callers never observe a program that would trip one of
// the engine's own invariants.
func Decode(data []byte) (*vm.Program, error) {
	if len(data) < 4+1+1+4 {
		return nil, fmt.Errorf("%w: envelope too short", ErrInvalidFormat)
	}
	if data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	version := data[4]
	if version != formatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
	flags := data[5]
	length, rest := readUint32(data[6:])

	if uint32(len(rest)) < length {
		return nil, fmt.Errorf("%w: truncated payload", ErrInvalidFormat)
	}
	payload := rest[:length]

	if flags&flagCompressed != 0 {
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy: %v", ErrInvalidFormat, err)
		}
		payload = decoded
	}

	p, err := decodeProgram(payload)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return p, nil
}

// ---- payload codec -----------------------------------------------------------
//
// Pool, function and instruction counts and the local-count fields are
// little-endian uint32; a Call's argument count is a little-endian uint16;
// constants are little-endian 64-bit; instruction operands, argument source
// registers and handle indices are little-endian int32. The opcode, each
// argument's kind and each handle's validity flag are single bytes. This is
// deliberately simpler than a
// general-purpose serialisation library — the payload shape is fixed and
// fully described by vm.Program, so a hand-rolled codec is no less correct
// and has no schema-evolution machinery to misuse.

func encodeProgram(p *vm.Program) []byte {
	var out []byte

	out = appendUint32(out, uint32(len(p.Constants)))
	for _, c := range p.Constants {
		out = appendUint64(out, uint64(c))
	}

	out = appendUint32(out, uint32(len(p.Globals)))
	for _, g := range p.Globals {
		out = appendHandle(out, g)
	}

	out = appendUint32(out, uint32(len(p.Functions)))
	for _, fn := range p.Functions {
		out = appendFunction(out, fn)
	}
	return out
}

func decodeProgram(data []byte) (*vm.Program, error) {
	nConst, data, err := takeUint32(data)
	if err != nil {
		return nil, err
	}
	constants := make([]int64, nConst)
	for i := range constants {
		var v uint64
		v, data, err = takeUint64(data)
		if err != nil {
			return nil, err
		}
		constants[i] = int64(v)
	}

	nGlobal, data, err := takeUint32(data)
	if err != nil {
		return nil, err
	}
	globals := make([]vm.FuncHandle, nGlobal)
	for i := range globals {
		globals[i], data, err = takeHandle(data)
		if err != nil {
			return nil, err
		}
	}

	nFunc, data, err := takeUint32(data)
	if err != nil {
		return nil, err
	}
	functions := make([]*vm.Function, nFunc)
	for i := range functions {
		functions[i], data, err = takeFunction(data)
		if err != nil {
			return nil, err
		}
	}

	return vm.NewProgram(constants, globals, functions), nil
}

func appendFunction(out []byte, fn *vm.Function) []byte {
	out = appendUint32(out, uint32(fn.Locals.Ints))
	out = appendUint32(out, uint32(fn.Locals.Bools))
	out = appendUint32(out, uint32(fn.Locals.Funcs))
	out = appendUint32(out, uint32(len(fn.Code)))
	for _, ins := range fn.Code {
		out = appendInstruction(out, ins)
	}
	return out
}

func takeFunction(data []byte) (*vm.Function, []byte, error) {
	ints, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	bools, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	funcs, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	nCode, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	code := make([]vm.Instruction, nCode)
	for i := range code {
		code[i], data, err = takeInstruction(data)
		if err != nil {
			return nil, nil, err
		}
	}
	locals := vm.LocalCounts{Ints: int(ints), Bools: int(bools), Funcs: int(funcs)}
	return vm.NewFunction(locals, code), data, nil
}

func appendInstruction(out []byte, ins vm.Instruction) []byte {
	out = append(out, byte(ins.Op))
	out = appendUint32(out, uint32(int32(ins.A)))
	out = appendUint32(out, uint32(int32(ins.B)))
	out = appendUint32(out, uint32(int32(ins.C)))
	out = appendUint32(out, uint32(int32(ins.Target)))
	out = append(out, byte(len(ins.Args)), byte(len(ins.Args)>>8))
	for _, arg := range ins.Args {
		out = append(out, byte(arg.Kind))
		out = appendUint32(out, uint32(int32(arg.Src)))
	}
	return out
}

func takeInstruction(data []byte) (vm.Instruction, []byte, error) {
	if len(data) < 1 {
		return vm.Instruction{}, nil, fmt.Errorf("%w: truncated instruction", ErrInvalidFormat)
	}
	op := vm.OpCode(data[0])
	data = data[1:]

	a, data, err := takeInt32(data)
	if err != nil {
		return vm.Instruction{}, nil, err
	}
	b, data, err := takeInt32(data)
	if err != nil {
		return vm.Instruction{}, nil, err
	}
	c, data, err := takeInt32(data)
	if err != nil {
		return vm.Instruction{}, nil, err
	}
	target, data, err := takeInt32(data)
	if err != nil {
		return vm.Instruction{}, nil, err
	}
	if len(data) < 2 {
		return vm.Instruction{}, nil, fmt.Errorf("%w: truncated argument count", ErrInvalidFormat)
	}
	nArgs := int(data[0]) | int(data[1])<<8
	data = data[2:]

	var args []vm.Argument
	if nArgs > 0 {
		args = make([]vm.Argument, nArgs)
	}
	for i := range args {
		if len(data) < 1 {
			return vm.Instruction{}, nil, fmt.Errorf("%w: truncated argument", ErrInvalidFormat)
		}
		kind := vm.RegisterKind(data[0])
		data = data[1:]
		var src int
		src, data, err = takeInt32(data)
		if err != nil {
			return vm.Instruction{}, nil, err
		}
		args[i] = vm.Argument{Kind: kind, Src: src}
	}

	ins := vm.Instruction{Op: op, A: a, B: b, C: c, Target: target, Args: args}
	return ins, data, nil
}

func appendHandle(out []byte, h vm.FuncHandle) []byte {
	if !h.Valid() {
		return append(out, 0, 0, 0, 0, 0)
	}
	out = append(out, 1)
	return appendUint32(out, uint32(int32(h.Index())))
}

func takeHandle(data []byte) (vm.FuncHandle, []byte, error) {
	if len(data) < 1 {
		return vm.FuncHandle{}, nil, fmt.Errorf("%w: truncated handle", ErrInvalidFormat)
	}
	valid := data[0]
	data = data[1:]
	idx, data, err := takeInt32(data)
	if err != nil {
		return vm.FuncHandle{}, nil, err
	}
	if valid == 0 {
		return vm.EmptyFuncHandle, data, nil
	}
	return vm.NewFuncHandle(idx), data, nil
}

// ---- little-endian primitives -------------------------------------------------

func appendUint32(out []byte, v uint32) []byte {
	return append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64(out []byte, v uint64) []byte {
	return append(out,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

func readUint32(data []byte) (uint32, []byte) {
	v := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	return v, data[4:]
}

func takeUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("%w: truncated uint32", ErrInvalidFormat)
	}
	v, rest := readUint32(data)
	return v, rest, nil
}

func takeInt32(data []byte) (int, []byte, error) {
	v, rest, err := takeUint32(data)
	if err != nil {
		return 0, nil, err
	}
	return int(int32(v)), rest, nil
}

func takeUint64(data []byte) (uint64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("%w: truncated uint64", ErrInvalidFormat)
	}
	v := uint64(data[0]) | uint64(data[1])<<8 | uint64(data[2])<<16 | uint64(data[3])<<24 |
		uint64(data[4])<<32 | uint64(data[5])<<40 | uint64(data[6])<<48 | uint64(data[7])<<56
	return v, data[8:], nil
}
