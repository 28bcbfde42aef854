package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probevm/probevm/vm"
)

func sampleProgram() *vm.Program {
	callee := vm.NewFunction(vm.LocalCounts{Ints: 2}, []vm.Instruction{
		vm.IntSub(0, 1, 0),
		vm.ReturnValue(0),
	})
	caller := vm.NewFunction(vm.LocalCounts{Ints: 3, Funcs: 1}, []vm.Instruction{
		vm.GlobalFuncLoad(0, 0),
		vm.IntConstantLoad(0, 1),
		vm.IntConstantLoad(1, 2),
		vm.Call(0, 0, vm.IntArg(1), vm.IntArg(2)),
		vm.ReturnValue(0),
	})
	return vm.NewProgram([]int64{10, 3}, []vm.FuncHandle{vm.NewFuncHandle(0)}, []*vm.Function{callee, caller})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleProgram()

	data, err := Encode(want, false)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, want.Constants, got.Constants)
	require.Len(t, got.Functions, len(want.Functions))
	for i, fn := range want.Functions {
		require.Equal(t, fn.Locals, got.Functions[i].Locals)
		require.Equal(t, fn.Code, got.Functions[i].Code)
	}
	for i, g := range want.Globals {
		require.Equal(t, g.Valid(), got.Globals[i].Valid())
		require.Equal(t, g.Index(), got.Globals[i].Index())
	}
}

func TestEncodeDecodeRoundTripCompressed(t *testing.T) {
	want := sampleProgram()

	data, err := Encode(want, true)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, want.Constants, got.Constants)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data, err := Encode(sampleProgram(), false)
	require.NoError(t, err)
	data[0] = 'X'

	_, err = Decode(data)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	data, err := Encode(sampleProgram(), false)
	require.NoError(t, err)
	data[4] = 99

	_, err = Decode(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	data, err := Encode(sampleProgram(), false)
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-3])
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCacheReturnsSamePointerForSameBytes(t *testing.T) {
	data, err := Encode(sampleProgram(), false)
	require.NoError(t, err)

	cache, err := NewCache(4)
	require.NoError(t, err)

	first, err := cache.Load(data)
	require.NoError(t, err)
	second, err := cache.Load(data)
	require.NoError(t, err)

	require.Same(t, first, second)
}

func TestCacheDistinguishesDifferentPayloads(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	dataA, err := Encode(sampleProgram(), false)
	require.NoError(t, err)
	dataB, err := Encode(sampleProgram(), true)
	require.NoError(t, err)

	a, err := cache.Load(dataA)
	require.NoError(t, err)
	b, err := cache.Load(dataB)
	require.NoError(t, err)

	require.NotSame(t, a, b)
	require.Equal(t, a.Constants, b.Constants)
}
