package hostconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probevm/probevm/vm"
)

func longRunningLoop() *vm.Program {
	// A tight infinite loop: Jump(0) back to itself forever.
	fn := vm.NewFunction(vm.LocalCounts{}, []vm.Instruction{vm.Jump(0)})
	return vm.NewProgram(nil, nil, []*vm.Function{fn})
}

func TestBoundedEngineAbortsOnBudgetExhaustion(t *testing.T) {
	prog := longRunningLoop()
	bounded := NewBoundedEngine(vm.NewEngine(prog), 100)

	_, err := bounded.Invoke(prog.Functions[0], 0)
	require.ErrorIs(t, err, ErrStepBudgetExceeded)
}

func TestBoundedEngineUnboundedWhenZero(t *testing.T) {
	fn := vm.NewFunction(vm.LocalCounts{Ints: 1}, []vm.Instruction{vm.ReturnValue(0)})
	prog := vm.NewProgram(nil, nil, []*vm.Function{fn})

	bounded := NewBoundedEngine(vm.NewEngine(prog), 0)
	got, err := bounded.Invoke(fn, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}

func TestBoundedEngineAllowsProgramsWithinBudget(t *testing.T) {
	fn := vm.NewFunction(vm.LocalCounts{Ints: 1}, []vm.Instruction{vm.ReturnValue(0)})
	prog := vm.NewProgram(nil, nil, []*vm.Function{fn})

	bounded := NewBoundedEngine(vm.NewEngine(prog), 1000)
	got, err := bounded.Invoke(fn, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), got)
}
