package hostconfig

import (
	"errors"

	"github.com/probevm/probevm/vm"
)

// ErrStepBudgetExceeded is returned by BoundedEngine.Invoke when the
// configured step budget is exhausted before the program returns.
var ErrStepBudgetExceeded = errors.New("hostconfig: step budget exceeded")

// BoundedEngine wraps a *vm.Engine with a dispatch-loop step counter, the
// concrete realisation of "a host that wishes to bound execution may wrap
// the loop with a step counter and abort after a budget" — entirely outside
// the engine's own contract, via vm.Engine's StepHook.
type BoundedEngine struct {
	engine *vm.Engine
	budget uint64
}

// NewBoundedEngine wraps engine with a step budget. A budget of zero means
// unbounded: the hook is never installed.
func NewBoundedEngine(engine *vm.Engine, budget uint64) *BoundedEngine {
	return &BoundedEngine{engine: engine, budget: budget}
}

// Invoke runs fn against argument, aborting with ErrStepBudgetExceeded if
// the dispatch loop runs more than the configured budget of iterations.
func (b *BoundedEngine) Invoke(fn *vm.Function, argument int64) (int64, error) {
	if b.budget == 0 {
		return b.engine.Invoke(fn, argument)
	}

	var steps uint64
	b.engine.StepHook = func() error {
		steps++
		if steps > b.budget {
			return ErrStepBudgetExceeded
		}
		return nil
	}
	defer func() { b.engine.StepHook = nil }()

	return b.engine.Invoke(fn, argument)
}
