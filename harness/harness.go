package harness

import (
	"fmt"

	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

// BatchSize is how many instructions Run executes before yielding control
// back to its caller, per spec.md section 4.12.
const BatchSize = 500

// StopReason describes why a Run call returned.
type StopReason int

const (
	// StopHalt means the program executed "halt".
	StopHalt StopReason = iota
	// StopBreakpoint means a breakpoint (or its condition) fired.
	StopBreakpoint
	// StopWatchpoint means a watched value changed.
	StopWatchpoint
	// StopRequested means the caller's stop flag was observed between batches.
	StopRequested
	// StopFault means the executor raised an error.
	StopFault
	// StopBudget means InstructionLimit instructions executed with no other stop.
	StopBudget
)

func (r StopReason) String() string {
	switch r {
	case StopHalt:
		return "halt"
	case StopBreakpoint:
		return "breakpoint"
	case StopWatchpoint:
		return "watchpoint"
	case StopRequested:
		return "requested"
	case StopFault:
		return "fault"
	case StopBudget:
		return "budget"
	default:
		return "unknown"
	}
}

// RunResult reports how a Run call ended.
type RunResult struct {
	Reason      StopReason
	Detail      string
	Instruction uint64 // total instructions executed across the whole run
	Err         error  // non-nil only when Reason == StopFault
}

// Harness wraps a vm.VM with the debugging surface spec.md section 4.12
// describes: breakpoints, watchpoints, command history, and a batched run
// loop that yields to its host periodically so stop requests and
// keystrokes can be delivered between batches.
type Harness struct {
	VM          *vm.VM
	Breakpoints *BreakpointSet
	Watchpoints *WatchpointSet
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator
	Symbols     map[string]uint32

	// InstructionLimit caps a single Run call when nonzero, mainly for
	// tests and for "run until N instructions" tooling; zero means no cap.
	InstructionLimit uint64
}

// New wires a fresh harness around machine.
func New(machine *vm.VM) *Harness {
	return &Harness{
		VM:          machine,
		Breakpoints: NewBreakpointSet(),
		Watchpoints: NewWatchpointSet(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
		Symbols:     make(map[string]uint32),
	}
}

// Step executes exactly one instruction, ignoring breakpoints entirely
// (the caller asked for precisely this instruction).
func (h *Harness) Step() error {
	return h.VM.Step()
}

// checkStop evaluates breakpoints and watchpoints at the current pc. skipBreak
// suppresses the breakpoint check for the first instruction of a batch, so
// resuming from a stop at a breakpoint does not immediately re-trigger it.
func (h *Harness) checkStop(skipBreak bool) (bool, StopReason, string) {
	pc := h.VM.CPU.PC

	if !skipBreak {
		if stop, reason, detail := h.checkBreakpoint(pc); stop {
			return stop, reason, detail
		}
	}

	if wp, changed := h.Watchpoints.Check(h.VM); changed {
		return true, StopWatchpoint, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, 0, ""
}

// checkBreakpoint reports whether execution should stop for a breakpoint
// installed at pc. It returns stop=false both when there is no breakpoint
// there and when one exists but its condition didn't match, in which case
// the caller falls through to the watchpoint check.
func (h *Harness) checkBreakpoint(pc uint32) (stop bool, reason StopReason, detail string) {
	bp := h.Breakpoints.Get(pc)
	if bp == nil || !bp.Enabled {
		return false, 0, ""
	}

	if bp.Condition != "" {
		matched, err := h.Evaluator.Evaluate(bp.Condition, h.VM, h.Symbols)
		if err != nil {
			return true, StopBreakpoint, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
		}
		if !matched {
			return false, 0, ""
		}
	}

	hit := h.Breakpoints.hit(pc)
	return true, StopBreakpoint, fmt.Sprintf("breakpoint %d", hit.ID)
}

// Run executes instructions in batches of BatchSize, per spec.md section
// 4.12: before each instruction it checks watchpoints, and breakpoints
// except on the very first instruction of a batch (so resuming from a
// breakpoint stop does not immediately re-trigger the same breakpoint).
// shouldStop is polled once between batches and lets the host request an
// early return (a keystroke delivery point, an interrupt button, a test
// deadline); it may be nil.
func (h *Harness) Run(shouldStop func() bool) RunResult {
	var executed uint64

	for {
		for i := 0; i < BatchSize; i++ {
			if h.VM.Halted {
				return RunResult{Reason: StopHalt, Instruction: executed}
			}

			if stop, reason, detail := h.checkStop(i == 0); stop {
				return RunResult{Reason: reason, Detail: detail, Instruction: executed}
			}

			if err := h.VM.Step(); err != nil {
				return RunResult{Reason: StopFault, Detail: err.Error(), Instruction: executed, Err: err}
			}
			executed++

			if h.VM.Halted {
				return RunResult{Reason: StopHalt, Instruction: executed}
			}

			if h.InstructionLimit != 0 && executed >= h.InstructionLimit {
				return RunResult{Reason: StopBudget, Instruction: executed}
			}
		}

		if shouldStop != nil && shouldStop() {
			return RunResult{Reason: StopRequested, Instruction: executed}
		}
	}
}
