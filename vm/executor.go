package vm

import (
	"fmt"

	"github.com/lookbusy1344/sparc-edu-toolchain/decoder"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// VM ties a CPU to its memory and runs the fetch-decode-execute loop of
// spec.md section 4.10.
type VM struct {
	CPU    *CPU
	Memory *Memory

	Halted bool
	Steps  uint64

	// Stats, when non-nil, accumulates instruction and branch counters.
	// Attach one with SetStatistics before running; a nil Stats collects
	// nothing and costs Step() nothing beyond the nil check.
	Stats *Statistics

	nextBranchDisp int32
}

// NewVM wires a fresh CPU to mem (callers share one Memory across restarts
// via Memory.Clear rather than reallocating it).
func NewVM(mem *Memory) *VM {
	return &VM{CPU: NewCPU(), Memory: mem}
}

// SetStatistics attaches a counter set that Step will update from this
// point on. Pass nil to stop collecting.
func (v *VM) SetStatistics(s *Statistics) {
	v.Stats = s
	v.Memory.SetStatistics(s)
}

// Step executes exactly one instruction, per the per-step algorithm of
// spec.md section 4.10: console tick, fetch, zero-word nop shortcut,
// decode+execute, then pc advance (by the branch displacement the routine
// set, or by 4). A decode or execute fault still advances pc by 4 before it
// is returned; a fetch fault leaves pc unchanged.
func (v *VM) Step() error {
	if v.Halted {
		return fmt.Errorf("step: vm is halted")
	}

	v.Memory.TickConsole()

	word, err := v.Memory.Read(v.CPU.PC, 4)
	if err != nil {
		return &FaultError{Kind: FaultAlignment, PC: v.CPU.PC, Message: err.Error()}
	}

	if word == 0 {
		v.CPU.PC += 4
		v.CPU.Cycles++
		return nil
	}

	inst, decErr := decoder.Decode(word)
	if decErr != nil {
		v.CPU.PC += 4
		return &FaultError{Kind: FaultInvalidOperands, PC: v.CPU.PC - 4, Message: decErr.Error()}
	}

	if inst.Class == isa.ClassHalt {
		// pc is left pointing at the halt instruction itself, not
		// advanced past it.
		v.Halted = true
		return nil
	}

	v.Stats.recordInstruction(inst.Mnemonic)

	v.nextBranchDisp = 0
	execErr := v.dispatch(inst)

	if execErr != nil {
		v.CPU.PC += 4
		v.nextBranchDisp = 0
		return execErr
	}

	if inst.Class == isa.ClassBranch {
		v.Stats.recordBranch(v.nextBranchDisp != 0)
	}

	if v.nextBranchDisp != 0 {
		v.CPU.PC = uint32(int32(v.CPU.PC) + v.nextBranchDisp)
		v.nextBranchDisp = 0
	} else {
		v.CPU.PC += 4
	}
	v.CPU.Cycles++
	v.Steps++
	return nil
}

func (v *VM) dispatch(inst *decoder.Instruction) error {
	switch inst.Class {
	case isa.ClassSethi:
		v.CPU.SetRegister(inst.Rd, uint32(inst.Imm)<<10)
		return nil
	case isa.ClassBranch:
		v.execBranch(inst.Cond, inst.Disp)
		return nil
	case isa.ClassCall:
		v.execCall(inst.Disp)
		return nil
	case isa.ClassALU:
		return v.execALU(inst)
	case isa.ClassMemory:
		return v.execMemory(inst)
	default:
		return &FaultError{Kind: FaultInvalidOperands, PC: v.CPU.PC, Message: "undispatchable instruction class"}
	}
}
