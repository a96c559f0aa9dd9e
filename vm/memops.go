package vm

import (
	"github.com/lookbusy1344/sparc-edu-toolchain/decoder"
)

// effectiveAddress computes rs1 + (rs2 or imm) for a decoded memory
// instruction.
func effectiveAddress(inst *decoder.Instruction, cpu *CPU) uint32 {
	return cpu.GetRegister(inst.Rs1) + resolveRs2(inst, cpu)
}

func (v *VM) execMemory(inst *decoder.Instruction) error {
	addr := effectiveAddress(inst, v.CPU)

	if inst.Store {
		value := v.CPU.GetRegister(inst.Rd)
		if err := v.Memory.Write(addr, value, int(inst.Width)); err != nil {
			return &FaultError{Kind: FaultAlignment, PC: v.CPU.PC, Message: err.Error()}
		}
		return nil
	}

	raw, err := v.Memory.Read(addr, int(inst.Width))
	if err != nil {
		return &FaultError{Kind: FaultAlignment, PC: v.CPU.PC, Message: err.Error()}
	}

	var value uint32
	switch {
	case inst.Signed:
		shift := uint(32 - 8*int(inst.Width))
		value = uint32(int32(raw<<shift) >> shift)
	case inst.ZeroExt:
		value = raw
	default:
		value = raw
	}
	v.CPU.SetRegister(inst.Rd, value)
	return nil
}
