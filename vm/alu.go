package vm

import (
	"github.com/lookbusy1344/sparc-edu-toolchain/decoder"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// resolveRs2 resolves an ALU/Memory instruction's second source operand:
// the sign-extended immediate when i=1, else the named register.
func resolveRs2(inst *decoder.Instruction, cpu *CPU) uint32 {
	if inst.HasImm {
		return uint32(inst.Imm)
	}
	return cpu.GetRegister(inst.Rs2)
}

// execALU carries out one decoded ALU-class instruction, per the
// arithmetic semantics of spec.md section 4.10.
func (v *VM) execALU(inst *decoder.Instruction) error {
	switch inst.Op3 {
	case isa.Op3Rd:
		v.CPU.SetRegister(inst.Rd, v.CPU.CCR.ToWord())
		return nil
	case isa.Op3Wr:
		rs1 := v.CPU.GetRegister(inst.Rs1)
		v.CPU.CCR.FromWord(rs1 ^ resolveRs2(inst, v.CPU))
		return nil
	case isa.Op3Jmpl:
		target := v.CPU.GetRegister(inst.Rs1) + resolveRs2(inst, v.CPU)
		v.CPU.SetRegister(inst.Rd, v.CPU.PC+4)
		v.nextBranchDisp = int32(target) - int32(v.CPU.PC)
		return nil
	case isa.Op3Ta:
		return v.trap()
	case isa.Op3Rett:
		v.CPU.TrapsOn = true
		target := v.CPU.GetRegister(inst.Rs1) + resolveRs2(inst, v.CPU)
		v.nextBranchDisp = int32(target) - int32(v.CPU.PC)
		return nil
	case isa.Op3Sll, isa.Op3Srl, isa.Op3Sra:
		return v.execShift(inst)
	default:
		return v.execArith(inst)
	}
}

func (v *VM) execShift(inst *decoder.Instruction) error {
	rs1 := v.CPU.GetRegister(inst.Rs1)
	count := resolveRs2(inst, v.CPU) & 0x1F
	var result uint32
	switch inst.Op3 {
	case isa.Op3Sll:
		result = rs1 << count
	case isa.Op3Srl:
		result = rs1 >> count
	case isa.Op3Sra:
		result = uint32(int32(rs1) >> count)
	}
	v.CPU.SetRegister(inst.Rd, result)
	return nil
}

func (v *VM) execArith(inst *decoder.Instruction) error {
	rs1 := v.CPU.GetRegister(inst.Rs1)
	rs2 := resolveRs2(inst, v.CPU)
	var result uint32
	setCC := false
	logical := false

	switch inst.Op3 {
	case isa.Op3Add:
		result = rs1 + rs2
	case isa.Op3AddCC:
		result = rs1 + rs2
		setCC = true
	case isa.Op3Sub:
		result = rs1 - rs2
	case isa.Op3SubCC:
		result = rs1 - rs2
		setCC = true
	case isa.Op3And:
		result = rs1 & rs2
	case isa.Op3AndCC:
		result = rs1 & rs2
		setCC, logical = true, true
	case isa.Op3AndN:
		result = rs1 &^ rs2
	case isa.Op3AndNCC:
		result = rs1 &^ rs2
		setCC, logical = true, true
	case isa.Op3Or:
		result = rs1 | rs2
	case isa.Op3OrCC:
		result = rs1 | rs2
		setCC, logical = true, true
	case isa.Op3OrN:
		result = rs1 | ^rs2
	case isa.Op3OrNCC:
		result = rs1 | ^rs2
		setCC, logical = true, true
	case isa.Op3Xor:
		result = rs1 ^ rs2
	case isa.Op3XorCC:
		result = rs1 ^ rs2
		setCC, logical = true, true
	case isa.Op3Xnor:
		result = ^(rs1 ^ rs2)
	case isa.Op3XnorCC:
		result = ^(rs1 ^ rs2)
		setCC, logical = true, true
	default:
		return &FaultError{Kind: FaultInvalidOperands, Message: "unimplemented ALU op3"}
	}

	v.CPU.SetRegister(inst.Rd, result)

	if setCC {
		n := int32(result) < 0
		z := result == 0
		var c, vflag bool
		switch {
		case logical:
			c, vflag = false, false
		case inst.Op3 == isa.Op3AddCC:
			sameSign := (rs1 >> 31) == (rs2 >> 31)
			vflag = sameSign && (result>>31) != (rs1 >> 31)
			c = uint64(rs1)+uint64(rs2) > 0xFFFFFFFF
		default: // subcc
			vflag = (rs1>>31) != (rs2>>31) && (result>>31) != (rs1 >> 31)
			c = rs1 < rs2
		}
		v.CPU.CCR = CCR{N: n, Z: z, V: vflag, C: c}
	}
	return nil
}
