package decoder

import (
	"fmt"

	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// Disassemble renders a decoded instruction at address pc as a tokenised
// mnemonic line, matching the surface syntax the assembler accepts.
func Disassemble(pc int64, word uint32) string {
	inst, err := Decode(word)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", word)
	}

	switch inst.Class {
	case isa.ClassHalt:
		return "halt"
	case isa.ClassSethi:
		return fmt.Sprintf("sethi %d, %s", inst.Imm, isa.RegisterName(inst.Rd))
	case isa.ClassBranch:
		target := pc + int64(inst.Disp)
		return fmt.Sprintf("%s 0x%08x", inst.Mnemonic, uint32(target))
	case isa.ClassCall:
		target := pc + int64(inst.Disp)
		return fmt.Sprintf("call 0x%08x", uint32(target))
	case isa.ClassALU:
		return disassembleALU(inst)
	case isa.ClassMemory:
		return disassembleMemory(inst)
	default:
		return fmt.Sprintf(".word 0x%08x", word)
	}
}

func rs2OrImm(inst *Instruction) string {
	if inst.HasImm {
		return fmt.Sprintf("%d", inst.Imm)
	}
	return isa.RegisterName(inst.Rs2)
}

func disassembleALU(inst *Instruction) string {
	switch inst.Op3 {
	case isa.Op3Rd:
		return fmt.Sprintf("rd %%psr, %s", isa.RegisterName(inst.Rd))
	case isa.Op3Wr:
		return fmt.Sprintf("wr %s, %s, %%psr", isa.RegisterName(inst.Rs1), rs2OrImm(inst))
	case isa.Op3Jmpl:
		if inst.HasImm && inst.Imm != 0 {
			return fmt.Sprintf("jmpl %s+%d, %s", isa.RegisterName(inst.Rs1), inst.Imm, isa.RegisterName(inst.Rd))
		}
		return fmt.Sprintf("jmpl %s, %s", isa.RegisterName(inst.Rs1), isa.RegisterName(inst.Rd))
	case isa.Op3Ta, isa.Op3Rett:
		if inst.Rs1 == 0 {
			return fmt.Sprintf("%s %s", inst.Mnemonic, rs2OrImm(inst))
		}
		return fmt.Sprintf("%s %s, %s", inst.Mnemonic, isa.RegisterName(inst.Rs1), rs2OrImm(inst))
	default:
		return fmt.Sprintf("%s %s, %s, %s", inst.Mnemonic, isa.RegisterName(inst.Rs1), rs2OrImm(inst), isa.RegisterName(inst.Rd))
	}
}

func disassembleMemory(inst *Instruction) string {
	var addr string
	if inst.HasImm {
		if inst.Rs1 == 0 {
			addr = fmt.Sprintf("[%d]", inst.Imm)
		} else {
			addr = fmt.Sprintf("[%s+%d]", isa.RegisterName(inst.Rs1), inst.Imm)
		}
	} else {
		addr = fmt.Sprintf("[%s+%s]", isa.RegisterName(inst.Rs1), isa.RegisterName(inst.Rs2))
	}

	if inst.Store {
		return fmt.Sprintf("%s %s, %s", inst.Mnemonic, isa.RegisterName(inst.Rd), addr)
	}
	return fmt.Sprintf("%s %s, %s", inst.Mnemonic, addr, isa.RegisterName(inst.Rd))
}
