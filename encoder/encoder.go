package encoder

import (
	"fmt"

	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// EncodeInstruction assembles one instruction line into its 32-bit machine
// word. mnemonic and operandLiterals come pre-split from the tokenizer;
// synthetic mnemonics are expanded before any real encoding happens.
// ev must be in lenient mode (spec.md section 4.4's pass-2 ForwardOrUndefined
// rule): an unresolved symbol degrades to a warning and evaluates as 0
// rather than aborting assembly.
func EncodeInstruction(mnemonic string, operandLiterals []string, pc int64, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	realName, realOperands, err := asm.ExpandSynthetic(mnemonic, operandLiterals)
	if err != nil {
		return 0, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
	}

	m, ok := isa.Lookup(realName)
	if !ok {
		return 0, asm.NewError(pos, asm.ErrUnknownMnemonic, "unknown mnemonic: "+realName)
	}

	ops := reclassifyAll(realOperands)
	if len(ops) < m.MinOperands || len(ops) > m.MaxOperands {
		return 0, asm.NewError(pos, asm.ErrInvalidOperands,
			fmt.Sprintf("%s expects %d-%d operands, got %d", m.Name, m.MinOperands, m.MaxOperands, len(ops)))
	}

	switch m.Class {
	case isa.ClassSethi:
		return encodeSethi(ops, ev, pos)
	case isa.ClassBranch:
		return encodeBranch(m, ops, pc, ev, pos)
	case isa.ClassCall:
		return encodeCall(ops, pc, ev, pos)
	case isa.ClassALU:
		return encodeALU(m, ops, ev, pos)
	case isa.ClassMemory:
		return encodeMemory(m, ops, ev, pos)
	case isa.ClassHalt:
		return isa.HaltWord, nil
	default:
		return 0, asm.NewError(pos, asm.ErrInvalidOperands, "unencodable instruction class")
	}
}

func requireRegister(op operand, pos asm.Position, role string) (int, error) {
	if op.kind != operandRegister {
		return 0, asm.NewError(pos, asm.ErrInvalidOperands, role+" must be a register, got "+op.literal)
	}
	n, err := isa.ParseRegister(op.literal)
	if err != nil {
		return 0, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
	}
	return n, nil
}

// regOrImm resolves an operand that may be either a register (the i=0 rs2
// form) or an expression (the i=1 simm13 form).
func regOrImm(op operand, ev *asm.Evaluator, pos asm.Position) (immFlag bool, val uint32, err error) {
	if op.kind == operandRegister {
		n, err := isa.ParseRegister(op.literal)
		if err != nil {
			return false, 0, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
		}
		return false, uint32(n) & 0x1F, nil
	}
	v, err := ev.Evaluate(op.literal)
	if err != nil {
		return false, 0, err
	}
	return true, uint32(v) & 0x1FFF, nil
}

func encodeSethi(ops []operand, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	imm, err := ev.Evaluate(ops[0].literal)
	if err != nil {
		return 0, err
	}
	rd, err := requireRegister(ops[1], pos, "sethi destination")
	if err != nil {
		return 0, err
	}
	return sethiWord(rd, uint32(imm)), nil
}

func encodeBranch(m *isa.Mnemonic, ops []operand, pc int64, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	target, err := ev.Evaluate(ops[0].literal)
	if err != nil {
		return 0, err
	}
	delta := target - pc
	if delta%4 != 0 {
		return 0, asm.NewError(pos, asm.ErrAlignment, "branch target is not word-aligned relative to pc")
	}
	disp22 := uint32(delta/4) & 0x3FFFFF
	return branchWord(m.Condition, disp22), nil
}

func encodeCall(ops []operand, pc int64, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	target, err := ev.Evaluate(ops[0].literal)
	if err != nil {
		return 0, err
	}
	delta := target - pc
	if delta%4 != 0 {
		return 0, asm.NewError(pos, asm.ErrAlignment, "call target is not word-aligned relative to pc")
	}
	disp30 := uint32(delta/4) & 0x3FFFFFFF
	return callWord(disp30), nil
}

func encodeALU(m *isa.Mnemonic, ops []operand, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	switch m.Op3 {
	case isa.Op3Rd:
		// rd %psr, %rD
		rd, err := requireRegister(ops[1], pos, "rd destination")
		if err != nil {
			return 0, err
		}
		return threeOperandWord(isa.OpALU, rd, m.Op3, 0, false, 0), nil

	case isa.Op3Wr:
		// wr %rs1, rs2-or-imm, %psr
		rs1, err := requireRegister(ops[0], pos, "wr source")
		if err != nil {
			return 0, err
		}
		immFlag, val, err := regOrImm(ops[1], ev, pos)
		if err != nil {
			return 0, err
		}
		return threeOperandWord(isa.OpALU, 0, m.Op3, rs1, immFlag, val), nil

	case isa.Op3Jmpl:
		// jmpl ADDR, %rD
		addr, err := parseMemAddr(ops[0].literal, pos)
		if err != nil {
			return 0, err
		}
		rs1, immFlag, val, _, err := addr.resolve(ev, pos)
		if err != nil {
			return 0, err
		}
		rd, err := requireRegister(ops[1], pos, "jmpl destination")
		if err != nil {
			return 0, err
		}
		return threeOperandWord(isa.OpALU, rd, m.Op3, rs1, immFlag, val), nil

	case isa.Op3Ta, isa.Op3Rett:
		// one operand: rs2-or-imm, rs1 implied %r0
		// two operands: rs1, rs2-or-imm
		if len(ops) == 1 {
			immFlag, val, err := regOrImm(ops[0], ev, pos)
			if err != nil {
				return 0, err
			}
			return threeOperandWord(isa.OpALU, 0, m.Op3, 0, immFlag, val), nil
		}
		rs1, err := requireRegister(ops[0], pos, m.Name+" rs1")
		if err != nil {
			return 0, err
		}
		immFlag, val, err := regOrImm(ops[1], ev, pos)
		if err != nil {
			return 0, err
		}
		return threeOperandWord(isa.OpALU, 0, m.Op3, rs1, immFlag, val), nil

	default:
		// generic three-operand ALU form: %rs1, rs2-or-imm, %rD
		rs1, err := requireRegister(ops[0], pos, m.Name+" rs1")
		if err != nil {
			return 0, err
		}
		immFlag, val, err := regOrImm(ops[1], ev, pos)
		if err != nil {
			return 0, err
		}
		rd, err := requireRegister(ops[2], pos, m.Name+" rd")
		if err != nil {
			return 0, err
		}
		return threeOperandWord(isa.OpALU, rd, m.Op3, rs1, immFlag, val), nil
	}
}

func encodeMemory(m *isa.Mnemonic, ops []operand, ev *asm.Evaluator, pos asm.Position) (uint32, error) {
	var addrLiteral string
	var dataReg operand
	if m.Store {
		dataReg = ops[0]
		addrLiteral = ops[1].literal
	} else {
		addrLiteral = ops[0].literal
		dataReg = ops[1]
	}

	rd, err := requireRegister(dataReg, pos, m.Name+" register operand")
	if err != nil {
		return 0, err
	}

	addr, err := parseMemAddr(addrLiteral, pos)
	if err != nil {
		return 0, err
	}
	rs1, immFlag, val, constAddr, err := addr.resolve(ev, pos)
	if err != nil {
		return 0, err
	}

	if constAddr != nil && *constAddr%int64(m.Width) != 0 {
		return 0, asm.NewError(pos, asm.ErrAlignment,
			fmt.Sprintf("address %#x is not aligned to %d bytes", *constAddr, m.Width))
	}

	return threeOperandWord(isa.OpMemory, rd, m.MemOp3, rs1, immFlag, val), nil
}
