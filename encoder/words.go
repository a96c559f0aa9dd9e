package encoder

import "github.com/lookbusy1344/sparc-edu-toolchain/isa"

// sethiWord builds the SETHI format: 00 | rd(5) | 100 | imm22.
func sethiWord(rd int, imm22 uint32) uint32 {
	return isa.OpBranchOrSethi<<30 | uint32(rd)<<25 | isa.Op2Sethi<<22 | (imm22 & 0x3FFFFF)
}

// branchWord builds the Bicc format: 00 | 0 | cond(4) | 010 | disp22.
func branchWord(cond uint32, disp22 uint32) uint32 {
	return isa.OpBranchOrSethi<<30 | cond<<25 | isa.Op2Branch<<22 | (disp22 & 0x3FFFFF)
}

// callWord builds the CALL format: 01 | disp30.
func callWord(disp30 uint32) uint32 {
	return isa.OpCall<<30 | (disp30 & 0x3FFFFFFF)
}

// threeOperandWord builds the shared ALU/Memory format:
// op(2) | rd(5) | op3(6) | rs1(5) | i(1) | (simm13 or zero-extended rs2).
func threeOperandWord(op uint32, rd int, op3 uint32, rs1 int, immFlag bool, rs2OrImm uint32) uint32 {
	word := op<<30 | uint32(rd)<<25 | op3<<19 | uint32(rs1)<<14
	if immFlag {
		word |= 1 << 13
		word |= rs2OrImm & 0x1FFF
	} else {
		word |= rs2OrImm & 0x1F
	}
	return word
}
