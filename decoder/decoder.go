// Package decoder is the formal inverse of encoder: it turns a 32-bit
// machine word back into a typed instruction record, shared by the
// executor's dispatch loop and by disassembly listings (spec.md section
// 4.8).
package decoder

import (
	"fmt"

	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// Instruction is a decoded machine word. Only the fields relevant to its
// Class are meaningful; the rest are left at their zero value.
type Instruction struct {
	Mnemonic string
	Class    isa.OpClass

	Rd, Rs1, Rs2 int
	HasImm       bool
	Imm          int32 // sign-extended simm13, or raw imm22 for sethi
	Disp         int32 // branch/call displacement in bytes (already *4)
	Cond         uint32
	Op3          uint32
	MemOp3       uint32
	Store        bool
	Width        isa.MemWidth
	Signed       bool
	ZeroExt      bool
}

var (
	branchByCond = map[uint32]*isa.Mnemonic{}
	aluByOp3     = map[uint32]*isa.Mnemonic{}
	memByOp3     = map[[2]uint32]*isa.Mnemonic{} // key: {op3, store-as-0-or-1}
)

func init() {
	for _, m := range isa.Table {
		switch m.Class {
		case isa.ClassBranch:
			branchByCond[m.Condition] = m
		case isa.ClassALU:
			aluByOp3[m.Op3] = m
		case isa.ClassMemory:
			store := uint32(0)
			if m.Store {
				store = 1
			}
			memByOp3[[2]uint32{m.MemOp3, store}] = m
		}
	}
}

// signExtend widens the low bits-wide field of v to a signed 32-bit value.
func signExtend(v uint32, bits int) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Decode inverts the encoder for one machine word. Unknown bit patterns
// (no registered mnemonic for the decoded op2/op3/condition) are reported
// as an error rather than silently treated as a no-op; the executor's
// "all-zero word is a nop" shortcut is a fetch-time check that happens
// before Decode is ever called.
func Decode(word uint32) (*Instruction, error) {
	if word == isa.HaltWord {
		return &Instruction{Mnemonic: "halt", Class: isa.ClassHalt}, nil
	}

	op := (word >> 30) & 0x3
	switch op {
	case isa.OpBranchOrSethi:
		op2 := (word >> 22) & 0x7
		switch op2 {
		case isa.Op2Sethi:
			rd := int((word >> 25) & 0x1F)
			imm22 := word & 0x3FFFFF
			return &Instruction{Mnemonic: "sethi", Class: isa.ClassSethi, Rd: rd, HasImm: true, Imm: int32(imm22)}, nil
		case isa.Op2Branch:
			cond := (word >> 25) & 0xF
			m, ok := branchByCond[cond]
			if !ok {
				return nil, fmt.Errorf("decode: unknown branch condition %#x", cond)
			}
			disp22 := signExtend(word&0x3FFFFF, 22)
			return &Instruction{Mnemonic: m.Name, Class: isa.ClassBranch, Cond: cond, Disp: disp22 * 4}, nil
		default:
			return nil, fmt.Errorf("decode: unknown op2 %#x for op=00", op2)
		}

	case isa.OpCall:
		disp30 := signExtend(word&0x3FFFFFFF, 30)
		return &Instruction{Mnemonic: "call", Class: isa.ClassCall, Disp: disp30 * 4}, nil

	case isa.OpALU:
		rd := int((word >> 25) & 0x1F)
		op3 := (word >> 19) & 0x3F
		rs1 := int((word >> 14) & 0x1F)
		m, ok := aluByOp3[op3]
		if !ok {
			return nil, fmt.Errorf("decode: unknown ALU op3 %#x", op3)
		}
		inst := &Instruction{Mnemonic: m.Name, Class: isa.ClassALU, Rd: rd, Rs1: rs1, Op3: op3}
		if (word>>13)&0x1 == 1 {
			inst.HasImm = true
			inst.Imm = signExtend(word&0x1FFF, 13)
		} else {
			inst.Rs2 = int(word & 0x1F)
		}
		return inst, nil

	case isa.OpMemory:
		rd := int((word >> 25) & 0x1F)
		op3 := (word >> 19) & 0x3F
		rs1 := int((word >> 14) & 0x1F)
		var m *isa.Mnemonic
		var ok bool
		if m, ok = memByOp3[[2]uint32{op3, 1}]; !ok {
			m, ok = memByOp3[[2]uint32{op3, 0}]
		}
		if !ok {
			return nil, fmt.Errorf("decode: unknown memory op3 %#x", op3)
		}
		inst := &Instruction{
			Mnemonic: m.Name, Class: isa.ClassMemory, Rd: rd, Rs1: rs1,
			MemOp3: op3, Store: m.Store, Width: m.Width, Signed: m.Signed, ZeroExt: m.ZeroExt,
		}
		if (word>>13)&0x1 == 1 {
			inst.HasImm = true
			inst.Imm = signExtend(word&0x1FFF, 13)
		} else {
			inst.Rs2 = int(word & 0x1F)
		}
		return inst, nil
	}

	return nil, fmt.Errorf("decode: unreachable op %#x", op)
}
