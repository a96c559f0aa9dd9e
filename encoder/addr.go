// Package encoder implements assembler pass 2: it walks the same token
// stream as pass 1, but now with a fully populated symbol table, and emits
// one 32-bit machine word per instruction or data line (spec.md section
// 4.6-4.7).
package encoder

import (
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// memAddr is a parsed ADDR operand: one of the four effective-address forms
// spec.md section 4.7 allows for load/store/jmpl.
//   [imm]        -> pureImmediate, immExpr set
//   [%r]         -> base only
//   [%r1+%r2]    -> base + hasOffsetReg
//   [%r+imm]     -> base + immExpr
type memAddr struct {
	base          int
	hasOffsetReg  bool
	offsetReg     int
	immExpr       string
	pureImmediate bool
}

// parseMemAddr accepts the operand literal with or without surrounding
// brackets (load/jmpl addresses are always bracketed; store addresses may
// be given bare).
func parseMemAddr(literal string, pos asm.Position) (*memAddr, error) {
	s := literal
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil, asm.NewError(pos, asm.ErrInvalidOperands, "empty address operand")
	}

	if plus := strings.IndexByte(s, '+'); plus >= 0 {
		left, right := s[:plus], s[plus+1:]
		if !strings.HasPrefix(left, "%") {
			return nil, asm.NewError(pos, asm.ErrInvalidOperands, "address base must be a register: "+left)
		}
		baseReg, err := isa.ParseRegister(left)
		if err != nil {
			return nil, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
		}
		if strings.HasPrefix(right, "%") {
			offReg, err := isa.ParseRegister(right)
			if err != nil {
				return nil, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
			}
			return &memAddr{base: baseReg, hasOffsetReg: true, offsetReg: offReg}, nil
		}
		return &memAddr{base: baseReg, immExpr: right}, nil
	}

	if strings.HasPrefix(s, "%") {
		baseReg, err := isa.ParseRegister(s)
		if err != nil {
			return nil, asm.NewError(pos, asm.ErrInvalidOperands, err.Error())
		}
		return &memAddr{base: baseReg}, nil
	}

	return &memAddr{pureImmediate: true, immExpr: s}, nil
}

// resolve evaluates the address against ev, returning the rs1/i/rs2-or-imm
// triple the three-operand word formats need. constAddr is non-nil only
// when the address is a compile-time constant with no base register, which
// is the only case the encoder can alignment-check itself; register-based
// addresses are checked at run time by the simulator's memory model.
func (m *memAddr) resolve(ev *asm.Evaluator, pos asm.Position) (rs1 int, immFlag bool, rs2OrImm uint32, constAddr *int64, err error) {
	if m.hasOffsetReg {
		return m.base, false, uint32(m.offsetReg) & 0x1F, nil, nil
	}
	if m.pureImmediate {
		val, err := ev.Evaluate(m.immExpr)
		if err != nil {
			return 0, false, 0, nil, err
		}
		c := val
		return 0, true, uint32(val) & 0x1FFF, &c, nil
	}
	if m.immExpr != "" {
		val, err := ev.Evaluate(m.immExpr)
		if err != nil {
			return 0, false, 0, nil, err
		}
		return m.base, true, uint32(val) & 0x1FFF, nil, nil
	}
	return m.base, true, 0, nil, nil
}
