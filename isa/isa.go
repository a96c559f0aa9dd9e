// Package isa holds the static descriptor table for every mnemonic of the
// SPARC-derived ISA: primary op, op2/op3/condition fields, operand arity,
// memory role, and the expansion template for synthetic mnemonics.
package isa

import "strings"

// OpClass groups mnemonics by their primary 2-bit op and encoding shape.
type OpClass int

const (
	ClassSethi OpClass = iota
	ClassBranch
	ClassCall
	ClassALU
	ClassMemory
	ClassHalt
)

// Primary op field values (bits 31-30).
const (
	OpBranchOrSethi uint32 = 0b00
	OpCall          uint32 = 0b01
	OpALU           uint32 = 0b10
	OpMemory        uint32 = 0b11
)

// op2 field values for the op=00 primary op.
const (
	Op2Branch uint32 = 0b010
	Op2Sethi  uint32 = 0b100
)

// HaltWord is the distinguished all-ones instruction word.
const HaltWord uint32 = 0xFFFFFFFF

// Branch condition codes (4 bits), authentic SPARC icc encodings.
const (
	CondN   uint32 = 0x0 // never
	CondE   uint32 = 0x1
	CondLE  uint32 = 0x2
	CondL   uint32 = 0x3
	CondLEU uint32 = 0x4
	CondCS  uint32 = 0x5
	CondNEG uint32 = 0x6
	CondVS  uint32 = 0x7
	CondA   uint32 = 0x8 // always
	CondNE  uint32 = 0x9
	CondG   uint32 = 0xA
	CondGE  uint32 = 0xB
	CondGU  uint32 = 0xC
	CondCC  uint32 = 0xD
	CondPOS uint32 = 0xE
	CondVC  uint32 = 0xF
)

// ALU op3 values (6 bits).
const (
	Op3Add     uint32 = 0x00
	Op3AddCC   uint32 = 0x10
	Op3And     uint32 = 0x01
	Op3AndCC   uint32 = 0x11
	Op3AndN    uint32 = 0x05
	Op3AndNCC  uint32 = 0x15
	Op3Or      uint32 = 0x02
	Op3OrCC    uint32 = 0x12
	Op3OrN     uint32 = 0x06
	Op3OrNCC   uint32 = 0x16
	Op3Xor     uint32 = 0x03
	Op3XorCC   uint32 = 0x13
	Op3Xnor    uint32 = 0x07
	Op3XnorCC  uint32 = 0x17
	Op3Sub     uint32 = 0x04
	Op3SubCC   uint32 = 0x14
	Op3Sll     uint32 = 0x25
	Op3Srl     uint32 = 0x26
	Op3Sra     uint32 = 0x27
	Op3Jmpl    uint32 = 0x38
	Op3Rett    uint32 = 0x39
	Op3Ta      uint32 = 0x3A
	Op3Rd      uint32 = 0x28
	Op3Wr      uint32 = 0x30
)

// Memory op3 values (6 bits, shared with load-width/store-flag).
const (
	Op3Ld   uint32 = 0x00
	Op3Ldub uint32 = 0x01
	Op3Lduh uint32 = 0x02
	Op3St   uint32 = 0x04
	Op3Stb  uint32 = 0x05
	Op3Sth  uint32 = 0x06
	Op3Ldsb uint32 = 0x09
	Op3Ldsh uint32 = 0x0A
)

// MemWidth is the access size in bytes for a memory mnemonic.
type MemWidth int

const (
	WidthByte MemWidth = 1
	WidthHalf MemWidth = 2
	WidthWord MemWidth = 4
)

// Mnemonic fully describes one real (non-synthetic) instruction.
type Mnemonic struct {
	Name  string
	Class OpClass

	// ClassBranch
	Condition uint32

	// ClassALU
	Op3 uint32

	// ClassMemory
	MemOp3  uint32
	Store   bool
	Width   MemWidth
	Signed  bool // sign-extend on load (ldsb, ldsh); ld is already full-word
	ZeroExt bool // zero-extend on load (ldub, lduh)

	// Arity hints used by the encoder/parser for operand-shape validation.
	// Most ALU/memory forms are checked structurally instead of by a bare count.
	MinOperands int
	MaxOperands int
}

// Table is the full set of real mnemonics, keyed by uppercase name.
var Table = map[string]*Mnemonic{}

func reg(m *Mnemonic) { Table[strings.ToUpper(m.Name)] = m }

func init() {
	reg(&Mnemonic{Name: "sethi", Class: ClassSethi, MinOperands: 2, MaxOperands: 2})

	for name, cond := range map[string]uint32{
		"ba": CondA, "bn": CondN, "be": CondE, "bne": CondNE,
		"bg": CondG, "bge": CondGE, "bl": CondL, "ble": CondLE,
		"bgu": CondGU, "bleu": CondLEU, "bcc": CondCC, "bcs": CondCS,
		"bpos": CondPOS, "bneg": CondNEG, "bvc": CondVC, "bvs": CondVS,
	} {
		reg(&Mnemonic{Name: name, Class: ClassBranch, Condition: cond, MinOperands: 1, MaxOperands: 1})
	}

	reg(&Mnemonic{Name: "call", Class: ClassCall, MinOperands: 1, MaxOperands: 1})

	for name, op3 := range map[string]uint32{
		"add": Op3Add, "addcc": Op3AddCC,
		"and": Op3And, "andcc": Op3AndCC,
		"andn": Op3AndN, "andncc": Op3AndNCC,
		"or": Op3Or, "orcc": Op3OrCC,
		"orn": Op3OrN, "orncc": Op3OrNCC,
		"xor": Op3Xor, "xorcc": Op3XorCC,
		"xnor": Op3Xnor, "xnorcc": Op3XnorCC,
		"sub": Op3Sub, "subcc": Op3SubCC,
	} {
		reg(&Mnemonic{Name: name, Class: ClassALU, Op3: op3, MinOperands: 3, MaxOperands: 3})
	}

	for name, op3 := range map[string]uint32{"sll": Op3Sll, "sra": Op3Sra, "srl": Op3Srl} {
		reg(&Mnemonic{Name: name, Class: ClassALU, Op3: op3, MinOperands: 3, MaxOperands: 3})
	}

	reg(&Mnemonic{Name: "jmpl", Class: ClassALU, Op3: Op3Jmpl, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "rd", Class: ClassALU, Op3: Op3Rd, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "wr", Class: ClassALU, Op3: Op3Wr, MinOperands: 3, MaxOperands: 3})
	reg(&Mnemonic{Name: "rett", Class: ClassALU, Op3: Op3Rett, MinOperands: 1, MaxOperands: 2})
	reg(&Mnemonic{Name: "ta", Class: ClassALU, Op3: Op3Ta, MinOperands: 1, MaxOperands: 2})

	reg(&Mnemonic{Name: "ld", Class: ClassMemory, MemOp3: Op3Ld, Width: WidthWord, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "ldsb", Class: ClassMemory, MemOp3: Op3Ldsb, Width: WidthByte, Signed: true, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "ldsh", Class: ClassMemory, MemOp3: Op3Ldsh, Width: WidthHalf, Signed: true, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "ldub", Class: ClassMemory, MemOp3: Op3Ldub, Width: WidthByte, ZeroExt: true, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "lduh", Class: ClassMemory, MemOp3: Op3Lduh, Width: WidthHalf, ZeroExt: true, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "st", Class: ClassMemory, MemOp3: Op3St, Store: true, Width: WidthWord, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "stb", Class: ClassMemory, MemOp3: Op3Stb, Store: true, Width: WidthByte, MinOperands: 2, MaxOperands: 2})
	reg(&Mnemonic{Name: "sth", Class: ClassMemory, MemOp3: Op3Sth, Store: true, Width: WidthHalf, MinOperands: 2, MaxOperands: 2})

	reg(&Mnemonic{Name: "halt", Class: ClassHalt, MinOperands: 0, MaxOperands: 0})
}

// Lookup returns the mnemonic descriptor for name (case-insensitive), or
// nil if name isn't a real instruction.
func Lookup(name string) (*Mnemonic, bool) {
	m, ok := Table[strings.ToUpper(name)]
	return m, ok
}

// SyntheticTemplate describes how a synthetic mnemonic expands into a real
// instruction, using 1-based positional markers (*1, *2, ...) that refer to
// the synthetic instruction's own operands.
type SyntheticTemplate struct {
	Name     string
	Real     string
	Operands []string // each entry is either "*N" or a literal operand like "%r0"
}

// Synthetics is the full set of synthetic mnemonics (spec.md 4.2).
var Synthetics = map[string]SyntheticTemplate{
	"not": {Name: "not", Real: "xnor", Operands: []string{"*1", "%r0", "*2"}},
	"neg": {Name: "neg", Real: "sub", Operands: []string{"%r0", "*1", "*2"}},
	"inc": {Name: "inc", Real: "add", Operands: []string{"*1", "1", "*1"}},
	"dec": {Name: "dec", Real: "sub", Operands: []string{"*1", "1", "*1"}},
	"clr": {Name: "clr", Real: "and", Operands: []string{"*1", "%r0", "*1"}},
	"cmp": {Name: "cmp", Real: "subcc", Operands: []string{"*1", "*2", "%r0"}},
	"tst": {Name: "tst", Real: "orcc", Operands: []string{"%r0", "*1", "%r0"}},
	"mov": {Name: "mov", Real: "or", Operands: []string{"%r0", "*1", "*2"}},
	"nop": {Name: "nop", Real: "sethi", Operands: []string{"0", "%r0"}},
}

// IsSynthetic reports whether name is a synthetic mnemonic.
func IsSynthetic(name string) (SyntheticTemplate, bool) {
	t, ok := Synthetics[strings.ToLower(name)]
	return t, ok
}
