package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCCRWordRoundTrip(t *testing.T) {
	c := CCR{N: true, Z: false, V: true, C: false}
	w := c.ToWord()
	if w != 0b1010 {
		t.Errorf("expected 0b1010, got %#b", w)
	}
	var got CCR
	got.FromWord(w)
	if got != c {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
	}
}

func TestRegisterZeroHardwired(t *testing.T) {
	c := NewCPU()
	c.SetRegister(0, 0xFFFFFFFF)
	if c.GetRegister(0) != 0 {
		t.Error("r0 must always read as zero")
	}
}

func TestNewCPUDefaultTBR(t *testing.T) {
	c := NewCPU()
	if c.TBR != DefaultTBR {
		t.Errorf("expected TBR=%#x, got %#x", DefaultTBR, c.TBR)
	}
	if c.TrapsOn {
		t.Error("expected traps disabled at power-on")
	}
}

// WritePC must accept every word-aligned value, including the bounds of
// the address space (spec.md section 8: "After any successful write_pc(v),
// read_pc() == v and v mod 4 == 0").
func TestWritePCAcceptsAlignedValues(t *testing.T) {
	tests := []struct {
		name string
		pc   uint32
	}{
		{"zero", 0},
		{"typical code address", 0x2000},
		{"last word-aligned address", 0xFFFFFFFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPU()
			err := c.WritePC(tt.pc)
			assert.NoError(t, err, "word-aligned pc should not error")
			assert.Equal(t, tt.pc, c.PC, "pc should be set to the requested value")
		})
	}
}

func TestWritePCRejectsUnalignedValues(t *testing.T) {
	tests := []struct {
		name string
		pc   uint32
	}{
		{"one past aligned", 1},
		{"two past aligned", 0x1002},
		{"three past aligned", 0x1003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPU()
			err := c.WritePC(tt.pc)
			require.Error(t, err, "unaligned pc should error")
			assert.Contains(t, err.Error(), "not word-aligned", "error should explain the violated invariant")
			assert.Equal(t, uint32(0), c.PC, "a rejected write_pc must not move the program counter")
		})
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := NewCPU()
	c.SetRegister(3, 42)
	c.PC = 100
	c.TrapsOn = true
	c.TBR = 0
	c.Reset()
	if c.GetRegister(3) != 0 || c.PC != 0 || c.TrapsOn || c.TBR != DefaultTBR {
		t.Errorf("Reset did not restore power-on state: %+v", c)
	}
}
