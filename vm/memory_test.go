package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriteReadWord(t *testing.T) {
	m := NewMemory(nil)
	if err := m.Write(0x1000, 0xDEADBEEF, 4); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := m.Read(0x1000, 4)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got %#x", v)
	}
}

func TestMemoryUnallocatedReadsZero(t *testing.T) {
	m := NewMemory(nil)
	v, err := m.Read(0x99990000, 4)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0 {
		t.Errorf("expected 0 for unallocated page, got %#x", v)
	}
	if m.IsAllocated(0x99990000) {
		t.Error("a read must not allocate a page")
	}
}

func TestMemoryByteWritePreservesSurroundingBytes(t *testing.T) {
	m := NewMemory(nil)
	_ = m.Write(0x2000, 0xAABBCCDD, 4)
	_ = m.Write(0x2001, 0xFF, 1)
	v, _ := m.Read(0x2000, 4)
	if v != 0xAAFFCCDD {
		t.Errorf("expected only the second byte to change, got %#x", v)
	}
}

func TestMemoryAlignment(t *testing.T) {
	m := NewMemory(nil)
	if err := m.Write(0x3001, 1, 4); err == nil {
		t.Fatal("expected alignment error for unaligned word write")
	}
	if err := m.Write(0x3001, 1, 2); err == nil {
		t.Fatal("expected alignment error for unaligned half write")
	}
	if err := m.Write(0x3001, 1, 1); err != nil {
		t.Errorf("byte writes should never need alignment: %v", err)
	}
}

// Word and halfword accesses must fall on a 4- or 2-byte boundary
// respectively (spec.md section 4.9); byte accesses have no such bound.
func TestMemoryAlignmentBounds(t *testing.T) {
	tests := []struct {
		name string
		addr uint32
		size int
	}{
		{"word at offset 0", 0x4000, 4},
		{"word at offset 4", 0x4004, 4},
		{"half at offset 0", 0x4000, 2},
		{"half at offset 2", 0x4002, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(nil)
			err := m.Write(tt.addr, 0, tt.size)
			assert.NoError(t, err, "aligned access within bounds should not error")
		})
	}
}

func TestMemoryAlignmentRejectsUnalignedWord(t *testing.T) {
	tests := []struct {
		name string
		addr uint32
	}{
		{"one past a word boundary", 0x5001},
		{"two past a word boundary", 0x5002},
		{"three past a word boundary", 0x5003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(nil)
			err := m.Write(tt.addr, 0, 4)
			require.Error(t, err, "unaligned word write should error")
			assert.Contains(t, err.Error(), "unaligned word access", "error should name the violated alignment")
		})
	}
}

func TestMemoryAlignmentRejectsUnalignedHalf(t *testing.T) {
	m := NewMemory(nil)
	err := m.Write(0x6001, 0, 2)
	require.Error(t, err, "unaligned halfword write should error")
	assert.Contains(t, err.Error(), "unaligned halfword access", "error should name the violated alignment")
}

func TestMemoryByteAccessNeverUnaligned(t *testing.T) {
	m := NewMemory(nil)
	for offset := uint32(0); offset < 4; offset++ {
		err := m.Write(0x7000+offset, 0xAB, 1)
		assert.NoError(t, err, "byte accesses have no alignment requirement")
	}
}

func TestMemoryClearResetsDevices(t *testing.T) {
	m := NewMemory(nil)
	_ = m.Write(ConsoleData, 0x41000000, 4)
	m.Clear()
	status, _ := m.Read(ConsoleStatus, 4)
	if status != deviceReady {
		t.Errorf("expected console READY after Clear, got %#x", status)
	}
}

func TestConsoleWriteEmitsAndGoesBusy(t *testing.T) {
	var emitted []byte
	m := NewMemory(func(b byte) { emitted = append(emitted, b) })
	if err := m.Write(ConsoleData, 0x41000000, 4); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(emitted) != 1 || emitted[0] != 'A' {
		t.Fatalf("expected 'A' emitted, got %+v", emitted)
	}
	status, _ := m.Read(ConsoleStatus, 4)
	if status != deviceBusy {
		t.Errorf("expected BUSY immediately after write, got %#x", status)
	}
	// 7 ticks: still busy.
	for i := 0; i < 7; i++ {
		m.TickConsole()
	}
	status, _ = m.Read(ConsoleStatus, 4)
	if status != deviceBusy {
		t.Errorf("expected still BUSY after 7 ticks, got %#x", status)
	}
	m.TickConsole()
	status, _ = m.Read(ConsoleStatus, 4)
	if status != deviceReady {
		t.Errorf("expected READY after 8 ticks, got %#x", status)
	}
}

func TestConsoleWriteWhileBusyDoesNotReemit(t *testing.T) {
	var emitted []byte
	m := NewMemory(func(b byte) { emitted = append(emitted, b) })
	_ = m.Write(ConsoleData, 0x41000000, 4)
	_ = m.Write(ConsoleData, 0x42000000, 4) // still busy, must not emit 'B'
	if len(emitted) != 1 {
		t.Errorf("expected exactly one emission while busy, got %+v", emitted)
	}
}

func TestKeyboardDeliverAndRead(t *testing.T) {
	m := NewMemory(nil)
	m.DeliverKeystroke('x')
	status, _ := m.Read(KeyboardStatus, 4)
	if status != deviceReady {
		t.Fatalf("expected keyboard READY after delivery, got %#x", status)
	}
	data, _ := m.Read(KeyboardData, 4)
	if byte(data>>24) != 'x' {
		t.Errorf("expected 'x' in the low byte of KEYBOARD_DATA, got %#x", data)
	}
	status, _ = m.Read(KeyboardStatus, 4)
	if status != deviceBusy {
		t.Errorf("expected keyboard NOT_READY after read, got %#x", status)
	}
}
