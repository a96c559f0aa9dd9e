// Package vm implements the simulator core: a sparse 32-bit address space,
// CPU architectural state, the fetch-decode-execute loop, and the two
// memory-mapped I/O devices (spec.md sections 4.9-4.11).
package vm

import "fmt"

const pageSize = 4096
const pageMask = pageSize - 1

// Memory-mapped device addresses (spec.md section 4.11).
const (
	ConsoleData    uint32 = 0xFFFF0000
	ConsoleStatus  uint32 = 0xFFFF0004
	KeyboardData   uint32 = 0xFFFF0008
	KeyboardStatus uint32 = 0xFFFF000C

	deviceReady uint32 = 0x80000000
	deviceBusy  uint32 = 0x00000000

	consoleBusyTicks = 8
)

type page struct {
	data [pageSize]byte
}

// Memory is a sparse, lazily-allocated 4 GiB byte-addressable address
// space, plus the console and keyboard device registers it intercepts.
// Unlike a flat fixed-segment array, pages are allocated on first write so
// the full 32-bit space costs nothing until touched (spec.md section 4.9).
type Memory struct {
	pages map[uint32]*page

	consoleSink        func(byte)
	consoleStatus      uint32
	consoleBusyCounter int

	keyboardStatus uint32
	keyboardByte   byte

	stats *Statistics
}

// NewMemory creates an empty address space. consoleSink receives each byte
// written to CONSOLE_DATA while the console is ready; it may be nil to
// discard console output.
func NewMemory(consoleSink func(byte)) *Memory {
	m := &Memory{pages: make(map[uint32]*page), consoleSink: consoleSink}
	m.Clear()
	return m
}

// SetConsoleSink replaces the callback invoked for each byte written to
// CONSOLE_DATA. Used by front ends (tui.TUI) that attach after the VM is
// already constructed.
func (m *Memory) SetConsoleSink(sink func(byte)) {
	m.consoleSink = sink
}

// SetStatistics attaches the counter set that TickConsole reports
// console-busy ticks to. Pass nil to stop collecting.
func (m *Memory) SetStatistics(s *Statistics) {
	m.stats = s
}

// Clear discards all allocated pages and resets the device registers to
// their power-on state: console READY, keyboard NOT_READY (spec.md section
// 4.9).
func (m *Memory) Clear() {
	m.pages = make(map[uint32]*page)
	m.consoleStatus = deviceReady
	m.consoleBusyCounter = 0
	m.keyboardStatus = deviceBusy // NOT_READY shares the same bit pattern as BUSY
	m.keyboardByte = 0
}

// IsAllocated reports whether the page covering addr has ever been written.
func (m *Memory) IsAllocated(addr uint32) bool {
	_, ok := m.pages[addr>>12]
	return ok
}

func checkAlignment(addr uint32, size int) error {
	switch size {
	case 4:
		if addr&0x3 != 0 {
			return fmt.Errorf("unaligned word access at %#08x", addr)
		}
	case 2:
		if addr&0x1 != 0 {
			return fmt.Errorf("unaligned halfword access at %#08x", addr)
		}
	case 1:
		// byte accesses have no alignment requirement
	default:
		return fmt.Errorf("invalid access size: %d", size)
	}
	return nil
}

func (m *Memory) readByte(addr uint32) byte {
	p, ok := m.pages[addr>>12]
	if !ok {
		return 0
	}
	return p.data[addr&pageMask]
}

func (m *Memory) writeByte(addr uint32, v byte) {
	idx := addr >> 12
	p, ok := m.pages[idx]
	if !ok {
		p = &page{}
		m.pages[idx] = p
	}
	p.data[addr&pageMask] = v
}

// Read loads size (1, 2, or 4) bytes at addr, big-endian, and returns them
// zero-extended into a uint32. Unallocated pages read as zero.
func (m *Memory) Read(addr uint32, size int) (uint32, error) {
	if err := checkAlignment(addr, size); err != nil {
		return 0, err
	}
	if v, ok := m.readDevice(addr); ok {
		return v, nil
	}
	var v uint32
	for i := 0; i < size; i++ {
		v = v<<8 | uint32(m.readByte(addr+uint32(i)))
	}
	return v, nil
}

// Write stores the low size*8 bits of value at addr, big-endian. Writes to
// a byte or half word leave the surrounding bytes of the covering word
// untouched, since only the addressed bytes are ever rewritten.
func (m *Memory) Write(addr uint32, value uint32, size int) error {
	if err := checkAlignment(addr, size); err != nil {
		return err
	}
	if m.writeDevice(addr, value, size) {
		return nil
	}
	for i := 0; i < size; i++ {
		shift := uint(8 * (size - 1 - i))
		m.writeByte(addr+uint32(i), byte(value>>shift))
	}
	return nil
}
