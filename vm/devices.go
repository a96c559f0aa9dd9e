package vm

// readDevice intercepts reads of the console/keyboard registers so they
// never fall through to the ordinary page store. ok is false for any
// other address.
func (m *Memory) readDevice(addr uint32) (uint32, bool) {
	switch addr {
	case ConsoleStatus:
		return m.consoleStatus, true
	case KeyboardStatus:
		return m.keyboardStatus, true
	case KeyboardData:
		v := uint32(m.keyboardByte) << 24 // low byte = most significant, see writeDevice
		m.keyboardStatus = deviceBusy     // reading clears to NOT_READY (spec.md section 4.11)
		return v, true
	case ConsoleData:
		// write-only in spec.md; reads fall back to the underlying (always
		// unwritten) page, which is zero.
		return 0, false
	}
	return 0, false
}

// writeDevice intercepts writes of the console register, applying its
// busy/ready side effects, and ignores writes to the read-only device
// registers. handled is false for any other address, meaning
// the caller should fall through to an ordinary page write.
func (m *Memory) writeDevice(addr uint32, value uint32, size int) bool {
	switch addr {
	case ConsoleData:
		if m.consoleStatus == deviceReady {
			if m.consoleSink != nil {
				// "Low byte" means the byte at the word's lowest address,
				// i.e. the most significant byte in this big-endian memory
				// (storing 0x41000000 emits 'A').
				m.consoleSink(byte(value >> 24))
			}
			m.consoleStatus = deviceBusy
			m.consoleBusyCounter = consoleBusyTicks
		}
		// Writes while busy are accepted but have no further effect.
		return true
	case ConsoleStatus, KeyboardData, KeyboardStatus:
		// These registers are not writable by program code; accept the
		// write with no effect rather than faulting.
		return true
	}
	return false
}

// TickConsole decrements the console busy counter once per executed
// instruction, restoring READY when it reaches zero (spec.md sections
// 4.10-4.11). It is a no-op once the counter is already at zero.
func (m *Memory) TickConsole() {
	if m.consoleBusyCounter <= 0 {
		return
	}
	m.stats.recordConsoleBusyTick()
	m.consoleBusyCounter--
	if m.consoleBusyCounter == 0 {
		m.consoleStatus = deviceReady
	}
}

// DeliverKeystroke makes code available for the next KEYBOARD_DATA read,
// provided the keyboard isn't already holding an unread keystroke
// (spec.md section 4.11).
func (m *Memory) DeliverKeystroke(code byte) {
	if m.keyboardStatus == deviceReady {
		return
	}
	m.keyboardByte = code
	m.keyboardStatus = deviceReady
}
