package harness

import "sync"

// CommandHistory is a bounded, navigable log of harness commands, used by
// the interactive debugger for up/down recall.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
	position int
}

// NewCommandHistory returns a history bounded to the last 1000 commands.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{commands: make([]string, 0, 100), maxSize: 1000}
}

// Add appends cmd unless it is empty or a repeat of the last entry.
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}
	if n := len(h.commands); n > 0 && h.commands[n-1] == cmd {
		h.position = n
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.position = len(h.commands)
}

// Previous moves the cursor back one entry and returns it, or "" at the
// start of history.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}
	h.position--
	return h.commands[h.position]
}

// Next moves the cursor forward one entry, or "" once past the end.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.commands) == 0 {
		return ""
	}
	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}
	h.position++
	return h.commands[h.position]
}

// All returns a copy of the full command log.
func (h *CommandHistory) All() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.commands))
	copy(out, h.commands)
	return out
}

// Size returns the number of commands recorded.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.commands)
}

// Clear empties the history.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = h.commands[:0]
	h.position = 0
}
