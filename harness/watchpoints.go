package harness

import (
	"fmt"
	"sync"

	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

// Watchpoint fires whenever its monitored register or memory word changes
// value; spec.md does not distinguish read- from write-triggered
// watchpoints, so every watchpoint is a value-change watch.
type Watchpoint struct {
	ID         int
	Expression string
	Address    uint32
	IsRegister bool
	Register   int
	Enabled    bool
	LastValue  uint32
	HitCount   int
}

// WatchpointSet manages the harness's watchpoints.
type WatchpointSet struct {
	mu     sync.RWMutex
	byID   map[int]*Watchpoint
	nextID int
}

// NewWatchpointSet returns an empty watchpoint set.
func NewWatchpointSet() *WatchpointSet {
	return &WatchpointSet{byID: make(map[int]*Watchpoint), nextID: 1}
}

// AddRegister watches a general register.
func (s *WatchpointSet) AddRegister(expr string, register int, machine *vm.VM) *Watchpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	wp := &Watchpoint{ID: s.nextID, Expression: expr, IsRegister: true, Register: register, Enabled: true, LastValue: machine.CPU.GetRegister(register)}
	s.byID[wp.ID] = wp
	s.nextID++
	return wp
}

// AddMemory watches a memory word at address.
func (s *WatchpointSet) AddMemory(expr string, address uint32, machine *vm.VM) (*Watchpoint, error) {
	v, err := machine.Memory.Read(address, 4)
	if err != nil {
		return nil, fmt.Errorf("watch %#08x: %w", address, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wp := &Watchpoint{ID: s.nextID, Expression: expr, Address: address, Enabled: true, LastValue: v}
	s.byID[wp.ID] = wp
	s.nextID++
	return wp, nil
}

// Remove deletes the watchpoint with the given ID.
func (s *WatchpointSet) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(s.byID, id)
	return nil
}

// Clear removes every watchpoint.
func (s *WatchpointSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[int]*Watchpoint)
}

// All returns every watchpoint, order unspecified.
func (s *WatchpointSet) All() []*Watchpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Watchpoint, 0, len(s.byID))
	for _, wp := range s.byID {
		out = append(out, wp)
	}
	return out
}

// Count returns the number of watchpoints.
func (s *WatchpointSet) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Check scans every enabled watchpoint against the current machine state
// and returns the first one whose value has changed.
func (s *WatchpointSet) Check(machine *vm.VM) (*Watchpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, wp := range s.byID {
		if !wp.Enabled {
			continue
		}
		var current uint32
		if wp.IsRegister {
			current = machine.CPU.GetRegister(wp.Register)
		} else {
			v, err := machine.Memory.Read(wp.Address, 4)
			if err != nil {
				continue
			}
			current = v
		}
		if current != wp.LastValue {
			wp.HitCount++
			wp.LastValue = current
			return wp, true
		}
	}
	return nil, false
}
