package harness

import "testing"

func TestBreakpointSetAdd(t *testing.T) {
	s := NewBreakpointSet()
	bp := s.Add(0x1000, false, "")

	if bp.ID != 1 {
		t.Errorf("expected ID 1, got %d", bp.ID)
	}
	if bp.Address != 0x1000 {
		t.Errorf("expected address 0x1000, got %#08x", bp.Address)
	}
	if !bp.Enabled {
		t.Error("expected a new breakpoint to be enabled")
	}
	if bp.Temporary {
		t.Error("expected a non-temporary breakpoint")
	}
	if bp.HitCount != 0 {
		t.Errorf("expected initial hit count 0, got %d", bp.HitCount)
	}
}

func TestBreakpointSetAddMultipleGetsUniqueIDs(t *testing.T) {
	s := NewBreakpointSet()
	bp1 := s.Add(0x1000, false, "")
	bp2 := s.Add(0x2000, false, "")

	if bp1.ID == bp2.ID {
		t.Error("expected unique breakpoint IDs")
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 breakpoints, got %d", s.Count())
	}
}

func TestBreakpointSetAddAtSameAddressUpdates(t *testing.T) {
	s := NewBreakpointSet()
	bp1 := s.Add(0x1000, false, "")
	bp2 := s.Add(0x1000, true, "r1 == 5")

	if bp1.ID != bp2.ID {
		t.Error("expected adding at an existing address to update it, not create a second entry")
	}
	if bp2.Condition != "r1 == 5" {
		t.Errorf("expected condition to be updated, got %q", bp2.Condition)
	}
	if !bp2.Temporary {
		t.Error("expected temporary flag to be updated")
	}
	if s.Count() != 1 {
		t.Errorf("expected still only 1 breakpoint, got %d", s.Count())
	}
}

func TestBreakpointSetRemove(t *testing.T) {
	s := NewBreakpointSet()
	s.Add(0x1000, false, "")

	if err := s.Remove(0x1000); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Get(0x1000) != nil {
		t.Error("expected breakpoint to be gone after remove")
	}
	if err := s.Remove(0x1000); err == nil {
		t.Error("expected an error removing a breakpoint that doesn't exist")
	}
}

func TestBreakpointSetClear(t *testing.T) {
	s := NewBreakpointSet()
	s.Add(0x1000, false, "")
	s.Add(0x2000, false, "")
	s.Clear()

	if s.Count() != 0 {
		t.Errorf("expected 0 breakpoints after Clear, got %d", s.Count())
	}
}

func TestBreakpointSetHitIncrementsAndDeletesTemporary(t *testing.T) {
	s := NewBreakpointSet()
	bp := s.Add(0x1000, true, "")

	snapshot := s.hit(0x1000)
	if snapshot == nil {
		t.Fatal("expected a snapshot from hit")
	}
	if snapshot.HitCount != 1 {
		t.Errorf("expected hit count 1, got %d", snapshot.HitCount)
	}
	if bp.HitCount != 1 {
		t.Errorf("expected the caller's pointer to reflect the hit, got %d", bp.HitCount)
	}
	if s.Has(0x1000) {
		t.Error("expected a temporary breakpoint to be removed after firing")
	}
}

func TestBreakpointSetHitOnPermanentBreakpointPersists(t *testing.T) {
	s := NewBreakpointSet()
	s.Add(0x1000, false, "")

	s.hit(0x1000)
	s.hit(0x1000)

	bp := s.Get(0x1000)
	if bp.HitCount != 2 {
		t.Errorf("expected hit count 2, got %d", bp.HitCount)
	}
}
