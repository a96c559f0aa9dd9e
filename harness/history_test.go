package harness

import "testing"

func TestCommandHistoryAddAndAll(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("continue")

	all := h.All()
	if len(all) != 2 || all[0] != "step" || all[1] != "continue" {
		t.Errorf("unexpected history: %v", all)
	}
	if h.Size() != 2 {
		t.Errorf("expected size 2, got %d", h.Size())
	}
}

func TestCommandHistorySkipsEmptyAndImmediateRepeat(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("")
	h.Add("step")
	h.Add("continue")

	if h.Size() != 2 {
		t.Errorf("expected empty and repeated entries to be skipped, got size %d", h.Size())
	}
}

func TestCommandHistoryPreviousAndNext(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("continue")
	h.Add("print r1")

	if v := h.Previous(); v != "print r1" {
		t.Errorf("expected 'print r1', got %q", v)
	}
	if v := h.Previous(); v != "continue" {
		t.Errorf("expected 'continue', got %q", v)
	}
	if v := h.Previous(); v != "step" {
		t.Errorf("expected 'step', got %q", v)
	}
	if v := h.Previous(); v != "" {
		t.Errorf("expected empty string at the start of history, got %q", v)
	}

	if v := h.Next(); v != "continue" {
		t.Errorf("expected 'continue' moving forward, got %q", v)
	}
}

func TestCommandHistoryClear(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Clear()

	if h.Size() != 0 {
		t.Errorf("expected size 0 after Clear, got %d", h.Size())
	}
	if v := h.Previous(); v != "" {
		t.Errorf("expected empty history after Clear, got %q", v)
	}
}
