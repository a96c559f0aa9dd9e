package vm

import "testing"

func TestStatisticsRecordsInstructionHistogram(t *testing.T) {
	res := assembleWords(t, ".begin\nmain: add %r0, 5, %r1\nadd %r1, 1, %r1\nhalt\n.end")
	mem := NewMemory(nil)
	loadInto(mem, res)
	v := NewVM(mem)
	v.CPU.PC = uint32(res.StartingAddress)
	v.SetStatistics(NewStatistics())

	for i := 0; i < 2; i++ {
		if err := v.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if v.Stats.TotalInstructions != 2 {
		t.Errorf("expected 2 total instructions, got %d", v.Stats.TotalInstructions)
	}
	if v.Stats.InstructionCounts["add"] != 2 {
		t.Errorf("expected 2 adds, got %d", v.Stats.InstructionCounts["add"])
	}
}

func TestStatisticsRecordsBranchTakenAndMissed(t *testing.T) {
	res := assembleWords(t, ".begin\nmain: addcc %r0, 0, %r1\nbe skip\nadd %r0, 1, %r2\nskip: bne skip\nhalt\n.end")
	mem := NewMemory(nil)
	loadInto(mem, res)
	v := NewVM(mem)
	v.CPU.PC = uint32(res.StartingAddress)
	v.SetStatistics(NewStatistics())

	for i := 0; i < 3; i++ {
		if err := v.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if v.Stats.BranchCount != 2 {
		t.Errorf("expected 2 branches evaluated, got %d", v.Stats.BranchCount)
	}
	if v.Stats.BranchTakenCount != 1 {
		t.Errorf("expected 1 branch taken, got %d", v.Stats.BranchTakenCount)
	}
	if v.Stats.BranchMissedCount != 1 {
		t.Errorf("expected 1 branch not taken, got %d", v.Stats.BranchMissedCount)
	}
}

func TestStatisticsCountsConsoleBusyTicks(t *testing.T) {
	res := assembleWords(t, ".begin\nmain: sethi 0x3FFFC0, %r1\nst %r0, [%r1]\nst %r0, [%r1]\nhalt\n.end")
	mem := NewMemory(nil)
	loadInto(mem, res)
	v := NewVM(mem)
	v.CPU.PC = uint32(res.StartingAddress)
	v.SetStatistics(NewStatistics())

	for i := 0; i < 3; i++ {
		if err := v.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if v.Stats.ConsoleBusyTicks == 0 {
		t.Error("expected at least one console-busy tick after writing CONSOLE_DATA")
	}
}

func TestStatisticsNilIsSafe(t *testing.T) {
	res := assembleWords(t, ".begin\nmain: add %r0, 1, %r1\nhalt\n.end")
	mem := NewMemory(nil)
	loadInto(mem, res)
	v := NewVM(mem)
	v.CPU.PC = uint32(res.StartingAddress)

	if err := v.Step(); err != nil {
		t.Fatalf("step with nil Stats: %v", err)
	}
}

func TestStatisticsTopInstructionsSortedDescending(t *testing.T) {
	s := NewStatistics()
	s.recordInstruction("add")
	s.recordInstruction("add")
	s.recordInstruction("sub")

	top := s.TopInstructions(0)
	if len(top) != 2 || top[0].Mnemonic != "add" || top[0].Count != 2 {
		t.Errorf("unexpected top instructions: %+v", top)
	}
}
