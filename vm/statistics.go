package vm

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// InstructionStat is one row of the per-mnemonic histogram.
type InstructionStat struct {
	Mnemonic string
	Count    uint64
}

// Statistics accumulates execution counters over a run: instruction
// histogram, branch taken/not-taken totals, and time spent with the
// console device busy. A VM with a nil Stats field collects nothing, so
// attaching one is always opt-in.
type Statistics struct {
	TotalInstructions uint64
	InstructionCounts map[string]uint64

	BranchCount       uint64
	BranchTakenCount  uint64
	BranchMissedCount uint64

	ConsoleBusyTicks uint64

	startTime     time.Time
	ExecutionTime time.Duration
}

// NewStatistics returns an empty, ready-to-use counter set.
func NewStatistics() *Statistics {
	return &Statistics{
		InstructionCounts: make(map[string]uint64),
		startTime:         time.Now(),
	}
}

func (s *Statistics) recordInstruction(mnemonic string) {
	if s == nil {
		return
	}
	s.TotalInstructions++
	s.InstructionCounts[mnemonic]++
}

func (s *Statistics) recordBranch(taken bool) {
	if s == nil {
		return
	}
	s.BranchCount++
	if taken {
		s.BranchTakenCount++
	} else {
		s.BranchMissedCount++
	}
}

func (s *Statistics) recordConsoleBusyTick() {
	if s == nil {
		return
	}
	s.ConsoleBusyTicks++
}

// Finalize stamps ExecutionTime from when the counters were created. Call
// it once execution has stopped, before reading ExecutionTime or printing.
func (s *Statistics) Finalize() {
	if s == nil {
		return
	}
	s.ExecutionTime = time.Since(s.startTime)
}

// TopInstructions returns the n most frequently executed mnemonics, most
// frequent first. n <= 0 returns every mnemonic seen.
func (s *Statistics) TopInstructions(n int) []InstructionStat {
	stats := make([]InstructionStat, 0, len(s.InstructionCounts))
	for mnemonic, count := range s.InstructionCounts {
		stats = append(stats, InstructionStat{Mnemonic: mnemonic, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Mnemonic < stats[j].Mnemonic
	})
	if n > 0 && n < len(stats) {
		return stats[:n]
	}
	return stats
}

// ExportJSON writes the full counter set as indented JSON.
func (s *Statistics) ExportJSON(w io.Writer) error {
	s.Finalize()
	data := map[string]interface{}{
		"total_instructions":  s.TotalInstructions,
		"execution_time_ms":   s.ExecutionTime.Milliseconds(),
		"branch_count":        s.BranchCount,
		"branch_taken":        s.BranchTakenCount,
		"branch_missed":       s.BranchMissedCount,
		"console_busy_ticks":  s.ConsoleBusyTicks,
		"instruction_counts":  s.InstructionCounts,
		"top_instructions":    s.TopInstructions(20),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// String renders a short human-readable report, the form cmd/sparcasm
// prints to stderr when run with -stats and no -stats-file.
func (s *Statistics) String() string {
	s.Finalize()

	var sb strings.Builder
	sb.WriteString("Execution Statistics\n")
	sb.WriteString("=====================\n\n")
	sb.WriteString(fmt.Sprintf("Total Instructions:  %d\n", s.TotalInstructions))
	sb.WriteString(fmt.Sprintf("Execution Time:      %v\n\n", s.ExecutionTime))
	sb.WriteString(fmt.Sprintf("Branch Count:        %d\n", s.BranchCount))
	sb.WriteString(fmt.Sprintf("Branches Taken:      %d\n", s.BranchTakenCount))
	sb.WriteString(fmt.Sprintf("Branches Not Taken:  %d\n\n", s.BranchMissedCount))
	sb.WriteString(fmt.Sprintf("Console Busy Ticks:  %d\n\n", s.ConsoleBusyTicks))

	sb.WriteString("Top Instructions:\n")
	for i, stat := range s.TopInstructions(10) {
		pct := float64(stat.Count) / float64(s.TotalInstructions) * 100
		sb.WriteString(fmt.Sprintf("  %2d. %-8s %8d (%.1f%%)\n", i+1, stat.Mnemonic, stat.Count, pct))
	}
	return sb.String()
}
