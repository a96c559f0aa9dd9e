// Package loader (de)serializes the machine-code listing format that sits
// between the assembler and the simulator (spec.md section 6): a header
// hex word giving the starting PC, followed by tab-separated
// address/instruction hex lines.
package loader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/encoder"
	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

// Listing is the parsed form of a machine-code listing file.
type Listing struct {
	StartingPC uint32
	Words      []encoder.Word
}

// FromAssembleResult converts an assembler result directly into a Listing,
// skipping the text round trip.
func FromAssembleResult(res *encoder.AssembleResult) *Listing {
	return &Listing{StartingPC: uint32(res.StartingAddress), Words: res.Words}
}

// Encode renders a Listing as the line-oriented text format: a single hex
// word naming the starting PC, then one "address\tword" line per
// instruction, addresses strictly increasing.
func (l *Listing) Encode() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%08x\n", l.StartingPC)
	for _, w := range l.Words {
		fmt.Fprintf(&b, "%08x\t%08x\n", w.Address, w.Value)
	}
	return b.String()
}

// Parse reads the listing text format back into a Listing.
func Parse(text string) (*Listing, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	if !scanner.Scan() {
		return nil, fmt.Errorf("loader: empty listing")
	}

	header := strings.TrimSpace(scanner.Text())
	startPC, err := strconv.ParseUint(header, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("loader: bad starting-pc header %q: %w", header, err)
	}

	listing := &Listing{StartingPC: uint32(startPC)}
	lineNo := 1
	var lastAddr int64 = -1

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("loader: line %d: expected address<TAB>word, got %q", lineNo, line)
		}

		addr, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: bad address %q: %w", lineNo, fields[0], err)
		}
		word, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: bad word %q: %w", lineNo, fields[1], err)
		}

		if int64(addr) <= lastAddr {
			return nil, fmt.Errorf("loader: line %d: address %08x does not strictly increase", lineNo, addr)
		}
		lastAddr = int64(addr)

		listing.Words = append(listing.Words, encoder.Word{Address: uint32(addr), Value: uint32(word)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return listing, nil
}

// LoadIntoVM writes every word of the listing into machine's memory and
// positions the program counter at the listing's starting PC.
func LoadIntoVM(machine *vm.VM, listing *Listing) error {
	for _, w := range listing.Words {
		if err := machine.Memory.Write(w.Address, w.Value, 4); err != nil {
			return fmt.Errorf("loader: write %#08x: %w", w.Address, err)
		}
	}
	if err := machine.CPU.WritePC(listing.StartingPC); err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	return nil
}
