package loader

import (
	"testing"

	"github.com/lookbusy1344/sparc-edu-toolchain/encoder"
	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	res, err := encoder.Assemble(".begin\nmain: add %r0, 1, %r1\nhalt\n.end", "t.s")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	listing := FromAssembleResult(res)
	text := listing.Encode()

	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.StartingPC != listing.StartingPC {
		t.Errorf("expected starting pc %#x, got %#x", listing.StartingPC, parsed.StartingPC)
	}
	if len(parsed.Words) != len(listing.Words) {
		t.Fatalf("expected %d words, got %d", len(listing.Words), len(parsed.Words))
	}
	for i, w := range listing.Words {
		if parsed.Words[i] != w {
			t.Errorf("word %d mismatch: got %+v, want %+v", i, parsed.Words[i], w)
		}
	}
}

func TestListingEncodeFormat(t *testing.T) {
	res, err := encoder.Assemble(".begin\nmain: halt\n.end", "t.s")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	text := FromAssembleResult(res).Encode()
	wantHeader := "00000000\n"
	if len(text) < len(wantHeader) || text[:len(wantHeader)] != wantHeader {
		t.Errorf("expected listing header %q, got %q", wantHeader, text)
	}
}

func TestParseRejectsNonIncreasingAddresses(t *testing.T) {
	text := "00000000\n00000004\t00000000\n00000000\t00000001\n"
	if _, err := Parse(text); err == nil {
		t.Fatal("expected an error for a non-increasing address")
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected an error for empty listing text")
	}
}

func TestLoadIntoVMSetsPCAndMemory(t *testing.T) {
	res, err := encoder.Assemble(".begin\nmain: add %r0, 7, %r1\nhalt\n.end", "t.s")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	listing := FromAssembleResult(res)

	machine := vm.NewVM(vm.NewMemory(nil))
	if err := LoadIntoVM(machine, listing); err != nil {
		t.Fatalf("load: %v", err)
	}
	if machine.CPU.PC != listing.StartingPC {
		t.Errorf("expected pc=%#x, got %#x", listing.StartingPC, machine.CPU.PC)
	}
	word, err := machine.Memory.Read(listing.StartingPC, 4)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if word != listing.Words[0].Value {
		t.Errorf("expected first word %#x at starting pc, got %#x", listing.Words[0].Value, word)
	}
}
