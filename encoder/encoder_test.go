package encoder

import (
	"testing"

	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

func evalFor(st *asm.SymbolTable) *asm.Evaluator {
	return &asm.Evaluator{Resolver: st, Strict: false, Warnings: &asm.ErrorList{}}
}

func TestEncodeHalt(t *testing.T) {
	word, err := EncodeInstruction("halt", nil, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word != isa.HaltWord {
		t.Errorf("expected halt word %#x, got %#x", isa.HaltWord, word)
	}
}

func TestEncodeAddRegisterForm(t *testing.T) {
	word, err := EncodeInstruction("add", []string{"%r1", "%r2", "%r3"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRd := uint32(3) << 25
	wantRs1 := uint32(1) << 14
	wantRs2 := uint32(2)
	want := isa.OpALU<<30 | wantRd | isa.Op3Add<<19 | wantRs1 | wantRs2
	if word != want {
		t.Errorf("add %%r1,%%r2,%%r3 = %#x, want %#x", word, want)
	}
}

func TestEncodeAddImmediateForm(t *testing.T) {
	word, err := EncodeInstruction("add", []string{"%r1", "5", "%r3"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word&(1<<13) == 0 {
		t.Errorf("expected immediate bit set, got %#032b", word)
	}
	if word&0x1FFF != 5 {
		t.Errorf("expected simm13=5, got %#x", word&0x1FFF)
	}
}

func TestEncodeSyntheticMov(t *testing.T) {
	word, err := EncodeInstruction("mov", []string{"%r5", "%r1"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mov expands to "or %r0, %r5, %r1"
	want := isa.OpALU<<30 | uint32(1)<<25 | isa.Op3Or<<19 | uint32(0)<<14 | uint32(5)
	if word != want {
		t.Errorf("mov %%r5,%%r1 = %#x, want %#x", word, want)
	}
}

func TestEncodeSynthNop(t *testing.T) {
	word, err := EncodeInstruction("nop", nil, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := sethiWord(0, 0)
	if word != want {
		t.Errorf("nop = %#x, want %#x", word, want)
	}
}

func TestEncodeBranchDisplacement(t *testing.T) {
	st := asm.NewSymbolTable()
	_ = st.Define("loop", 100, asm.SymbolLabel)
	word, err := EncodeInstruction("ba", []string{"loop"}, 80, evalFor(st), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDisp := uint32((100 - 80) / 4)
	want := isa.OpBranchOrSethi<<30 | isa.CondA<<25 | isa.Op2Branch<<22 | wantDisp
	if word != want {
		t.Errorf("ba loop = %#x, want %#x", word, want)
	}
}

func TestEncodeBranchMisaligned(t *testing.T) {
	st := asm.NewSymbolTable()
	_ = st.Define("x", 81, asm.SymbolLabel)
	if _, err := EncodeInstruction("ba", []string{"x"}, 0, evalFor(st), asm.Position{}); err == nil {
		t.Fatal("expected alignment error for misaligned branch target")
	}
}

func TestEncodeLoadBracketImmediate(t *testing.T) {
	word, err := EncodeInstruction("ld", []string{"[2048]", "%r1"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := isa.OpMemory<<30 | uint32(1)<<25 | isa.Op3Ld<<19 | uint32(0)<<14 | (1 << 13) | (2048 & 0x1FFF)
	if word != want {
		t.Errorf("ld [2048],%%r1 = %#x, want %#x", word, want)
	}
}

func TestEncodeLoadMisalignedConstant(t *testing.T) {
	if _, err := EncodeInstruction("ld", []string{"[3]", "%r1"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{}); err == nil {
		t.Fatal("expected alignment error for misaligned constant load address")
	}
}

func TestEncodeStoreBareRegisterPlusImm(t *testing.T) {
	word, err := EncodeInstruction("st", []string{"%r2", "%r3+4"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := isa.OpMemory<<30 | uint32(2)<<25 | isa.Op3St<<19 | uint32(3)<<14 | (1 << 13) | 4
	if word != want {
		t.Errorf("st %%r2,%%r3+4 = %#x, want %#x", word, want)
	}
}

func TestEncodeJmplRegisterOffset(t *testing.T) {
	word, err := EncodeInstruction("jmpl", []string{"[%r1+%r2]", "%r0"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := isa.OpALU<<30 | uint32(0)<<25 | isa.Op3Jmpl<<19 | uint32(1)<<14 | uint32(2)
	if word != want {
		t.Errorf("jmpl [%%r1+%%r2],%%r0 = %#x, want %#x", word, want)
	}
}

func TestEncodeUnknownMnemonic(t *testing.T) {
	if _, err := EncodeInstruction("frobnicate", nil, 0, evalFor(asm.NewSymbolTable()), asm.Position{}); err == nil {
		t.Fatal("expected UnknownMnemonic error")
	}
}

func TestEncodeWrongOperandCount(t *testing.T) {
	if _, err := EncodeInstruction("add", []string{"%r1", "%r2"}, 0, evalFor(asm.NewSymbolTable()), asm.Position{}); err == nil {
		t.Fatal("expected InvalidOperands error for missing operand")
	}
}
