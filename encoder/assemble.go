package encoder

import (
	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
)

// AssembleResult is the complete translation of one source file: its
// resolved symbol table plus the emitted word stream, ready for the
// listing format of spec.md section 6.
type AssembleResult struct {
	Symbols         *asm.SymbolTable
	StartingAddress int64
	Words           []Word
	Warnings        *asm.ErrorList
}

// Assemble runs pass 1 followed by pass 2 over source and returns the
// combined result, or the first hard error encountered by either pass.
func Assemble(source, filename string) (*AssembleResult, error) {
	p1, err := asm.RunPass1(source, filename)
	if err != nil {
		return nil, err
	}

	p2, err := RunPass2(source, filename, p1.Symbols)
	if err != nil {
		return nil, err
	}

	warnings := &asm.ErrorList{Warnings: append(append([]*asm.Warning{}, p1.Warnings.Warnings...), p2.Warnings.Warnings...)}

	return &AssembleResult{
		Symbols:         p1.Symbols,
		StartingAddress: p1.StartingAddress,
		Words:           p2.Words,
		Warnings:        warnings,
	}, nil
}
