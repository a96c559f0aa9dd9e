package asm

import "github.com/lookbusy1344/sparc-edu-toolchain/isa"

// lookupMnemonic reports whether literal names a real or synthetic
// mnemonic, used by both passes to distinguish an instruction line from a
// line of raw data words.
func lookupMnemonic(literal string) (string, bool) {
	if _, ok := isa.Lookup(literal); ok {
		return literal, true
	}
	if _, ok := isa.IsSynthetic(literal); ok {
		return literal, true
	}
	return "", false
}
