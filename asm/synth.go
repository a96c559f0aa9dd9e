package asm

import (
	"fmt"
	"strconv"

	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
)

// ExpandSynthetic rewrites a synthetic mnemonic invocation into its real
// instruction and operand list, substituting "*N" positional markers in the
// template with the caller's Nth operand (spec.md section 4.2).
func ExpandSynthetic(mnemonic string, operands []string) (string, []string, error) {
	tmpl, ok := isa.IsSynthetic(mnemonic)
	if !ok {
		return mnemonic, operands, nil
	}

	out := make([]string, len(tmpl.Operands))
	for i, o := range tmpl.Operands {
		if len(o) >= 2 && o[0] == '*' {
			idx, err := strconv.Atoi(o[1:])
			if err != nil || idx < 1 || idx > len(operands) {
				return "", nil, fmt.Errorf("synthetic %s: bad operand marker %s", mnemonic, o)
			}
			out[i] = operands[idx-1]
		} else {
			out[i] = o
		}
	}
	return tmpl.Real, out, nil
}
