package encoder

import "strings"

// operandKind classifies one post-expansion operand literal. Synthetic
// expansion (asm.ExpandSynthetic) substitutes plain strings in place of the
// original tokens, so the encoder reclassifies by the same prefix rule the
// tokenizer uses rather than carrying asm.Token through expansion.
type operandKind int

const (
	operandRegister operandKind = iota
	operandMemory
	operandWord
)

type operand struct {
	kind    operandKind
	literal string
}

func reclassify(literal string) operand {
	switch {
	case strings.HasPrefix(literal, "["):
		return operand{kind: operandMemory, literal: literal}
	case strings.HasPrefix(literal, "%"):
		return operand{kind: operandRegister, literal: literal}
	default:
		return operand{kind: operandWord, literal: literal}
	}
}

func reclassifyAll(literals []string) []operand {
	out := make([]operand, len(literals))
	for i, l := range literals {
		out[i] = reclassify(l)
	}
	return out
}
