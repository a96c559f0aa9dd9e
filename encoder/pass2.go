package encoder

import (
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
	"github.com/lookbusy1344/sparc-edu-toolchain/isa"
	"github.com/lookbusy1344/sparc-edu-toolchain/numcodec"
)

// isRealOrSynthetic reports whether literal names an instruction, real or
// synthetic, distinguishing an instruction line from a line of raw data
// words (mirrors asm's unexported lookupMnemonic used by pass 1).
func isRealOrSynthetic(literal string) bool {
	if _, ok := isa.Lookup(literal); ok {
		return true
	}
	_, ok := isa.IsSynthetic(literal)
	return ok
}

// Word is one (address, machine word) pair produced by pass 2.
type Word struct {
	Address uint32
	Value   uint32
}

// Pass2Result is the full output of assembling a source file once its
// symbol table is known.
type Pass2Result struct {
	Words    []Word
	Warnings *asm.ErrorList
}

type pass2State struct {
	pc         int64
	assembling bool
	symbols    *asm.SymbolTable
	warnings   *asm.ErrorList
	words      []Word
}

// RunPass2 re-walks source with symbols already resolved by RunPass1 and
// emits the machine-code word stream (spec.md section 4.6). Pass 2 never
// aborts on an unresolved symbol; it downgrades to a ForwardOrUndefined
// warning and encodes the reference as zero (section 4.4).
func RunPass2(source, filename string, symbols *asm.SymbolTable) (*Pass2Result, error) {
	st := &pass2State{symbols: symbols, warnings: &asm.ErrorList{}}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		pos := asm.Position{Filename: filename, Line: i + 1}
		tokens := asm.Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		if err := st.processLine(tokens, pos); err != nil {
			return nil, err
		}
	}

	if st.assembling {
		return nil, asm.NewError(asm.Position{Filename: filename, Line: len(lines)}, asm.ErrUnterminatedBlock, "missing .end")
	}

	return &Pass2Result{Words: st.words, Warnings: st.warnings}, nil
}

func (st *pass2State) emit(word uint32) {
	st.words = append(st.words, Word{Address: uint32(st.pc), Value: word})
	st.pc += 4
}

func (st *pass2State) processLine(tokens []asm.Token, pos asm.Position) error {
	if tokens[0].Kind == asm.TokLabel {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		if st.assembling {
			st.emit(0) // label-only line: zero word (open question (a))
		}
		return nil
	}

	// Infix ".equ" was already resolved in pass 1; nothing to emit.
	if len(tokens) >= 3 && tokens[0].Kind == asm.TokWord && tokens[1].Kind == asm.TokDirective &&
		strings.EqualFold(tokens[1].Literal, ".equ") {
		return nil
	}

	if tokens[0].Kind == asm.TokDirective {
		return st.processDirective(tokens, pos)
	}

	if !st.assembling {
		return nil
	}

	literals := make([]string, len(tokens))
	for i, t := range tokens {
		literals[i] = t.Literal
	}

	ev := &asm.Evaluator{Resolver: st.symbols, Strict: false, Pos: pos, Warnings: st.warnings}

	if isRealOrSynthetic(tokens[0].Literal) {
		word, err := EncodeInstruction(tokens[0].Literal, literals[1:], st.pc, ev, pos)
		if err != nil {
			return err
		}
		st.emit(word)
		return nil
	}

	// A line of raw data words: each field is its own 32-bit literal.
	for _, lit := range literals {
		val, err := ev.Evaluate(lit)
		if err != nil {
			return err
		}
		st.emit(numcodec.ToWord32(val))
	}
	return nil
}

func (st *pass2State) processDirective(tokens []asm.Token, pos asm.Position) error {
	dir := strings.ToLower(tokens[0].Literal)
	switch dir {
	case ".begin":
		st.assembling = true
		return nil
	case ".end":
		st.assembling = false
		return nil
	case ".org":
		ev := &asm.Evaluator{Resolver: st.symbols, Strict: false, Pos: pos, Warnings: st.warnings}
		addr, err := ev.Evaluate(tokens[1].Literal)
		if err != nil {
			return err
		}
		st.pc = addr
		return nil
	case ".dwb":
		ev := &asm.Evaluator{Resolver: st.symbols, Strict: false, Pos: pos, Warnings: st.warnings}
		n, err := ev.Evaluate(tokens[1].Literal)
		if err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if st.assembling {
				st.emit(0)
			} else {
				st.pc += 4
			}
		}
		return nil
	case ".if", ".endif":
		return asm.NewError(pos, asm.ErrNotImplemented, dir+" is not implemented")
	default:
		return asm.NewError(pos, asm.ErrSyntax, "unknown directive: "+dir)
	}
}
