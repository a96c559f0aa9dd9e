package asm

import (
	"strconv"
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/numcodec"
)

// Resolver looks up a symbol by name, as populated by Pass 1.
type Resolver interface {
	Resolve(name string) (int64, bool)
}

// Evaluator evaluates the numeric-literal-and-infix-arithmetic expression
// grammar of spec.md section 4.4: decimal literals, 0x hex literals
// (unsigned), [01]+b binary literals (two's complement at their natural
// width), identifiers resolved through a Resolver, and left-to-right + - * /
// with standard precedence.
//
// Strict mode (pass 1) raises UnknownSymbol on an unresolved identifier.
// Lenient mode (pass 2) instead records a ForwardOrUndefined warning and
// evaluates the identifier to 0, preserving pass-1 address arithmetic.
type Evaluator struct {
	Resolver Resolver
	Strict   bool
	Pos      Position
	Warnings *ErrorList
}

// exprTok is an internal lexical token of an arithmetic expression string.
type exprTok struct {
	kind byte // 'n' number, 'i' identifier, '+','-','*','/'
	text string
}

func lexExpr(s string) []exprTok {
	var toks []exprTok
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, exprTok{kind: c, text: string(c)})
			i++
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(s) && isIdentChar(rune(s[j])) {
				j++
			}
			toks = append(toks, exprTok{kind: 'i', text: s[i:j]})
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && isAlnum(rune(s[j])) {
				j++
			}
			toks = append(toks, exprTok{kind: 'n', text: s[i:j]})
			i = j
		default:
			// Unrecognized character: emit as a one-char identifier so the
			// parser reports a clean syntax error rather than looping.
			toks = append(toks, exprTok{kind: 'i', text: string(c)})
			i++
		}
	}
	return toks
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// parser is a one-shot precedence-climbing parser over a token stream.
type parser struct {
	toks []exprTok
	pos  int
	ev   *Evaluator
}

func (p *parser) peek() (exprTok, bool) {
	if p.pos >= len(p.toks) {
		return exprTok{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (exprTok, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// Evaluate parses and evaluates expr, an arithmetic expression string as
// produced by the tokenizer (operators may be glued to operands).
func (e *Evaluator) Evaluate(expr string) (int64, error) {
	toks := lexExpr(strings.TrimSpace(expr))
	if len(toks) == 0 {
		return 0, NewError(e.Pos, ErrSyntax, "empty expression")
	}
	p := &parser{toks: toks, ev: e}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, ok := p.peek(); ok {
		return 0, NewError(e.Pos, ErrSyntax, "trailing characters in expression: "+expr)
	}
	return v, nil
}

func (p *parser) parseExpr() (int64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != '+' && t.kind != '-') {
			return v, nil
		}
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if t.kind == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *parser) parseTerm() (int64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != '*' && t.kind != '/') {
			return v, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if t.kind == '*' {
			v *= rhs
		} else {
			if rhs == 0 {
				return 0, NewError(p.ev.Pos, ErrDivZero, "division by zero")
			}
			v /= rhs
		}
	}
}

func (p *parser) parseUnary() (int64, error) {
	if t, ok := p.peek(); ok && t.kind == '-' {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parseFactor()
}

func (p *parser) parseFactor() (int64, error) {
	t, ok := p.next()
	if !ok {
		return 0, NewError(p.ev.Pos, ErrSyntax, "unexpected end of expression")
	}
	switch t.kind {
	case 'n':
		return parseNumberLiteral(t.text, p.ev.Pos)
	case 'i':
		return p.ev.resolveIdentifier(t.text)
	default:
		return 0, NewError(p.ev.Pos, ErrSyntax, "unexpected token: "+t.text)
	}
}

func parseNumberLiteral(s string, pos Position) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, NewError(pos, ErrInvalidNumeric, "malformed hex literal: "+s)
		}
		return int64(uint32(v)), nil
	case len(s) >= 2 && (s[len(s)-1] == 'b' || s[len(s)-1] == 'B') && isBinaryDigits(s[:len(s)-1]):
		v, err := numcodec.FromTwosComplementBinary(s[:len(s)-1])
		if err != nil {
			return 0, NewError(pos, ErrInvalidNumeric, "malformed binary literal: "+s)
		}
		return v, nil
	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, NewError(pos, ErrInvalidNumeric, "malformed decimal literal: "+s)
		}
		return v, nil
	}
}

func isBinaryDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '0' && c != '1' {
			return false
		}
	}
	return true
}

func (e *Evaluator) resolveIdentifier(name string) (int64, error) {
	if v, ok := e.Resolver.Resolve(name); ok {
		return v, nil
	}
	if e.Strict {
		return 0, NewError(e.Pos, ErrUnknownSymbol, "undefined symbol: "+name)
	}
	if e.Warnings != nil {
		e.Warnings.AddWarning(&Warning{
			Pos:     e.Pos,
			Kind:    ErrUnknownSymbol,
			Message: "forward or undefined reference to '" + name + "', assuming 0",
		})
	}
	return 0, nil
}
