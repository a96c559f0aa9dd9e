package asm

import "regexp"

// symbolNamePattern matches spec.md section 3's identifier grammar.
var symbolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// ValidSymbolName reports whether name is a legal symbol identifier.
func ValidSymbolName(name string) bool {
	return symbolNamePattern.MatchString(name)
}

// SymbolKind distinguishes a label (an address) from an .equ constant.
type SymbolKind int

const (
	SymbolLabel SymbolKind = iota
	SymbolEqu
)

// Symbol is one entry of the symbol table: a label's address or an .equ's
// literal value, stored in the same Value field per spec.md section 3.
type Symbol struct {
	Name  string
	Value int64
	Kind  SymbolKind
}

// SymbolTable maps identifiers to their resolved value, preserving
// insertion order for deterministic symbol dumps (spec.md section 6).
type SymbolTable struct {
	byName map[string]*Symbol
	order  []string
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol)}
}

// Define records name -> value. Returns an error if name is already
// defined (duplicate labels/.equ are a hard error at pass 1).
func (t *SymbolTable) Define(name string, value int64, kind SymbolKind) error {
	if _, exists := t.byName[name]; exists {
		return NewError(Position{}, ErrUnknownSymbol, "duplicate symbol: "+name)
	}
	t.byName[name] = &Symbol{Name: name, Value: value, Kind: kind}
	t.order = append(t.order, name)
	return nil
}

// Resolve implements Resolver.
func (t *SymbolTable) Resolve(name string) (int64, bool) {
	s, ok := t.byName[name]
	if !ok {
		return 0, false
	}
	return s.Value, true
}

// Lookup returns the full Symbol record.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// InOrder returns all symbols in definition order.
func (t *SymbolTable) InOrder() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, t.byName[n])
	}
	return out
}
