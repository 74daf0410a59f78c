package asm

import (
	"fmt"
	"sort"
	"strings"

	"chasm/pkg/arch"
)

// SymbolKind tags a symbol table entry with its declaration category.
type SymbolKind int

const (
	SymNone SymbolKind = iota
	SymDefine
	SymConfig
	SymLabel
	SymProc
	SymSprite
)

var symbolKindNames = [...]string{
	SymNone:   "undeclared",
	SymDefine: "define",
	SymConfig: "config",
	SymLabel:  "label",
	SymProc:   "procedure",
	SymSprite: "sprite",
}

func (k SymbolKind) String() string {
	if int(k) >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one named entry. Define and config entries carry their value
// from declaration on; label, procedure and sprite entries are two-staged:
// declared first with Addressed false, then given their address once the
// generator has fixed the statement layout.
type Symbol struct {
	Kind      SymbolKind
	Value     uint16
	Addressed bool
	Rows      []uint8 // sprite row bytes, SymSprite only
	Loc       SourceLocation
}

// SymbolTable maps names to symbols. Names are unique across all symbol
// categories combined: a label and a define may not share a name.
type SymbolTable struct {
	entries map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Symbol)}
}

// Declare reserves name for the given category, failing on any collision.
func (s *SymbolTable) Declare(name string, sym *Symbol) error {
	if _, exists := s.entries[name]; exists {
		return &DuplicateSymbol{Name: name, Loc: sym.Loc}
	}
	s.entries[name] = sym
	return nil
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.entries[name]
	return sym, ok
}

// Resolve returns the symbol for name iff it was declared with kind.
func (s *SymbolTable) Resolve(name string, kind SymbolKind, loc SourceLocation) (*Symbol, error) {
	sym, ok := s.entries[name]
	if !ok {
		return nil, &UndefinedSymbol{Name: name, Want: kind, Got: SymNone, Loc: loc}
	}
	if sym.Kind != kind {
		return nil, &UndefinedSymbol{Name: name, Want: kind, Got: sym.Kind, Loc: loc}
	}
	return sym, nil
}

// SetAddress attaches the layout address to a reserved label/proc/sprite.
func (s *SymbolTable) SetAddress(name string, addr uint16) {
	if sym, ok := s.entries[name]; ok {
		sym.Value = addr
		sym.Addressed = true
	}
}

// constantValue resolves name as a define or config use.
func (s *SymbolTable) constantValue(name string, loc SourceLocation) (uint16, error) {
	sym, ok := s.entries[name]
	if !ok || (sym.Kind != SymDefine && sym.Kind != SymConfig) {
		got := SymNone
		if ok {
			got = sym.Kind
		}
		return 0, &UndefinedSymbol{Name: name, Want: SymDefine, Got: got, Loc: loc}
	}
	return sym.Value, nil
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sym := s.entries[name]
		fmt.Fprintf(&sb, "%-20s %-10s value=%#04x addressed=%v\n", name, sym.Kind, sym.Value, sym.Addressed)
	}
	return sb.String()
}

// valueOf resolves a define/config value token, following "default" markers
// to the architecture's declared default for that symbol.
func valueOf(name, value Token) (uint16, error) {
	if value.Type == DEFAULT {
		v, ok := arch.DefaultValue(name.Lexeme)
		if !ok {
			return 0, &NoDefaultValue{Name: name.Lexeme, Loc: name.Loc}
		}
		return v, nil
	}
	return value.Value, nil
}
