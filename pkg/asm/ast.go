package asm

import (
	"fmt"
	"sort"
)

//  Operand nodes

// Operand is implemented by every instruction-operand variant. Each variant
// keeps the token it was built from for resolution and diagnostics.
type Operand interface {
	operandNode()
	String() string
}

// RegisterOperand is a register reference: v3, i, dt, st.
type RegisterOperand struct {
	Reg Token
}

func (*RegisterOperand) operandNode()     {}
func (o *RegisterOperand) String() string { return o.Reg.Lexeme }

// ImmediateOperand is a bare numeric literal or a define/config name used
// as a value.
type ImmediateOperand struct {
	Value Token // NUMERICAL or IDENTIFIER
}

func (*ImmediateOperand) operandNode()     {}
func (o *ImmediateOperand) String() string { return o.Value.Text() }

// LabelOperand is a label reference: @name.
type LabelOperand struct {
	Name Token
}

func (*LabelOperand) operandNode()     {}
func (o *LabelOperand) String() string { return "@" + o.Name.Lexeme }

// ProcOperand is a procedure reference: $name.
type ProcOperand struct {
	Name Token
}

func (*ProcOperand) operandNode()     {}
func (o *ProcOperand) String() string { return "$" + o.Name.Lexeme }

// SpriteOperand is a sprite reference: #name.
type SpriteOperand struct {
	Name Token
}

func (*SpriteOperand) operandNode()     {}
func (o *SpriteOperand) String() string { return "#" + o.Name.Lexeme }

// IndirectOperand is a memory reference: [name-or-number].
type IndirectOperand struct {
	Inner Token // NUMERICAL or IDENTIFIER
}

func (*IndirectOperand) operandNode()     {}
func (o *IndirectOperand) String() string { return "[" + o.Inner.Text() + "]" }

//  Statement nodes

// Statement priorities drive the stable pre-generation reordering: higher
// values are laid out first. Declarations sort ahead of every use and
// procedures sort behind straight-line code so that execution starts at the
// first top-level statement.
const (
	priorityDeclaration = 3 // define, config
	prioritySprite      = 2
	priorityCode        = 1 // raw, label, instruction
	priorityProcedure   = 0
)

// Statement is implemented by every AST node. Label and procedure
// statements exclusively own their nested statement lists, so the tree is
// acyclic by construction; symbolic references are resolved by name lookup,
// never by pointer.
type Statement interface {
	stmtNode()
	Priority() int
	Pos() SourceLocation
	String() string
}

// DefineStatement represents  define name (number | default).
type DefineStatement struct {
	Name  Token
	Value Token // NUMERICAL or DEFAULT
}

func (*DefineStatement) stmtNode()             {}
func (s *DefineStatement) Priority() int       { return priorityDeclaration }
func (s *DefineStatement) Pos() SourceLocation { return s.Name.Loc }
func (s *DefineStatement) String() string {
	return fmt.Sprintf("Define(%s = %s)", s.Name.Lexeme, s.Value.Text())
}

// ConfigStatement represents  config name = (number | default).
type ConfigStatement struct {
	Name  Token
	Value Token // NUMERICAL or DEFAULT
}

func (*ConfigStatement) stmtNode()             {}
func (s *ConfigStatement) Priority() int       { return priorityDeclaration }
func (s *ConfigStatement) Pos() SourceLocation { return s.Name.Loc }
func (s *ConfigStatement) String() string {
	return fmt.Sprintf("Config(%s = %s)", s.Name.Lexeme, s.Value.Text())
}

// SpriteStatement represents  sprite name [row, row, ...].
type SpriteStatement struct {
	Name Token
	Rows []uint8 // pixel-pattern bytes, at most arch.MaxSpriteRows
}

func (*SpriteStatement) stmtNode()             {}
func (s *SpriteStatement) Priority() int       { return prioritySprite }
func (s *SpriteStatement) Pos() SourceLocation { return s.Name.Loc }
func (s *SpriteStatement) String() string {
	return fmt.Sprintf("Sprite(%s, rows=%d)", s.Name.Lexeme, len(s.Rows))
}

// RawStatement represents  raw(word)  emitted verbatim.
type RawStatement struct {
	Value Token // NUMERICAL or IDENTIFIER
}

func (*RawStatement) stmtNode()             {}
func (s *RawStatement) Priority() int       { return priorityCode }
func (s *RawStatement) Pos() SourceLocation { return s.Value.Loc }
func (s *RawStatement) String() string      { return fmt.Sprintf("Raw(%s)", s.Value.Text()) }

// LabelStatement represents  .name:  followed by its nested statements.
type LabelStatement struct {
	Name  Token
	Inner []Statement
}

func (*LabelStatement) stmtNode()             {}
func (s *LabelStatement) Priority() int       { return priorityCode }
func (s *LabelStatement) Pos() SourceLocation { return s.Name.Loc }
func (s *LabelStatement) String() string {
	return fmt.Sprintf("Label(%s, inner=%d)", s.Name.Lexeme, len(s.Inner))
}

// ProcedureStatement represents  proc name ... endp name.
type ProcedureStatement struct {
	Opening Token
	Closing Token
	Inner   []Statement
}

func (*ProcedureStatement) stmtNode()             {}
func (s *ProcedureStatement) Priority() int       { return priorityProcedure }
func (s *ProcedureStatement) Pos() SourceLocation { return s.Opening.Loc }
func (s *ProcedureStatement) String() string {
	return fmt.Sprintf("Procedure(%s, inner=%d)", s.Opening.Lexeme, len(s.Inner))
}

// InstructionStatement represents  mnemonic operand, operand, ...
type InstructionStatement struct {
	Mnemonic Token
	Operands []Operand
}

func (*InstructionStatement) stmtNode()             {}
func (s *InstructionStatement) Priority() int       { return priorityCode }
func (s *InstructionStatement) Pos() SourceLocation { return s.Mnemonic.Loc }
func (s *InstructionStatement) String() string {
	return fmt.Sprintf("Instruction(%s, operands=%v)", s.Mnemonic.Lexeme, s.Operands)
}

//  Abstract tree

// Tree owns the ordered top-level statement sequence and orchestrates the
// sanitize / reorder / generate phases.
type Tree struct {
	Statements []Statement
}

// Sanitize validates all symbol declarations and references and returns the
// populated symbol table.
func (t *Tree) Sanitize() (*SymbolTable, error) {
	s := newSanitizer()
	if err := s.traverse(t); err != nil {
		return nil, err
	}
	return s.symbols, nil
}

// Generate compiles the tree into the final machine-word sequence. It
// sanitizes, stably reorders statements by descending priority (equal
// priorities keep source order) and hands the result to the generator.
func (t *Tree) Generate() ([]uint16, error) {
	symbols, err := t.Sanitize()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(t.Statements, func(i, j int) bool {
		return t.Statements[i].Priority() > t.Statements[j].Priority()
	})

	g := newGenerator(symbols)
	return g.generate(t)
}
