package asm

import (
	"fmt"

	"chasm/pkg/arch"
)

// Every stage fails fast: the first error unwinds to the caller and no
// output is produced. The error kinds below mirror the taxonomy of the
// pipeline (lexical, syntactic, semantic, generation); each carries the
// offending lexeme and its source location so the CLI can render a
// one-line diagnostic.

// InvalidDigitForBase reports a digit that does not belong to the declared
// numeric base, e.g. 0b12 or 129f.
type InvalidDigitForBase struct {
	Digit byte
	Base  int
	Loc   SourceLocation
}

func (e *InvalidDigitForBase) Error() string {
	return fmt.Sprintf("invalid digit %q for numeric base %d at %s", e.Digit, e.Base, e.Loc)
}

// NumericConstantTooLarge reports a literal whose value exceeds 16 bits.
type NumericConstantTooLarge struct {
	Lexeme string
	Loc    SourceLocation
}

func (e *NumericConstantTooLarge) Error() string {
	return fmt.Sprintf("numeric constant %q at %s is too large for a 16-bit value", e.Lexeme, e.Loc)
}

// UndefinedCharacterToken reports a character that cannot start any token.
type UndefinedCharacterToken struct {
	Char rune
	Loc  SourceLocation
}

func (e *UndefinedCharacterToken) Error() string {
	return fmt.Sprintf("character %q cannot match any token at %s", e.Char, e.Loc)
}

// UnexpectedToken reports a token that does not fit the grammar at its
// position, together with the token kinds that would have.
type UnexpectedToken struct {
	Got      Token
	Expected []TokenType
}

func (e *UnexpectedToken) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("unexpected token %q (%s) at %s", e.Got.Text(), e.Got.Type, e.Got.Loc)
	}
	expected := ""
	for i, tt := range e.Expected {
		if i > 0 {
			expected += ", "
		}
		expected += tt.String()
	}
	return fmt.Sprintf("unexpected token %q (%s) at %s, expected (%s)", e.Got.Text(), e.Got.Type, e.Got.Loc, expected)
}

// UnexpectedEOF reports input that ended in the middle of a construct.
type UnexpectedEOF struct {
	Loc SourceLocation
}

func (e *UnexpectedEOF) Error() string {
	return fmt.Sprintf("expected more tokens before end of file at %s", e.Loc)
}

// UnmatchingProcedureNames reports an endp whose name differs from the
// opening proc name.
type UnmatchingProcedureNames struct {
	Opening Token
	Closing Token
}

func (e *UnmatchingProcedureNames) Error() string {
	return fmt.Sprintf("procedure opened as %q at %s but closed as %q at %s",
		e.Opening.Lexeme, e.Opening.Loc, e.Closing.Lexeme, e.Closing.Loc)
}

// NestedProcedure reports a procedure opened inside another procedure's
// body, which the grammar forbids.
type NestedProcedure struct {
	Loc SourceLocation
}

func (e *NestedProcedure) Error() string {
	return fmt.Sprintf("cannot define a procedure inside another at %s", e.Loc)
}

// DuplicateSymbol reports a name declared twice across any of the symbol
// categories (define, config, sprite, label, procedure).
type DuplicateSymbol struct {
	Name string
	Loc  SourceLocation
}

func (e *DuplicateSymbol) Error() string {
	return fmt.Sprintf("symbol %q at %s conflicts with an earlier declaration of the same name", e.Name, e.Loc)
}

// UndefinedSymbol reports a reference to a name that is never declared,
// or declared with an incompatible category.
type UndefinedSymbol struct {
	Name string
	Want SymbolKind
	Got  SymbolKind // SymNone when the name is unknown entirely
	Loc  SourceLocation
}

func (e *UndefinedSymbol) Error() string {
	if e.Got == SymNone {
		return fmt.Sprintf("reference to undefined %s %q at %s", e.Want, e.Name, e.Loc)
	}
	return fmt.Sprintf("symbol %q at %s is a %s, not a %s", e.Name, e.Loc, e.Got, e.Want)
}

// NoDefaultValue reports a "default" marker on a symbol the architecture
// declares no default for.
type NoDefaultValue struct {
	Name string
	Loc  SourceLocation
}

func (e *NoDefaultValue) Error() string {
	return fmt.Sprintf("symbol %q at %s has no architecture-declared default value", e.Name, e.Loc)
}

// OperandMismatch reports an instruction whose operand count or kinds fit
// none of the mnemonic's templates.
type OperandMismatch struct {
	Mnemonic Token
	Count    int
}

func (e *OperandMismatch) Error() string {
	return fmt.Sprintf("no %q encoding accepts these %d operand(s) at %s", e.Mnemonic.Lexeme, e.Count, e.Mnemonic.Loc)
}

// ImmediateOverflow reports an immediate value that exceeds the bit width
// its instruction field declares.
type ImmediateOverflow struct {
	Value uint16
	Max   uint16
	Loc   SourceLocation
}

func (e *ImmediateOverflow) Error() string {
	return fmt.Sprintf("immediate value %d at %s exceeds the field maximum %d", e.Value, e.Loc, e.Max)
}

// SpriteTooLarge reports a sprite with more rows than the draw instruction
// can render.
type SpriteTooLarge struct {
	Name string
	Rows int
	Loc  SourceLocation
}

func (e *SpriteTooLarge) Error() string {
	return fmt.Sprintf("sprite %q at %s has too many rows (%d > %d)", e.Name, e.Loc, e.Rows, arch.MaxSpriteRows)
}
