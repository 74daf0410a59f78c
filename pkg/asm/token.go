package asm

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	NUMERICAL  // decimal/hex/binary integer literal, or 'A' ascii byte
	IDENTIFIER // define/config names, label/proc/sprite names

	// Keywords
	DEFINE     // "define"
	CONFIG     // "config"
	DEFAULT    // "default"
	SPRITE     // "sprite"
	RAW        // "raw"
	PROC_START // "proc"
	PROC_END   // "endp"

	INSTRUCTION   // mnemonic: mov, jmp, draw...
	REGISTER_NAME // v0..vf, i, dt, st

	// Delimiters and sigils
	BRACKET_OPEN  // [
	BRACKET_CLOSE // ]
	PAREN_OPEN    // (
	PAREN_CLOSE   // )
	COLON         // :
	COMMA         // ,
	EQUAL         // =
	DOT_LABEL     // . (label declaration)
	AT_LABEL      // @ (label reference)
	DOLLAR_PROC   // $ (procedure reference)
	HASH_SPRITE   // # (sprite reference)
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:           "eof",
	NUMERICAL:     "numerical",
	IDENTIFIER:    "identifier",
	DEFINE:        "define",
	CONFIG:        "config",
	DEFAULT:       "default",
	SPRITE:        "sprite",
	RAW:           "raw",
	PROC_START:    "proc",
	PROC_END:      "endp",
	INSTRUCTION:   "instruction",
	REGISTER_NAME: "register name",
	BRACKET_OPEN:  "open bracket",
	BRACKET_CLOSE: "close bracket",
	PAREN_OPEN:    "open parenthesis",
	PAREN_CLOSE:   "close parenthesis",
	COLON:         "colon",
	COMMA:         "comma",
	EQUAL:         "equal",
	DOT_LABEL:     "dot",
	AT_LABEL:      "@",
	DOLLAR_PROC:   "$",
	HASH_SPRITE:   "#",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// SourceLocation is a 1-based line/column cursor into the source buffer.
type SourceLocation struct {
	Line int
	Col  int
}

func (loc SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Col)
}

// Token is a single lexical unit produced by the Lexer. Numeric and ascii
// literals carry their 16-bit value in Value; every other kind carries the
// matched source text in Lexeme.
type Token struct {
	Type   TokenType
	Loc    SourceLocation
	Value  uint16
	Lexeme string
}

// Text renders the token payload for diagnostics.
func (t Token) Text() string {
	if t.Type == NUMERICAL {
		return fmt.Sprintf("%d", t.Value)
	}
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Type.String()
}

func (t Token) String() string {
	return fmt.Sprintf("%-16s %-14q  %s", t.Type, t.Text(), t.Loc)
}
