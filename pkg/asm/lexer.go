package asm

import (
	"unicode"

	"chasm/pkg/arch"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"define":  DEFINE,
	"config":  CONFIG,
	"default": DEFAULT,
	"sprite":  SPRITE,
	"raw":     RAW,
	"proc":    PROC_START,
	"endp":    PROC_END,
}

// Lexer holds all mutable state for a single scanning pass over src.
// Its cursor tracks the 1-based line/column of the next rune.
type Lexer struct {
	src    []rune
	pos    int
	cursor SourceLocation
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), cursor: SourceLocation{Line: 1, Col: 1}}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune, keeping the cursor in sync.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.cursor.Line++
		l.cursor.Col = 1
	} else {
		l.cursor.Col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipComment discards everything from ';' to end-of-line.
func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// scanAlpha collects a maximal run of letters, digits and underscores and
// classifies it against the keyword set, the register set and the mnemonic
// set, falling back to a generic identifier.
func (l *Lexer) scanAlpha() Token {
	loc := l.cursor
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])

	if kw, ok := keywords[lexeme]; ok {
		return Token{Type: kw, Lexeme: lexeme, Loc: loc}
	}
	if arch.IsRegister(lexeme) {
		return Token{Type: REGISTER_NAME, Lexeme: lexeme, Loc: loc}
	}
	if arch.IsMnemonic(lexeme) {
		return Token{Type: INSTRUCTION, Lexeme: lexeme, Loc: loc}
	}
	return Token{Type: IDENTIFIER, Lexeme: lexeme, Loc: loc}
}

func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}

// scanNumeric collects an integer literal. A "0x" prefix declares base 16
// and "0b" base 2; everything else is decimal. The digit run is maximal
// over letters and digits so that a stray letter inside a literal is
// reported against the declared base instead of starting a new token.
func (l *Lexer) scanNumeric() (Token, error) {
	loc := l.cursor
	start := l.pos
	base := 10

	if l.peek() == '0' && l.pos+1 < len(l.src) {
		switch l.src[l.pos+1] {
		case 'x', 'X':
			base = 16
			l.advance()
			l.advance()
		case 'b', 'B':
			base = 2
			l.advance()
			l.advance()
		}
	}

	value := 0
	overflow := false
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		d, ok := digitValue(r)
		if !ok || d >= base {
			return Token{}, &InvalidDigitForBase{Digit: byte(r), Base: base, Loc: l.cursor}
		}
		value = value*base + d
		if value > 0xFFFF {
			overflow = true
		}
		l.advance()
	}

	lexeme := string(l.src[start:l.pos])
	if overflow {
		return Token{}, &NumericConstantTooLarge{Lexeme: lexeme, Loc: loc}
	}
	return Token{Type: NUMERICAL, Value: uint16(value), Lexeme: lexeme, Loc: loc}, nil
}

// scanAscii collects a single-character literal 'A' and normalizes it to a
// numeric token holding the character code.
func (l *Lexer) scanAscii() (Token, error) {
	loc := l.cursor
	l.advance() // opening quote

	if l.pos >= len(l.src) {
		return Token{}, &UnexpectedEOF{Loc: l.cursor}
	}
	r := l.advance()
	if r > 0x7F {
		return Token{}, &UndefinedCharacterToken{Char: r, Loc: loc}
	}
	if l.peek() != '\'' {
		return Token{}, &UndefinedCharacterToken{Char: l.peek(), Loc: l.cursor}
	}
	l.advance() // closing quote

	return Token{Type: NUMERICAL, Value: uint16(r), Lexeme: string(r), Loc: loc}, nil
}

// singleTokens maps one-character punctuation and sigils to their kind.
var singleTokens = map[rune]TokenType{
	'[': BRACKET_OPEN,
	']': BRACKET_CLOSE,
	'(': PAREN_OPEN,
	')': PAREN_CLOSE,
	':': COLON,
	',': COMMA,
	'=': EQUAL,
	'.': DOT_LABEL,
	'@': AT_LABEL,
	'$': DOLLAR_PROC,
	'#': HASH_SPRITE,
}

// nextToken skips whitespace and comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Loc: l.cursor}, nil
		}
		if l.peek() == ';' {
			l.skipComment()
			continue
		}
		break
	}

	r := l.peek()
	loc := l.cursor

	switch {
	case unicode.IsDigit(r):
		return l.scanNumeric()
	case r == '\'':
		return l.scanAscii()
	case unicode.IsLetter(r) || r == '_':
		return l.scanAlpha(), nil
	}

	if tt, ok := singleTokens[r]; ok {
		l.advance()
		return Token{Type: tt, Lexeme: string(r), Loc: loc}, nil
	}

	return Token{}, &UndefinedCharacterToken{Char: r, Loc: loc}
}

// Lex tokenizes src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first character that cannot be lexed.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
