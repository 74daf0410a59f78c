package asm

import "chasm/pkg/arch"

// Parser consumes the flat token slice produced by the Lexer and builds the
// abstract tree by recursive descent with one-token lookahead.
//
// Grammar:
//
//	program    = statement* EOF
//	statement  = define | config | sprite | raw | label | procedure | instruction
//	define     = "define" IDENTIFIER (NUMERICAL | "default")
//	config     = "config" IDENTIFIER "=" (NUMERICAL | "default")
//	sprite     = "sprite" IDENTIFIER "[" NUMERICAL ("," NUMERICAL)* "]"
//	raw        = "raw" "(" (NUMERICAL | IDENTIFIER) ")"
//	label      = "." IDENTIFIER ":" inner*        terminated by label/endp/EOF
//	procedure  = "proc" IDENTIFIER inner* "endp" IDENTIFIER
//	instruction = INSTRUCTION (operand ("," operand)*)?
//	operand    = REGISTER | "@" IDENTIFIER | "$" IDENTIFIER | "#" IDENTIFIER
//	           | "[" (NUMERICAL | IDENTIFIER) "]" | NUMERICAL | IDENTIFIER
//
// The parser validates shape only; symbol existence and uniqueness are the
// sanitizer's job.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// advanceIf consumes the current token only when it matches tt.
func (p *Parser) advanceIf(tt TokenType) bool {
	if p.peek().Type == tt {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches one of the given kinds,
// otherwise it fails with the full expected set.
func (p *Parser) expect(types ...TokenType) (Token, error) {
	tok := p.peek()
	for _, tt := range types {
		if tok.Type == tt {
			return p.advance(), nil
		}
	}
	return tok, &UnexpectedToken{Got: tok, Expected: types}
}

// MakeTree parses every primary statement until tokens are exhausted.
func (p *Parser) MakeTree() (*Tree, error) {
	var statements []Statement
	for p.peek().Type != EOF {
		stmt, err := p.parsePrimaryStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return &Tree{Statements: statements}, nil
}

// Parse is the package-level convenience wrapper around MakeTree.
func Parse(tokens []Token) (*Tree, error) {
	return NewParser(tokens).MakeTree()
}

func (p *Parser) parsePrimaryStatement() (Statement, error) {
	switch p.peek().Type {
	case DEFINE:
		return p.parseDefine()
	case CONFIG:
		return p.parseConfig()
	case SPRITE:
		return p.parseSprite()
	case RAW:
		return p.parseRaw()
	case DOT_LABEL:
		return p.parseLabel()
	case PROC_START:
		return p.parseProcedure()
	case INSTRUCTION:
		return p.parseInstruction()
	default:
		return nil, &UnexpectedToken{Got: p.peek()}
	}
}

func (p *Parser) parseDefine() (Statement, error) {
	if _, err := p.expect(DEFINE); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	value, err := p.expect(NUMERICAL, DEFAULT)
	if err != nil {
		return nil, err
	}
	return &DefineStatement{Name: name, Value: value}, nil
}

func (p *Parser) parseConfig() (Statement, error) {
	if _, err := p.expect(CONFIG); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUAL); err != nil {
		return nil, err
	}
	value, err := p.expect(NUMERICAL, DEFAULT)
	if err != nil {
		return nil, err
	}
	return &ConfigStatement{Name: name, Value: value}, nil
}

func (p *Parser) parseSprite() (Statement, error) {
	if _, err := p.expect(SPRITE); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(BRACKET_OPEN); err != nil {
		return nil, err
	}

	var rows []uint8
	for {
		row, err := p.expect(NUMERICAL)
		if err != nil {
			return nil, err
		}
		if len(rows) >= arch.MaxSpriteRows {
			return nil, &SpriteTooLarge{Name: name.Lexeme, Rows: len(rows) + 1, Loc: row.Loc}
		}
		if !arch.Fits(row.Value, arch.FmtImm8) {
			return nil, &ImmediateOverflow{Value: row.Value, Max: arch.FmtImm8.Max(), Loc: row.Loc}
		}
		rows = append(rows, uint8(row.Value))

		if !p.advanceIf(COMMA) {
			break
		}
	}

	if _, err := p.expect(BRACKET_CLOSE); err != nil {
		return nil, err
	}
	return &SpriteStatement{Name: name, Rows: rows}, nil
}

func (p *Parser) parseRaw() (Statement, error) {
	if _, err := p.expect(RAW); err != nil {
		return nil, err
	}
	if _, err := p.expect(PAREN_OPEN); err != nil {
		return nil, err
	}
	value, err := p.expect(NUMERICAL, IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(PAREN_CLOSE); err != nil {
		return nil, err
	}
	return &RawStatement{Value: value}, nil
}

// parseLabel reads ".name:" and the statements it scopes. The body runs
// until the next label, a procedure end, or end of input; there is no
// explicit closing token.
func (p *Parser) parseLabel() (Statement, error) {
	if _, err := p.expect(DOT_LABEL); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}

	var inner []Statement
	for {
		var stmt Statement
		switch p.peek().Type {
		case EOF, DOT_LABEL, PROC_END:
			return &LabelStatement{Name: name, Inner: inner}, nil
		case DEFINE:
			stmt, err = p.parseDefine()
		case CONFIG:
			stmt, err = p.parseConfig()
		case RAW:
			stmt, err = p.parseRaw()
		case INSTRUCTION:
			stmt, err = p.parseInstruction()
		default:
			return nil, &UnexpectedToken{Got: p.peek()}
		}
		if err != nil {
			return nil, err
		}
		inner = append(inner, stmt)
	}
}

// parseProcedure reads "proc name ... endp name". Labels may nest inside a
// procedure body; another procedure may not.
func (p *Parser) parseProcedure() (Statement, error) {
	if _, err := p.expect(PROC_START); err != nil {
		return nil, err
	}
	opening, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	var inner []Statement
body:
	for {
		var stmt Statement
		switch p.peek().Type {
		case EOF:
			return nil, &UnexpectedEOF{Loc: p.peek().Loc}
		case PROC_END:
			break body
		case PROC_START:
			return nil, &NestedProcedure{Loc: p.peek().Loc}
		case DEFINE:
			stmt, err = p.parseDefine()
		case CONFIG:
			stmt, err = p.parseConfig()
		case RAW:
			stmt, err = p.parseRaw()
		case DOT_LABEL:
			stmt, err = p.parseLabel()
		case INSTRUCTION:
			stmt, err = p.parseInstruction()
		default:
			return nil, &UnexpectedToken{Got: p.peek()}
		}
		if err != nil {
			return nil, err
		}
		inner = append(inner, stmt)
	}

	if _, err := p.expect(PROC_END); err != nil {
		return nil, err
	}
	closing, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if closing.Lexeme != opening.Lexeme {
		return nil, &UnmatchingProcedureNames{Opening: opening, Closing: closing}
	}
	return &ProcedureStatement{Opening: opening, Closing: closing, Inner: inner}, nil
}

func (p *Parser) parseInstruction() (Statement, error) {
	mnemonic, err := p.expect(INSTRUCTION)
	if err != nil {
		return nil, err
	}
	operands, err := p.parseOperands()
	if err != nil {
		return nil, err
	}
	return &InstructionStatement{Mnemonic: mnemonic, Operands: operands}, nil
}

// operandStarters are the token kinds that can begin an operand; the first
// token outside this set ends the operand list.
var operandStarters = map[TokenType]bool{
	REGISTER_NAME: true,
	IDENTIFIER:    true,
	NUMERICAL:     true,
	AT_LABEL:      true,
	DOLLAR_PROC:   true,
	HASH_SPRITE:   true,
	BRACKET_OPEN:  true,
}

func (p *Parser) parseOperands() ([]Operand, error) {
	var operands []Operand
	for operandStarters[p.peek().Type] {
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, op)

		if !p.advanceIf(COMMA) {
			break
		}
	}
	return operands, nil
}

// parseOperand dispatches on the leading token of a single operand.
func (p *Parser) parseOperand() (Operand, error) {
	tok := p.advance()

	switch tok.Type {
	case REGISTER_NAME:
		return &RegisterOperand{Reg: tok}, nil

	case AT_LABEL:
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &LabelOperand{Name: name}, nil

	case DOLLAR_PROC:
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &ProcOperand{Name: name}, nil

	case HASH_SPRITE:
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &SpriteOperand{Name: name}, nil

	case BRACKET_OPEN:
		inner, err := p.expect(NUMERICAL, IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(BRACKET_CLOSE); err != nil {
			return nil, err
		}
		return &IndirectOperand{Inner: inner}, nil

	case NUMERICAL, IDENTIFIER:
		return &ImmediateOperand{Value: tok}, nil

	default:
		return nil, &UnexpectedToken{Got: tok, Expected: []TokenType{
			REGISTER_NAME, IDENTIFIER, NUMERICAL, AT_LABEL, DOLLAR_PROC, HASH_SPRITE, BRACKET_OPEN,
		}}
	}
}
