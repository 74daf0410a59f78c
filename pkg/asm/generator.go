package asm

import (
	"fmt"

	"chasm/pkg/arch"
)

// generator turns the sanitized, priority-ordered tree into the final
// program image. It walks the statements twice: a layout pass that assigns
// byte addresses from arch.BaseAddress and fixes label/procedure/sprite
// addresses, then an encoding pass that substitutes resolved symbol values
// into opcode templates.
type generator struct {
	symbols *SymbolTable
}

func newGenerator(symbols *SymbolTable) *generator {
	return &generator{symbols: symbols}
}

func (g *generator) generate(t *Tree) ([]uint16, error) {
	addr := uint16(arch.BaseAddress)
	var sprites []*SpriteStatement
	g.layout(t.Statements, &addr, &sprites)

	// Sprite rows are packed after the addressable code region.
	spriteBytes := 0
	for _, sp := range sprites {
		g.symbols.SetAddress(sp.Name.Lexeme, addr+uint16(spriteBytes))
		spriteBytes += len(sp.Rows)
	}

	if int(addr)+spriteBytes > arch.MemorySize {
		return nil, fmt.Errorf("program is too large: ends at byte %d, memory is %d bytes",
			int(addr)+spriteBytes, arch.MemorySize)
	}

	words, err := g.emit(t.Statements)
	if err != nil {
		return nil, err
	}
	return append(words, packRows(sprites)...), nil
}

// layout assigns one word per instruction and raw statement. A label or
// procedure address is the address of its first emitting statement, or the
// next statement's address when its body is empty.
func (g *generator) layout(statements []Statement, addr *uint16, sprites *[]*SpriteStatement) {
	for _, stmt := range statements {
		switch st := stmt.(type) {
		case *InstructionStatement, *RawStatement:
			*addr += 2
		case *LabelStatement:
			g.symbols.SetAddress(st.Name.Lexeme, *addr)
			g.layout(st.Inner, addr, sprites)
		case *ProcedureStatement:
			g.symbols.SetAddress(st.Opening.Lexeme, *addr)
			g.layout(st.Inner, addr, sprites)
		case *SpriteStatement:
			*sprites = append(*sprites, st)
		}
	}
}

// emit encodes every emitting statement in layout order.
func (g *generator) emit(statements []Statement) ([]uint16, error) {
	var words []uint16
	for _, stmt := range statements {
		switch st := stmt.(type) {
		case *RawStatement:
			value, err := g.tokenValue(st.Value)
			if err != nil {
				return nil, err
			}
			words = append(words, value)

		case *InstructionStatement:
			word, err := g.encode(st)
			if err != nil {
				return nil, err
			}
			words = append(words, word)

		case *LabelStatement:
			inner, err := g.emit(st.Inner)
			if err != nil {
				return nil, err
			}
			words = append(words, inner...)

		case *ProcedureStatement:
			inner, err := g.emit(st.Inner)
			if err != nil {
				return nil, err
			}
			words = append(words, inner...)
		}
	}
	return words, nil
}

// encode selects the opcode template matching the instruction's operand
// shapes and folds every operand into its field.
func (g *generator) encode(st *InstructionStatement) (uint16, error) {
	for _, tpl := range arch.Templates[st.Mnemonic.Lexeme] {
		if !matches(tpl, st.Operands) {
			continue
		}

		word := tpl.Base
		vregs := 0
		for i, class := range tpl.Operands {
			op := st.Operands[i]

			switch class {
			case arch.ClassVReg:
				idx, _ := arch.RegisterIndex(op.(*RegisterOperand).Reg.Lexeme)
				if vregs == 0 {
					word |= idx << 8
				} else {
					word |= idx << 4
				}
				vregs++

			case arch.ClassImm4, arch.ClassImm8:
				value, err := g.tokenValue(op.(*ImmediateOperand).Value)
				if err != nil {
					return 0, err
				}
				format := class.ImmFormat()
				if !arch.Fits(value, format) {
					return 0, &ImmediateOverflow{Value: value, Max: format.Max(), Loc: st.Mnemonic.Loc}
				}
				word |= value & format.Max()

			case arch.ClassAddr:
				value, err := g.addressValue(op)
				if err != nil {
					return 0, err
				}
				if !arch.Fits(value, arch.FmtImm12) {
					return 0, &ImmediateOverflow{Value: value, Max: arch.FmtImm12.Max(), Loc: st.Mnemonic.Loc}
				}
				word |= value & 0x0FFF
			}
		}
		return word, nil
	}

	return 0, &OperandMismatch{Mnemonic: st.Mnemonic, Count: len(st.Operands)}
}

// matches reports whether the operand list fits the template's shape.
func matches(tpl arch.Template, operands []Operand) bool {
	if len(operands) != len(tpl.Operands) {
		return false
	}
	for i, class := range tpl.Operands {
		switch class {
		case arch.ClassVReg:
			reg, ok := operands[i].(*RegisterOperand)
			if !ok {
				return false
			}
			if _, general := arch.RegisterIndex(reg.Reg.Lexeme); !general {
				return false
			}
		case arch.ClassIReg, arch.ClassDT, arch.ClassST:
			reg, ok := operands[i].(*RegisterOperand)
			if !ok || reg.Reg.Lexeme != specialName(class) {
				return false
			}
		case arch.ClassImm4, arch.ClassImm8:
			if _, ok := operands[i].(*ImmediateOperand); !ok {
				return false
			}
		case arch.ClassAddr:
			switch operands[i].(type) {
			case *ImmediateOperand, *LabelOperand, *ProcOperand, *SpriteOperand, *IndirectOperand:
			default:
				return false
			}
		}
	}
	return true
}

func specialName(class arch.OperandClass) string {
	switch class {
	case arch.ClassIReg:
		return "i"
	case arch.ClassDT:
		return "dt"
	default:
		return "st"
	}
}

// tokenValue resolves a numeric token or a define/config identifier use.
func (g *generator) tokenValue(tok Token) (uint16, error) {
	if tok.Type == IDENTIFIER {
		return g.symbols.constantValue(tok.Lexeme, tok.Loc)
	}
	return tok.Value, nil
}

// addressValue resolves any operand accepted in a 12-bit address field.
func (g *generator) addressValue(op Operand) (uint16, error) {
	switch o := op.(type) {
	case *ImmediateOperand:
		return g.tokenValue(o.Value)
	case *IndirectOperand:
		return g.tokenValue(o.Inner)
	case *LabelOperand:
		sym, err := g.symbols.Resolve(o.Name.Lexeme, SymLabel, o.Name.Loc)
		if err != nil {
			return 0, err
		}
		return sym.Value, nil
	case *ProcOperand:
		sym, err := g.symbols.Resolve(o.Name.Lexeme, SymProc, o.Name.Loc)
		if err != nil {
			return 0, err
		}
		return sym.Value, nil
	case *SpriteOperand:
		sym, err := g.symbols.Resolve(o.Name.Lexeme, SymSprite, o.Name.Loc)
		if err != nil {
			return 0, err
		}
		return sym.Value, nil
	}
	return 0, fmt.Errorf("operand %s cannot form an address", op)
}

// packRows concatenates all sprite rows and packs the byte stream into
// 16-bit words, padding an odd byte count with a zero byte.
func packRows(sprites []*SpriteStatement) []uint16 {
	var rows []uint8
	for _, sp := range sprites {
		rows = append(rows, sp.Rows...)
	}

	words := make([]uint16, 0, (len(rows)+1)/2)
	for i := 0; i < len(rows); i += 2 {
		word := uint16(rows[i]) << 8
		if i+1 < len(rows) {
			word |= uint16(rows[i+1])
		}
		words = append(words, word)
	}
	return words
}
