package asm

// sanitizer is the whole-tree symbol validation pass. It registers every
// declaration into a single namespace, resolves "default" markers, and
// verifies that every symbolic reference names a declared symbol of the
// matching category. Addresses are not assigned here; they depend on the
// final statement order, which the generator establishes afterwards.
type sanitizer struct {
	symbols *SymbolTable
}

func newSanitizer() *sanitizer {
	return &sanitizer{symbols: NewSymbolTable()}
}

// traverse runs both phases over the full tree, nested scopes included.
func (s *sanitizer) traverse(t *Tree) error {
	if err := s.collect(t.Statements); err != nil {
		return err
	}
	return s.check(t.Statements)
}

// collect is phase one: reserve every declared name so that forward
// references resolve no matter where they appear in the source.
func (s *sanitizer) collect(statements []Statement) error {
	for _, stmt := range statements {
		switch st := stmt.(type) {
		case *DefineStatement:
			value, err := valueOf(st.Name, st.Value)
			if err != nil {
				return err
			}
			if err := s.symbols.Declare(st.Name.Lexeme, &Symbol{
				Kind: SymDefine, Value: value, Addressed: true, Loc: st.Name.Loc,
			}); err != nil {
				return err
			}

		case *ConfigStatement:
			value, err := valueOf(st.Name, st.Value)
			if err != nil {
				return err
			}
			if err := s.symbols.Declare(st.Name.Lexeme, &Symbol{
				Kind: SymConfig, Value: value, Addressed: true, Loc: st.Name.Loc,
			}); err != nil {
				return err
			}

		case *SpriteStatement:
			if err := s.symbols.Declare(st.Name.Lexeme, &Symbol{
				Kind: SymSprite, Rows: st.Rows, Loc: st.Name.Loc,
			}); err != nil {
				return err
			}

		case *LabelStatement:
			if err := s.symbols.Declare(st.Name.Lexeme, &Symbol{
				Kind: SymLabel, Loc: st.Name.Loc,
			}); err != nil {
				return err
			}
			if err := s.collect(st.Inner); err != nil {
				return err
			}

		case *ProcedureStatement:
			if err := s.symbols.Declare(st.Opening.Lexeme, &Symbol{
				Kind: SymProc, Loc: st.Opening.Loc,
			}); err != nil {
				return err
			}
			if err := s.collect(st.Inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// check is phase two: every symbolic reference must resolve to a declared
// symbol of a compatible kind.
func (s *sanitizer) check(statements []Statement) error {
	for _, stmt := range statements {
		switch st := stmt.(type) {
		case *RawStatement:
			if st.Value.Type == IDENTIFIER {
				if _, err := s.symbols.constantValue(st.Value.Lexeme, st.Value.Loc); err != nil {
					return err
				}
			}

		case *LabelStatement:
			if err := s.check(st.Inner); err != nil {
				return err
			}

		case *ProcedureStatement:
			if err := s.check(st.Inner); err != nil {
				return err
			}

		case *InstructionStatement:
			for _, op := range st.Operands {
				if err := s.checkOperand(op); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *sanitizer) checkOperand(op Operand) error {
	switch o := op.(type) {
	case *ImmediateOperand:
		if o.Value.Type == IDENTIFIER {
			_, err := s.symbols.constantValue(o.Value.Lexeme, o.Value.Loc)
			return err
		}

	case *IndirectOperand:
		if o.Inner.Type == IDENTIFIER {
			_, err := s.symbols.constantValue(o.Inner.Lexeme, o.Inner.Loc)
			return err
		}

	case *LabelOperand:
		_, err := s.symbols.Resolve(o.Name.Lexeme, SymLabel, o.Name.Loc)
		return err

	case *ProcOperand:
		_, err := s.symbols.Resolve(o.Name.Lexeme, SymProc, o.Name.Loc)
		return err

	case *SpriteOperand:
		_, err := s.symbols.Resolve(o.Name.Lexeme, SymSprite, o.Name.Loc)
		return err
	}
	return nil
}
