// Package asm compiles chasm assembly source into CHIP-8 machine words.
//
// Pipeline: source text → Lex → Parse → sanitize → reorder → generate →
// []uint16 loaded at arch.BaseAddress. Every stage is a pure transformation;
// the first error encountered terminates the compilation with no output.
package asm

// Assemble runs the full pipeline over one source buffer and returns the
// program image as machine words. Compiling the same source twice yields an
// identical word sequence.
func Assemble(src string) ([]uint16, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	tree, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	return tree.Generate()
}
