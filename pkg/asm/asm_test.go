package asm

import (
	"errors"
	"reflect"
	"testing"
)

// demoProgram exercises every statement kind: constants, configs, sprites,
// labels with forward references, a procedure and raw data.
const demoProgram = `
; draw a dot and loop forever
config screen_width = default
define xpos 10
define ypos 5

sprite dot [0x80, 0x80]

mov v0, xpos
mov v1, ypos
call $show

proc show
  mov i, #dot
  draw v0, v1, 2
  ret
endp show

raw(0xBEEF)

.forever:
  jmp @forever
`

func TestAssembleDemoProgram(t *testing.T) {
	words := assemble(t, demoProgram)

	// Layout: 3 top-level instructions, raw, the label's jmp, then the
	// procedure body (procedures sort last), then the sprite rows.
	want := []uint16{
		0x600A, // mov v0, 10
		0x6105, // mov v1, 5
		0x220A, // call show (0x20A)
		0xBEEF, // raw
		0x1208, // jmp forever (0x208)
		0xA210, // mov i, dot (0x210)
		0xD012, // draw v0, v1, 2
		0x00EE, // ret
		0x8080, // sprite rows
	}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("words = %#04x\nwant    %#04x", words, want)
	}
}

// Compiling the same source twice yields byte-identical output.
func TestAssembleDeterministic(t *testing.T) {
	first := assemble(t, demoProgram)
	second := assemble(t, demoProgram)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two compilations differ:\n%#04x\n%#04x", first, second)
	}
}

// Moving a declaration anywhere in its scope does not change the image:
// the priority-based reordering puts declarations ahead of uses.
func TestDeclarationOrderIndependence(t *testing.T) {
	declarationsFirst := `
define xpos 10
sprite dot [0x80]
config stack_depth = default
mov v0, xpos
mov i, #dot
call $show
proc show
  ret
endp show
`
	declarationsLast := `
mov v0, xpos
mov i, #dot
call $show
proc show
  ret
endp show
define xpos 10
sprite dot [0x80]
config stack_depth = default
`
	first := assemble(t, declarationsFirst)
	second := assemble(t, declarationsLast)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("declaration position changed the image:\n%#04x\n%#04x", first, second)
	}
}

// A 17-bit literal is rejected by the lexer before any parsing happens.
func TestOversizedLiteralFailsAtLexTime(t *testing.T) {
	err := assembleErr(t, "mov v0, 70000")
	var tooLarge *NumericConstantTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("error = %v, want NumericConstantTooLarge", err)
	}
}

func TestSymbolConflictFailsCompilation(t *testing.T) {
	err := assembleErr(t, "define dot 1\nsprite dot [2]\nmov v0, dot")
	var dup *DuplicateSymbol
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateSymbol", err)
	}
}

func TestProcedureNameMatching(t *testing.T) {
	assemble(t, "proc foo\n ret\nendp foo\ncall $foo")

	err := assembleErr(t, "proc foo\n ret\nendp bar")
	var unmatched *UnmatchingProcedureNames
	if !errors.As(err, &unmatched) {
		t.Fatalf("error = %v, want UnmatchingProcedureNames", err)
	}
}
