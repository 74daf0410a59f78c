package asm

import (
	"errors"
	"reflect"
	"testing"
)

func assemble(t *testing.T, src string) []uint16 {
	t.Helper()
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q) error: %v", src, err)
	}
	return words
}

func assembleErr(t *testing.T, src string) error {
	t.Helper()
	_, err := Assemble(src)
	if err == nil {
		t.Fatalf("Assemble(%q) succeeded, want error", src)
	}
	return err
}

func TestEncodeInstructions(t *testing.T) {
	tests := []struct {
		src  string
		want uint16
	}{
		{"cls", 0x00E0},
		{"ret", 0x00EE},
		{"jmp 0x300", 0x1300},
		{"call 0x2A0", 0x22A0},
		{"se v1, 0x44", 0x3144},
		{"se v1, v2", 0x5120},
		{"sne v3, 7", 0x4307},
		{"sne v3, v4", 0x9340},
		{"mov v0, 0xFF", 0x60FF},
		{"mov va, vb", 0x8AB0},
		{"mov i, 0x2EA", 0xA2EA},
		{"mov i, [0x2EA]", 0xA2EA},
		{"mov v4, dt", 0xF407},
		{"mov dt, v3", 0xF315},
		{"mov st, v6", 0xF618},
		{"add v5, 1", 0x7501},
		{"add v5, v6", 0x8564},
		{"add i, v2", 0xF21E},
		{"or v1, v2", 0x8121},
		{"and v1, v2", 0x8122},
		{"xor v1, v2", 0x8123},
		{"sub v1, v2", 0x8125},
		{"subn v1, v2", 0x8127},
		{"shr v5", 0x8506},
		{"shl v5", 0x850E},
		{"rand v7, 0xFF", 0xC7FF},
		{"draw v0, v1, 5", 0xD015},
		{"skp v8", 0xE89E},
		{"sknp v8", 0xE8A1},
		{"wkey v9", 0xF90A},
		{"font v2", 0xF229},
		{"bcd v2", 0xF233},
		{"save v7", 0xF755},
		{"load v7", 0xF765},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			words := assemble(t, tt.src)
			if len(words) != 1 || words[0] != tt.want {
				t.Errorf("Assemble(%q) = %#04x, want %#04x", tt.src, words, tt.want)
			}
		})
	}
}

func TestEncodeConstantSubstitution(t *testing.T) {
	words := assemble(t, "define speed 5\nmov v0, speed")
	if !reflect.DeepEqual(words, []uint16{0x6005}) {
		t.Errorf("words = %#04x, want [0x6005]", words)
	}

	// Config values substitute the same way.
	words = assemble(t, "config screen_width = default\nmov v1, screen_width")
	if !reflect.DeepEqual(words, []uint16{0x6140}) {
		t.Errorf("words = %#04x, want [0x6140]", words)
	}

	// Ascii byte literals are plain numeric values.
	words = assemble(t, "define letter 'A'\nmov v0, letter")
	if !reflect.DeepEqual(words, []uint16{0x6041}) {
		t.Errorf("words = %#04x, want [0x6041]", words)
	}
}

func TestEncodeRawWords(t *testing.T) {
	words := assemble(t, "raw(0x1234)\ndefine filler 0xABCD\nraw(filler)")
	if !reflect.DeepEqual(words, []uint16{0x1234, 0xABCD}) {
		t.Errorf("words = %#04x, want [0x1234 0xABCD]", words)
	}
}

func TestLabelAddresses(t *testing.T) {
	// jmp is laid out at 0x200, so the label lands at 0x202.
	words := assemble(t, "jmp @main\n.main:\n  cls")
	if !reflect.DeepEqual(words, []uint16{0x1202, 0x00E0}) {
		t.Errorf("words = %#04x, want [0x1202 0x00E0]", words)
	}
}

func TestProcedureAddresses(t *testing.T) {
	// Procedures sort behind top-level code, so the call site comes first.
	words := assemble(t, "proc blink\n  ret\nendp blink\ncall $blink")
	if !reflect.DeepEqual(words, []uint16{0x2202, 0x00EE}) {
		t.Errorf("words = %#04x, want [0x2202 0x00EE]", words)
	}
}

func TestSpriteLayout(t *testing.T) {
	// The sprite rows are packed after the code region: the single mov
	// occupies 0x200..0x201, so the sprite starts at 0x202.
	words := assemble(t, "sprite s [1, 2, 3]\nmov i, #s")
	if !reflect.DeepEqual(words, []uint16{0xA202, 0x0102, 0x0300}) {
		t.Errorf("words = %#04x, want [0xA202 0x0102 0x0300]", words)
	}
}

func TestSpriteRowsPackPairwise(t *testing.T) {
	words := assemble(t, "sprite a [0xAA, 0xBB]\nsprite b [0xCC]\nmov i, #b")
	// a occupies 0x202..0x203, b starts at 0x204; rows pack into words
	// in declaration order with a trailing zero pad.
	if !reflect.DeepEqual(words, []uint16{0xA204, 0xAABB, 0xCC00}) {
		t.Errorf("words = %#04x, want [0xA204 0xAABB 0xCC00]", words)
	}
}

func TestImmediateWidthEnforcement(t *testing.T) {
	// At the maximum the value encodes; one unit above it fails.
	assemble(t, "mov v0, 255")
	err := assembleErr(t, "mov v0, 256")
	var overflow *ImmediateOverflow
	if !errors.As(err, &overflow) {
		t.Fatalf("error = %v, want ImmediateOverflow", err)
	}
	if overflow.Value != 256 || overflow.Max != 255 {
		t.Errorf("overflow = %+v, want value 256 max 255", overflow)
	}

	assemble(t, "draw v0, v1, 15")
	err = assembleErr(t, "draw v0, v1, 16")
	if !errors.As(err, &overflow) {
		t.Fatalf("error = %v, want ImmediateOverflow", err)
	}

	assemble(t, "jmp 0xFFF")
	err = assembleErr(t, "define far 0x1000\njmp far")
	if !errors.As(err, &overflow) {
		t.Fatalf("error = %v, want ImmediateOverflow", err)
	}
}

func TestOperandMismatch(t *testing.T) {
	sources := []string{
		"cls v0",
		"draw v0, v1",
		"mov v0",
		"mov 5, v0",
		"add dt, v0",
		"jmp v0",
	}
	for _, src := range sources {
		err := assembleErr(t, src)
		var mismatch *OperandMismatch
		if !errors.As(err, &mismatch) {
			t.Errorf("Assemble(%q) error = %v, want OperandMismatch", src, err)
		}
	}
}
