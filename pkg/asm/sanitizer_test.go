package asm

import (
	"errors"
	"testing"
)

func sanitize(t *testing.T, src string) (*SymbolTable, error) {
	t.Helper()
	return mustParse(t, src).Sanitize()
}

func TestSanitizeRegistersAllCategories(t *testing.T) {
	symbols, err := sanitize(t, `
define speed 5
config screen_width = default
sprite dot [1, 2]
proc blink
  ret
endp blink
.loop:
  mov v0, speed
`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		kind SymbolKind
	}{
		{"speed", SymDefine},
		{"screen_width", SymConfig},
		{"dot", SymSprite},
		{"loop", SymLabel},
		{"blink", SymProc},
	}
	for _, tt := range tests {
		sym, ok := symbols.Lookup(tt.name)
		if !ok {
			t.Errorf("symbol %q not registered", tt.name)
			continue
		}
		if sym.Kind != tt.kind {
			t.Errorf("symbol %q kind = %s, want %s", tt.name, sym.Kind, tt.kind)
		}
	}

	// The defaulted config resolves to the architecture value.
	if sym, _ := symbols.Lookup("screen_width"); sym.Value != 64 {
		t.Errorf("screen_width = %d, want 64", sym.Value)
	}
}

// Names are unique across all categories combined, not just within one.
func TestSanitizeDuplicateAcrossCategories(t *testing.T) {
	sources := []string{
		"define x 1\ndefine x 2",
		"define x 1\n.x:\n cls",
		"sprite x [1]\nproc x\n ret\nendp x",
		"config x = 1\nsprite x [2]",
		"proc x\n .x:\n  cls\nendp x",
	}
	for _, src := range sources {
		_, err := sanitize(t, src)
		var dup *DuplicateSymbol
		if !errors.As(err, &dup) {
			t.Errorf("Sanitize(%q) error = %v, want DuplicateSymbol", src, err)
			continue
		}
		if dup.Name != "x" {
			t.Errorf("duplicate name = %q, want x", dup.Name)
		}
	}
}

func TestSanitizeUndefinedReferences(t *testing.T) {
	sources := []string{
		"jmp @nowhere",
		"call $nowhere",
		"mov i, #nowhere",
		"mov v0, nowhere",
		"mov i, [nowhere]",
		"raw(nowhere)",
	}
	for _, src := range sources {
		_, err := sanitize(t, src)
		var undef *UndefinedSymbol
		if !errors.As(err, &undef) {
			t.Errorf("Sanitize(%q) error = %v, want UndefinedSymbol", src, err)
			continue
		}
		if undef.Name != "nowhere" {
			t.Errorf("undefined name = %q, want nowhere", undef.Name)
		}
	}
}

// A declared name used through the wrong sigil is rejected with both
// categories named.
func TestSanitizeWrongCategory(t *testing.T) {
	_, err := sanitize(t, "sprite dot [1]\njmp @dot")
	var undef *UndefinedSymbol
	if !errors.As(err, &undef) {
		t.Fatalf("error = %v, want UndefinedSymbol", err)
	}
	if undef.Want != SymLabel || undef.Got != SymSprite {
		t.Errorf("category mismatch = want %s got %s; expected label/sprite", undef.Want, undef.Got)
	}

	// A label name cannot be used as a constant either.
	_, err = sanitize(t, ".spot:\n cls\nmov v0, spot")
	if !errors.As(err, &undef) {
		t.Fatalf("error = %v, want UndefinedSymbol", err)
	}
}

func TestSanitizeDefaults(t *testing.T) {
	symbols, err := sanitize(t, "define timer_rate default")
	if err != nil {
		t.Fatal(err)
	}
	if sym, _ := symbols.Lookup("timer_rate"); sym.Value != 60 {
		t.Errorf("timer_rate = %d, want 60", sym.Value)
	}

	_, err = sanitize(t, "define whatever default")
	var noDefault *NoDefaultValue
	if !errors.As(err, &noDefault) {
		t.Fatalf("error = %v, want NoDefaultValue", err)
	}
	if noDefault.Name != "whatever" {
		t.Errorf("NoDefaultValue name = %q, want whatever", noDefault.Name)
	}
}

// Nested scopes are traversed: a bad reference inside a procedure body is
// still caught.
func TestSanitizeNestedScopes(t *testing.T) {
	_, err := sanitize(t, "proc blink\n .w:\n  mov v0, missing\nendp blink")
	var undef *UndefinedSymbol
	if !errors.As(err, &undef) {
		t.Fatalf("error = %v, want UndefinedSymbol", err)
	}
}
