package rom

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteBigEndian(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []uint16{0x600A, 0x00E0}); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x60, 0x0A, 0x00, 0xE0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Write() = % x, want % x", buf.Bytes(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	words := []uint16{0x1234, 0xABCD, 0x0000, 0xFFFF}

	var buf bytes.Buffer
	if err := Write(&buf, words); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, words) {
		t.Errorf("Read(Write(%#04x)) = %#04x", words, got)
	}
}

func TestReadOddLength(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte{0x12, 0x34, 0x56})); err == nil {
		t.Error("Read() accepted a 3-byte image, want error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.c8c")
	words := []uint16{0x00E0, 0x1200}

	if err := WriteFile(path, words); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, words) {
		t.Errorf("ReadFile = %#04x, want %#04x", got, words)
	}
}
