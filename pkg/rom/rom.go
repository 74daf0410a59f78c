// Package rom reads and writes CHIP-8 program images as big-endian 16-bit
// words, the byte order the interpreter expects in memory.
package rom

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Write serializes the word sequence to w.
func Write(w io.Writer, words []uint16) error {
	return binary.Write(w, binary.BigEndian, words)
}

// WriteFile writes the word sequence to path, replacing any existing file.
func WriteFile(path string, words []uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, words)
}

// Read deserializes a whole program image from r.
func Read(r io.Reader) ([]uint16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("image is %d bytes, expected a whole number of 16-bit words", len(data))
	}

	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[i*2:])
	}
	return words, nil
}

// ReadFile reads a whole program image from path.
func ReadFile(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
