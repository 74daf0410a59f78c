// Package arch describes the fixed CHIP-8 target: its registers, immediate
// formats, opcode templates and memory layout constants. It is consulted by
// the lexer, parser and generator in pkg/asm and depends on none of them.
package arch

// Memory layout of the target machine.
const (
	// BaseAddress is where the interpreter loads a program image.
	BaseAddress = 0x200
	// MemorySize is the total addressable memory in bytes.
	MemorySize = 4096
	// MaxSpriteRows is the tallest sprite the draw instruction can render.
	MaxSpriteRows = 15
)

// Format identifies one of the immediate-width families an operand can be
// encoded into. Each instruction template declares the format of every
// immediate field it carries.
type Format int

const (
	FmtImm4  Format = iota // low nibble, 0..15
	FmtImm8                // low byte, 0..255
	FmtImm12               // low 12 bits, 0..4095 (addresses)
)

// Max returns the largest value the format can hold.
func (f Format) Max() uint16 {
	switch f {
	case FmtImm4:
		return 0xF
	case FmtImm8:
		return 0xFF
	default:
		return 0xFFF
	}
}

// Fits reports whether v can be encoded in format f.
func Fits(v uint16, f Format) bool {
	return v <= f.Max()
}

// generalRegisters maps a general-purpose register name to its 4-bit index.
var generalRegisters = map[string]uint16{
	"v0": 0x0, "v1": 0x1, "v2": 0x2, "v3": 0x3,
	"v4": 0x4, "v5": 0x5, "v6": 0x6, "v7": 0x7,
	"v8": 0x8, "v9": 0x9, "va": 0xA, "vb": 0xB,
	"vc": 0xC, "vd": 0xD, "ve": 0xE, "vf": 0xF,
}

// specialRegisters are named machine registers that carry no index field:
// the address register i and the delay/sound timers.
var specialRegisters = map[string]bool{
	"i":  true,
	"dt": true,
	"st": true,
}

// IsRegister reports whether name denotes any register of the machine.
func IsRegister(name string) bool {
	if specialRegisters[name] {
		return true
	}
	_, ok := generalRegisters[name]
	return ok
}

// RegisterIndex returns the encoding index of a general-purpose register.
// The second result is false for special registers and unknown names.
func RegisterIndex(name string) (uint16, bool) {
	idx, ok := generalRegisters[name]
	return idx, ok
}

// Defaults holds the architecture-declared default for every configuration
// symbol that supports the "default" marker.
var Defaults = map[string]uint16{
	"screen_width":  64,
	"screen_height": 32,
	"stack_depth":   16,
	"timer_rate":    60,
	"memory_size":   MemorySize,
}

// DefaultValue looks up the declared default for name.
func DefaultValue(name string) (uint16, bool) {
	v, ok := Defaults[name]
	return v, ok
}
