package arch

// OperandClass constrains what a template slot accepts and how the matched
// operand is folded into the instruction word.
type OperandClass int

const (
	ClassVReg  OperandClass = iota // general register; first match fills X, second Y
	ClassIReg                      // the address register i; no field bits
	ClassDT                        // delay timer; no field bits
	ClassST                        // sound timer; no field bits
	ClassImm4                      // immediate, low nibble
	ClassImm8                      // immediate, low byte
	ClassAddr                      // 12-bit address: immediate, @label, $proc, #sprite or [ref]
)

// Template is one legal operand shape of a mnemonic together with the base
// opcode its fields are ORed into.
type Template struct {
	Base     uint16
	Operands []OperandClass
}

// Templates maps every mnemonic to its accepted shapes. The encoding follows
// the standard CHIP-8 instruction set: X is the first general register
// (bits 8..11), Y the second (bits 4..7), immediates fill the low nibble,
// byte or 12 bits as declared.
var Templates = map[string][]Template{
	"cls": {{Base: 0x00E0}},
	"ret": {{Base: 0x00EE}},

	"jmp":  {{Base: 0x1000, Operands: []OperandClass{ClassAddr}}},
	"call": {{Base: 0x2000, Operands: []OperandClass{ClassAddr}}},

	"se": {
		{Base: 0x3000, Operands: []OperandClass{ClassVReg, ClassImm8}},
		{Base: 0x5000, Operands: []OperandClass{ClassVReg, ClassVReg}},
	},
	"sne": {
		{Base: 0x4000, Operands: []OperandClass{ClassVReg, ClassImm8}},
		{Base: 0x9000, Operands: []OperandClass{ClassVReg, ClassVReg}},
	},

	"mov": {
		{Base: 0x6000, Operands: []OperandClass{ClassVReg, ClassImm8}},
		{Base: 0x8000, Operands: []OperandClass{ClassVReg, ClassVReg}},
		{Base: 0xA000, Operands: []OperandClass{ClassIReg, ClassAddr}},
		{Base: 0xF007, Operands: []OperandClass{ClassVReg, ClassDT}},
		{Base: 0xF015, Operands: []OperandClass{ClassDT, ClassVReg}},
		{Base: 0xF018, Operands: []OperandClass{ClassST, ClassVReg}},
	},
	"add": {
		{Base: 0x7000, Operands: []OperandClass{ClassVReg, ClassImm8}},
		{Base: 0x8004, Operands: []OperandClass{ClassVReg, ClassVReg}},
		{Base: 0xF01E, Operands: []OperandClass{ClassIReg, ClassVReg}},
	},

	"or":   {{Base: 0x8001, Operands: []OperandClass{ClassVReg, ClassVReg}}},
	"and":  {{Base: 0x8002, Operands: []OperandClass{ClassVReg, ClassVReg}}},
	"xor":  {{Base: 0x8003, Operands: []OperandClass{ClassVReg, ClassVReg}}},
	"sub":  {{Base: 0x8005, Operands: []OperandClass{ClassVReg, ClassVReg}}},
	"subn": {{Base: 0x8007, Operands: []OperandClass{ClassVReg, ClassVReg}}},
	"shr":  {{Base: 0x8006, Operands: []OperandClass{ClassVReg}}},
	"shl":  {{Base: 0x800E, Operands: []OperandClass{ClassVReg}}},

	"rand": {{Base: 0xC000, Operands: []OperandClass{ClassVReg, ClassImm8}}},
	"draw": {{Base: 0xD000, Operands: []OperandClass{ClassVReg, ClassVReg, ClassImm4}}},

	"skp":  {{Base: 0xE09E, Operands: []OperandClass{ClassVReg}}},
	"sknp": {{Base: 0xE0A1, Operands: []OperandClass{ClassVReg}}},

	"wkey": {{Base: 0xF00A, Operands: []OperandClass{ClassVReg}}},
	"font": {{Base: 0xF029, Operands: []OperandClass{ClassVReg}}},
	"bcd":  {{Base: 0xF033, Operands: []OperandClass{ClassVReg}}},
	"save": {{Base: 0xF055, Operands: []OperandClass{ClassVReg}}},
	"load": {{Base: 0xF065, Operands: []OperandClass{ClassVReg}}},
}

// IsMnemonic reports whether name is an instruction mnemonic.
func IsMnemonic(name string) bool {
	_, ok := Templates[name]
	return ok
}

// ImmFormat returns the immediate format a class validates against.
// Only meaningful for the immediate-carrying classes.
func (c OperandClass) ImmFormat() Format {
	switch c {
	case ClassImm4:
		return FmtImm4
	case ClassImm8:
		return FmtImm8
	default:
		return FmtImm12
	}
}
