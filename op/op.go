// Package op defines opcodes used by the SPK assembler and virtual machine.
package op

// Code is a single-byte opcode that indicates an operation to execute.
type Code byte

const (
	Invalid Code = 0

	// Stack
	Push Code = 1
	Dup  Code = 2
	Pop  Code = 3
	Flip Code = 4
	Swap Code = 5

	// I/O
	Out Code = 10
	Inp Code = 11

	// Execution
	Halt Code = 12

	// Unary
	Negate Code = 20
	Sign   Code = 21

	// Binary
	Add Code = 30
	Sub Code = 31
	Mul Code = 32
	Div Code = 33
	Mod Code = 34
	Pow Code = 35

	// Variables
	CreateVar Code = 40
	GetVar    Code = 41

	// Jump
	Jmp  Code = 50
	Je   Code = 51
	Jne  Code = 52
	Jl   Code = 53
	Jg   Code = 54
	Jle  Code = 55
	Jge  Code = 56
	Jln  Code = 57
	Jgn  Code = 58
	Jev  Code = 59
	Jue  Code = 60
	Loop Code = 61
	Call Code = 62
)

// OperandKind describes what follows an opcode in the instruction stream.
type OperandKind int

const (
	// NoOperand opcodes occupy a single byte.
	NoOperand OperandKind = iota
	// IntOperand opcodes are followed by a 4 byte big-endian integer.
	IntOperand
	// RawStringOperand opcodes are followed by a 4 byte length and that
	// many bytes of UTF-8 text.
	RawStringOperand
)

// IntOperandSize is the width in bytes of an encoded integer operand.
const IntOperandSize = 4

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand OperandKind
}

// Size returns the encoded size of the instruction, or -1 when the size
// depends on the operand (raw strings).
func (i Info) Size() int {
	switch i.Operand {
	case IntOperand:
		return 1 + IntOperandSize
	case RawStringOperand:
		return -1
	default:
		return 1
	}
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{Add, "ADD", NoOperand},
		{Call, "CALL", IntOperand},
		{CreateVar, "CREATE_VAR", RawStringOperand},
		{Div, "DIV", NoOperand},
		{Dup, "DUP", NoOperand},
		{Flip, "FLIP", NoOperand},
		{GetVar, "GET_VAR", RawStringOperand},
		{Halt, "HALT", NoOperand},
		{Inp, "INP", NoOperand},
		{Je, "JE", IntOperand},
		{Jev, "JEV", IntOperand},
		{Jg, "JG", IntOperand},
		{Jge, "JGE", IntOperand},
		{Jgn, "JGN", IntOperand},
		{Jl, "JL", IntOperand},
		{Jle, "JLE", IntOperand},
		{Jln, "JLN", IntOperand},
		{Jmp, "JMP", IntOperand},
		{Jne, "JNE", IntOperand},
		{Jue, "JUE", IntOperand},
		{Loop, "LOOP", IntOperand},
		{Mod, "MOD", NoOperand},
		{Mul, "MUL", NoOperand},
		{Negate, "NEGATE", NoOperand},
		{Out, "OUT", NoOperand},
		{Pop, "POP", NoOperand},
		{Pow, "POW", NoOperand},
		{Push, "PUSH", IntOperand},
		{Sign, "SIGN", NoOperand},
		{Sub, "SUB", NoOperand},
		{Swap, "SWAP", NoOperand},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes
// return an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsJump reports whether the opcode takes a jump target as its operand.
func (c Code) IsJump() bool {
	return c >= Jmp && c <= Call
}

// String returns the opcode name, e.g. "PUSH".
func (c Code) String() string {
	return infos[c].Name
}

var binaryOps = map[byte]Code{
	'+': Add,
	'-': Sub,
	'*': Mul,
	'/': Div,
	'%': Mod,
	'^': Pow,
}

// BinaryOp returns the opcode for a binary operator character such as '+'.
func BinaryOp(symbol byte) (Code, bool) {
	code, ok := binaryOps[symbol]
	return code, ok
}

// BinarySymbol returns the operator character for a binary opcode, or 0
// if the opcode is not a binary operation.
func BinarySymbol(code Code) byte {
	for symbol, c := range binaryOps {
		if c == code {
			return symbol
		}
	}
	return 0
}
