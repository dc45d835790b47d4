package bytecode

import (
	"fmt"

	"github.com/timsystem/spkasm/op"
)

// Instruction is one decoded instruction of a Code.
type Instruction struct {
	Offset  int
	Opcode  op.Code
	Operand int32  // set for op.IntOperand opcodes
	Text    string // set for op.RawStringOperand opcodes
	Size    int    // encoded size in bytes
}

// InstructionIter iterates over the instructions in a Code object.
type InstructionIter struct {
	code *Code
	pos  int
	err  error
}

// NewInstructionIter creates a new instruction iterator for the given code.
func NewInstructionIter(code *Code) *InstructionIter {
	return &InstructionIter{code: code}
}

// Next decodes the next instruction. It returns false at the end of the
// stream or when the stream is malformed; check Err to tell them apart.
func (i *InstructionIter) Next() (Instruction, bool) {
	if i.err != nil || i.pos >= len(i.code.instructions) {
		return Instruction{}, false
	}
	start := i.pos
	opcode := op.Code(i.code.instructions[start])
	info := op.GetInfo(opcode)
	if info.Name == "" {
		i.err = fmt.Errorf("unknown opcode %d at offset %d", opcode, start)
		return Instruction{}, false
	}
	instr := Instruction{Offset: start, Opcode: opcode}
	rest := i.code.instructions[start+1:]
	switch info.Operand {
	case op.IntOperand:
		v, err := DecodeInt(rest)
		if err != nil {
			i.err = fmt.Errorf("%s at offset %d: %w", info.Name, start, err)
			return Instruction{}, false
		}
		instr.Operand = v
		instr.Size = 1 + op.IntOperandSize
	case op.RawStringOperand:
		s, n, err := DecodeRawString(rest)
		if err != nil {
			i.err = fmt.Errorf("%s at offset %d: %w", info.Name, start, err)
			return Instruction{}, false
		}
		instr.Text = s
		instr.Size = 1 + n
	default:
		instr.Size = 1
	}
	i.pos += instr.Size
	return instr, true
}

// Err returns the decoding error that stopped iteration, if any.
func (i *InstructionIter) Err() error {
	return i.err
}

// All returns all remaining instructions as a newly allocated slice.
func (i *InstructionIter) All() ([]Instruction, error) {
	var results []Instruction
	for {
		instr, ok := i.Next()
		if !ok {
			break
		}
		results = append(results, instr)
	}
	return results, i.err
}
