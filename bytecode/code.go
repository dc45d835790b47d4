package bytecode

import (
	"strings"

	"github.com/timsystem/spkasm/op"
)

// Code is an assembled SPK program. It is immutable after creation and
// safe for concurrent use.
type Code struct {
	instructions []byte
	constants    []Constant
	source       string
	filename     string

	// Source map: one 1-based source line per instruction byte
	lines []int
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Instructions []byte
	Constants    []Constant
	Lines        []int
	Source       string
	Filename     string
}

// NewCode creates a new immutable Code from the given parameters. Input
// slices are copied.
func NewCode(params CodeParams) *Code {
	return &Code{
		instructions: copyBytes(params.Instructions),
		constants:    copyConstants(params.Constants),
		lines:        copyInts(params.Lines),
		source:       params.Source,
		filename:     params.Filename,
	}
}

// InstructionCount returns the length of the instruction stream in bytes.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the byte at the given offset.
func (c *Code) InstructionAt(index int) byte {
	return c.instructions[index]
}

// OpcodeAt returns the byte at the given offset interpreted as an opcode.
func (c *Code) OpcodeAt(index int) op.Code {
	return op.Code(c.instructions[index])
}

// Instructions returns a copy of the instruction stream.
func (c *Code) Instructions() []byte {
	return copyBytes(c.instructions)
}

// ConstantCount returns the size of the constant pool.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given pool index.
func (c *Code) ConstantAt(index int) Constant {
	return c.constants[index]
}

// LineAt returns the source line that emitted the byte at the given offset,
// or 0 if no source map was recorded.
func (c *Code) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.lines) {
		return 0
	}
	return c.lines[offset]
}

// LineCount returns the number of entries in the source map.
func (c *Code) LineCount() int {
	return len(c.lines)
}

// Source returns the assembly text this code was built from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename, if any.
func (c *Code) Filename() string {
	return c.filename
}

// WithFilename returns a copy of c recorded under filename. The copy shares
// the immutable contents of c.
func (c *Code) WithFilename(filename string) *Code {
	dup := *c
	dup.filename = filename
	return &dup
}

// GetSourceLine returns the text of the given 1-based source line, trimmed.
func (c *Code) GetSourceLine(lineNum int) string {
	if c.source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[lineNum-1])
}

// Stats returns summary statistics for the code.
func (c *Code) Stats() Stats {
	var count, placeholders int
	iter := NewInstructionIter(c)
	for {
		if _, ok := iter.Next(); !ok {
			break
		}
		count++
	}
	for _, k := range c.constants {
		if k.IsPlaceholder() {
			placeholders++
		}
	}
	return Stats{
		ByteCount:        len(c.instructions),
		InstructionCount: count,
		ConstantCount:    len(c.constants),
		PlaceholderCount: placeholders,
		SourceBytes:      len(c.source),
	}
}

// Stats contains statistics about assembled code.
type Stats struct {
	// ByteCount is the length of the instruction stream.
	ByteCount int

	// InstructionCount is the number of decoded instructions.
	InstructionCount int

	// ConstantCount is the size of the constant pool.
	ConstantCount int

	// PlaceholderCount is the number of padding slots in the pool.
	PlaceholderCount int

	// SourceBytes is the size of the original source in bytes.
	SourceBytes int
}

func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

func copyConstants(src []Constant) []Constant {
	if src == nil {
		return nil
	}
	dst := make([]Constant, len(src))
	copy(dst, src)
	return dst
}

func copyInts(src []int) []int {
	if src == nil {
		return nil
	}
	dst := make([]int, len(src))
	copy(dst, src)
	return dst
}
