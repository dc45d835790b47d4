// Package dis disassembles SPK bytecode into a readable listing. It decodes
// instructions with the InstructionIter from the bytecode package and
// annotates each one with the constant, variable, operator or jump target
// it refers to.
package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/wonton/color"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/internal/table"
	"github.com/timsystem/spkasm/op"
)

// Instruction represents a single decoded instruction and its operand.
type Instruction struct {
	Offset     int
	Line       int
	Name       string
	Opcode     op.Code
	Operand    string
	Annotation string
	Constant   *bytecode.Constant
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewInstructionIter(code)
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		info := op.GetInfo(val.Opcode)
		instr := Instruction{
			Offset: val.Offset,
			Line:   code.LineAt(val.Offset),
			Name:   info.Name,
			Opcode: val.Opcode,
		}
		switch info.Operand {
		case op.IntOperand:
			instr.Operand = fmt.Sprintf("%d", val.Operand)
		case op.RawStringOperand:
			instr.Operand = val.Text
		}
		switch {
		case val.Opcode == op.Push:
			index := int(val.Operand)
			if index >= 0 && index < code.ConstantCount() {
				c := code.ConstantAt(index)
				instr.Constant = &c
				instr.Annotation = c.String()
			} else {
				instr.Annotation = "constant out of range"
			}
		case val.Opcode.IsJump():
			instr.Annotation = jumpTarget(code, int(val.Operand))
		case op.BinarySymbol(val.Opcode) != 0:
			instr.Annotation = string(op.BinarySymbol(val.Opcode))
		}
		instructions = append(instructions, instr)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return instructions, nil
}

func jumpTarget(code *bytecode.Code, addr int) string {
	switch {
	case addr == code.InstructionCount():
		return "-> end"
	case addr < 0 || addr > code.InstructionCount():
		return fmt.Sprintf("-> %d (out of range)", addr)
	}
	if line := code.LineAt(addr); line > 0 {
		return fmt.Sprintf("-> %d (line %d)", addr, line)
	}
	return fmt.Sprintf("-> %d", addr)
}

func bold(s string) string {
	if !color.Enabled {
		return s
	}
	return color.ApplyBold(s)
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	var lines [][]string
	for _, instr := range instructions {
		line := ""
		if instr.Line > 0 {
			line = fmt.Sprintf("%d", instr.Line)
		}
		values := []string{
			fmt.Sprintf("%d", instr.Offset),
			line,
			bold(instr.Name),
			instr.Operand,
		}
		switch {
		case instr.Constant != nil:
			values = append(values, constantCell(*instr.Constant))
		case instr.Annotation != "":
			values = append(values, color.Colorize(color.BrightCyan, instr.Annotation))
		default:
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "LINE", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func constantCell(c bytecode.Constant) string {
	switch c.Kind() {
	case bytecode.NumberConstant:
		return color.Colorize(color.Yellow, c.String())
	case bytecode.StringConstant:
		s := c.String()
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return color.Colorize(color.Green, s)
	default:
		return color.Colorize(color.Magenta, c.String())
	}
}

// PrintConstants writes the constant pool as a table.
func PrintConstants(code *bytecode.Code, writer io.Writer) error {
	var rows [][]string
	for i := 0; i < code.ConstantCount(); i++ {
		c := code.ConstantAt(i)
		rows = append(rows, []string{fmt.Sprintf("%d", i), c.Kind().String(), constantCell(c)})
	}
	return table.NewTable(writer).
		WithHeader([]string{"INDEX", "TYPE", "VALUE"}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter}).
		WithRows(rows).
		Render()
}
