// Package bytecode provides the immutable output of SPK assembly.
//
// An assembled program is a [Code]: an ordered byte stream of instructions
// plus a constant pool of numeric and string literals addressed by index.
// Each instruction is one opcode byte optionally followed by an operand:
//
//   - a 4 byte big-endian signed integer (constant index or jump target)
//   - a raw string: 4 byte big-endian length followed by UTF-8 bytes
//
// The operand shape for each opcode is described by [op.GetInfo].
//
// # Immutability Guarantees
//
// A Code is created once by the assembler and never mutated afterwards:
//
//   - All fields are unexported
//   - [NewCode] copies its input slices
//   - Accessors are index based and never hand out internal slices
//
// This makes a Code safe to share between goroutines and VM instances.
//
// # Usage
//
//	code, err := compiler.Compile(source, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Bytes: %d\n", code.InstructionCount())
//	fmt.Printf("Constants: %d\n", code.ConstantCount())
//
// A Code may be serialized with [Marshal] for caching and read back with
// [Unmarshal].
package bytecode
