package compiler

import "github.com/timsystem/spkasm/bytecode"

// ConstantPool is the ordered, index-addressed constant pool under
// construction.
type ConstantPool struct {
	constants []bytecode.Constant
}

// Len returns the current pool size.
func (p *ConstantPool) Len() int {
	return len(p.constants)
}

// At returns the constant at index.
func (p *ConstantPool) At(index int) bytecode.Constant {
	return p.constants[index]
}

// Append adds c to the end of the pool and returns its index.
func (p *ConstantPool) Append(c bytecode.Constant) int {
	p.constants = append(p.constants, c)
	return len(p.constants) - 1
}

// Place stores c at the index named by a data section line.
//
// The first value always goes to slot 0 whatever its index. After that an
// index inside the pool overwrites, the next free index appends, and an
// index past the end pads the gap with bytecode.Placeholder first.
func (p *ConstantPool) Place(index int, c bytecode.Constant) {
	size := len(p.constants)
	switch {
	case size == 0:
		p.constants = append(p.constants, c)
	case index > size:
		for i := size; i < index; i++ {
			p.constants = append(p.constants, bytecode.Placeholder)
		}
		p.constants = append(p.constants, c)
	case index < size:
		p.constants[index] = c
	default:
		p.constants = append(p.constants, c)
	}
}

// Constants returns the pool contents. The slice is owned by the pool.
func (p *ConstantPool) Constants() []bytecode.Constant {
	return p.constants
}
