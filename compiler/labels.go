package compiler

import "sort"

// LabelTable maps label names to byte offsets in the instruction stream.
// References to labels not yet defined are kept as fixups and patched once
// the whole code segment has been seen.
type LabelTable struct {
	addrs  map[string]int
	fixups []fixup
}

// fixup is an operand slot waiting for a label address.
type fixup struct {
	label string
	pos   int // offset of the 4 byte operand
	line  *sourceLine
	tok   token
}

// NewLabelTable returns an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{addrs: map[string]int{}}
}

// Record binds name to addr, replacing any earlier binding. It reports
// whether the name was already bound.
func (t *LabelTable) Record(name string, addr int) (redefined bool) {
	_, redefined = t.addrs[name]
	t.addrs[name] = addr
	return redefined
}

// Lookup returns the address bound to name.
func (t *LabelTable) Lookup(name string) (int, bool) {
	addr, ok := t.addrs[name]
	return addr, ok
}

// Len returns the number of defined labels.
func (t *LabelTable) Len() int {
	return len(t.addrs)
}

// Names returns the defined label names, sorted.
func (t *LabelTable) Names() []string {
	names := make([]string, 0, len(t.addrs))
	for name := range t.addrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// deferRef records an operand at pos that must be patched with the address
// of label.
func (t *LabelTable) deferRef(label string, pos int, line *sourceLine, tok token) {
	t.fixups = append(t.fixups, fixup{label: label, pos: pos, line: line, tok: tok})
}
