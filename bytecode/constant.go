package bytecode

import (
	"fmt"
	"strconv"
)

// ConstantKind identifies the variant held by a Constant.
type ConstantKind int

const (
	// PlaceholderConstant fills gaps in a sparse data section. A correctly
	// written program never lets the VM observe one.
	PlaceholderConstant ConstantKind = iota
	NumberConstant
	StringConstant
)

// String returns the lowercase name of the kind, as used in serialized code.
func (k ConstantKind) String() string {
	switch k {
	case NumberConstant:
		return "number"
	case StringConstant:
		return "string"
	default:
		return "placeholder"
	}
}

// Constant is a literal value stored in the constant pool.
type Constant struct {
	kind   ConstantKind
	number float64
	text   string
}

// Placeholder is the sentinel constant used to pad the pool.
var Placeholder = Constant{kind: PlaceholderConstant}

// Number returns a numeric constant.
func Number(v float64) Constant {
	return Constant{kind: NumberConstant, number: v}
}

// String returns a text constant.
func String(s string) Constant {
	return Constant{kind: StringConstant, text: s}
}

// Kind returns which variant the constant holds.
func (c Constant) Kind() ConstantKind {
	return c.kind
}

// IsPlaceholder reports whether the constant is the padding sentinel.
func (c Constant) IsPlaceholder() bool {
	return c.kind == PlaceholderConstant
}

// Number returns the numeric value. Only meaningful for NumberConstant.
func (c Constant) Number() float64 {
	return c.number
}

// Text returns the string value. Only meaningful for StringConstant.
func (c Constant) Text() string {
	return c.text
}

// Value returns the constant as a Go value: float64, string or nil.
func (c Constant) Value() any {
	switch c.kind {
	case NumberConstant:
		return c.number
	case StringConstant:
		return c.text
	default:
		return nil
	}
}

func (c Constant) String() string {
	switch c.kind {
	case NumberConstant:
		return strconv.FormatFloat(c.number, 'g', -1, 64)
	case StringConstant:
		return fmt.Sprintf("%q", c.text)
	default:
		return "<placeholder>"
	}
}
