package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/timsystem/spkasm/op"
)

// EncodeInt returns the fixed-width operand encoding of v.
func EncodeInt(v int32) [op.IntOperandSize]byte {
	var b [op.IntOperandSize]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return b
}

// DecodeInt reads an integer operand from the start of b.
func DecodeInt(b []byte) (int32, error) {
	if len(b) < op.IntOperandSize {
		return 0, fmt.Errorf("integer operand truncated: have %d bytes, need %d",
			len(b), op.IntOperandSize)
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// AppendInt appends the operand encoding of v to dst.
func AppendInt(dst []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(v))
}

// AppendRawString appends a length-prefixed string operand to dst.
func AppendRawString(dst []byte, s string) []byte {
	dst = AppendInt(dst, int32(len(s)))
	return append(dst, s...)
}

// DecodeRawString reads a length-prefixed string operand from the start of
// b. It returns the string and the total number of bytes consumed.
func DecodeRawString(b []byte) (string, int, error) {
	n, err := DecodeInt(b)
	if err != nil {
		return "", 0, err
	}
	if n < 0 || int(n) > len(b)-op.IntOperandSize {
		return "", 0, fmt.Errorf("raw string operand truncated: length %d, have %d bytes",
			n, len(b)-op.IntOperandSize)
	}
	end := op.IntOperandSize + int(n)
	return string(b[op.IntOperandSize:end]), end, nil
}
