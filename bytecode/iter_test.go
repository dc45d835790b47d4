package bytecode

import (
	"math"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/timsystem/spkasm/op"
)

func TestEncodeInt(t *testing.T) {
	tests := []struct {
		value int32
		want  [4]byte
	}{
		{0, [4]byte{0, 0, 0, 0}},
		{1, [4]byte{0, 0, 0, 1}},
		{258, [4]byte{0, 0, 1, 2}},
		{-1, [4]byte{0xff, 0xff, 0xff, 0xff}},
		{math.MaxInt32, [4]byte{0x7f, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		got := EncodeInt(tt.value)
		assert.Equal(t, got, tt.want)
		decoded, err := DecodeInt(got[:])
		assert.Nil(t, err)
		assert.Equal(t, decoded, tt.value)
	}
}

func TestDecodeIntTruncated(t *testing.T) {
	_, err := DecodeInt([]byte{1, 2})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestDecodeRawString(t *testing.T) {
	b := AppendRawString(nil, "héllo")
	s, n, err := DecodeRawString(b)
	assert.Nil(t, err)
	assert.Equal(t, s, "héllo")
	assert.Equal(t, n, len(b))

	_, _, err = DecodeRawString(b[:6])
	assert.NotNil(t, err)
}

func TestInstructionIter(t *testing.T) {
	var b []byte
	b = append(b, byte(op.Push))
	b = AppendInt(b, 2)
	b = append(b, byte(op.GetVar))
	b = AppendRawString(b, "x")
	b = append(b, byte(op.Jmp))
	b = AppendInt(b, 0)
	b = append(b, byte(op.Halt))

	code := NewCode(CodeParams{Instructions: b})
	instructions, err := NewInstructionIter(code).All()
	assert.Nil(t, err)
	assert.Len(t, instructions, 4)

	assert.Equal(t, instructions[0], Instruction{Offset: 0, Opcode: op.Push, Operand: 2, Size: 5})
	assert.Equal(t, instructions[1], Instruction{Offset: 5, Opcode: op.GetVar, Text: "x", Size: 6})
	assert.Equal(t, instructions[2], Instruction{Offset: 11, Opcode: op.Jmp, Operand: 0, Size: 5})
	assert.Equal(t, instructions[3], Instruction{Offset: 16, Opcode: op.Halt, Size: 1})
}

func TestInstructionIterErrors(t *testing.T) {
	code := NewCode(CodeParams{Instructions: []byte{byte(op.Dup), 200}})
	instructions, err := NewInstructionIter(code).All()
	assert.Len(t, instructions, 1)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown opcode 200 at offset 1")

	code = NewCode(CodeParams{Instructions: []byte{byte(op.Jmp), 0, 0}})
	_, err = NewInstructionIter(code).All()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "JMP at offset 0")
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	var b []byte
	b = append(b, byte(op.Push))
	b = AppendInt(b, 1)
	b = append(b, byte(op.Out), byte(op.Halt))

	code := NewCode(CodeParams{
		Instructions: b,
		Constants:    []Constant{Number(1.5), Placeholder, String("hi")},
		Lines:        []int{2, 2, 2, 2, 2, 3, 4},
		Source:       "#build sps\npush 1\nout\nhalt",
		Filename:     "prog.sps",
	})

	data, err := Marshal(code)
	assert.Nil(t, err)

	decoded, err := Unmarshal(data)
	assert.Nil(t, err)
	assert.Equal(t, decoded.Instructions(), code.Instructions())
	assert.Equal(t, decoded.ConstantCount(), 3)
	assert.Equal(t, decoded.ConstantAt(0), Number(1.5))
	assert.True(t, decoded.ConstantAt(1).IsPlaceholder())
	assert.Equal(t, decoded.ConstantAt(2), String("hi"))
	assert.Equal(t, decoded.LineAt(5), 3)
	assert.Equal(t, decoded.Filename(), "prog.sps")
	assert.Equal(t, decoded.Source(), code.Source())
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"instructions":[300],"constants":[]}`))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = Unmarshal([]byte(`{"instructions":[],"constants":[{"type":"bool","value":true}]}`))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown constant type")

	_, err = Unmarshal([]byte(`{"instructions":[2],"constants":[],"lines":[1,2]}`))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "source map")
}

func TestMarshalNonFiniteNumber(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		code := NewCode(CodeParams{Constants: []Constant{String("ok"), Number(v)}})
		_, err := Marshal(code)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "constant 1")

		_, err = MarshalIndent(code)
		assert.NotNil(t, err)
	}
}
