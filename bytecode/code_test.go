package bytecode

import (
	"testing"

	"github.com/timsystem/spkasm/op"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []byte{byte(op.Push), 0, 0, 0, 0, byte(op.Halt)}
	constants := []Constant{Number(42), String("hello")}
	lines := []int{1, 1, 1, 1, 1, 2}

	code := NewCode(CodeParams{
		Instructions: instructions,
		Constants:    constants,
		Lines:        lines,
	})

	instructions[0] = byte(op.Dup)
	constants[0] = Number(99)
	lines[0] = 999

	if code.OpcodeAt(0) != op.Push {
		t.Errorf("expected instruction 0 to be PUSH, got %v", code.OpcodeAt(0))
	}
	if code.ConstantAt(0).Number() != 42 {
		t.Errorf("expected constant 0 to be 42, got %v", code.ConstantAt(0))
	}
	if code.LineAt(0) != 1 {
		t.Errorf("expected line of byte 0 to be 1, got %v", code.LineAt(0))
	}

	out := code.Instructions()
	out[0] = byte(op.Pop)
	if code.OpcodeAt(0) != op.Push {
		t.Errorf("Instructions() must return a copy")
	}
}

func TestCodeAccessors(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []byte{byte(op.Dup), byte(op.Halt)},
		Constants:    []Constant{Number(1), Placeholder, String("x")},
		Lines:        []int{2, 3},
		Source:       "#build sps\n  dup  \nhalt",
		Filename:     "test.sps",
	})

	if code.InstructionCount() != 2 {
		t.Errorf("expected 2 instruction bytes, got %d", code.InstructionCount())
	}
	if code.ConstantCount() != 3 {
		t.Errorf("expected 3 constants, got %d", code.ConstantCount())
	}
	if code.Filename() != "test.sps" {
		t.Errorf("expected filename test.sps, got %q", code.Filename())
	}
	if code.LineCount() != 2 || code.LineAt(1) != 3 {
		t.Errorf("unexpected source map: count %d, line %d", code.LineCount(), code.LineAt(1))
	}
	if code.LineAt(5) != 0 || code.LineAt(-1) != 0 {
		t.Errorf("out of range offsets must map to line 0")
	}
	if got := code.GetSourceLine(2); got != "dup" {
		t.Errorf("expected source line 2 to be %q, got %q", "dup", got)
	}
	if got := code.GetSourceLine(10); got != "" {
		t.Errorf("expected empty source line, got %q", got)
	}
}

func TestCodeWithFilename(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []byte{byte(op.Halt)},
		Lines:        []int{2},
		Source:       "#build sps\nhalt",
		Filename:     "a.spk",
	})
	renamed := code.WithFilename("b.spk")
	if renamed.Filename() != "b.spk" {
		t.Errorf("expected filename b.spk, got %q", renamed.Filename())
	}
	if code.Filename() != "a.spk" {
		t.Errorf("original filename changed to %q", code.Filename())
	}
	if renamed.InstructionCount() != 1 || renamed.LineAt(0) != 2 || renamed.Source() != code.Source() {
		t.Errorf("renamed code lost its contents")
	}
}

func TestStats(t *testing.T) {
	var instructions []byte
	instructions = append(instructions, byte(op.Push))
	instructions = AppendInt(instructions, 0)
	instructions = append(instructions, byte(op.CreateVar))
	instructions = AppendRawString(instructions, "counter")
	instructions = append(instructions, byte(op.Halt))

	code := NewCode(CodeParams{
		Instructions: instructions,
		Constants:    []Constant{Number(1), Placeholder},
		Source:       "abc",
	})
	stats := code.Stats()
	if stats.InstructionCount != 3 {
		t.Errorf("expected 3 instructions, got %d", stats.InstructionCount)
	}
	if stats.ByteCount != 5+1+4+7+1 {
		t.Errorf("unexpected byte count %d", stats.ByteCount)
	}
	if stats.ConstantCount != 2 || stats.PlaceholderCount != 1 {
		t.Errorf("unexpected constant stats %+v", stats)
	}
	if stats.SourceBytes != 3 {
		t.Errorf("expected 3 source bytes, got %d", stats.SourceBytes)
	}
}

func TestConstantString(t *testing.T) {
	tests := []struct {
		c    Constant
		want string
	}{
		{Number(3.14), "3.14"},
		{Number(-2), "-2"},
		{String("hi there"), `"hi there"`},
		{Placeholder, "<placeholder>"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
	if Placeholder.Value() != nil {
		t.Errorf("placeholder value must be nil")
	}
	if String("a").Value() != "a" {
		t.Errorf("unexpected string value")
	}
}
