package compiler

import (
	"strconv"
	"strings"

	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/errors"
	"github.com/timsystem/spkasm/op"
)

// compileLine encodes one non-empty code segment line.
func (c *Compiler) compileLine(line *sourceLine) error {
	first := line.tokens[0]
	switch {
	case first.text == ".data":
		c.state.Segment = DataSegment
		return nil
	case first.text == "#build":
		return c.compileBuild(line)
	case strings.HasSuffix(first.text, ":"):
		return c.compileLabel(line)
	}

	m, ok := LookupMnemonic(first.text)
	if !ok {
		if c.allowUnknown {
			c.log.Debug().
				Str("file", c.filename).
				Int("line", line.number).
				Str("mnemonic", first.text).
				Msg("ignoring unknown mnemonic")
			return nil
		}
		err := c.errorAt(errors.E2006, line, first, "unknown mnemonic '%s'", first.text)
		err.Suggestions = errors.SuggestSimilar(first.text, MnemonicNames())
		return err
	}

	switch m.Category() {
	case ZeroOperand:
		c.emit(m.Opcode())
		return nil
	case PushOperand:
		return c.compilePush(line)
	case BinaryOperand:
		return c.compileBinary(line)
	case VariableOperand:
		return c.compileVariable(line, m)
	case ControlFlow:
		return c.compileJump(line, m)
	case Reserved:
		return c.errorAt(errors.E2003, line, first,
			"Missing compiler specification for '%s'", first.text)
	default:
		return c.errorAt(errors.E2006, line, first, "unknown mnemonic '%s'", first.text)
	}
}

func (c *Compiler) compileBuild(line *sourceLine) error {
	if len(line.tokens) < 2 {
		return c.missingOperand(line, "a build type")
	}
	tok := line.tokens[1]
	target, ok := buildTargets[tok.text]
	if !ok {
		return c.errorAt(errors.E2002, line, tok, "invalid build type '%s' specified", tok.text)
	}
	c.state.BuildTarget = target
	return nil
}

func (c *Compiler) compileLabel(line *sourceLine) error {
	tok := line.tokens[0]
	name := strings.TrimSuffix(tok.text, ":")
	switch {
	case name == "":
		return c.errorAt(errors.E1007, line, tok, "label name is empty")
	case strings.Contains(name, ":"):
		return c.errorAt(errors.E1007, line, tok, "label name '%s' contains ':'", name)
	case isDigit(name[0]):
		return c.errorAt(errors.E1007, line, tok,
			"label name '%s' starts with a digit and would be read as an address", name)
	}
	if _, exists := c.labels.Lookup(name); exists {
		if c.strictLabels {
			return c.errorAt(errors.E2004, line, tok, "duplicate label '%s'", name)
		}
		c.log.Debug().
			Str("file", c.filename).
			Int("line", line.number).
			Str("label", name).
			Msg("label redefined")
	}
	c.labels.Record(name, len(c.instructions))
	return nil
}

// compilePush handles "push inline <expr>" and "push <index>".
func (c *Compiler) compilePush(line *sourceLine) error {
	if len(line.tokens) < 2 {
		return c.missingOperand(line, "a constant index or 'inline <expression>'")
	}
	arg := line.tokens[1]
	if strings.EqualFold(arg.text, "inline") {
		value, err := c.immediate(line, 2)
		if err != nil {
			return err
		}
		index := c.pool.Append(value)
		c.emit(op.Push)
		c.emitInt(int32(index))
		return nil
	}
	index, err := strconv.ParseInt(arg.text, 10, 32)
	if err != nil {
		return c.errorAt(errors.E1005, line, arg, "malformed constant index '%s'", arg.text)
	}
	c.emit(op.Push)
	c.emitInt(int32(index))
	return nil
}

// compileBinary handles "binary '<op>'".
func (c *Compiler) compileBinary(line *sourceLine) error {
	if len(line.tokens) < 2 {
		return c.missingOperand(line, "an operator such as '+'")
	}
	tok := line.tokens[1]
	symbol := strings.ReplaceAll(tok.text, "'", "")
	if symbol == "" {
		return c.errorAt(errors.E1005, line, tok, "malformed binary operator %s", tok.text)
	}
	code, ok := op.BinaryOp(symbol[0])
	if !ok {
		return c.errorAt(errors.E2005, line, tok, "unknown binary operator '%c'", symbol[0])
	}
	c.emit(code)
	return nil
}

// compileVariable handles create_var and get_var. The name is written into
// the instruction stream rather than the constant pool.
func (c *Compiler) compileVariable(line *sourceLine, m Mnemonic) error {
	if len(line.tokens) < 2 {
		return c.missingOperand(line, "a variable name")
	}
	c.emit(m.Opcode())
	c.emitRawString(line.tokens[1].text)
	return nil
}

// compileJump handles every control flow mnemonic. The operand is a decimal
// address when it starts with a digit and a label name otherwise.
func (c *Compiler) compileJump(line *sourceLine, m Mnemonic) error {
	if len(line.tokens) < 2 {
		return c.missingOperand(line, "a label or address")
	}
	target := line.tokens[1]
	if isDigit(target.text[0]) {
		addr, err := strconv.ParseInt(target.text, 10, 32)
		if err != nil {
			return c.errorAt(errors.E1005, line, target, "malformed jump address '%s'", target.text)
		}
		c.emit(m.Opcode())
		c.emitInt(int32(addr))
		return nil
	}
	c.emit(m.Opcode())
	if addr, ok := c.labels.Lookup(target.text); ok {
		c.emitInt(int32(addr))
		return nil
	}
	c.labels.deferRef(target.text, len(c.instructions), line, target)
	c.emitInt(Placeholder)
	return nil
}

// emit appends one opcode byte and returns its offset.
func (c *Compiler) emit(code op.Code) int {
	pos := len(c.instructions)
	c.instructions = append(c.instructions, byte(code))
	c.track(1)
	return pos
}

func (c *Compiler) emitInt(v int32) {
	c.instructions = bytecode.AppendInt(c.instructions, v)
	c.track(op.IntOperandSize)
}

func (c *Compiler) emitRawString(s string) {
	before := len(c.instructions)
	c.instructions = bytecode.AppendRawString(c.instructions, s)
	c.track(len(c.instructions) - before)
}

// track records the current source line for n newly emitted bytes.
func (c *Compiler) track(n int) {
	number := 0
	if c.current != nil {
		number = c.current.number
	}
	for i := 0; i < n; i++ {
		c.lines = append(c.lines, number)
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parseIndex parses a non-negative decimal data index that fits a push
// operand.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
