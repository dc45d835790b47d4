// Package compiler assembles SPK assembly text into bytecode.
//
// # Two-Pass Assembly
//
// Pass 1: data segment
//
// Scans from the ".data:" header line to the end of the source and fills the
// constant pool. Each data line is "<index> <literal...>"; see
// [ConstantPool.Place] for how sparse and repeated indices are handled.
//
// Pass 2: code segment
//
// Scans from the top of the source up to the ".data:" header. Directives
// update the compilation [State], label lines bind a name to the current
// length of the instruction stream, and every other line is encoded by its
// mnemonic. "push inline" appends to the pool built by pass 1.
//
// Jump operands may name labels defined further down. Such operands are
// written as a placeholder and remembered in a fixup list; once pass 2
// reaches the end of the code segment every placeholder is patched with the
// label's address, or assembly fails naming the line that used it.
//
// Finally the source must have declared a build target with "#build sps".
//
// # Isolation
//
// All state lives in a [Compiler] value created for one compilation. There
// is no package-level mutable state, so independent sources can be
// assembled concurrently.
package compiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/errors"
)

// Placeholder is written into a jump operand whose label is not yet known.
// It is always replaced before assembly completes.
const Placeholder = int32(-1)

// MaxDataGap is the largest number of placeholder slots a single data line
// may add to the constant pool.
const MaxDataGap = 1 << 16

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used in error messages.
	Filename string

	// AllowUnknown makes unrecognized mnemonics a no-op instead of an
	// error. Typos are then silently dropped from the program.
	AllowUnknown bool

	// StrictLabels rejects a label defined more than once. By default the
	// last definition wins for every reference that follows it.
	StrictLabels bool

	// Logger receives debug events about each pass. Nil disables logging.
	Logger *zerolog.Logger
}

// Compiler assembles one source text. Create one per compilation with New.
type Compiler struct {
	filename     string
	allowUnknown bool
	strictLabels bool
	log          zerolog.Logger

	source       string
	state        State
	labels       *LabelTable
	pool         *ConstantPool
	instructions []byte
	lines        []int

	// line currently being encoded, for the source map
	current *sourceLine
}

// Compile assembles source and returns immutable bytecode. Pass nil for cfg
// to use default settings.
func Compile(source string, cfg *Config) (*bytecode.Code, error) {
	return New(cfg).Compile(source)
}

// CompileFile reads the file at path and assembles it. The path is used as
// the filename in errors unless cfg sets one.
func CompileFile(path string, cfg *Config) (*bytecode.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Filename == "" {
		c.Filename = path
	}
	return New(&c).Compile(string(data))
}

// New creates a Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{log: zerolog.Nop()}
	if cfg != nil {
		c.filename = cfg.Filename
		c.allowUnknown = cfg.AllowUnknown
		c.strictLabels = cfg.StrictLabels
		if cfg.Logger != nil {
			c.log = *cfg.Logger
		}
	}
	return c
}

func (c *Compiler) reset(source string) {
	c.source = source
	c.state = State{Segment: CodeSegment, BuildTarget: BuildUndefined}
	c.labels = NewLabelTable()
	c.pool = &ConstantPool{}
	c.instructions = nil
	c.lines = nil
	c.current = nil
}

// Compile assembles source. Each call starts from a clean state; on error
// no bytecode is returned.
func (c *Compiler) Compile(source string) (*bytecode.Code, error) {
	c.reset(source)
	lines := splitLines(source)

	if err := c.compileData(lines); err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("file", c.filename).
		Int("constants", c.pool.Len()).
		Msg("data segment assembled")

	if err := c.compileCode(lines); err != nil {
		return nil, err
	}
	patched, err := c.resolveFixups()
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("file", c.filename).
		Int("bytes", len(c.instructions)).
		Int("labels", c.labels.Len()).
		Int("fixups", patched).
		Msg("code segment assembled")

	if c.state.BuildTarget == BuildUndefined {
		err := errors.Newf(errors.E2007, errors.NoLine, "no build type was specified")
		err.Filename = c.filename
		err.Note = "add '#build sps' to the code segment"
		return nil, err
	}

	return bytecode.NewCode(bytecode.CodeParams{
		Instructions: c.instructions,
		Constants:    c.pool.Constants(),
		Lines:        c.lines,
		Source:       source,
		Filename:     c.filename,
	}), nil
}

// State returns the directive state reached by the last compilation.
func (c *Compiler) State() State {
	return c.state
}

// Labels returns the label table built by the last compilation.
func (c *Compiler) Labels() *LabelTable {
	return c.labels
}

// compileData is pass 1: every non-empty line after the first ".data:"
// header is a data line.
func (c *Compiler) compileData(lines []*sourceLine) error {
	inData := false
	for _, line := range lines {
		if line.isDataHeader() {
			inData = true
			continue
		}
		if !inData || line.isEmpty() {
			continue
		}
		if err := c.compileDataLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileDataLine(line *sourceLine) error {
	indexTok := line.tokens[0]
	index, ok := parseIndex(indexTok.text)
	if !ok {
		return c.errorAt(errors.E1004, line, indexTok,
			"malformed data index '%s'", indexTok.text)
	}
	if size := c.pool.Len(); size > 0 && index-size > MaxDataGap {
		err := c.errorAt(errors.E1004, line, indexTok,
			"data index %d is %d slots past the end of the constant pool", index, index-size)
		err.Note = fmt.Sprintf("at most %d placeholder slots may be skipped at once", MaxDataGap)
		return err
	}
	value, err := c.immediate(line, 1)
	if err != nil {
		return err
	}
	c.pool.Place(index, value)
	return nil
}

// compileCode is pass 2: every non-empty line before the ".data:" header.
func (c *Compiler) compileCode(lines []*sourceLine) error {
	for _, line := range lines {
		if line.isDataHeader() {
			break
		}
		if line.isEmpty() {
			continue
		}
		c.current = line
		if err := c.compileLine(line); err != nil {
			return err
		}
	}
	c.current = nil
	return nil
}

// resolveFixups patches forward label references. It returns the number of
// operands patched.
func (c *Compiler) resolveFixups() (int, error) {
	for _, f := range c.labels.fixups {
		addr, ok := c.labels.Lookup(f.label)
		if !ok {
			err := c.errorAt(errors.E2001, f.line, f.tok, "unknown label '%s'", f.label)
			err.Suggestions = errors.SuggestSimilar(f.label, c.labels.Names())
			return 0, err
		}
		operand := bytecode.EncodeInt(int32(addr))
		copy(c.instructions[f.pos:], operand[:])
	}
	return len(c.labels.fixups), nil
}

// errorAt builds an AssemblerError pointing at tok on line.
func (c *Compiler) errorAt(code errors.ErrorCode, line *sourceLine, tok token, format string, args ...any) *errors.AssemblerError {
	err := errors.Newf(code, line.number, format, args...)
	err.Filename = c.filename
	err.SourceLine = line.text
	if tok.text != "" {
		err.Column = tok.column
		err.EndColumn = tok.endColumn()
	}
	return err
}

// missingOperand reports a line that ends before a required operand.
func (c *Compiler) missingOperand(line *sourceLine, what string) *errors.AssemblerError {
	last := line.tokens[len(line.tokens)-1]
	return c.errorAt(errors.E1003, line, last, "'%s' expects %s", line.tokens[0].text, what)
}

// immediate parses the immediate expression starting at token offset and
// attaches source context to any error.
func (c *Compiler) immediate(line *sourceLine, offset int) (bytecode.Constant, error) {
	value, err := ParseImmediate(line.words(0), offset, line.number)
	if err == nil {
		if value.Kind() == bytecode.StringConstant {
			// keep the literal's own spacing
			start := line.tokens[offset].column - 1
			value = bytecode.String(strings.ReplaceAll(line.text[start:], `"`, ""))
		}
		return value, nil
	}
	asmErr := err.(*errors.AssemblerError)
	asmErr.Filename = c.filename
	asmErr.SourceLine = line.text
	if offset < len(line.tokens) {
		asmErr.Column = line.tokens[offset].column
		asmErr.EndColumn = len(line.text)
	} else {
		last := line.tokens[len(line.tokens)-1]
		asmErr.Column = last.column
		asmErr.EndColumn = last.endColumn()
	}
	return bytecode.Constant{}, asmErr
}
