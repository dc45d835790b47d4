// Package spkasm assembles SPK assembly source into stack VM bytecode.
//
//	code, err := spkasm.Compile(source, spkasm.WithFilename("main.spk"))
//
// The returned Code is immutable and safe for concurrent use. Failures are
// reported as *errors.AssemblerError values carrying a code, the offending
// source line and, where possible, suggestions.
package spkasm

import (
	"github.com/rs/zerolog"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/compiler"
)

// Option configures an assembly.
type Option func(*options)

type options struct {
	filename     string
	allowUnknown bool
	strictLabels bool
	logger       *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig() *compiler.Config {
	return &compiler.Config{
		Filename:     o.filename,
		AllowUnknown: o.allowUnknown,
		StrictLabels: o.strictLabels,
		Logger:       o.logger,
	}
}

// WithFilename sets the filename reported in errors and recorded in the
// resulting Code.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithAllowUnknown makes unrecognized mnemonics a no-op instead of an error.
func WithAllowUnknown(allow bool) Option {
	return func(o *options) {
		o.allowUnknown = allow
	}
}

// WithStrictLabels rejects labels that are defined more than once.
func WithStrictLabels(strict bool) Option {
	return func(o *options) {
		o.strictLabels = strict
	}
}

// WithLogger sets a logger that receives debug events from each pass.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// Compile assembles source into bytecode.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	return compiler.Compile(source, o.compilerConfig())
}

// CompileFile reads and assembles the file at path. Unless WithFilename is
// given, path is used as the filename.
func CompileFile(path string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	return compiler.CompileFile(path, o.compilerConfig())
}

// Check assembles source and discards the result, returning only the error.
func Check(source string, opts ...Option) error {
	_, err := Compile(source, opts...)
	return err
}
