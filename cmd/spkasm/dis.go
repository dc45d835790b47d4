package main

import (
	goerrors "errors"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/timsystem/spkasm"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/dis"
)

func disHandler(ctx *cli.Context) error {
	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	log, err := s.logger()
	if err != nil {
		return err
	}

	code, err := getDisCode(ctx, func(source, filename string) (*bytecode.Code, error) {
		opts := append(s.compileOptions(log), spkasm.WithFilename(filename))
		return spkasm.Compile(source, opts...)
	})
	if err != nil {
		return formatAssemblerError(err, s.NoColor)
	}

	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}
	if err := dis.Print(instructions, os.Stdout); err != nil {
		return err
	}
	if ctx.Bool("constants") && code.ConstantCount() > 0 {
		return dis.PrintConstants(code, os.Stdout)
	}
	return nil
}

// getDisCode loads the program to disassemble from -c, --stdin or a file
// argument. Files ending in ".json" are read as compiled bytecode; anything
// else is assembled first. With no input named, piped stdin is used.
func getDisCode(ctx *cli.Context, compile func(source, filename string) (*bytecode.Code, error)) (*bytecode.Code, error) {
	codeSet := ctx.IsSet("code")
	stdinSet := ctx.Bool("stdin")
	file := ctx.Arg(0)

	// Check for conflicting input sources
	count := 0
	if codeSet {
		count++
	}
	if stdinSet {
		count++
	}
	if file != "" {
		count++
	}
	if count > 1 {
		return nil, goerrors.New("multiple input sources specified")
	}
	if count == 0 {
		if isTerminal(os.Stdin) {
			return nil, goerrors.New("no input provided")
		}
		stdinSet = true
	}

	switch {
	case stdinSet:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return compile(string(data), "<stdin>")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(file, ".json") {
			return bytecode.Unmarshal(data)
		}
		return compile(string(data), file)
	default:
		return compile(ctx.String("code"), "<code>")
	}
}
