package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/timsystem/spkasm/errors"
)

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printJSON writes v to stdout, highlighted when stdout is a terminal.
func printJSON(v any, noColor bool) error {
	var (
		data []byte
		err  error
	)
	if noColor || !isTerminal(os.Stdout) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// formatAssemblerError renders assembler errors with source context.
// Other errors are returned unchanged.
func formatAssemblerError(err error, noColor bool) error {
	useColor := !noColor && color.ShouldColorize(os.Stderr)
	formatter := errors.NewFormatter(useColor)
	var formattable errors.FormattableError
	if goerrors.As(err, &formattable) {
		return goerrors.New(formatter.Format(formattable.ToFormatted()))
	}
	return err
}
