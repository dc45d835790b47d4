package main

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
	"github.com/hashicorp/go-multierror"
	"github.com/timsystem/spkasm"
	"github.com/timsystem/spkasm/errors"
	"golang.org/x/sync/errgroup"
)

func checkHandler(ctx *cli.Context) error {
	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	log, err := s.logger()
	if err != nil {
		return err
	}
	files := ctx.Args()
	if len(files) == 0 {
		return goerrors.New("no input files")
	}

	// every file is checked; failures are collected, not returned
	failed := make([]error, len(files))
	var g errgroup.Group
	for i, file := range files {
		g.Go(func() error {
			_, err := spkasm.CompileFile(file, s.compileOptions(log)...)
			failed[i] = err
			return nil
		})
	}
	g.Wait()

	var result *multierror.Error
	for i, err := range failed {
		if err == nil {
			fmt.Printf("%s %s\n", color.Colorize(color.Green, "ok"), files[i])
			continue
		}
		result = multierror.Append(result, err)
	}
	if result.ErrorOrNil() == nil {
		return nil
	}

	formatted := make([]*errors.FormattedError, 0, len(result.Errors))
	for _, err := range result.Errors {
		var fe errors.FormattableError
		if goerrors.As(err, &fe) {
			formatted = append(formatted, fe.ToFormatted())
		} else {
			formatted = append(formatted, &errors.FormattedError{Message: err.Error()})
		}
	}
	useColor := !s.NoColor && color.ShouldColorize(os.Stderr)
	fmt.Fprint(os.Stderr, errors.NewFormatter(useColor).FormatMultiple(formatted))
	return fmt.Errorf("%d of %d files failed", result.Len(), len(files))
}
