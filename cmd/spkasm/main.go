package main

import (
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := cli.New("spkasm").
		Description("Assembler for SPK stack machine programs").
		Version(version).
		AddCompletionCommand()

	// Global flags
	app.GlobalFlags(
		cli.String("config", "").Help("Config file (default ./spkasm.yaml)"),
		cli.Bool("no-color", "").Env("NO_COLOR").Help("Disable colored output"),
		cli.String("log-level", "").Help("Log level: debug, info, warn, error"),
		cli.Bool("allow-unknown", "").Help("Ignore unrecognized mnemonics"),
		cli.Bool("strict-labels", "").Help("Reject labels defined more than once"),
	)

	app.Command("build").
		Alias("b").
		Description("Assemble source files into bytecode").
		Args("files...").
		Flags(
			cli.String("out", "o").Help("Output path for a single input, or - for stdout"),
			cli.String("output", "").Enum("json", "text").Help("Summary format"),
			cli.String("cache", "").Help("SQLite database used to cache assembled programs"),
			cli.String("cache-max-age", "").Help("Drop cached programs older than this duration, e.g. 72h"),
		).
		Run(buildHandler)

	app.Command("dis").
		Description("Disassemble a source file or compiled bytecode").
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to disassemble"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
			cli.Bool("constants", "").Help("Also print the constant pool"),
		).
		Run(disHandler)

	app.Command("check").
		Description("Check source files for errors").
		Args("files...").
		Run(checkHandler)

	app.Command("version").
		Description("Print version information").
		Flags(
			cli.String("output", "o").Enum("json", "text").Help("Output format"),
		).
		Run(versionHandler)

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			return
		}
		printError(err.Error())
		os.Exit(cli.GetExitCode(err))
	}
}

func printError(msg string) {
	if color.ShouldColorize(os.Stderr) {
		msg = color.Red.Apply(msg)
	}
	os.Stderr.WriteString(msg + "\n")
}
