package main

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
)

func versionHandler(ctx *cli.Context) error {
	format := strings.ToLower(ctx.String("output"))
	if format == "json" {
		return printJSON(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		}, ctx.Bool("no-color"))
	}
	fmt.Println(version)
	return nil
}
