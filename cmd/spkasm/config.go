package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/timsystem/spkasm"
)

// settings merges the config file, SPKASM_* environment variables and
// command line flags, in increasing order of precedence.
type settings struct {
	AllowUnknown bool
	StrictLabels bool
	Cache        string
	CacheMaxAge  time.Duration
	LogLevel     string
	NoColor      bool
}

func loadSettings(ctx *cli.Context) (*settings, error) {
	v := viper.New()
	v.SetConfigName("spkasm")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "spkasm"))
	}
	v.SetEnvPrefix("SPKASM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", "warn")

	if path := ctx.String("config"); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if ctx.IsSet("allow-unknown") {
		v.Set("allow_unknown", ctx.Bool("allow-unknown"))
	}
	if ctx.IsSet("strict-labels") {
		v.Set("strict_labels", ctx.Bool("strict-labels"))
	}
	if ctx.IsSet("log-level") {
		v.Set("log_level", ctx.String("log-level"))
	}
	if ctx.Bool("no-color") {
		v.Set("no_color", true)
	}
	if ctx.IsSet("cache") {
		v.Set("cache", ctx.String("cache"))
	}
	if ctx.IsSet("cache-max-age") {
		v.Set("cache_max_age", ctx.String("cache-max-age"))
	}

	s := &settings{
		AllowUnknown: v.GetBool("allow_unknown"),
		StrictLabels: v.GetBool("strict_labels"),
		Cache:        v.GetString("cache"),
		LogLevel:     v.GetString("log_level"),
		NoColor:      v.GetBool("no_color"),
	}
	if age := v.GetString("cache_max_age"); age != "" {
		d, err := time.ParseDuration(age)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid cache max age %q", age)
		}
		s.CacheMaxAge = d
	}
	if s.NoColor {
		color.Enabled = false
	}
	return s, nil
}

// compileOptions returns the assembler options selected by s.
func (s *settings) compileOptions(log zerolog.Logger) []spkasm.Option {
	return []spkasm.Option{
		spkasm.WithAllowUnknown(s.AllowUnknown),
		spkasm.WithStrictLabels(s.StrictLabels),
		spkasm.WithLogger(log),
	}
}

// logger returns a console logger writing to stderr at the configured level.
func (s *settings) logger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", s.LogLevel)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: s.NoColor || !color.ShouldColorize(os.Stderr)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
