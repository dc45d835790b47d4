package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/rs/zerolog"
	"github.com/timsystem/spkasm"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/store"
	"golang.org/x/sync/errgroup"
)

// buildResult describes one assembled file.
type buildResult struct {
	File      string `json:"file"`
	Output    string `json:"output"`
	Bytes     int    `json:"bytes"`
	Constants int    `json:"constants"`
	Cached    bool   `json:"cached"`

	code *bytecode.Code
}

func buildHandler(ctx *cli.Context) error {
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
	out := ctx.String("out")
	if out != "" && len(files) > 1 {
		return goerrors.New("-o may only be used with a single input file")
	}

	var cache *store.Store
	if s.Cache != "" {
		cache, err = store.Open(s.Cache)
		if err != nil {
			return err
		}
		defer cache.Close()
		if s.CacheMaxAge > 0 {
			pruned, err := cache.Prune(ctx.Context(), time.Now().Add(-s.CacheMaxAge))
			if err != nil {
				return err
			}
			log.Debug().Int64("entries", pruned).Dur("max_age", s.CacheMaxAge).Msg("cache pruned")
		}
	}

	results := make([]*buildResult, len(files))
	g, gctx := errgroup.WithContext(ctx.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			result, err := assemble(gctx, file, s, cache, log)
			if err != nil {
				return formatAssemblerError(err, s.NoColor)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		result.Output = outputPath(result.File, out)
		if err := writeCode(result.code, result.Output); err != nil {
			return err
		}
	}

	switch strings.ToLower(ctx.String("output")) {
	case "json":
		return printJSON(results, s.NoColor)
	case "", "text":
		if out == "-" {
			return nil
		}
		for _, r := range results {
			note := ""
			if r.Cached {
				note = " (cached)"
			}
			fmt.Printf("%s -> %s: %d bytes, %d constants%s\n", r.File, r.Output, r.Bytes, r.Constants, note)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", ctx.String("output"))
	}
}

// assemble compiles one file, consulting the cache when one is open.
func assemble(ctx context.Context, path string, s *settings, cache *store.Store, log zerolog.Logger) (*buildResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(data)

	// entries are keyed by source alone, so non-default builds bypass the cache
	useCache := cache != nil && !s.AllowUnknown && !s.StrictLabels
	digest := store.Digest(source)
	if useCache {
		entry, ok, err := cache.Get(ctx, digest)
		if err != nil {
			return nil, err
		}
		if ok {
			log.Debug().Str("file", path).Str("digest", digest[:12]).Msg("cache hit")
			return newBuildResult(path, entry.Code.WithFilename(path), true), nil
		}
	}

	code, err := spkasm.Compile(source, append(s.compileOptions(log), spkasm.WithFilename(path))...)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("bytes", code.InstructionCount()).Msg("assembled")

	if useCache {
		if err := cache.Put(ctx, digest, path, code); err != nil {
			return nil, err
		}
	}
	return newBuildResult(path, code, false), nil
}

func newBuildResult(path string, code *bytecode.Code, cached bool) *buildResult {
	return &buildResult{
		File:      path,
		Bytes:     code.InstructionCount(),
		Constants: code.ConstantCount(),
		Cached:    cached,
		code:      code,
	}
}

// outputPath returns out if set, otherwise the input path with its
// extension replaced by ".spkb.json".
func outputPath(file, out string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".spkb.json"
}

func writeCode(code *bytecode.Code, path string) error {
	data, err := bytecode.MarshalIndent(code)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
