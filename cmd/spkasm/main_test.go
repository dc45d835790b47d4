package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/op"
)

const hello = `#build sps
push inline "hello"
out
halt
`

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldEnabled := color.Enabled
	color.Enabled = false
	defer func() { color.Enabled = oldEnabled }()

	app := cli.New("spkasm").
		SetColorEnabled(false).
		GlobalFlags(
			cli.String("config", "").Help("Config file"),
			cli.Bool("no-color", "").Help("Disable colored output"),
			cli.String("log-level", "").Help("Log level"),
			cli.Bool("allow-unknown", "").Help("Ignore unrecognized mnemonics"),
			cli.Bool("strict-labels", "").Help("Reject labels defined more than once"),
		)
	app.Command("build").
		Args("files...").
		Flags(
			cli.String("out", "o").Help("Output path"),
			cli.String("output", "").Enum("json", "text").Help("Summary format"),
			cli.String("cache", "").Help("Cache database"),
			cli.String("cache-max-age", "").Help("Drop cached programs older than this duration, e.g. 72h"),
		).
		Run(buildHandler)
	app.Command("dis").
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to disassemble"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
			cli.Bool("constants", "").Help("Also print the constant pool"),
		).
		Run(disHandler)
	app.Command("check").
		Args("files...").
		Run(checkHandler)
	app.Command("version").
		Flags(cli.String("output", "o").Enum("json", "text").Help("Output format")).
		Run(versionHandler)

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.ExecuteArgs(args)

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.spk", hello)

	out, err := run(t, "build", src)
	assert.Nil(t, err)
	assert.Contains(t, out, "hello.spkb.json: 7 bytes, 1 constants")

	data, err := os.ReadFile(filepath.Join(dir, "hello.spkb.json"))
	assert.Nil(t, err)
	code, err := bytecode.Unmarshal(data)
	assert.Nil(t, err)
	assert.Equal(t, code.OpcodeAt(0), op.Push)
	assert.Equal(t, code.ConstantAt(0).Text(), "hello")
	assert.Equal(t, code.Filename(), src)
}

func TestBuildOutFlag(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.spk", hello)
	dst := filepath.Join(dir, "out.json")

	_, err := run(t, "build", "-o", dst, src)
	assert.Nil(t, err)
	_, err = os.Stat(dst)
	assert.Nil(t, err)

	other := writeFile(t, dir, "other.spk", hello)
	_, err = run(t, "build", "-o", dst, src, other)
	assert.NotNil(t, err)
}

func TestBuildJSONSummary(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.spk", hello)
	b := writeFile(t, dir, "b.spk", "#build sps\nhalt\n")

	out, err := run(t, "build", "--output", "json", a, b)
	assert.Nil(t, err)

	var results []buildResult
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 2)
	assert.Equal(t, results[0].File, a)
	assert.Equal(t, results[0].Bytes, 7)
	assert.Equal(t, results[1].File, b)
	assert.Equal(t, results[1].Bytes, 1)
	assert.Equal(t, results[1].Output, filepath.Join(dir, "b.spkb.json"))
}

func TestBuildCache(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.spk", hello)
	db := filepath.Join(dir, "cache.db")

	var results []buildResult
	out, err := run(t, "build", "--cache", db, "--output", "json", src)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.False(t, results[0].Cached)

	out, err = run(t, "build", "--cache", db, "--output", "json", src)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.True(t, results[0].Cached)
	assert.Equal(t, results[0].Bytes, 7)
}

func TestBuildCacheHitUsesCurrentPath(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.spk", hello)
	second := writeFile(t, dir, "second.spk", hello)
	db := filepath.Join(dir, "cache.db")

	_, err := run(t, "build", "--cache", db, first)
	assert.Nil(t, err)

	var results []buildResult
	out, err := run(t, "build", "--cache", db, "--output", "json", second)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.True(t, results[0].Cached)

	data, err := os.ReadFile(results[0].Output)
	assert.Nil(t, err)
	code, err := bytecode.Unmarshal(data)
	assert.Nil(t, err)
	assert.Equal(t, code.Filename(), second)
}

func TestBuildCacheMaxAge(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.spk", hello)
	db := filepath.Join(dir, "cache.db")

	_, err := run(t, "build", "--cache", db, src)
	assert.Nil(t, err)

	// age every cached entry to the epoch
	conn, err := sql.Open("sqlite3", db)
	assert.Nil(t, err)
	_, err = conn.Exec("UPDATE programs SET created_at = 0")
	assert.Nil(t, err)
	assert.Nil(t, conn.Close())

	var results []buildResult
	out, err := run(t, "build", "--cache", db, "--cache-max-age", "24h", "--output", "json", src)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.False(t, results[0].Cached)

	out, err = run(t, "build", "--cache", db, "--cache-max-age", "24h", "--output", "json", src)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal([]byte(out), &results))
	assert.True(t, results[0].Cached)

	_, err = run(t, "build", "--cache", db, "--cache-max-age", "soon", src)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid cache max age")
}

func TestBuildStrictLabels(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "dup.spk", "#build sps\nL:\ndup\nL:\njmp L\n")

	_, err := run(t, "build", src)
	assert.Nil(t, err)

	t.Setenv("SPKASM_STRICT_LABELS", "true")
	_, err = run(t, "build", src)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "[E2004]")
}

func TestBuildError(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.spk", "#build sps\nmov\n")

	_, err := run(t, "build", src)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "[E2006]")
	assert.Contains(t, err.Error(), "bad.spk:2")

	_, err = os.Stat(filepath.Join(dir, "bad.spkb.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestAllowUnknownFromEnv(t *testing.T) {
	t.Setenv("SPKASM_ALLOW_UNKNOWN", "true")
	dir := t.TempDir()
	src := writeFile(t, dir, "lenient.spk", "#build sps\nmov\nhalt\n")

	out, err := run(t, "build", src)
	assert.Nil(t, err)
	assert.Contains(t, out, "1 bytes")
}

func TestDis(t *testing.T) {
	out, err := run(t, "dis", "-c", "#build sps\npush inline 2\nhalt")
	assert.Nil(t, err)
	expected := `
+--------+------+--------+----------+------+
| OFFSET | LINE | OPCODE | OPERANDS | INFO |
+--------+------+--------+----------+------+
|      0 |    2 | PUSH   |        0 | 2    |
|      5 |    3 | HALT   |          |      |
+--------+------+--------+----------+------+
`
	assert.Equal(t, out, strings.TrimPrefix(expected, "\n"))
}

func TestDisCompiledFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.spk", hello)
	_, err := run(t, "build", src)
	assert.Nil(t, err)

	out, err := run(t, "dis", "--constants", filepath.Join(dir, "hello.spkb.json"))
	assert.Nil(t, err)
	assert.Contains(t, out, "PUSH")
	assert.Contains(t, out, "| INDEX |")
	assert.Contains(t, out, `"hello"`)
}

func TestDisConflictingInputs(t *testing.T) {
	_, err := run(t, "dis", "-c", "halt", "prog.spk")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "multiple input sources")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.spk", hello)
	bad := writeFile(t, dir, "bad.spk", "halt\n")

	out, err := run(t, "check", good)
	assert.Nil(t, err)
	assert.Contains(t, out, "ok "+good)

	out, err = run(t, "check", good, bad)
	assert.NotNil(t, err)
	assert.Equal(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "ok "+good)
	assert.False(t, strings.Contains(out, "ok "+bad))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	assert.Nil(t, err)
	assert.Equal(t, out, version+"\n")

	out, err = run(t, "version", "--output", "json")
	assert.Nil(t, err)
	var info map[string]string
	assert.Nil(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, info["version"], version)
	assert.Equal(t, info["commit"], commit)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, outputPath("prog.spk", ""), "prog.spkb.json")
	assert.Equal(t, outputPath("dir/prog", ""), "dir/prog.spkb.json")
	assert.Equal(t, outputPath("prog.spk", "x.json"), "x.json")
}
