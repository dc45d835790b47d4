package spkasm

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/timsystem/spkasm/dis"
	"github.com/timsystem/spkasm/errors"
)

// TestCase holds the expectations written as "// key: value" lines at the
// top of a testdata file.
type TestCase struct {
	Name              string
	Source            string
	ExpectedBytes     int
	ExpectedConstants int
	ExpectedOpcodes   []string
	ExpectedErr       string
	ExpectedErrLine   int
}

// parseTestCase reads directives and blanks them out of the source so the
// remaining line numbers are unchanged.
func parseTestCase(name, text string) (TestCase, error) {
	tc := TestCase{Name: name, ExpectedBytes: -1, ExpectedConstants: -1}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "// ") {
			continue
		}
		lines[i] = ""
		parts := strings.SplitN(strings.TrimPrefix(line, "// "), ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		var err error
		switch key {
		case "expected bytes":
			tc.ExpectedBytes, err = strconv.Atoi(val)
		case "expected constants":
			tc.ExpectedConstants, err = strconv.Atoi(val)
		case "expected opcodes":
			tc.ExpectedOpcodes = strings.Fields(val)
		case "expected error":
			tc.ExpectedErr = val
		case "expected error line":
			tc.ExpectedErrLine, err = strconv.Atoi(val)
		}
		if err != nil {
			return tc, err
		}
	}
	tc.Source = strings.Join(lines, "\n")
	return tc, nil
}

func TestFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.spk"))
	assert.Nil(t, err)
	assert.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			assert.Nil(t, err)
			tc, err := parseTestCase(path, string(data))
			assert.Nil(t, err)

			code, err := Compile(tc.Source, WithFilename(path))
			if tc.ExpectedErr != "" {
				assert.NotNil(t, err)
				assert.Equal(t, string(errors.CodeOf(err)), tc.ExpectedErr)
				asmErr, ok := err.(*errors.AssemblerError)
				assert.True(t, ok)
				assert.Equal(t, asmErr.Line, tc.ExpectedErrLine)
				return
			}
			assert.Nil(t, err)
			if tc.ExpectedBytes >= 0 {
				assert.Equal(t, code.InstructionCount(), tc.ExpectedBytes)
			}
			if tc.ExpectedConstants >= 0 {
				assert.Equal(t, code.ConstantCount(), tc.ExpectedConstants)
			}
			if tc.ExpectedOpcodes != nil {
				instructions, err := dis.Disassemble(code)
				assert.Nil(t, err)
				var names []string
				for _, instr := range instructions {
					names = append(names, instr.Name)
				}
				assert.Equal(t, names, tc.ExpectedOpcodes)
			}
		})
	}
}
