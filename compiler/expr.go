package compiler

import (
	"strconv"
	"strings"

	"github.com/timsystem/spkasm/bytecode"
	"github.com/timsystem/spkasm/errors"
)

// ParseImmediate parses the immediate expression that starts at words[offset].
//
// A decimal number in the first word yields a number constant; any words
// after it are ignored. A first word starting with a double quote yields a
// string constant made of every remaining word joined by single spaces,
// with all double quotes removed. Anything else is a malformed expression.
// line is the 1-based source line reported in errors.
func ParseImmediate(words []string, offset int, line int) (bytecode.Constant, error) {
	if offset < 0 || offset >= len(words) {
		return bytecode.Constant{}, errors.Newf(errors.E1003, line, "missing inline expression")
	}
	first := words[offset]
	if v, ok := parseDecimal(first); ok {
		return bytecode.Number(v), nil
	}
	if strings.HasPrefix(first, `"`) {
		text := strings.Join(words[offset:], " ")
		return bytecode.String(strings.ReplaceAll(text, `"`, "")), nil
	}
	return bytecode.Constant{}, errors.Newf(errors.E1001, line, "malformed inline expression")
}

// parseDecimal accepts plain decimal literals such as 3, -2.5, .5 or 1e9.
// Hex floats, digit separators, NaN and Inf are rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
