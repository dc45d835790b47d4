package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors (a single line is malformed)
//   - E2xxx: Assembly errors (lines are well formed but cannot be assembled)
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Malformed inline expression
	E1003 ErrorCode = "E1003" // Missing operand
	E1004 ErrorCode = "E1004" // Malformed data index
	E1005 ErrorCode = "E1005" // Malformed operand
	E1007 ErrorCode = "E1007" // Malformed label

	// Assembly errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unknown label
	E2002 ErrorCode = "E2002" // Invalid build type
	E2003 ErrorCode = "E2003" // Missing compiler specification
	E2004 ErrorCode = "E2004" // Duplicate label
	E2005 ErrorCode = "E2005" // Unknown binary operator
	E2006 ErrorCode = "E2006" // Unknown mnemonic
	E2007 ErrorCode = "E2007" // No build type specified
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "malformed inline expression",
	E1003: "missing operand",
	E1004: "malformed data index",
	E1005: "malformed operand",
	E1007: "malformed label",

	E2001: "unknown label",
	E2002: "invalid build type",
	E2003: "missing compiler specification",
	E2004: "duplicate label",
	E2005: "unknown binary operator",
	E2006: "unknown mnemonic",
	E2007: "no build type specified",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "assembly"
	default:
		return "unknown"
	}
}
