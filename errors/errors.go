// Package errors defines the structured error reported by the SPK assembler
// and renders it for humans.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind is the kind tag carried by every assembler failure.
const Kind = "AssemblerError"

// NoLine is the line number of errors not tied to a source line, such as a
// missing build directive detected after the last line.
const NoLine = -1

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// AssemblerError is the single error type returned by assembly. Line is the
// 1-based source line where the failure was detected, or NoLine.
type AssemblerError struct {
	Code        ErrorCode
	Kind        string
	Message     string
	Filename    string
	Line        int
	Column      int // 1-based column of the offending token in SourceLine
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Newf creates an AssemblerError with a formatted message.
func Newf(code ErrorCode, line int, format string, args ...any) *AssemblerError {
	return &AssemblerError{
		Code:    code,
		Kind:    Kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

// Error implements the error interface.
func (e *AssemblerError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Line != NoLine {
		if e.Filename != "" {
			fmt.Fprintf(&b, " (%s:%d)", e.Filename, e.Line)
		} else {
			fmt.Fprintf(&b, " (line %d)", e.Line)
		}
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *AssemblerError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *AssemblerError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     "error",
		Message:  e.Message,
		Filename: e.Filename,
		Note:     e.Note,
	}
	if e.Line != NoLine {
		fe.Line = e.Line
		fe.Column = e.Column
		fe.EndColumn = e.EndColumn
	}
	if e.SourceLine != "" && e.Line > 0 {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// CodeOf returns the error code of err if it is (or wraps) an
// AssemblerError, and the empty code otherwise.
func CodeOf(err error) ErrorCode {
	var asmErr *AssemblerError
	if stderrors.As(err, &asmErr) {
		return asmErr.Code
	}
	return ""
}
