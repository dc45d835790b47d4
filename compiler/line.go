package compiler

import "strings"

// dataHeader is the line that starts the data segment. It ends pass 2.
const dataHeader = ".data:"

// token is one whitespace-delimited word of a source line.
type token struct {
	text   string
	column int // 1-based, relative to the trimmed line
}

func (t token) endColumn() int {
	return t.column + len(t.text) - 1
}

// sourceLine is a trimmed, tokenized line of assembly source.
type sourceLine struct {
	number int // 1-based
	text   string
	tokens []token
}

func (l *sourceLine) isEmpty() bool {
	return len(l.tokens) == 0
}

func (l *sourceLine) isDataHeader() bool {
	return l.text == dataHeader
}

// words returns the token texts starting at offset.
func (l *sourceLine) words(offset int) []string {
	if offset >= len(l.tokens) {
		return nil
	}
	out := make([]string, 0, len(l.tokens)-offset)
	for _, t := range l.tokens[offset:] {
		out = append(out, t.text)
	}
	return out
}

// splitLines splits source into trimmed, tokenized lines. Line numbers are
// 1-based and count every physical line, blank ones included.
func splitLines(source string) []*sourceLine {
	raw := strings.Split(source, "\n")
	lines := make([]*sourceLine, 0, len(raw))
	for i, r := range raw {
		text := strings.TrimSpace(r)
		lines = append(lines, &sourceLine{
			number: i + 1,
			text:   text,
			tokens: tokenize(text),
		})
	}
	return lines
}

func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				tokens = append(tokens, token{text: text[start:i], column: start + 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: text[start:], column: start + 1})
	}
	return tokens
}
