package bytecode

import (
	"encoding/json"
	"fmt"
)

// Marshal converts a Code object into a JSON representation.
func Marshal(code *Code) ([]byte, error) {
	state, err := stateFromCode(code)
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(code *Code) ([]byte, error) {
	state, err := stateFromCode(code)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(state, "", "  ")
}

// Unmarshal converts a JSON representation into a Code object.
func Unmarshal(data []byte) (*Code, error) {
	var state codeDef
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return codeFromState(&state)
}

type constantDef struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type codeDef struct {
	Filename     string        `json:"filename,omitempty"`
	Source       string        `json:"source,omitempty"`
	Instructions []int         `json:"instructions"`
	Constants    []constantDef `json:"constants"`
	Lines        []int         `json:"lines,omitempty"`
}

func stateFromCode(code *Code) (*codeDef, error) {
	instructions := make([]int, len(code.instructions))
	for i, b := range code.instructions {
		instructions[i] = int(b)
	}
	constants := make([]constantDef, len(code.constants))
	for i, c := range code.constants {
		def, err := marshalConstant(c)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		constants[i] = def
	}
	return &codeDef{
		Filename:     code.filename,
		Source:       code.source,
		Instructions: instructions,
		Constants:    constants,
		Lines:        copyInts(code.lines),
	}, nil
}

func marshalConstant(c Constant) (constantDef, error) {
	def := constantDef{Type: c.Kind().String()}
	var err error
	switch c.Kind() {
	case NumberConstant:
		def.Value, err = json.Marshal(c.Number())
	case StringConstant:
		def.Value, err = json.Marshal(c.Text())
	}
	return def, err
}

func codeFromState(state *codeDef) (*Code, error) {
	instructions := make([]byte, len(state.Instructions))
	for i, v := range state.Instructions {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("instruction byte %d out of range: %d", i, v)
		}
		instructions[i] = byte(v)
	}
	constants := make([]Constant, len(state.Constants))
	for i, def := range state.Constants {
		c, err := unmarshalConstant(def)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		constants[i] = c
	}
	if len(state.Lines) > 0 && len(state.Lines) != len(instructions) {
		return nil, fmt.Errorf("source map has %d entries for %d instruction bytes",
			len(state.Lines), len(instructions))
	}
	return NewCode(CodeParams{
		Instructions: instructions,
		Constants:    constants,
		Lines:        state.Lines,
		Source:       state.Source,
		Filename:     state.Filename,
	}), nil
}

func unmarshalConstant(def constantDef) (Constant, error) {
	switch def.Type {
	case "number":
		var v float64
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return Constant{}, err
		}
		return Number(v), nil
	case "string":
		var s string
		if err := json.Unmarshal(def.Value, &s); err != nil {
			return Constant{}, err
		}
		return String(s), nil
	case "placeholder":
		return Placeholder, nil
	default:
		return Constant{}, fmt.Errorf("unknown constant type: %q", def.Type)
	}
}
