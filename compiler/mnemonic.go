package compiler

import (
	"sort"
	"strings"

	"github.com/timsystem/spkasm/op"
)

// Mnemonic identifies an instruction keyword of the assembly language.
type Mnemonic int

const (
	InvalidMnemonic Mnemonic = iota

	// Zero-operand
	Dup
	Pop
	Flip
	Swap
	Out
	Inp
	Halt
	Negate
	Sign

	// Operand-carrying
	Push
	Binary
	CreateVar
	GetVar

	// Control flow
	Jmp
	Je
	Jne
	Jl
	Jg
	Jle
	Jge
	Jln
	Jgn
	Jev
	Jue
	Loop
	Call

	// Reserved, not yet specified
	Chunks
	Curch
	Chusz

	mnemonicCount
)

// Category groups mnemonics that share an operand encoding. The encoder has
// one handler per category.
type Category int

const (
	InvalidCategory Category = iota
	ZeroOperand
	PushOperand
	BinaryOperand
	VariableOperand
	ControlFlow
	Reserved
)

type mnemonicInfo struct {
	name     string
	category Category
	opcode   op.Code
}

var mnemonicInfos = [mnemonicCount]mnemonicInfo{
	Dup:       {"dup", ZeroOperand, op.Dup},
	Pop:       {"pop", ZeroOperand, op.Pop},
	Flip:      {"flip", ZeroOperand, op.Flip},
	Swap:      {"swap", ZeroOperand, op.Swap},
	Out:       {"out", ZeroOperand, op.Out},
	Inp:       {"inp", ZeroOperand, op.Inp},
	Halt:      {"halt", ZeroOperand, op.Halt},
	Negate:    {"negate", ZeroOperand, op.Negate},
	Sign:      {"sign", ZeroOperand, op.Sign},
	Push:      {"push", PushOperand, op.Push},
	Binary:    {"binary", BinaryOperand, op.Invalid},
	CreateVar: {"create_var", VariableOperand, op.CreateVar},
	GetVar:    {"get_var", VariableOperand, op.GetVar},
	Jmp:       {"jmp", ControlFlow, op.Jmp},
	Je:        {"je", ControlFlow, op.Je},
	Jne:       {"jne", ControlFlow, op.Jne},
	Jl:        {"jl", ControlFlow, op.Jl},
	Jg:        {"jg", ControlFlow, op.Jg},
	Jle:       {"jle", ControlFlow, op.Jle},
	Jge:       {"jge", ControlFlow, op.Jge},
	Jln:       {"jln", ControlFlow, op.Jln},
	Jgn:       {"jgn", ControlFlow, op.Jgn},
	Jev:       {"jev", ControlFlow, op.Jev},
	Jue:       {"jue", ControlFlow, op.Jue},
	Loop:      {"loop", ControlFlow, op.Loop},
	Call:      {"call", ControlFlow, op.Call},
	Chunks:    {"chunks", Reserved, op.Invalid},
	Curch:     {"curch", Reserved, op.Invalid},
	Chusz:     {"chusz", Reserved, op.Invalid},
}

var mnemonicsByName = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, mnemonicCount)
	for i := Mnemonic(1); i < mnemonicCount; i++ {
		m[mnemonicInfos[i].name] = i
	}
	return m
}()

// LookupMnemonic resolves a source keyword, case insensitively.
func LookupMnemonic(word string) (Mnemonic, bool) {
	m, ok := mnemonicsByName[strings.ToLower(word)]
	return m, ok
}

// MnemonicNames returns every known keyword, sorted.
func MnemonicNames() []string {
	names := make([]string, 0, len(mnemonicsByName))
	for name := range mnemonicsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the source keyword, e.g. "create_var".
func (m Mnemonic) String() string {
	if m <= InvalidMnemonic || m >= mnemonicCount {
		return ""
	}
	return mnemonicInfos[m].name
}

// Category returns the operand category of the mnemonic.
func (m Mnemonic) Category() Category {
	if m <= InvalidMnemonic || m >= mnemonicCount {
		return InvalidCategory
	}
	return mnemonicInfos[m].category
}

// Opcode returns the opcode emitted for the mnemonic. Binary and reserved
// mnemonics have no fixed opcode and return op.Invalid.
func (m Mnemonic) Opcode() op.Code {
	if m <= InvalidMnemonic || m >= mnemonicCount {
		return op.Invalid
	}
	return mnemonicInfos[m].opcode
}
