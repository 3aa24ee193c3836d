package cpu

import (
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo int      // Source line number, 1 based.
	Ip     int      // Byte address of the instruction.
	Words  []string // Source words.
	Code   Code     // Encoded instruction.
}

// Program is an assembled instruction listing.
type Program struct {
	Opcodes []Opcode
}

// NewProgram creates a listing for a bare code sequence, such as one
// loaded from a binary file. Line numbers are code indexes plus one.
func NewProgram(codes []Code) (prog *Program) {
	prog = &Program{}

	for n, code := range codes {
		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: n + 1,
			Ip:     n * CODE_SIZE,
			Words:  strings.Fields(code.String()),
			Code:   code,
		})
	}

	return
}

// Debug returns the opcode at the instruction index pc, or nil.
func (prog *Program) Debug(pc int) (op *Opcode) {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return
	}

	op = &prog.Opcodes[pc]

	return
}

// Binary returns the code sequence of the program.
func (prog *Program) Binary() (codes []Code) {
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}

	return
}

// Codes iterates the program's instruction indexes and codes.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for n, op := range prog.Opcodes {
			if !yield(n, op.Code) {
				return
			}
		}
	}
}
