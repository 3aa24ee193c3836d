package cpu

import (
	"fmt"

	"github.com/ezrec/cpu230/word"
)

// CodeOp is the 6-bit operation selector of an instruction.
type CodeOp int

const (
	OP_HALT  = CodeOp(0x01) // HALT
	OP_LOAD  = CodeOp(0x02) // LOAD
	OP_STORE = CodeOp(0x03) // STORE
	OP_ADD   = CodeOp(0x04) // ADD
	OP_SUB   = CodeOp(0x05) // SUB
	OP_INC   = CodeOp(0x06) // INC
	OP_DEC   = CodeOp(0x07) // DEC
	OP_XOR   = CodeOp(0x08) // XOR
	OP_AND   = CodeOp(0x09) // AND
	OP_OR    = CodeOp(0x0a) // OR
	OP_NOT   = CodeOp(0x0b) // NOT
	OP_SHL   = CodeOp(0x0c) // SHL
	OP_SHR   = CodeOp(0x0d) // SHR
	OP_NOP   = CodeOp(0x0e) // NOP
	OP_PUSH  = CodeOp(0x0f) // PUSH
	OP_POP   = CodeOp(0x10) // POP
	OP_CMP   = CodeOp(0x11) // CMP
	OP_JMP   = CodeOp(0x12) // JMP
	OP_JZ    = CodeOp(0x13) // JZ
	OP_JNZ   = CodeOp(0x14) // JNZ
	OP_JC    = CodeOp(0x15) // JC
	OP_JNC   = CodeOp(0x16) // JNC
	OP_JA    = CodeOp(0x17) // JA
	OP_JAE   = CodeOp(0x18) // JAE
	OP_JB    = CodeOp(0x19) // JB
	OP_JBE   = CodeOp(0x1a) // JBE
	OP_READ  = CodeOp(0x1b) // READ
	OP_PRINT = CodeOp(0x1c) // PRINT
)

var opNames = map[CodeOp]string{
	OP_HALT:  "HALT",
	OP_LOAD:  "LOAD",
	OP_STORE: "STORE",
	OP_ADD:   "ADD",
	OP_SUB:   "SUB",
	OP_INC:   "INC",
	OP_DEC:   "DEC",
	OP_XOR:   "XOR",
	OP_AND:   "AND",
	OP_OR:    "OR",
	OP_NOT:   "NOT",
	OP_SHL:   "SHL",
	OP_SHR:   "SHR",
	OP_NOP:   "NOP",
	OP_PUSH:  "PUSH",
	OP_POP:   "POP",
	OP_CMP:   "CMP",
	OP_JMP:   "JMP",
	OP_JZ:    "JZ",
	OP_JNZ:   "JNZ",
	OP_JC:    "JC",
	OP_JNC:   "JNC",
	OP_JA:    "JA",
	OP_JAE:   "JAE",
	OP_JB:    "JB",
	OP_JBE:   "JBE",
	OP_READ:  "READ",
	OP_PRINT: "PRINT",
}

// mnemonicMap maps source mnemonics to opcodes. JE and JNE are aliases.
var mnemonicMap = map[string]CodeOp{
	"JE":  OP_JZ,
	"JNE": OP_JNZ,
}

func init() {
	for op, name := range opNames {
		mnemonicMap[name] = op
	}
}

// String returns the mnemonic of the opcode.
func (op CodeOp) String() string {
	name, ok := opNames[op]
	if !ok {
		return fmt.Sprintf("?%02X", int(op))
	}
	return name
}

// Valid is true if the opcode is part of the instruction set.
func (op CodeOp) Valid() bool {
	_, ok := opNames[op]
	return ok
}

// CodeMode is the 2-bit addressing mode of an instruction.
type CodeMode int

const (
	MODE_IMMEDIATE         = CodeMode(0b00) // immediate
	MODE_REGISTER          = CodeMode(0b01) // register
	MODE_REGISTER_INDIRECT = CodeMode(0b10) // register indirect
	MODE_DIRECT            = CodeMode(0b11) // direct
	MODE_NONE              = CodeMode(4)    // no operand; encodes as immediate 0
)

var modeNames = [...]string{"immediate", "register", "register indirect", "direct", "none"}

func (mode CodeMode) String() string {
	if mode < 0 || int(mode) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(mode))
	}
	return modeNames[mode]
}

// ModeSet is a set of legal addressing modes.
type ModeSet uint8

func modes(list ...CodeMode) (set ModeSet) {
	for _, mode := range list {
		set |= 1 << mode
	}
	return
}

// Has is true if mode is in the set.
func (set ModeSet) Has(mode CodeMode) bool {
	return mode >= 0 && mode <= MODE_NONE && (set&(1<<mode)) != 0
}

var (
	modesNone   = modes(MODE_NONE)
	modesAll    = modes(MODE_IMMEDIATE, MODE_REGISTER, MODE_REGISTER_INDIRECT, MODE_DIRECT)
	modesStore  = modes(MODE_REGISTER, MODE_REGISTER_INDIRECT, MODE_DIRECT)
	modesReg    = modes(MODE_REGISTER)
	modesTarget = modes(MODE_IMMEDIATE)
)

// opModes is the legal addressing mode table of each opcode.
var opModes = map[CodeOp]ModeSet{
	OP_HALT:  modesNone,
	OP_LOAD:  modesAll,
	OP_STORE: modesStore,
	OP_ADD:   modesAll,
	OP_SUB:   modesAll,
	OP_INC:   modesAll,
	OP_DEC:   modesAll,
	OP_XOR:   modesAll,
	OP_AND:   modesAll,
	OP_OR:    modesAll,
	OP_NOT:   modesAll,
	OP_SHL:   modesReg,
	OP_SHR:   modesReg,
	OP_NOP:   modesNone,
	OP_PUSH:  modesReg,
	OP_POP:   modesReg,
	OP_CMP:   modesAll,
	OP_JMP:   modesTarget,
	OP_JZ:    modesTarget,
	OP_JNZ:   modesTarget,
	OP_JC:    modesTarget,
	OP_JNC:   modesTarget,
	OP_JA:    modesTarget,
	OP_JAE:   modesTarget,
	OP_JB:    modesTarget,
	OP_JBE:   modesTarget,
	OP_READ:  modesStore,
	OP_PRINT: modesAll,
}

// Modes returns the legal addressing modes of the opcode.
func (op CodeOp) Modes() ModeSet {
	return opModes[op]
}

// Legal is true if the opcode may be assembled with the addressing mode.
func (op CodeOp) Legal(mode CodeMode) bool {
	return op.Modes().Has(mode)
}

// Executable is true if an encoded instruction with this opcode and mode
// may be executed. Opcodes without an operand carry the immediate mode.
func (op CodeOp) Executable(mode CodeMode) bool {
	if mode == MODE_IMMEDIATE && op.Legal(MODE_NONE) {
		return true
	}
	return mode != MODE_NONE && op.Legal(mode)
}

// CodeReg is a register id, as carried in a register operand.
type CodeReg int

const (
	REG_A = CodeReg(1) // A
	REG_B = CodeReg(2) // B
	REG_C = CodeReg(3) // C
	REG_D = CodeReg(4) // D
	REG_E = CodeReg(5) // E
	REG_S = CodeReg(6) // S, reserved for the stack
)

// REGISTERS is the number of general purpose registers.
const REGISTERS = 5

// regMap maps register names to ids.
var regMap = map[string]CodeReg{
	"A": REG_A,
	"B": REG_B,
	"C": REG_C,
	"D": REG_D,
	"E": REG_E,
	"S": REG_S,
}

var regNames = [...]string{
	REG_A: "A",
	REG_B: "B",
	REG_C: "C",
	REG_D: "D",
	REG_E: "E",
	REG_S: "S",
}

func (reg CodeReg) String() string {
	if reg < REG_A || int(reg) >= len(regNames) {
		return word.Word(reg).Hex()
	}
	return regNames[reg]
}

// DecodeReg decodes a register operand into a general purpose register.
func DecodeReg(operand word.Word) (reg CodeReg, err error) {
	reg = CodeReg(operand)
	if reg < REG_A || reg > REG_E {
		err = ErrRegisterUnknown
		return
	}
	return
}

// Code is a 24-bit instruction: opcode(6) | mode(2) | operand(16).
type Code uint32

const (
	CODE_BITS = 24         // Significant bits of a Code.
	CODE_MASK = 0xffffff   // Mask of a Code.
	CODE_SIZE = 3          // Bytes of address space per instruction.
	OP_MASK   = CodeOp(0x3f)
)

// MakeCode encodes an instruction. MODE_NONE encodes as immediate 0.
func MakeCode(op CodeOp, mode CodeMode, operand word.Word) Code {
	if mode == MODE_NONE {
		mode = MODE_IMMEDIATE
		operand = 0
	}
	return (Code(op&OP_MASK) << 18) | (Code(mode&0x3) << 16) | Code(operand)
}

// Op returns the opcode field.
func (code Code) Op() CodeOp {
	return CodeOp((code >> 18) & Code(OP_MASK))
}

// Mode returns the addressing mode field.
func (code Code) Mode() CodeMode {
	return CodeMode((code >> 16) & 0x3)
}

// Operand returns the operand field.
func (code Code) Operand() word.Word {
	return word.Word(code & 0xffff)
}

// Decode splits the instruction into its fields.
func (code Code) Decode() (op CodeOp, mode CodeMode, operand word.Word) {
	return code.Op(), code.Mode(), code.Operand()
}

// String returns the assembly language form of the instruction.
// Jump targets and immediates are rendered as hex literals.
func (code Code) String() string {
	op, mode, operand := code.Decode()

	if op.Legal(MODE_NONE) && mode == MODE_IMMEDIATE && operand == 0 {
		return op.String()
	}

	var arg string
	switch mode {
	case MODE_IMMEDIATE:
		arg = operand.Hex()
	case MODE_REGISTER:
		arg = CodeReg(operand).String()
	case MODE_REGISTER_INDIRECT:
		arg = "[" + CodeReg(operand).String() + "]"
	case MODE_DIRECT:
		arg = "[" + operand.Hex() + "]"
	}

	return op.String() + " " + arg
}
