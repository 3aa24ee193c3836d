package cpu

import (
	"errors"

	"github.com/ezrec/cpu230/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEmpty         = errors.New(f("pc empty"))
	ErrStackEmpty      = errors.New(f("stack empty"))
	ErrChannelInvalid  = errors.New(f("channel invalid"))
	ErrOpcodeIllegal   = errors.New(f("opcode illegal"))
	ErrModeIllegal     = errors.New(f("addressing mode illegal"))
	ErrRegisterUnknown = errors.New(f("register unknown"))
	ErrOpcodeIo        = errors.New(f("io"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrModeInvalid        = errors.New(f("addressing mode invalid for opcode"))
	ErrOperandRange       = errors.New(f("operand out of range"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad code 0x%06x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value, register, label or character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
