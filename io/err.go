package io

import (
	"errors"

	"github.com/ezrec/cpu230/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrInputEmpty  = errors.New(f("input empty"))
	ErrChannelFull = errors.New(f("channel full"))
	ErrCharInvalid = errors.New(f("not a printable character code"))

	// Rom errors
	ErrRomFormat = errors.New(f("not a 24-bit hex code"))
)

// ErrRomSyntax locates a malformed line of a binary file.
type ErrRomSyntax struct {
	LineNo int
	Line   string
}

func (err *ErrRomSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, ErrRomFormat)
}

func (err *ErrRomSyntax) Unwrap() error {
	return ErrRomFormat
}
