package io

import (
	"bufio"
	"io"
	"iter"
	"maps"
	"strings"
	"unicode/utf8"
)

// Tape provides line oriented character I/O.
// Each Receive consumes one line of Input and yields its first character;
// each Send writes one character and a newline to Output.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	Prompt   string    // If set, written to PromptTo before each Receive.
	PromptTo io.Writer // Destination of Prompt.

	reader *bufio.Reader
	source io.Reader
}

var _ Channel = (*Tape)(nil)

var _tape_defines = map[string]string{
	"NEWLINE": "000A",
	"SPACE":   "0020",
}

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(_tape_defines)
}

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Receive reads the next line of input and returns its first character.
// An empty line yields a newline. End of input is ErrInputEmpty.
func (tc *Tape) Receive() (value rune, err error) {
	if tc.Input == nil {
		err = ErrInputEmpty
		return
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}

	if len(tc.Prompt) != 0 && tc.PromptTo != nil {
		_, err = io.WriteString(tc.PromptTo, tc.Prompt)
		if err != nil {
			return
		}
	}

	line, err := tc.reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = ErrInputEmpty
		}
		return
	}

	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 {
		value = '\n'
		return
	}

	value, _ = utf8.DecodeRuneInString(line)

	return
}

// Send writes a character followed by a newline.
// Surrogate codes (D800-DFFF) have no UTF-8 form, and are ErrCharInvalid.
func (tc *Tape) Send(value rune) (err error) {
	if !utf8.ValidRune(value) {
		err = ErrCharInvalid
		return
	}

	if tc.Output == nil {
		return
	}

	_, err = io.WriteString(tc.Output, string(value)+"\n")

	return
}
