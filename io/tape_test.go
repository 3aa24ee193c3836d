package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("hello\n\nZ\r\nq")}

	table := []rune{'h', '\n', 'Z', 'q'}
	for _, expected := range table {
		value, err := tape.Receive()
		assert.NoError(err)
		assert.Equal(expected, value)
	}

	_, err := tape.Receive()
	assert.ErrorIs(err, ErrInputEmpty)
}

func TestTape_Receive_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, err := tape.Receive()
	assert.ErrorIs(err, ErrInputEmpty)
}

func TestTape_Receive_Unicode(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("çx\n")}
	value, err := tape.Receive()
	assert.NoError(err)
	assert.Equal('ç', value)
}

func TestTape_Receive_Prompt(t *testing.T) {
	assert := assert.New(t)

	prompt := &bytes.Buffer{}
	tape := &Tape{
		Input:    strings.NewReader("a\nb\n"),
		Prompt:   "? ",
		PromptTo: prompt,
	}

	tape.Receive()
	tape.Receive()
	assert.Equal("? ? ", prompt.String())
}

func TestTape_Receive_NewInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("a\n")}
	value, _ := tape.Receive()
	assert.Equal('a', value)

	tape.Input = strings.NewReader("b\n")
	value, err := tape.Receive()
	assert.NoError(err)
	assert.Equal('b', value)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, r := range "Hi!" {
		assert.NoError(tape.Send(r))
	}

	assert.Equal("H\ni\n!\n", output.String())
}

func TestTape_Send_Surrogate(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, r := range []rune{0xd800, 0xdfff} {
		assert.ErrorIs(tape.Send(r), ErrCharInvalid)
	}
	assert.Empty(output.String())

	assert.NoError(tape.Send(0xd7ff))
	assert.NoError(tape.Send(0xe000))
	assert.Equal("\ud7ff\n\ue000\n", output.String())
}

func TestTape_Send_NoOutput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.NoError(tape.Send('x'))
}

func TestTape_Defines(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	defines := map[string]string{}
	for key, value := range tape.Defines() {
		defines[key] = value
	}
	assert.Equal("000A", defines["NEWLINE"])
	assert.Equal("0020", defines["SPACE"])
}
