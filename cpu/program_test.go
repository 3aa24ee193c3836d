package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	codes := []Code{
		MakeCode(OP_LOAD, MODE_REGISTER_INDIRECT, 2),
		MakeCode(OP_JNZ, MODE_IMMEDIATE, 0),
		MakeCode(OP_HALT, MODE_NONE, 0),
	}

	prog := NewProgram(codes)

	expected := []Opcode{
		{1, 0, []string{"LOAD", "[B]"}, codes[0]},
		{2, 3, []string{"JNZ", "0000"}, codes[1]},
		{3, 6, []string{"HALT"}, codes[2]},
	}
	opEqual(t, expected, prog.Opcodes)

	assert.Equal(codes, prog.Binary())

	assert.Nil(prog.Debug(-1))
	assert.Nil(prog.Debug(3))
	assert.Equal(2, prog.Debug(1).LineNo)

	for pc, code := range prog.Codes() {
		assert.Equal(codes[pc], code)
		if pc == 1 {
			break
		}
	}

	empty := NewProgram(nil)
	assert.Empty(empty.Binary())
	assert.Nil(empty.Debug(0))
}
