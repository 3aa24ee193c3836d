package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/cpu230/word"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0000", asm.Equate["LINENO"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssembler_Example(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; Add two numbers",
		"LOAD 0005",
		"",
		"add 0003 ; case does not matter",
		"Halt",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{2, 0, []string{"LOAD", "0005"}, 0x080005},
		{4, 3, []string{"add", "0003"}, 0x100003},
		{5, 6, []string{"Halt"}, 0x040000},
	}

	opEqual(t, expected, prog.Opcodes)
	assert.Equal([]Code{0x080005, 0x100003, 0x040000}, prog.Binary())
}

func TestAssembler_Operands(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		code   Code
	}){
		{"LOAD 0005", 0x080005},
		{"LOAD 5", 0x080005},
		{"LOAD #00ff", 0x0800ff},
		{"LOAD 0000FFFF", 0x08ffff},
		{"LOAD A", 0x090001},
		{"LOAD E", 0x090005},
		{"LOAD [B]", 0x0a0002},
		{"LOAD [00FF]", 0x0b00ff},
		{"STORE [C]", 0x0e0003},
		{"PUSH S", 0x3d0006},
		{"LOAD 'A'", 0x080041},
		{`PRINT '\n'`, 0x70000a},
		{"PRINT ';'", 0x70003b},
		{"PRINT ' '", 0x700020},
		{"PRINT \"x\"", 0x700078},
		{"LOAD $(0x10 + 2)", 0x080012},
		{"LOAD $(-1)", 0x08ffff},
		{"NOP\nLOAD LINENO", 0x080002},
		{".equ COUNT 0010\nLOAD COUNT", 0x080010},
		{".equ TEN 000A\nLOAD $(TEN * 2)", 0x080014},
		{".equ PTR B\nLOAD [PTR]", 0x0a0002},
		{".equ PTR B\nLOAD PTR", 0x090002},
		{"JE 0006", 0x4c0006},
		{"JNE 0006", 0x500006},
		{"start:\nNOP\nJMP $(start + 3)", 0x480003},
		{".equ CH 'A'\nLOAD CH", 0x080041},
		{".equ GAP ' '\nPRINT GAP", 0x700020},
		{"PRINT ';' ; prints ';'", 0x70003b},
		{"LOAD 0001;comment", 0x080001},
		{"here:\nLOAD [here]", 0x0b0000},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(entry.source))
		assert.NoError(err, entry.source)
		if err != nil {
			continue
		}
		codes := prog.Binary()
		assert.Equal(entry.code, codes[len(codes)-1], entry.source)
	}
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("WORD_SIGN", "8000")
	asm.Predefine("NEWLINE", "000A")

	prog, err := asm.Parse(strings.NewReader("LOAD WORD_SIGN\nPRINT NEWLINE\n"))
	assert.NoError(err)
	assert.Equal([]Code{0x088000, 0x70000a}, prog.Binary())

	// Predefines survive a second parse.
	prog, err = asm.Parse(strings.NewReader("LOAD WORD_SIGN\n"))
	assert.NoError(err)
	assert.Equal([]Code{0x088000}, prog.Binary())

	_, err = asm.Parse(strings.NewReader(".equ WORD_SIGN 0001\n"))
	assert.ErrorIs(err, ErrEquateDuplicate)
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		lineno int
		err    error
	}){
		{"LOAD 0005 0006", 1, ErrOpcodeExtraArgs},
		{"NOP\nFOO 0001", 2, ErrInstructionInvalid},
		{"here: NOP", 1, ErrInstructionInvalid},
		{"LOAD", 1, ErrModeInvalid},
		{"HALT 0001", 1, ErrModeInvalid},
		{"STORE 0005", 1, ErrModeInvalid},
		{"SHL 0001", 1, ErrModeInvalid},
		{"PUSH [A]", 1, ErrModeInvalid},
		{"READ 0001", 1, ErrModeInvalid},
		{"JMP A", 1, ErrModeInvalid},
		{"JZ [0003]", 1, ErrModeInvalid},
		{"LOAD XYZ", 1, ErrParseValue("XYZ")},
		{"LOAD 12345", 1, ErrParseValue("12345")},
		{"LOAD [XYZ]", 1, ErrParseValue("[XYZ]")},
		{"LOAD $(0x10000)", 1, ErrOperandRange},
		{"LOAD $(-0x8001)", 1, ErrOperandRange},
		{"LOAD $(nope)", 1, ErrParseExpression("nope")},
		{"x:\nNOP\nx:", 3, ErrLabelDuplicate},
		{"A:", 1, ErrLabelInvalid},
		{":", 1, ErrLabelInvalid},
		{".equ X", 1, ErrEquateSyntax},
		{".equ X 0001 0002", 1, ErrEquateSyntax},
		{".equ X 0001\n\n.equ X 0002", 3, ErrEquateDuplicate},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.source))
		assert.ErrorIs(err, entry.err, entry.source)

		var syntax ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.source) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.source)
		}
	}
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"        JMP end",
		"top:",
		"        NOP",
		"        JNZ top",
		"end:",
		"        HALT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(map[string]int{"top": 3, "end": 9}, asm.Label)
	assert.Equal([]Code{0x480009, 0x380000, 0x500003, 0x040000}, prog.Binary())
}

func TestAssembler_LabelPrecedence(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		code   Code
	}){
		// Labels shadow equates, including the built in LINENO.
		{"NOP\nLINENO:\nHALT\nJMP LINENO", 0x480003},
		{"NOP\nNOP\nSPACE:\nHALT\nJMP SPACE", 0x480006},
		{"NOP\nSPACE:\nLOAD [SPACE]", 0x0b0003},
		{".equ TARGET there\nNOP\nthere:\nJMP TARGET", 0x480003},
		// A quoted character is never a label.
		{"NOP\n0041:\nHALT\nPRINT 'A'", 0x700041},
		{"NOP\n0041:\nHALT\nPRINT 0041", 0x700003},
	}

	for _, entry := range table {
		asm := &Assembler{}
		asm.Predefine("SPACE", "0020")
		prog, err := asm.Parse(strings.NewReader(entry.source))
		assert.NoError(err, entry.source)
		if err != nil {
			continue
		}
		codes := prog.Binary()
		assert.Equal(entry.code, codes[len(codes)-1], entry.source)
	}

	// The equate still applies where no label shadows it.
	asm := &Assembler{}
	asm.Predefine("SPACE", "0020")
	prog, err := asm.Parse(strings.NewReader("PRINT SPACE\nLOAD LINENO"))
	assert.NoError(err)
	assert.Equal([]Code{0x700020, 0x080002}, prog.Binary())
}

func TestAssembler_Disassemble(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ LIMIT 0020",
		"        LOAD 0000",
		"        STORE B",
		"loop:",
		"        LOAD B",
		"        ADD 'a'",
		"        PRINT A",
		"        STORE [B]",
		"        INC B",
		"        LOAD B",
		"        CMP LIMIT",
		"        JB loop",
		"        PUSH B",
		"        POP C",
		"        XOR [0020]",
		"        NOT [C]",
		"        SHL D",
		"        SHR E",
		"        READ [D]",
		"        HALT",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	var listing []string
	for _, code := range prog.Codes() {
		listing = append(listing, code.String())
	}

	again, err := asm.Parse(strings.NewReader(strings.Join(listing, "\n")))
	assert.NoError(err)
	assert.Equal(prog.Binary(), again.Binary())
}

func TestAssembler_Verbose(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Verbose: true}
	prog, err := asm.Parse(strings.NewReader("top:\nLOAD 0001\nJMP top\n"))
	assert.NoError(err)
	assert.Equal(2, len(prog.Opcodes))
	assert.Equal(word.Word(0), prog.Opcodes[1].Code.Operand())
}
