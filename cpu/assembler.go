// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/cpu230/word"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0000",
}

var (
	// Hex literal: at most 4 significant digits, optional '#' prefix.
	hexRegexp = regexp.MustCompile(`^#?0*[0-9a-fA-F]{1,4}$`)
	// Quoted character, possibly escaped.
	charRegexp = regexp.MustCompile("^['\"`‘](\\\\.|[^\\\\])['\"`’]$")
	// Source token: a quoted character, or a run of non-space text.
	tokenRegexp = regexp.MustCompile("['\"`‘](\\\\.|[^\\\\])['\"`’]|\\S+")
	// Compile time expression.
	exprRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a two pass assembler for the cpu230 system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to byte addresses.
	Equate    map[string]string // Map of equates.
}

// sourceLine is an instruction line retained by the first pass.
type sourceLine struct {
	lineNo int
	text   string // Original text, for diagnostics.
	line   string // Text without comments.
	ip     int
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// hexValue returns the value of a hex literal.
func hexValue(token string) (value word.Word, ok bool) {
	if !hexRegexp.MatchString(token) {
		return
	}

	v64, err := strconv.ParseUint(strings.TrimPrefix(token, "#"), 16, 32)
	if err != nil {
		return
	}

	value = word.Word(v64)
	ok = true

	return
}

// charValue returns the code of a quoted character token.
func charValue(token string) (value rune, ok bool) {
	if !charRegexp.MatchString(token) {
		return
	}

	runes := []rune(token)
	inner := runes[1 : len(runes)-1]

	if len(inner) == 1 {
		return inner[0], true
	}

	ok = true
	switch inner[1] {
	case 'n':
		value = '\n'
	case 'r':
		value = '\r'
	case 't':
		value = '\t'
	case 'e':
		value = '\033'
	case '0':
		value = 0
	case '\\':
		value = '\\'
	default:
		ok = false
	}

	return
}

// fields splits a line into tokens. A quoted character is a single token,
// even if it is a space.
func fields(line string) []string {
	return tokenRegexp.FindAllString(line, -1)
}

// isLabel is true for a line consisting of a single word ending in ':'.
func isLabel(words []string) bool {
	return len(words) == 1 && strings.HasSuffix(words[0], ":")
}

// stripLine removes comments and surrounding space. A ';' inside a quoted
// character does not start a comment.
func (asm *Assembler) stripLine(text string) (line string) {
	line = text
	for _, span := range tokenRegexp.FindAllStringIndex(text, -1) {
		token := text[span[0]:span[1]]
		if _, ok := charValue(token); ok {
			continue
		}
		n := strings.IndexByte(token, ';')
		if n >= 0 {
			line = text[:span[0]+n]
			break
		}
	}

	line = strings.TrimSpace(line)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value word.Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value, ok := hexValue(str)
		if !ok {
			// Ignore non-numeric equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value))
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	if st_int64 < -0x8000 || st_int64 > 0xffff {
		err = ErrOperandRange
		return
	}
	value = word.Word(uint64(st_int64) & 0xffff)
	return
}

// expand replaces $(...) expressions with their hex values.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = exprRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return value.Hex()
	})

	return
}

// substitute returns the equate value of a token, or the token.
func (asm *Assembler) substitute(token string) string {
	equate, ok := asm.Equate[token]
	if ok {
		return equate
	}
	return token
}

// defineEquate handles `.equ NAME VALUE`.
func (asm *Assembler) defineEquate(line string) (err error) {
	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := fields(line)
	if len(words) != 3 {
		err = ErrEquateSyntax
		return
	}

	_, ok := asm.Equate[words[1]]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	asm.Equate[words[1]] = words[2]

	return
}

// defineLabel records a label at the byte address ip.
func (asm *Assembler) defineLabel(token string, ip int) (err error) {
	label := strings.TrimSuffix(token, ":")

	_, is_reg := regMap[label]
	if len(label) == 0 || is_reg {
		err = ErrLabelInvalid
		return
	}

	_, ok := asm.Label[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	asm.Label[label] = ip

	return
}

// labelOf returns the address of a label.
func (asm *Assembler) labelOf(token string) (value word.Word, ok bool, err error) {
	ip, ok := asm.Label[token]
	if !ok {
		return
	}

	if ip > int(word.MASK) {
		err = ErrOperandRange
		return
	}

	value = word.Word(ip)

	return
}

// operandOf classifies an operand token into an addressing mode and value.
// Labels are resolved before equates of the same name.
func (asm *Assembler) operandOf(token string) (mode CodeMode, operand word.Word, err error) {
	var ok bool

	// Label
	operand, ok, err = asm.labelOf(token)
	if ok || err != nil {
		mode = MODE_IMMEDIATE
		return
	}

	token = asm.substitute(token)

	// Memory reference
	if len(token) >= 2 && token[0] == '[' && token[len(token)-1] == ']' {
		inner := token[1 : len(token)-1]
		operand, ok, err = asm.labelOf(inner)
		if ok || err != nil {
			mode = MODE_DIRECT
			return
		}
		inner = asm.substitute(inner)
		if reg, ok := regMap[inner]; ok {
			mode = MODE_REGISTER_INDIRECT
			operand = word.Word(reg)
			return
		}
		if value, ok := hexValue(inner); ok {
			mode = MODE_DIRECT
			operand = value
			return
		}
		err = ErrParseValue(token)
		return
	}

	// Register
	if reg, ok := regMap[token]; ok {
		mode = MODE_REGISTER
		operand = word.Word(reg)
		return
	}

	// Label named by an equate
	operand, ok, err = asm.labelOf(token)
	if ok || err != nil {
		mode = MODE_IMMEDIATE
		return
	}

	// Character
	if char, ok := charValue(token); ok {
		if char > rune(word.MASK) {
			err = ErrOperandRange
			return
		}
		mode = MODE_IMMEDIATE
		operand = word.Word(char)
		return
	}

	// Hex literal
	if value, ok := hexValue(token); ok {
		mode = MODE_IMMEDIATE
		operand = value
		return
	}

	err = ErrParseValue(token)
	return
}

// encodeLine assembles a single instruction line.
func (asm *Assembler) encodeLine(src sourceLine) (opcode Opcode, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%04X", src.lineNo)

	line, err := asm.expand(src.line)
	if err != nil {
		return
	}

	words := fields(line)

	op, ok := mnemonicMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	mode := MODE_NONE
	var operand word.Word
	if len(words) == 2 {
		mode, operand, err = asm.operandOf(words[1])
		if err != nil {
			return
		}
	}

	if !op.Legal(mode) {
		err = ErrModeInvalid
		return
	}

	opcode = Opcode{
		LineNo: src.lineNo,
		Ip:     src.ip,
		Words:  words,
		Code:   MakeCode(op, mode, operand),
	}

	if asm.Verbose {
		logrus.WithFields(logrus.Fields{
			"line": src.lineNo,
			"ip":   fmt.Sprintf("%04X", src.ip),
		}).Debugf("%06X %v", uint32(opcode.Code), words)
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	// First pass: labels and equates.
	var lines []sourceLine
	var lineno int
	var ip int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line := asm.stripLine(text)
		if len(line) == 0 {
			continue
		}

		asm.Equate["LINENO"] = fmt.Sprintf("%04X", lineno)

		words := fields(line)
		switch {
		case words[0] == ".equ":
			err = asm.defineEquate(line)
		case isLabel(words):
			err = asm.defineLabel(words[0], ip)
		default:
			lines = append(lines, sourceLine{lineNo: lineno, text: text, line: line, ip: ip})
			ip += CODE_SIZE
		}
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: text, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.Verbose {
		logrus.Debugf("labels: %v", pp.Sprint(asm.Label))
	}

	// Second pass: resolve operands and encode.
	for _, src := range lines {
		var opcode Opcode
		opcode, err = asm.encodeLine(src)
		if err != nil {
			err = ErrSyntax{LineNo: src.lineNo, Line: src.text, Err: err}
			return
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
