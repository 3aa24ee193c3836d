package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"

	cio "github.com/ezrec/cpu230/io"
	"github.com/ezrec/cpu230/word"
)

// Channel is a character I/O channel.
type Channel cio.Channel

var _cpu_defines = map[string]string{
	"INSTRUCTION_SIZE": word.Word(CODE_SIZE).Hex(),
	"WORD_MASK":        word.MASK.Hex(),
	"WORD_SIGN":        word.MSB.Hex(),
}

// Flags are the architectural condition bits.
type Flags struct {
	Zero  bool // Last result was all zero bits.
	Carry bool // Last addition overflowed 16 bits, or SHL dropped a 1.
	Sign  bool // Most significant bit of the last result.
}

// Cpu is the simulation context of the cpu230 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int                  // Index of the next instruction to execute.
	Register [REGISTERS]word.Word // Register bank, A through E.
	Flags    Flags                // Condition flags.
	Stack    Stack                // Stack simulation.
	Memory   Memory               // Memory simulation.
	Halted   bool                 // Set by HALT.

	Input  Channel // Source of READ characters.
	Output []rune  // Characters produced by PRINT, in execution order.

	Ticks int // Executed instruction counter.
}

// State is a snapshot of the architectural state.
type State struct {
	Pc       int
	Register map[string]word.Word
	Flags    Flags
	Stack    []word.Word
	Memory   map[word.Word]word.Word
	Halted   bool
}

// NewCpu creates a new CPU reading characters from input.
func NewCpu(input Channel) (cpu *Cpu) {
	cpu = &Cpu{
		Input: input,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers, flags, stack, and memory.
// - Clears the output and the tick counter.
// - Rewinds the input channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		logrus.Debug("cpu: reset")
	}

	cpu.Pc = 0
	clear(cpu.Register[:])
	cpu.Flags = Flags{}
	cpu.Stack.Reset()
	cpu.Memory.Reset()
	cpu.Halted = false
	cpu.Output = cpu.Output[:0]
	cpu.Ticks = 0

	if cpu.Input != nil {
		cpu.Input.Rewind()
	}
}

// A returns the accumulator.
func (cpu *Cpu) A() word.Word {
	return cpu.Register[REG_A-REG_A]
}

func (cpu *Cpu) setA(value word.Word) {
	cpu.Register[REG_A-REG_A] = value
}

// State returns a snapshot of the architectural state.
func (cpu *Cpu) State() (state State) {
	state = State{
		Pc:       cpu.Pc,
		Register: map[string]word.Word{},
		Flags:    cpu.Flags,
		Stack:    slices.Clone(cpu.Stack.Data),
		Memory:   maps.Clone(cpu.Memory.Data),
		Halted:   cpu.Halted,
	}

	for n, value := range cpu.Register {
		state.Register[(REG_A + CodeReg(n)).String()] = value
	}

	return
}

// Dump pretty prints the architectural state.
func (cpu *Cpu) Dump(out io.Writer) (err error) {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	_, err = printer.Fprintln(out, cpu.State())
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"flags",
		"A", "B", "C", "D", "E",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%d", cpu.Pc)
		case "flags":
			strval = ""
			for _, flag := range []struct {
				name string
				set  bool
			}{{"Z", cpu.Flags.Zero}, {"C", cpu.Flags.Carry}, {"S", cpu.Flags.Sign}} {
				if flag.set {
					strval += flag.name
				} else {
					strval += "-"
				}
			}
		case "A", "B", "C", "D", "E":
			val := cpu.Register[regMap[reg]-REG_A]
			strval = val.Hex()
		case "stack":
			val, ok := cpu.Stack.Peek()
			if ok {
				strval = fmt.Sprintf("%v (%d)", val.Hex(), cpu.Stack.Len())
			} else {
				strval = "----"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// getValue resolves the value an operand designates in the addressing mode.
func (cpu *Cpu) getValue(mode CodeMode, operand word.Word) (value word.Word, err error) {
	switch mode {
	case MODE_IMMEDIATE:
		value = operand
	case MODE_REGISTER:
		var reg CodeReg
		reg, err = DecodeReg(operand)
		if err != nil {
			return
		}
		value = cpu.Register[reg-REG_A]
	case MODE_REGISTER_INDIRECT:
		var reg CodeReg
		reg, err = DecodeReg(operand)
		if err != nil {
			return
		}
		value = cpu.Memory.Load(cpu.Register[reg-REG_A])
	case MODE_DIRECT:
		value = cpu.Memory.Load(operand)
	default:
		err = ErrModeIllegal
	}

	return
}

// setValue stores value at the location an operand designates in the addressing mode.
func (cpu *Cpu) setValue(mode CodeMode, operand word.Word, value word.Word) (err error) {
	switch mode {
	case MODE_REGISTER:
		var reg CodeReg
		reg, err = DecodeReg(operand)
		if err != nil {
			return
		}
		cpu.Register[reg-REG_A] = value
	case MODE_REGISTER_INDIRECT:
		var reg CodeReg
		reg, err = DecodeReg(operand)
		if err != nil {
			return
		}
		cpu.Memory.Store(cpu.Register[reg-REG_A], value)
	case MODE_DIRECT:
		cpu.Memory.Store(operand, value)
	default:
		err = ErrModeIllegal
	}

	return
}

// jump sets the PC so that the post-instruction increment lands on the
// instruction at byte address target.
func (cpu *Cpu) jump(target word.Word, taken bool) {
	if taken {
		cpu.Pc = int(target)/CODE_SIZE - 1
	}
}

// Tick executes the instruction at the PC, then advances the PC.
// Returns ErrPcEmpty once halted or the PC is past the end of codes.
func (cpu *Cpu) Tick(codes []Code) (err error) {
	if cpu.Halted || cpu.Pc < 0 || cpu.Pc >= len(codes) {
		err = ErrPcEmpty
		return
	}

	err = cpu.Execute(codes[cpu.Pc])
	if err != nil {
		return
	}

	cpu.Pc++
	cpu.Ticks++

	return
}

// Run executes codes from the current PC until HALT or until the PC leaves
// the sequence, returning the characters printed during the run.
// Only the output is cleared; a CPU that has halted or left the sequence
// runs nothing until Reset.
func (cpu *Cpu) Run(codes []Code) (output []rune, err error) {
	cpu.Output = cpu.Output[:0]

	for {
		err = cpu.Tick(codes)
		if errors.Is(err, ErrPcEmpty) {
			err = nil
			break
		}
		if err != nil {
			break
		}
	}

	output = slices.Clone(cpu.Output)

	return
}

// Execute executes a single instruction. The PC is only modified by jumps.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	op, mode, operand := code.Decode()

	if cpu.Verbose {
		logrus.WithFields(logrus.Fields{
			"pc":   cpu.Pc,
			"code": fmt.Sprintf("%06X", uint32(code)),
			"a":    cpu.A().Hex(),
		}).Debug(code.String())
	}

	if !op.Valid() {
		err = ErrOpcodeIllegal
		return
	}

	if !op.Executable(mode) {
		err = ErrModeIllegal
		return
	}

	var value word.Word

	// Operand fetch for the opcodes that consume a value.
	switch op {
	case OP_LOAD, OP_ADD, OP_SUB, OP_INC, OP_DEC, OP_XOR, OP_AND, OP_OR, OP_NOT,
		OP_SHL, OP_SHR, OP_PUSH, OP_CMP, OP_PRINT:
		value, err = cpu.getValue(mode, operand)
		if err != nil {
			return
		}
	}

	flags := cpu.Flags

	switch op {
	case OP_HALT:
		cpu.Halted = true
	case OP_LOAD:
		cpu.setA(value)
	case OP_STORE:
		err = cpu.setValue(mode, operand, cpu.A())
	case OP_ADD:
		cpu.setA(cpu.add(cpu.A(), value))
	case OP_SUB:
		cpu.setA(cpu.sub(cpu.A(), value))
	case OP_INC, OP_DEC:
		var result word.Word
		if op == OP_INC {
			result = cpu.add(value, 1)
		} else {
			result = cpu.add(value, word.MASK)
		}
		if mode != MODE_IMMEDIATE {
			err = cpu.setValue(mode, operand, result)
		}
	case OP_XOR:
		cpu.setA(cpu.logic(word.Xor(cpu.A(), value)))
	case OP_AND:
		cpu.setA(cpu.logic(word.And(cpu.A(), value)))
	case OP_OR:
		cpu.setA(cpu.logic(word.Or(cpu.A(), value)))
	case OP_NOT:
		cpu.setA(cpu.logic(word.Not(value)))
	case OP_SHL:
		err = cpu.setValue(mode, operand, cpu.shl(value))
	case OP_SHR:
		err = cpu.setValue(mode, operand, cpu.shr(value))
	case OP_NOP:
		// pass
	case OP_PUSH:
		cpu.Stack.Push(value)
	case OP_POP:
		top, ok := cpu.Stack.Peek()
		if !ok {
			err = ErrStackEmpty
			return
		}
		err = cpu.setValue(mode, operand, top)
		if err == nil {
			cpu.Stack.Pop()
		}
	case OP_CMP:
		cpu.cmp(value)
	case OP_JMP:
		cpu.jump(operand, true)
	case OP_JZ:
		cpu.jump(operand, flags.Zero)
	case OP_JNZ:
		cpu.jump(operand, !flags.Zero)
	case OP_JC:
		cpu.jump(operand, flags.Carry)
	case OP_JNC:
		cpu.jump(operand, !flags.Carry)
	case OP_JA:
		cpu.jump(operand, !flags.Sign && !flags.Zero)
	case OP_JAE:
		cpu.jump(operand, !flags.Sign || flags.Zero)
	case OP_JB:
		cpu.jump(operand, flags.Sign && !flags.Zero)
	case OP_JBE:
		cpu.jump(operand, flags.Sign || flags.Zero)
	case OP_READ:
		if cpu.Input == nil {
			err = errors.Join(ErrOpcodeIo, ErrChannelInvalid)
			return
		}
		var char rune
		char, err = cpu.Input.Receive()
		if err != nil {
			err = errors.Join(ErrOpcodeIo, err)
			return
		}
		err = cpu.setValue(mode, operand, word.Word(char))
	case OP_PRINT:
		cpu.Output = append(cpu.Output, rune(value))
	default:
		err = ErrOpcodeIllegal
	}

	return
}
