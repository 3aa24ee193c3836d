// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"slices"

	"github.com/ezrec/cpu230/cpu"
	"github.com/ezrec/cpu230/internal"
	"github.com/ezrec/cpu230/io"
)

// Emulator state. CPU + program listing + character tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape io.Tape // Character I/O for READ, and the destination of PRINT output.

	MaxTicks int // If non-zero, the run fails with ErrTickLimit after this many instructions.

	codes []cpu.Code
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Cpu = cpu.NewCpu(&emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(
		emu.Cpu.Defines(),
		emu.Tape.Defines(),
	)
}

// Reset the emulator state, and load the program.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.codes = emu.Program.Binary()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	op := emu.Program.Debug(emu.Cpu.Pc)
	if op == nil {
		return cpu.Code(0)
	}

	return op.Code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// finished is true once the CPU has halted or left the program.
func (emu *Emulator) finished() bool {
	return emu.Cpu.Halted || emu.Cpu.Pc < 0 || emu.Cpu.Pc >= len(emu.codes)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks && !emu.finished() {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick(emu.codes)
	if errors.Is(err, cpu.ErrPcEmpty) {
		err = nil
		done = true
		return
	}

	return
}

// Flush writes the output of the run to the tape, one character per line.
func (emu *Emulator) Flush() (err error) {
	for _, char := range emu.Cpu.Output {
		err = emu.Tape.Send(char)
		if err != nil {
			return
		}
	}

	return
}

// Run executes the program until it halts or runs off its end, then
// flushes the output. Nothing is flushed if the run fails.
func (emu *Emulator) Run() (output []rune, err error) {
	emu.Cpu.Output = emu.Cpu.Output[:0]

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	output = slices.Clone(emu.Cpu.Output)

	err = emu.Flush()

	return
}
