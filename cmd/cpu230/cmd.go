package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/cpu230/cpu"
	"github.com/ezrec/cpu230/emulator"
	"github.com/ezrec/cpu230/io"
)

const (
	EXT_BINARY = ".bin"
	EXT_OUTPUT = ".txt"
)

type options struct {
	verbose  bool
	output   string
	maxTicks int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "cpu230",
		Short:         "Assembler and emulator for the cpu230 16-bit processor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose mode")

	assembleCmd := &cobra.Command{
		Use:   "assemble source.asm",
		Short: "Assemble a source file into a binary file of 6 hex digit codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := assembleFile(args[0], opts.verbose)
			if err != nil {
				return
			}
			output := opts.output
			if len(output) == 0 {
				output = swapExt(args[0], EXT_BINARY)
			}
			return writeBinary(prog, output)
		},
	}
	assembleCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Binary output file (default: source with .bin extension)")

	execCmd := &cobra.Command{
		Use:   "exec program.bin",
		Short: "Execute a binary file, writing printed characters one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := readBinary(args[0])
			if err != nil {
				return
			}
			output := opts.output
			if len(output) == 0 {
				output = swapExt(args[0], EXT_OUTPUT)
			}
			return execute(prog, output, opts)
		},
	}
	execCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file, '-' for stdout (default: program with .txt extension)")
	execCmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "Fail after this many instructions (0: unlimited)")

	runCmd := &cobra.Command{
		Use:   "run source.asm",
		Short: "Assemble and execute a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := assembleFile(args[0], opts.verbose)
			if err != nil {
				return
			}
			output := opts.output
			if len(output) == 0 {
				output = "-"
			}
			return execute(prog, output, opts)
		},
	}
	runCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	runCmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "Fail after this many instructions (0: unlimited)")

	root.AddCommand(assembleCmd, execCmd, runCmd)

	return root
}

// swapExt replaces the extension of path.
func swapExt(path string, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// assembleFile assembles a source file, with the emulator defines as equates.
func assembleFile(path string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for equ, value := range emulator.NewEmulator().Defines() {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// writeBinary writes the program codes, one per line.
func writeBinary(prog *cpu.Program, path string) (err error) {
	rom := &io.Rom{}
	for _, code := range prog.Binary() {
		rom.Data = append(rom.Data, uint32(code))
	}

	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		close_err := ouf.Close()
		if err == nil {
			err = close_err
		}
	}()

	err = rom.Marshal(ouf)

	return
}

// readBinary loads a binary file as a program listing.
func readBinary(path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	rom := &io.Rom{}
	err = rom.Unmarshal(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	codes := make([]cpu.Code, len(rom.Data))
	for n, data := range rom.Data {
		codes[n] = cpu.Code(data)
	}

	prog = cpu.NewProgram(codes)

	return
}

// execute runs the program, and writes the output in full once it terminates.
func execute(prog *cpu.Program, output string, opts *options) (err error) {
	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = opts.verbose
	emu.MaxTicks = opts.maxTicks

	emu.Tape.Input = os.Stdin
	if term.IsTerminal(int(os.Stdin.Fd())) {
		emu.Tape.Prompt = "? "
		emu.Tape.PromptTo = os.Stderr
	}

	buffer := &bytes.Buffer{}
	emu.Tape.Output = buffer

	emu.Reset()
	_, err = emu.Run()
	if opts.verbose {
		dump_err := emu.Cpu.Dump(os.Stderr)
		if dump_err != nil {
			logrus.Warnf("cpu230: state dump: %v", dump_err)
		}
	}
	if err != nil {
		return
	}

	if output == "-" {
		_, err = os.Stdout.Write(buffer.Bytes())
		return
	}

	err = os.WriteFile(output, buffer.Bytes(), 0644)

	return
}
