// Package cpu implements the processor and assembler for the cpu230 system.
//
// The CPU consists of a program counter (PC) indexing a sequence of 24-bit
// instructions, five 16-bit registers (A-E) with A as the accumulator, Zero,
// Carry and Sign flags, an unbounded stack, and a sparse 16-bit memory.
// Each instruction is a 6-bit opcode, a 2-bit addressing mode and a 16-bit
// operand.
//
// The assembler compiles mnemonic source text in two passes: the first
// builds the label table, the second resolves operands and encodes.
// Labels address 3 bytes per instruction, and jumps divide their operand by 3.
package cpu
