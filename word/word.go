// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package word provides the 16-bit arithmetic primitives shared by the CPU's ALU.
//
// All arithmetic is unsigned modulo 2^16. Subtraction does not exist as a
// primitive: it is addition of the two's complement, so its carry is the
// carry of that addition and not a borrow.
package word

import (
	"fmt"
)

const (
	BITS = 16           // Width of a Word in bits.
	MASK = Word(0xffff) // All ones.
	MSB  = Word(0x8000) // Most significant bit.
)

// Word is the universal 16-bit value of registers, memory cells, stack
// entries and operands.
type Word uint16

// Add sums two words, returning the low 16 bits and whether the
// mathematical sum exceeded 16 bits.
func Add(a, b Word) (sum Word, carry bool) {
	raw := uint32(a) + uint32(b)
	sum = Word(raw)
	carry = raw > uint32(MASK)
	return
}

// Negate returns the two's complement of w, computed as ^w + 1.
func Negate(w Word) (neg Word) {
	neg, _ = Add(^w, 1)
	return
}

// Not returns the bitwise complement.
func Not(w Word) Word {
	return ^w
}

// Xor returns a ^ b.
func Xor(a, b Word) Word {
	return a ^ b
}

// And returns a & b.
func And(a, b Word) Word {
	return a & b
}

// Or returns a | b.
func Or(a, b Word) Word {
	return a | b
}

// Shl shifts left by one. The dropped most significant bit is returned
// as carry, and the least significant bit is filled with 0.
func Shl(w Word) (out Word, carry bool) {
	carry = (w & MSB) != 0
	out = w << 1
	return
}

// Shr is a logical shift right by one; the most significant bit is filled with 0.
func Shr(w Word) Word {
	return w >> 1
}

// Zero is true if all bits are clear.
func (w Word) Zero() bool {
	return w == 0
}

// Sign is true if the most significant bit is set.
func (w Word) Sign() bool {
	return (w & MSB) != 0
}

// Hex returns the 4 hex digit form used for register ids and addresses.
func (w Word) Hex() string {
	return fmt.Sprintf("%04X", uint16(w))
}

// String returns the 16 binary digit form.
func (w Word) String() string {
	return fmt.Sprintf("%016b", uint16(w))
}
