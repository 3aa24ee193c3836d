// Package io provides the I/O collaborators of the cpu230 system: the
// character channels consumed by READ and fed by PRINT (Tape, Temporary),
// and the binary instruction file codec (Rom).
package io

// Channel defines the interface for character I/O attached to the CPU.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive blocks until one character is available and returns it.
	Receive() (value rune, err error)
	// Send writes a single character to the channel.
	Send(value rune) error
}
