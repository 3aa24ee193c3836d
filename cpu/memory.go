package cpu

import (
	"github.com/ezrec/cpu230/word"
)

// Memory is a sparse map of 16-bit addresses to words.
// Unmapped addresses read as zero.
type Memory struct {
	Data map[word.Word]word.Word
}

// Load reads the word at addr.
func (mem *Memory) Load(addr word.Word) word.Word {
	return mem.Data[addr]
}

// Store writes value at addr, creating the entry if needed.
func (mem *Memory) Store(addr word.Word, value word.Word) {
	if mem.Data == nil {
		mem.Data = make(map[word.Word]word.Word)
	}
	mem.Data[addr] = value
}

// Mapped is true if addr has been written.
func (mem *Memory) Mapped(addr word.Word) (ok bool) {
	_, ok = mem.Data[addr]
	return
}

// Reset unmaps all addresses.
func (mem *Memory) Reset() {
	clear(mem.Data)
}
