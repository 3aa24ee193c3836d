package cpu

import (
	"github.com/ezrec/cpu230/word"
)

// result updates Zero and Sign from a just produced value.
func (cpu *Cpu) result(value word.Word) word.Word {
	cpu.Flags.Zero = value.Zero()
	cpu.Flags.Sign = value.Sign()
	return value
}

// add is the only arithmetic primitive; it owns the Carry flag.
func (cpu *Cpu) add(a, b word.Word) (sum word.Word) {
	sum, cpu.Flags.Carry = word.Add(a, b)
	return cpu.result(sum)
}

// sub adds the two's complement of b. Carry is the carry of that
// addition, not a borrow.
func (cpu *Cpu) sub(a, b word.Word) word.Word {
	return cpu.add(a, word.Negate(b))
}

// cmp sets the flags of A - value, leaving A unchanged.
func (cpu *Cpu) cmp(value word.Word) {
	cpu.sub(cpu.A(), value)
}

// logic flags a bitwise result. Carry is untouched.
func (cpu *Cpu) logic(value word.Word) word.Word {
	return cpu.result(value)
}

func (cpu *Cpu) shl(value word.Word) (out word.Word) {
	out, cpu.Flags.Carry = word.Shl(value)
	return cpu.result(out)
}

// shr is a logical shift; Carry is untouched.
func (cpu *Cpu) shr(value word.Word) word.Word {
	return cpu.result(word.Shr(value))
}
