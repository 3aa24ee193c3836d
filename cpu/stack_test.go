package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/cpu230/word"
)

func TestStack(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	_, ok := s.Pop()
	assert.False(ok)

	for n := range 100 {
		s.Push(word.Word(n))
	}
	assert.Equal(100, s.Len())

	top, ok := s.Peek()
	assert.True(ok)
	assert.Equal(word.Word(99), top)

	for n := range 100 {
		value, ok := s.Pop()
		assert.True(ok)
		assert.Equal(word.Word(99-n), value)
	}
	assert.True(s.Empty())

	s.Push(0x1234)
	s.Reset()
	assert.True(s.Empty())
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.Equal(word.Word(0), mem.Load(0x1234))
	assert.False(mem.Mapped(0x1234))

	mem.Store(0x1234, 0xcafe)
	assert.Equal(word.Word(0xcafe), mem.Load(0x1234))
	assert.True(mem.Mapped(0x1234))

	mem.Store(0xffff, 1)
	assert.Equal(word.Word(1), mem.Load(0xffff))

	mem.Reset()
	assert.False(mem.Mapped(0x1234))
	assert.Equal(word.Word(0), mem.Load(0xffff))
}
