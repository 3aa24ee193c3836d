package cpu

import (
	"github.com/ezrec/cpu230/word"
)

// Stack is an unbounded LIFO of words.
type Stack struct {
	Data []word.Word
}

func (s *Stack) Push(value word.Word) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value word.Word, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Peek() (value word.Word, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
