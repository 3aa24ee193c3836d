package io

// Temporary is an in-memory character queue. Sent characters are appended,
// and Rewind replays the queue from the start.
type Temporary struct {
	Capacity int // Capacity in characters, or zero for unlimited.

	ReadIndex int
	Data      []rune
}

var _ Channel = (*Temporary)(nil)

// NewTemporary creates a queue holding the characters of text.
func NewTemporary(text string) (temp *Temporary) {
	temp = &Temporary{
		Data: []rune(text),
	}
	return
}

// Rewind resets the read position to the first character.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
}

// Receive returns the next character, or ErrInputEmpty after the last one.
func (temp *Temporary) Receive() (value rune, err error) {
	if temp.ReadIndex >= len(temp.Data) {
		err = ErrInputEmpty
		return
	}

	value = temp.Data[temp.ReadIndex]
	temp.ReadIndex++

	return
}

// Send appends a character to the queue.
// Returns ErrChannelFull if the queue has reached capacity.
func (temp *Temporary) Send(value rune) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data = append(temp.Data, value)

	return
}

// String returns the queued characters.
func (temp *Temporary) String() string {
	return string(temp.Data)
}
