package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ROM_DIGITS = 6          // Hex digits per code line.
	ROM_MASK   = 0x00ffffff // Significant bits of a code.
)

// Rom is an ordered sequence of 24-bit instruction codes, persisted as
// one 6 hex digit code per line.
type Rom struct {
	Data []uint32
}

// Unmarshal replaces the Rom contents with the codes read from input.
// Blank lines are skipped.
func (rc *Rom) Unmarshal(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	rc.Data = rc.Data[:0]

	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if len(line) > ROM_DIGITS {
			err = &ErrRomSyntax{LineNo: lineno, Line: line}
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 16, 32)
		if err != nil {
			err = &ErrRomSyntax{LineNo: lineno, Line: line}
			return
		}

		rc.Data = append(rc.Data, uint32(value))
	}

	err = scanner.Err()

	return
}

// Marshal writes the Rom contents to output.
func (rc *Rom) Marshal(output io.Writer) (err error) {
	writer := bufio.NewWriter(output)

	for _, data := range rc.Data {
		_, err = fmt.Fprintf(writer, "%06X\n", data&ROM_MASK)
		if err != nil {
			return
		}
	}

	err = writer.Flush()

	return
}
