package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Tape is a sequential character device. It bridges an io.Reader and an
// io.Writer to the machine's tape ports: a byte read drains one byte from
// Input, a byte write appends one byte to Output. Reads at end of input
// yield zero.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _io_defines = map[string]string{
	"TAPE_IN":  fmt.Sprintf("%#x", TAPE_IN),
	"TAPE_OUT": fmt.Sprintf("%#x", TAPE_OUT),
}

// Defines returns an iter of defines for the device.
func (tape *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(_io_defines)
}

// ReadByte reads the next input byte, or zero once the input is exhausted.
func (tape *Tape) ReadByte() (value byte) {
	if tape.Input == nil {
		return
	}

	var one [1]byte
	n, err := tape.Input.Read(one[:])
	if err != nil || n == 0 {
		return
	}

	return one[0]
}

// WriteByte appends a byte to the output.
func (tape *Tape) WriteByte(value byte) {
	if tape.Output == nil {
		return
	}

	tape.Output.Write([]byte{value})
}
