package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated machine bytes.
type Opcode struct {
	LineNo    int
	Addr      uint16
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is an assembled (or raw) machine-code image with per-line debug
// records.
type Program struct {
	Origin  uint16
	Opcodes []Opcode
}

// ImageProgram wraps a raw memory image as a single-record Program.
func ImageProgram(origin uint16, image []byte) (prog *Program) {
	prog = &Program{Origin: origin}
	if len(image) != 0 {
		prog.Opcodes = []Opcode{{LineNo: 1, Addr: origin, Bytes: image}}
	}

	return
}

type Debug struct {
	*Opcode
	Index int
}

// Debug maps a memory address back to the opcode record covering it.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+uint16(len(op.Bytes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the contiguous image starting at Origin, with any gaps
// between opcode records zero-filled.
func (prog *Program) Binary() (image []byte) {
	for addr, data := range prog.Bytes() {
		offset := int(addr - prog.Origin)
		for len(image) < offset {
			image = append(image, 0)
		}
		image = append(image, data)
	}

	return
}

// Bytes iterates over every assembled byte with its memory address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, data byte) bool) {
		for _, op := range prog.Opcodes {
			for n, data := range op.Bytes {
				if !yield(op.Addr+uint16(n), data) {
					return
				}
			}
		}
	}
}
