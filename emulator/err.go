package emulator

import (
	"errors"

	"github.com/retrosim/m6502/translate"
)

var f = translate.From

var (
	// Hexdump errors
	ErrHexdumpSyntax = errors.New(f("hexdump syntax"))
	ErrHexdumpGap    = errors.New(f("hexdump not contiguous"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Addr   uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("0x%04x line %d %v", err.Addr, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrHexdump indicates a malformed hex dump line.
type ErrHexdump struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrHexdump) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrHexdump) Unwrap() error {
	return err.Err
}
