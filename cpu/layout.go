package cpu

import (
	"fmt"
)

const (
	ZERO_PAGE    = uint16(0x0000) // First 256 bytes, single-byte addressable.
	STACK_PAGE   = uint16(0x0100) // Hardware stack page.
	CODE_ORIGIN  = uint16(0x8000) // Fixed load origin for program images.
	RESET_VECTOR = uint16(0xFFFC) // Little-endian entry point, written at load.

	SP_RESET = byte(0xFD) // Stack pointer value after reset.
)

var _cpu_defines = map[string]string{
	"ORIGIN":       fmt.Sprintf("%#x", CODE_ORIGIN),
	"RESET_VECTOR": fmt.Sprintf("%#x", RESET_VECTOR),
	"STACK_PAGE":   fmt.Sprintf("%#x", STACK_PAGE),
}
