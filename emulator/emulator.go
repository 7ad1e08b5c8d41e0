// Package emulator wires the CPU core, the bus, and the mapped devices
// into a runnable machine.
package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/retrosim/m6502/bus"
	"github.com/retrosim/m6502/cpu"
	"github.com/retrosim/m6502/internal"
	"github.com/retrosim/m6502/io"
)

// Emulator state. CPU core + bus + devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU core.
	Bus      *bus.Bus     // Addressable memory space owned by the machine.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Tape io.Tape // Tape character device, mapped at the tape ports.
}

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%#x", bus.SIZE),
}

// NewEmulator creates a new emulator with the tape device mapped.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Bus:     bus.New(),
		Program: &cpu.Program{Origin: cpu.CODE_ORIGIN},
	}
	emu.Cpu = cpu.NewCpu(emu.Bus)

	emu.Bus.Map(io.TAPE_IN, &emu.Tape)
	emu.Bus.Map(io.TAPE_OUT, &emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Tape.Defines(),
	)
}

// Reset loads the program image at its origin and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.LoadAt(emu.Program.Origin, emu.Program.Binary())
	emu.Cpu.Reset()

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single instruction step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	addr := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Addr: addr, LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Step()

	return
}

// Run executes the loaded program until a halt opcode stops it.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done && err == nil {
		done, err = emu.Tick()
	}

	return
}
