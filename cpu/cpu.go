package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

// Bus is the addressable memory space the CPU executes against. Two-byte
// accesses are little-endian and span addr and addr+1.
type Bus interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, value byte)
	Read16(addr uint16) uint16
	Write16(addr uint16, value uint16)
	Load(origin uint16, data []byte)
}

// Cpu is the simulation context for the 6502 execution core. It owns its
// Bus reference for the lifetime of the instance; nothing else accesses
// that memory while the core runs.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Bus Bus // Addressable memory space.

	A  byte   // Accumulator.
	X  byte   // Index register X.
	Y  byte   // Index register Y.
	SP byte   // Stack pointer. The implemented set only moves it via txs/tsx.
	PC uint16 // Program counter.

	Flags Status // Processor status word.

	Halted bool // Set once a halt opcode has been fetched.
}

// NewCpu creates a new CPU attached to a bus, with all registers zeroed and
// the flags at their reset default.
func NewCpu(bus Bus) (cpu *Cpu) {
	cpu = &Cpu{
		Bus:   bus,
		Flags: statusReset,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Load copies a program image to the fixed code origin and records the
// origin in the reset vector. Writing the vector is the core's job, not
// the bus's.
func (cpu *Cpu) Load(program []byte) {
	cpu.LoadAt(CODE_ORIGIN, program)
}

// LoadAt copies a program image to an explicit origin and records that
// origin in the reset vector.
func (cpu *Cpu) LoadAt(origin uint16, program []byte) {
	cpu.Bus.Load(origin, program)
	cpu.Bus.Write16(RESET_VECTOR, origin)
}

// Reset reinitializes the register file, returns the flags to their reset
// default (interrupt-disable forced, halt state cleared), and loads the
// program counter from the reset vector.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = SP_RESET
	cpu.Flags = statusReset
	cpu.Halted = false
	cpu.PC = cpu.Bus.Read16(RESET_VECTOR)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %04x\n", cpu.PC)
	text += fmt.Sprintf("    a: %02x\n", cpu.A)
	text += fmt.Sprintf("    x: %02x\n", cpu.X)
	text += fmt.Sprintf("    y: %02x\n", cpu.Y)
	text += fmt.Sprintf("   sp: %02x\n", cpu.SP)
	text += fmt.Sprintf("flags: %v\n", cpu.Flags.String())

	return
}

// get reads a register by name.
func (cpu *Cpu) get(reg Register) (value byte) {
	switch reg {
	case REG_A:
		value = cpu.A
	case REG_X:
		value = cpu.X
	case REG_Y:
		value = cpu.Y
	case REG_S:
		value = cpu.SP
	}

	return
}

// set writes a register by name.
func (cpu *Cpu) set(reg Register, value byte) {
	switch reg {
	case REG_A:
		cpu.A = value
	case REG_X:
		cpu.X = value
	case REG_Y:
		cpu.Y = value
	case REG_S:
		cpu.SP = value
	}
}

// effectiveAddress resolves an addressing mode against the operand bytes at
// the program counter. All index arithmetic wraps: modulo 256 for zero-page
// forms, modulo 65536 for absolute forms. The indirect modes fetch their
// pointer from the zero page with 8-bit wraparound, per the 6502
// specification.
func (cpu *Cpu) effectiveAddress(mode AddrMode) (addr uint16) {
	switch mode {
	case MODE_IMM:
		addr = cpu.PC
	case MODE_ZP:
		addr = uint16(cpu.Bus.ReadByte(cpu.PC))
	case MODE_ZP_X:
		addr = uint16(cpu.Bus.ReadByte(cpu.PC) + cpu.X)
	case MODE_ZP_Y:
		addr = uint16(cpu.Bus.ReadByte(cpu.PC) + cpu.Y)
	case MODE_ABS:
		addr = cpu.Bus.Read16(cpu.PC)
	case MODE_ABS_X:
		addr = cpu.Bus.Read16(cpu.PC) + uint16(cpu.X)
	case MODE_ABS_Y:
		addr = cpu.Bus.Read16(cpu.PC) + uint16(cpu.Y)
	case MODE_IND_X:
		ptr := cpu.Bus.ReadByte(cpu.PC) + cpu.X
		lo := cpu.Bus.ReadByte(uint16(ptr))
		hi := cpu.Bus.ReadByte(uint16(ptr + 1))
		addr = (uint16(hi) << 8) | uint16(lo)
	case MODE_IND_Y:
		ptr := cpu.Bus.ReadByte(cpu.PC)
		lo := cpu.Bus.ReadByte(uint16(ptr))
		hi := cpu.Bus.ReadByte(uint16(ptr + 1))
		addr = ((uint16(hi) << 8) | uint16(lo)) + uint16(cpu.Y)
	}

	return
}

// fetch reads the operand byte an addressing mode points at.
func (cpu *Cpu) fetch(mode AddrMode) byte {
	return cpu.Bus.ReadByte(cpu.effectiveAddress(mode))
}

// Step executes a single fetch-decode-execute cycle. done reports that a
// halt opcode has been fetched; the halt opcode's own handler is never
// dispatched. The program counter advances past the opcode before the halt
// check, and past the operand bytes only after the instruction body runs.
func (cpu *Cpu) Step() (done bool, err error) {
	if cpu.Halted {
		done = true
		return
	}

	opcode := cpu.Bus.ReadByte(cpu.PC)
	cpu.PC++

	if opcode == OP_HALT {
		cpu.Flags.Break = true
		cpu.Halted = true
		done = true
		return
	}

	in := optable[opcode]
	if in.Do == nil {
		err = ErrOpcode{Addr: cpu.PC - 1, Opcode: opcode}
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v %v", cpu.PC-1, in.Name, in.Mode)
	}

	err = in.Do(cpu, in.Mode)
	if err != nil {
		return
	}

	cpu.PC += uint16(in.Mode.Operands())

	return
}

// Run steps the fetch-decode-execute loop until a halt opcode stops it, or
// an opcode outside the implemented set is fetched.
func (cpu *Cpu) Run() (err error) {
	var done bool
	for !done && err == nil {
		done, err = cpu.Step()
	}

	return
}
