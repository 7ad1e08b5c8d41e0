package cpu

// addCarry is the shared add-with-carry body for adc and sbc. Each addition
// step wraps modulo 256; the Carry flag takes the OR of the two
// intermediate carry-outs. Overflow is computed from the operand values
// that were actually added.
func (cpu *Cpu) addCarry(value byte) {
	a := cpu.A

	sum := a + value
	carry := sum < a

	if cpu.Flags.Carry {
		sum++
		carry = carry || sum == 0
	}

	cpu.A = sum
	cpu.Flags.SetCarry(carry)
	cpu.Flags.SetOverflow(a, value, sum)
	cpu.Flags.SetZero(sum)
	cpu.Flags.SetNegative(sum)
}

// opAdc adds memory and the carry into the accumulator.
func (cpu *Cpu) opAdc(mode AddrMode) (err error) {
	cpu.addCarry(cpu.fetch(mode))
	return
}

// opSbc subtracts memory with borrow: add-with-carry of the bitwise
// complement of the memory operand.
func (cpu *Cpu) opSbc(mode AddrMode) (err error) {
	cpu.addCarry(^cpu.fetch(mode))
	return
}

func (cpu *Cpu) opAnd(mode AddrMode) (err error) {
	cpu.A &= cpu.fetch(mode)
	cpu.Flags.SetZero(cpu.A)
	cpu.Flags.SetNegative(cpu.A)
	return
}

func (cpu *Cpu) opOra(mode AddrMode) (err error) {
	cpu.A |= cpu.fetch(mode)
	cpu.Flags.SetZero(cpu.A)
	cpu.Flags.SetNegative(cpu.A)
	return
}

func (cpu *Cpu) opEor(mode AddrMode) (err error) {
	cpu.A ^= cpu.fetch(mode)
	cpu.Flags.SetZero(cpu.A)
	cpu.Flags.SetNegative(cpu.A)
	return
}

// shiftLeft shifts a byte left by one, the vacated bit 7 becoming the new
// Carry.
func (cpu *Cpu) shiftLeft(value byte) (result byte) {
	result = value << 1

	cpu.Flags.SetCarry((value & 0x80) != 0)
	cpu.Flags.SetZero(result)
	cpu.Flags.SetNegative(result)

	return
}

// opAsl shifts the accumulator directly when the addressing mode is none,
// otherwise it shifts a memory location in place.
func (cpu *Cpu) opAsl(mode AddrMode) (err error) {
	if mode == MODE_NONE {
		cpu.A = cpu.shiftLeft(cpu.A)
		return
	}

	addr := cpu.effectiveAddress(mode)
	cpu.Bus.WriteByte(addr, cpu.shiftLeft(cpu.Bus.ReadByte(addr)))

	return
}

// load builds a handler that loads memory into a register, updating Zero
// and Negative from the loaded value.
func load(reg Register) OpFunc {
	return func(cpu *Cpu, mode AddrMode) (err error) {
		value := cpu.fetch(mode)
		cpu.set(reg, value)
		cpu.Flags.SetZero(value)
		cpu.Flags.SetNegative(value)
		return
	}
}

// store builds a handler that stores a register to memory. No flag changes.
func store(reg Register) OpFunc {
	return func(cpu *Cpu, mode AddrMode) (err error) {
		cpu.Bus.WriteByte(cpu.effectiveAddress(mode), cpu.get(reg))
		return
	}
}

// transfer builds a handler that copies src into dst. The stack pointer is
// the one destination that leaves the flags untouched.
func transfer(src, dst Register) OpFunc {
	return func(cpu *Cpu, mode AddrMode) (err error) {
		value := cpu.get(src)
		cpu.set(dst, value)
		if dst != REG_S {
			cpu.Flags.SetZero(value)
			cpu.Flags.SetNegative(value)
		}
		return
	}
}

func (cpu *Cpu) opSec(mode AddrMode) (err error) {
	cpu.Flags.SetCarry(true)
	return
}

func (cpu *Cpu) opSed(mode AddrMode) (err error) {
	cpu.Flags.Decimal = true
	return
}

func (cpu *Cpu) opSei(mode AddrMode) (err error) {
	cpu.Flags.Interrupt = true
	return
}

func (cpu *Cpu) opNop(mode AddrMode) (err error) {
	return
}
