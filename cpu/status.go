package cpu

// Status is the processor status word, one named field per flag bit.
type Status struct {
	Carry     bool // C: carry out of the last arithmetic or shift.
	Zero      bool // Z: last result byte was 0x00.
	Interrupt bool // I: interrupt disable, forced on reset.
	Decimal   bool // D: decimal mode, inert in this implementation.
	Break     bool // B: set when a halt opcode stops the run loop.
	Unused    bool // Always set.
	Overflow  bool // V: signed overflow of the last add or subtract.
	Negative  bool // N: bit 7 of the last result byte.
}

// Flag bit positions within the packed status byte.
const (
	FLAG_C = byte(1 << 0)
	FLAG_Z = byte(1 << 1)
	FLAG_I = byte(1 << 2)
	FLAG_D = byte(1 << 3)
	FLAG_B = byte(1 << 4)
	FLAG_U = byte(1 << 5)
	FLAG_V = byte(1 << 6)
	FLAG_N = byte(1 << 7)
)

// statusReset is the flag state after a reset.
var statusReset = Status{Interrupt: true, Unused: true}

// SetCarry sets the Carry flag from a carry-out.
func (st *Status) SetCarry(carry bool) {
	st.Carry = carry
}

// SetZero recomputes the Zero flag from a result byte.
func (st *Status) SetZero(result byte) {
	st.Zero = result == 0
}

// SetNegative recomputes the Negative flag from a result byte.
func (st *Status) SetNegative(result byte) {
	st.Negative = (result & 0x80) != 0
}

// SetOverflow recomputes the Overflow flag from the two operands that were
// actually added and the result. Overflow occurs when both operands share a
// sign bit that differs from the result's. Subtraction passes the
// complemented memory operand here.
func (st *Status) SetOverflow(a, b, result byte) {
	st.Overflow = ((a^result)&(b^result))&0x80 != 0
}

// Byte packs the status word. The Unused bit is always set.
func (st *Status) Byte() (value byte) {
	value = FLAG_U

	set := func(on bool, bit byte) {
		if on {
			value |= bit
		}
	}

	set(st.Carry, FLAG_C)
	set(st.Zero, FLAG_Z)
	set(st.Interrupt, FLAG_I)
	set(st.Decimal, FLAG_D)
	set(st.Break, FLAG_B)
	set(st.Overflow, FLAG_V)
	set(st.Negative, FLAG_N)

	return
}

// SetByte unpacks a status byte. The Unused bit reads back as set no matter
// what was stored.
func (st *Status) SetByte(value byte) {
	st.Carry = (value & FLAG_C) != 0
	st.Zero = (value & FLAG_Z) != 0
	st.Interrupt = (value & FLAG_I) != 0
	st.Decimal = (value & FLAG_D) != 0
	st.Break = (value & FLAG_B) != 0
	st.Unused = true
	st.Overflow = (value & FLAG_V) != 0
	st.Negative = (value & FLAG_N) != 0
}

// String returns the flags in NV-BDIZC order, uppercase when set.
func (st *Status) String() (text string) {
	flags := []struct {
		on   bool
		name byte
	}{
		{st.Negative, 'n'},
		{st.Overflow, 'v'},
		{st.Unused, '-'},
		{st.Break, 'b'},
		{st.Decimal, 'd'},
		{st.Interrupt, 'i'},
		{st.Zero, 'z'},
		{st.Carry, 'c'},
	}

	out := make([]byte, 0, len(flags))
	for _, flag := range flags {
		name := flag.name
		if flag.on && name != '-' {
			name -= 'a' - 'A'
		}
		out = append(out, name)
	}

	return string(out)
}
