package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrosim/m6502/bus"
)

// testCpu builds a CPU on a fresh bus with an image loaded at the code
// origin and the CPU reset.
func testCpu(image []byte) (cpu *Cpu) {
	cpu = NewCpu(bus.New())
	cpu.Load(image)
	cpu.Reset()

	return
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0x00})

	assert.Equal(CODE_ORIGIN, cpu.PC)
	assert.Equal(SP_RESET, cpu.SP)
	assert.Equal(byte(0), cpu.A)
	assert.Equal(byte(0), cpu.X)
	assert.Equal(byte(0), cpu.Y)
	assert.True(cpu.Flags.Interrupt)
	assert.True(cpu.Flags.Unused)
	assert.False(cpu.Flags.Break)
	assert.False(cpu.Halted)
}

func TestResetClearsHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0x00})

	err := cpu.Run()
	assert.NoError(err)
	assert.True(cpu.Halted)
	assert.True(cpu.Flags.Break)

	// A reused instance runs cleanly after a reset.
	cpu.Reset()
	assert.False(cpu.Halted)
	assert.False(cpu.Flags.Break)

	err = cpu.Run()
	assert.NoError(err)
	assert.True(cpu.Halted)
}

func TestAdcExhaustive(t *testing.T) {
	cpu := NewCpu(bus.New())

	for a := range 256 {
		for b := range 256 {
			for carry := range 2 {
				cpu.Load([]byte{0x69, byte(b), 0x00})
				cpu.Reset()
				cpu.A = byte(a)
				cpu.Flags.Carry = carry == 1

				err := cpu.Run()
				if err != nil {
					t.Fatalf("adc a=%#x b=%#x c=%v: %v", a, b, carry, err)
				}

				sum := a + b + carry
				result := byte(sum)
				overflow := ((byte(a)^result)&(byte(b)^result))&0x80 != 0

				switch {
				case cpu.A != result:
					t.Fatalf("adc a=%#x b=%#x c=%v: result %#x != %#x", a, b, carry, cpu.A, result)
				case cpu.Flags.Carry != (sum >= 256):
					t.Fatalf("adc a=%#x b=%#x c=%v: carry %v", a, b, carry, cpu.Flags.Carry)
				case cpu.Flags.Overflow != overflow:
					t.Fatalf("adc a=%#x b=%#x c=%v: overflow %v", a, b, carry, cpu.Flags.Overflow)
				case cpu.Flags.Zero != (result == 0):
					t.Fatalf("adc a=%#x b=%#x c=%v: zero %v", a, b, carry, cpu.Flags.Zero)
				case cpu.Flags.Negative != (result&0x80 != 0):
					t.Fatalf("adc a=%#x b=%#x c=%v: negative %v", a, b, carry, cpu.Flags.Negative)
				}
			}
		}
	}
}

// Subtract with carry must be exactly add-with-carry of the complemented
// operand, flags included.
func TestSbcAdcIdentity(t *testing.T) {
	sbc := NewCpu(bus.New())
	adc := NewCpu(bus.New())

	for a := range 256 {
		for b := range 256 {
			for carry := range 2 {
				sbc.Load([]byte{0xE9, byte(b), 0x00})
				sbc.Reset()
				sbc.A = byte(a)
				sbc.Flags.Carry = carry == 1

				adc.Load([]byte{0x69, ^byte(b), 0x00})
				adc.Reset()
				adc.A = byte(a)
				adc.Flags.Carry = carry == 1

				if err := sbc.Run(); err != nil {
					t.Fatal(err)
				}
				if err := adc.Run(); err != nil {
					t.Fatal(err)
				}

				if sbc.A != adc.A || sbc.Flags != adc.Flags {
					t.Fatalf("sbc a=%#x b=%#x c=%v: %#x %v != %#x %v",
						a, b, carry, sbc.A, sbc.Flags.String(), adc.A, adc.Flags.String())
				}
			}
		}
	}
}

func TestZeroNegativeBoundaries(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0xA9, 0x00, 0x00})
	assert.NoError(cpu.Run())
	assert.True(cpu.Flags.Zero)
	assert.False(cpu.Flags.Negative)

	cpu = testCpu([]byte{0xA9, 0x80, 0x00})
	assert.NoError(cpu.Run())
	assert.False(cpu.Flags.Zero)
	assert.True(cpu.Flags.Negative)
}

func TestAslAccumulator(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		input    byte
		result   byte
		carry    bool
		zero     bool
		negative bool
	}){
		{"plain", 0x01, 0x02, false, false, false},
		{"carry_out", 0x80, 0x00, true, true, false},
		{"negative", 0x40, 0x80, false, false, true},
		{"carry_and_bits", 0xFF, 0xFE, true, false, true},
	}

	for _, entry := range table {
		cpu := testCpu([]byte{0x0A, 0x00})
		cpu.A = entry.input

		assert.NoError(cpu.Run(), entry.name)
		assert.Equal(entry.result, cpu.A, entry.name)
		assert.Equal(entry.carry, cpu.Flags.Carry, entry.name)
		assert.Equal(entry.zero, cpu.Flags.Zero, entry.name)
		assert.Equal(entry.negative, cpu.Flags.Negative, entry.name)
	}
}

func TestAslMemory(t *testing.T) {
	assert := assert.New(t)

	// asl $10 with $10 = $81
	cpu := testCpu([]byte{0x06, 0x10, 0x00})
	cpu.Bus.WriteByte(0x0010, 0x81)

	assert.NoError(cpu.Run())
	assert.Equal(byte(0x02), cpu.Bus.ReadByte(0x0010))
	assert.True(cpu.Flags.Carry)
	assert.False(cpu.Flags.Zero)
	assert.False(cpu.Flags.Negative)
	// The accumulator is untouched by the memory form.
	assert.Equal(byte(0), cpu.A)
}

func TestBitwise(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		opcode byte
		a      byte
		m      byte
		result byte
	}){
		{"and", 0x29, 0xCC, 0xAA, 0x88},
		{"ora", 0x09, 0xCC, 0xAA, 0xEE},
		{"eor", 0x49, 0xCC, 0xAA, 0x66},
		{"and_zero", 0x29, 0xF0, 0x0F, 0x00},
	}

	for _, entry := range table {
		cpu := testCpu([]byte{entry.opcode, entry.m, 0x00})
		cpu.A = entry.a
		cpu.Flags.Carry = true
		cpu.Flags.Overflow = true

		assert.NoError(cpu.Run(), entry.name)
		assert.Equal(entry.result, cpu.A, entry.name)
		assert.Equal(entry.result == 0, cpu.Flags.Zero, entry.name)
		assert.Equal(entry.result&0x80 != 0, cpu.Flags.Negative, entry.name)
		// Bitwise operations never touch Carry or Overflow.
		assert.True(cpu.Flags.Carry, entry.name)
		assert.True(cpu.Flags.Overflow, entry.name)
	}
}

func TestLoadStoreModes(t *testing.T) {
	assert := assert.New(t)

	// lda $10
	cpu := testCpu([]byte{0xA5, 0x10, 0x00})
	cpu.Bus.WriteByte(0x0010, 0x42)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x42), cpu.A)

	// lda $10,x wraps within the zero page: $10 + $FF = $0F
	cpu = testCpu([]byte{0xB5, 0x10, 0x00})
	cpu.X = 0xFF
	cpu.Bus.WriteByte(0x000F, 0x21)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x21), cpu.A)

	// ldx $10,y wraps within the zero page
	cpu = testCpu([]byte{0xB6, 0x80, 0x00})
	cpu.Y = 0x90
	cpu.Bus.WriteByte(0x0010, 0x33)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x33), cpu.X)

	// lda $1234
	cpu = testCpu([]byte{0xAD, 0x34, 0x12, 0x00})
	cpu.Bus.WriteByte(0x1234, 0x55)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x55), cpu.A)

	// lda $FFFF,x wraps around the address space
	cpu = testCpu([]byte{0xBD, 0xFF, 0xFF, 0x00})
	cpu.X = 0x02
	cpu.Bus.WriteByte(0x0001, 0x66)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x66), cpu.A)

	// sta $0200
	cpu = testCpu([]byte{0x8D, 0x00, 0x02, 0x00})
	cpu.A = 0x77
	cpu.Flags.Zero = true
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x77), cpu.Bus.ReadByte(0x0200))
	// Stores never touch the flags.
	assert.True(cpu.Flags.Zero)

	// stx $40 / sty $41
	cpu = testCpu([]byte{0x86, 0x40, 0x84, 0x41, 0x00})
	cpu.X = 0x11
	cpu.Y = 0x22
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x11), cpu.Bus.ReadByte(0x0040))
	assert.Equal(byte(0x22), cpu.Bus.ReadByte(0x0041))
}

// Indirect-X: the pointer is (operand + X) mod 256, and both pointer bytes
// are fetched from the zero page with 8-bit wraparound, per the 6502
// specification.
func TestIndirectX(t *testing.T) {
	assert := assert.New(t)

	// lda ($20,x) with x=4: pointer at $24/$25
	cpu := testCpu([]byte{0xA1, 0x20, 0x00})
	cpu.X = 0x04
	cpu.Bus.WriteByte(0x0024, 0x74)
	cpu.Bus.WriteByte(0x0025, 0x20)
	cpu.Bus.WriteByte(0x2074, 0x99)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x99), cpu.A)

	// Pointer fetch wraps within the zero page: operand $FF + x $00
	// reads lo at $FF and hi at $00, not $100.
	cpu = testCpu([]byte{0xA1, 0xFF, 0x00})
	cpu.Bus.WriteByte(0x00FF, 0x34)
	cpu.Bus.WriteByte(0x0000, 0x12)
	cpu.Bus.WriteByte(0x0100, 0x56) // decoy at the non-wrapped address
	cpu.Bus.WriteByte(0x1234, 0xAB)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0xAB), cpu.A)
}

// Indirect-Y: the base pointer is read from the zero page (lo at the
// operand, hi at operand+1 mod 256), then Y is added with 16-bit
// wraparound, per the 6502 specification.
func TestIndirectY(t *testing.T) {
	assert := assert.New(t)

	// lda ($20),y with y=$10: base $2074, effective $2084
	cpu := testCpu([]byte{0xB1, 0x20, 0x00})
	cpu.Y = 0x10
	cpu.Bus.WriteByte(0x0020, 0x74)
	cpu.Bus.WriteByte(0x0021, 0x20)
	cpu.Bus.WriteByte(0x2084, 0x77)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x77), cpu.A)

	// Pointer fetch wraps within the zero page at operand $FF.
	cpu = testCpu([]byte{0xB1, 0xFF, 0x00})
	cpu.Y = 0x01
	cpu.Bus.WriteByte(0x00FF, 0x00)
	cpu.Bus.WriteByte(0x0000, 0x30)
	cpu.Bus.WriteByte(0x3001, 0x88)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x88), cpu.A)

	// sta ($20),y writes through the same resolution.
	cpu = testCpu([]byte{0x91, 0x20, 0x00})
	cpu.A = 0x5A
	cpu.Y = 0x02
	cpu.Bus.WriteByte(0x0020, 0x00)
	cpu.Bus.WriteByte(0x0021, 0x40)
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x5A), cpu.Bus.ReadByte(0x4002))
}

func TestTransfers(t *testing.T) {
	assert := assert.New(t)

	// tax updates Z/N on the destination
	cpu := testCpu([]byte{0xAA, 0x00})
	cpu.A = 0x80
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x80), cpu.X)
	assert.True(cpu.Flags.Negative)
	assert.False(cpu.Flags.Zero)

	// tay with zero
	cpu = testCpu([]byte{0xA8, 0x00})
	cpu.A = 0x00
	cpu.Y = 0x55
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x00), cpu.Y)
	assert.True(cpu.Flags.Zero)

	// txa / tya
	cpu = testCpu([]byte{0x8A, 0x00})
	cpu.X = 0x7F
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x7F), cpu.A)
	assert.False(cpu.Flags.Negative)

	cpu = testCpu([]byte{0x98, 0x00})
	cpu.Y = 0x01
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x01), cpu.A)

	// txs copies into the stack pointer and leaves the flags alone,
	// even for a zero or negative value.
	cpu = testCpu([]byte{0x9A, 0x00})
	cpu.X = 0x00
	cpu.Flags.Zero = false
	cpu.Flags.Negative = true
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x00), cpu.SP)
	assert.False(cpu.Flags.Zero)
	assert.True(cpu.Flags.Negative)

	// tsx updates flags on X
	cpu = testCpu([]byte{0xBA, 0x00})
	cpu.SP = 0x80
	assert.NoError(cpu.Run())
	assert.Equal(byte(0x80), cpu.X)
	assert.True(cpu.Flags.Negative)
}

func TestFlagSets(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0x38, 0xF8, 0x78, 0x00})

	assert.NoError(cpu.Run())
	assert.True(cpu.Flags.Carry)
	assert.True(cpu.Flags.Decimal)
	assert.True(cpu.Flags.Interrupt)
}

func TestNop(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0xEA, 0x00})
	before := *cpu

	assert.NoError(cpu.Run())
	assert.Equal(before.A, cpu.A)
	assert.Equal(before.X, cpu.X)
	assert.Equal(before.Y, cpu.Y)
	assert.Equal(before.SP, cpu.SP)
}

func TestHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu([]byte{0xEA, 0x00, 0xEA})

	assert.NoError(cpu.Run())
	assert.True(cpu.Halted)
	assert.True(cpu.Flags.Break)
	// The counter stops just past the halt opcode.
	assert.Equal(CODE_ORIGIN+2, cpu.PC)

	// Further steps report done without executing anything.
	done, err := cpu.Step()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(CODE_ORIGIN+2, cpu.PC)
}

func TestRunToHaltProgramCounter(t *testing.T) {
	assert := assert.New(t)

	images := [][]byte{
		{0x00},
		{0xA9, 0x81, 0x8D, 0x00, 0x02, 0x6D, 0x00, 0x02, 0x00},
		{0xEA, 0xEA, 0xEA, 0x00},
	}

	for _, image := range images {
		cpu := testCpu(image)
		assert.NoError(cpu.Run())
		assert.Equal(CODE_ORIGIN+uint16(len(image)), cpu.PC)
	}
}

func TestUnimplementedOpcode(t *testing.T) {
	assert := assert.New(t)

	// 0x02 is outside the implemented set.
	cpu := testCpu([]byte{0xEA, 0x02, 0x00})

	err := cpu.Run()
	assert.Error(err)
	assert.True(errors.Is(err, ErrOpcode{}))

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(byte(0x02), eo.Opcode)
	assert.Equal(CODE_ORIGIN+1, eo.Addr)
}

func TestLoadWritesResetVector(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(bus.New())
	cpu.Load([]byte{0x00})

	assert.Equal(CODE_ORIGIN, cpu.Bus.Read16(RESET_VECTOR))

	cpu.LoadAt(0x4000, []byte{0x00})
	assert.Equal(uint16(0x4000), cpu.Bus.Read16(RESET_VECTOR))
}
