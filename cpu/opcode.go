package cpu

// AddrMode selects how an instruction's effective address is computed from
// the byte(s) following the opcode, and how many operand bytes the program
// counter skips after execution.
type AddrMode int

//go:generate go tool stringer -linecomment -type=AddrMode
const (
	MODE_NONE  = AddrMode(0) // none
	MODE_IMM   = AddrMode(1) // #imm
	MODE_ZP    = AddrMode(2) // zp
	MODE_ZP_X  = AddrMode(3) // zp,x
	MODE_ZP_Y  = AddrMode(4) // zp,y
	MODE_ABS   = AddrMode(5) // abs
	MODE_ABS_X = AddrMode(6) // abs,x
	MODE_ABS_Y = AddrMode(7) // abs,y
	MODE_IND_X = AddrMode(8) // (zp,x)
	MODE_IND_Y = AddrMode(9) // (zp),y
)

// Operands returns the number of operand bytes following the opcode.
func (mode AddrMode) Operands() int {
	switch mode {
	case MODE_NONE:
		return 0
	case MODE_ABS, MODE_ABS_X, MODE_ABS_Y:
		return 2
	default:
		return 1
	}
}

// Register names one of the byte-wide registers an instruction moves data
// through.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // a
	REG_X = Register(1) // x
	REG_Y = Register(2) // y
	REG_S = Register(3) // s
)

// OP_HALT is the opcode that stops the fetch-decode-execute loop (BRK).
// Its handler is never dispatched; the run loop checks for it at fetch.
const OP_HALT = byte(0x00)

// OpFunc is an instruction handler, called with the addressing mode the
// opcode was encoded with.
type OpFunc func(cpu *Cpu, mode AddrMode) error

// Instruction pairs an opcode's handler with its addressing mode. A zero
// entry marks an opcode outside the implemented set.
type Instruction struct {
	Name string
	Mode AddrMode
	Do   OpFunc
}

var optable = makeOptable()

// makeOptable builds the fixed opcode dispatch table for the implemented
// instruction set.
func makeOptable() (table [256]Instruction) {
	set := func(op byte, name string, mode AddrMode, do OpFunc) {
		table[op] = Instruction{Name: name, Mode: mode, Do: do}
	}

	// Add with carry.
	set(0x69, "adc", MODE_IMM, (*Cpu).opAdc)
	set(0x65, "adc", MODE_ZP, (*Cpu).opAdc)
	set(0x75, "adc", MODE_ZP_X, (*Cpu).opAdc)
	set(0x6D, "adc", MODE_ABS, (*Cpu).opAdc)
	set(0x7D, "adc", MODE_ABS_X, (*Cpu).opAdc)
	set(0x79, "adc", MODE_ABS_Y, (*Cpu).opAdc)
	set(0x61, "adc", MODE_IND_X, (*Cpu).opAdc)
	set(0x71, "adc", MODE_IND_Y, (*Cpu).opAdc)

	// Subtract with carry.
	set(0xE9, "sbc", MODE_IMM, (*Cpu).opSbc)
	set(0xE5, "sbc", MODE_ZP, (*Cpu).opSbc)
	set(0xF5, "sbc", MODE_ZP_X, (*Cpu).opSbc)
	set(0xED, "sbc", MODE_ABS, (*Cpu).opSbc)
	set(0xFD, "sbc", MODE_ABS_X, (*Cpu).opSbc)
	set(0xF9, "sbc", MODE_ABS_Y, (*Cpu).opSbc)
	set(0xE1, "sbc", MODE_IND_X, (*Cpu).opSbc)
	set(0xF1, "sbc", MODE_IND_Y, (*Cpu).opSbc)

	// Bitwise.
	set(0x29, "and", MODE_IMM, (*Cpu).opAnd)
	set(0x25, "and", MODE_ZP, (*Cpu).opAnd)
	set(0x35, "and", MODE_ZP_X, (*Cpu).opAnd)
	set(0x2D, "and", MODE_ABS, (*Cpu).opAnd)
	set(0x3D, "and", MODE_ABS_X, (*Cpu).opAnd)
	set(0x39, "and", MODE_ABS_Y, (*Cpu).opAnd)
	set(0x21, "and", MODE_IND_X, (*Cpu).opAnd)
	set(0x31, "and", MODE_IND_Y, (*Cpu).opAnd)

	set(0x09, "ora", MODE_IMM, (*Cpu).opOra)
	set(0x05, "ora", MODE_ZP, (*Cpu).opOra)
	set(0x15, "ora", MODE_ZP_X, (*Cpu).opOra)
	set(0x0D, "ora", MODE_ABS, (*Cpu).opOra)
	set(0x1D, "ora", MODE_ABS_X, (*Cpu).opOra)
	set(0x19, "ora", MODE_ABS_Y, (*Cpu).opOra)
	set(0x01, "ora", MODE_IND_X, (*Cpu).opOra)
	set(0x11, "ora", MODE_IND_Y, (*Cpu).opOra)

	set(0x49, "eor", MODE_IMM, (*Cpu).opEor)
	set(0x45, "eor", MODE_ZP, (*Cpu).opEor)
	set(0x55, "eor", MODE_ZP_X, (*Cpu).opEor)
	set(0x4D, "eor", MODE_ABS, (*Cpu).opEor)
	set(0x5D, "eor", MODE_ABS_X, (*Cpu).opEor)
	set(0x59, "eor", MODE_ABS_Y, (*Cpu).opEor)
	set(0x41, "eor", MODE_IND_X, (*Cpu).opEor)
	set(0x51, "eor", MODE_IND_Y, (*Cpu).opEor)

	// Shift left, on the accumulator or in memory.
	set(0x0A, "asl", MODE_NONE, (*Cpu).opAsl)
	set(0x06, "asl", MODE_ZP, (*Cpu).opAsl)
	set(0x16, "asl", MODE_ZP_X, (*Cpu).opAsl)
	set(0x0E, "asl", MODE_ABS, (*Cpu).opAsl)
	set(0x1E, "asl", MODE_ABS_X, (*Cpu).opAsl)

	// Loads.
	set(0xA9, "lda", MODE_IMM, load(REG_A))
	set(0xA5, "lda", MODE_ZP, load(REG_A))
	set(0xB5, "lda", MODE_ZP_X, load(REG_A))
	set(0xAD, "lda", MODE_ABS, load(REG_A))
	set(0xBD, "lda", MODE_ABS_X, load(REG_A))
	set(0xB9, "lda", MODE_ABS_Y, load(REG_A))
	set(0xA1, "lda", MODE_IND_X, load(REG_A))
	set(0xB1, "lda", MODE_IND_Y, load(REG_A))

	set(0xA2, "ldx", MODE_IMM, load(REG_X))
	set(0xA6, "ldx", MODE_ZP, load(REG_X))
	set(0xB6, "ldx", MODE_ZP_Y, load(REG_X))
	set(0xAE, "ldx", MODE_ABS, load(REG_X))
	set(0xBE, "ldx", MODE_ABS_Y, load(REG_X))

	set(0xA0, "ldy", MODE_IMM, load(REG_Y))
	set(0xA4, "ldy", MODE_ZP, load(REG_Y))
	set(0xB4, "ldy", MODE_ZP_X, load(REG_Y))
	set(0xAC, "ldy", MODE_ABS, load(REG_Y))
	set(0xBC, "ldy", MODE_ABS_X, load(REG_Y))

	// Stores.
	set(0x85, "sta", MODE_ZP, store(REG_A))
	set(0x95, "sta", MODE_ZP_X, store(REG_A))
	set(0x8D, "sta", MODE_ABS, store(REG_A))
	set(0x9D, "sta", MODE_ABS_X, store(REG_A))
	set(0x99, "sta", MODE_ABS_Y, store(REG_A))
	set(0x81, "sta", MODE_IND_X, store(REG_A))
	set(0x91, "sta", MODE_IND_Y, store(REG_A))

	set(0x86, "stx", MODE_ZP, store(REG_X))
	set(0x96, "stx", MODE_ZP_Y, store(REG_X))
	set(0x8E, "stx", MODE_ABS, store(REG_X))

	set(0x84, "sty", MODE_ZP, store(REG_Y))
	set(0x94, "sty", MODE_ZP_X, store(REG_Y))
	set(0x8C, "sty", MODE_ABS, store(REG_Y))

	// Register transfers.
	set(0xAA, "tax", MODE_NONE, transfer(REG_A, REG_X))
	set(0xA8, "tay", MODE_NONE, transfer(REG_A, REG_Y))
	set(0xBA, "tsx", MODE_NONE, transfer(REG_S, REG_X))
	set(0x8A, "txa", MODE_NONE, transfer(REG_X, REG_A))
	set(0x9A, "txs", MODE_NONE, transfer(REG_X, REG_S))
	set(0x98, "tya", MODE_NONE, transfer(REG_Y, REG_A))

	// Flag sets.
	set(0x38, "sec", MODE_NONE, (*Cpu).opSec)
	set(0xF8, "sed", MODE_NONE, (*Cpu).opSed)
	set(0x78, "sei", MODE_NONE, (*Cpu).opSei)

	set(0xEA, "nop", MODE_NONE, (*Cpu).opNop)

	return
}

// mnemonicMap maps each mnemonic to its available addressing modes and
// their opcode bytes, for the assembler. The halt opcode is listed under
// its conventional name even though it has no table handler.
var mnemonicMap = makeMnemonicMap()

func makeMnemonicMap() (mnemonic map[string]map[AddrMode]byte) {
	mnemonic = map[string]map[AddrMode]byte{
		"brk": {MODE_NONE: OP_HALT},
	}

	for op := range 256 {
		in := optable[op]
		if in.Do == nil {
			continue
		}

		modes := mnemonic[in.Name]
		if modes == nil {
			modes = make(map[AddrMode]byte, 8)
			mnemonic[in.Name] = modes
		}
		modes[in.Mode] = byte(op)
	}

	return
}
