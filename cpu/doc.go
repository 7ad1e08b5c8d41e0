// Package cpu implements the MOS 6502 instruction-execution core and its
// assembler.
//
// The core holds the register file (A, X, Y, SP, PC), the processor status
// word, and the fetch-decode-execute loop over an external Bus. Decode is a
// fixed 256-entry table pairing each opcode with an addressing mode;
// effective addresses follow the 6502's modular wraparound rules, including
// zero-page pointer wraparound for the indirect modes. Opcode 0x00 (BRK)
// halts the run loop.
//
// The assembler provides a small macro assembler for the implemented subset
// of the instruction set, supporting macros, labels, equates, and
// compile-time expression evaluation.
package cpu
