// Package io provides memory-mapped port devices for the emulated machine.
// Devices sit behind single bus addresses and never touch the CPU core;
// programs reach them with ordinary load and store instructions.
package io

// Well-known port addresses, above the program area and below the vectors.
const (
	TAPE_OUT = 0xF001 // Tape output port.
	TAPE_IN  = 0xF004 // Tape input port.
)
