package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/retrosim/m6502/cpu"
	"github.com/retrosim/m6502/emulator"
)

func main() {
	var compile string
	var hexfile string
	var save bool
	var input string
	var output string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&hexfile, "x", "", ".hex dump to load")
	flag.BoolVar(&save, "s", false, "Save assembled image as a hex dump, do not execute")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog := emu.Program

	// Assemble a new program image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a raw hex dump image.
	if len(hexfile) != 0 {
		inf, err := os.Open(hexfile)
		if err != nil {
			log.Fatalf("%v: %v", hexfile, err)
		}
		defer inf.Close()

		origin, data, err := emulator.ParseHexdump(inf)
		if err != nil {
			log.Fatalf("%v: %v", hexfile, err)
		}
		prog = cpu.ImageProgram(origin, data)
	}

	if save {
		err := emulator.Hexdump(os.Stdout, prog.Origin, prog.Binary())
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	emu.Program = prog

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	emu.Reset()
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Print(emu.Cpu.String())
}
