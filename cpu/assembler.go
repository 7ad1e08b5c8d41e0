package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"ORIGIN":       fmt.Sprintf("%#x", CODE_ORIGIN),
	"RESET_VECTOR": fmt.Sprintf("%#x", RESET_VECTOR),
	"STACK_PAGE":   fmt.Sprintf("%#x", STACK_PAGE),
}

// Assembler is a single pass macro assembler for the implemented subset of
// the 6502 instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint16   // Map of jump labels to memory addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin uint16 // Load origin of the image.
	addr   uint16 // Address of the next assembled byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// identRe matches a bare identifier usable as a label reference.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// valueOf returns the value of a simple word. '$' and '%' prefixes select
// hexadecimal and binary; everything else goes through strconv with its
// usual prefixes. Negative values wrap into 16 bits.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}

	base := 0
	digits := word
	switch word[0] {
	case '$':
		base, digits = 16, word[1:]
	case '%':
		base, digits = 2, word[1:]
	}

	v64, perr := strconv.ParseInt(digits, base, 32)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffff || v64 < -0x8000 {
		err = ErrOperandRange
		return
	}

	value = uint16(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if len(word) == 0 {
			continue
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint16, 16)
		}
		asm.Label[label] = asm.addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.origin = CODE_ORIGIN
	asm.addr = CODE_ORIGIN

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		all_words := strings.Split(line, " ")

		var words []string
		for _, single := range all_words {
			if len(single) > 0 {
				words = append(words, single)
			}
		}

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of label references.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Bytes) != 3 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		op.Bytes[1] = byte(addr)
		op.Bytes[2] = byte(addr >> 8)
	}

	prog = &Program{
		Origin:  asm.origin,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// operandValue resolves a value word, substituting equates, and reports a
// bare identifier as a label reference instead of a number.
func (asm *Assembler) operandValue(word string) (value uint16, label string, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	value, err = asm.valueOf(word)
	if err != nil {
		var nerr ErrParseNumber
		if errors.As(err, &nerr) && identRe.MatchString(word) {
			label = word
			err = nil
		}
	}

	return
}

// operandByte range-checks a value that must encode in a single byte.
// Negative values wrap.
func operandByte(value uint16) (data byte, err error) {
	if value > 0xff && value < 0xff80 {
		err = ErrOperandRange
		return
	}

	data = byte(value)

	return
}

// operand classifies an operand token against the addressing modes
// available to a mnemonic, and returns the selected mode and its encoded
// operand bytes. Labels resolve to absolute forms and are linked after the
// full source has been read.
func (asm *Assembler) operand(modes map[AddrMode]byte, words ...string) (mode AddrMode, data []byte, label string, err error) {
	if len(words) > 1 {
		err = ErrOperandExtra
		return
	}

	has := func(m AddrMode) (ok bool) {
		_, ok = modes[m]
		return
	}

	// indexed picks the zero-page form when the value fits and the form
	// exists, and the absolute form otherwise.
	indexed := func(zp, abs AddrMode, word string) {
		var value uint16
		value, label, err = asm.operandValue(word)
		if err != nil {
			return
		}

		if len(label) != 0 {
			if !has(abs) {
				err = ErrModeInvalid
				return
			}
			mode = abs
			data = []byte{0, 0}
			return
		}

		if value <= 0xff && has(zp) {
			mode = zp
			data = []byte{byte(value)}
			return
		}

		if !has(abs) {
			err = ErrModeInvalid
			return
		}
		mode = abs
		data = []byte{byte(value), byte(value >> 8)}
	}

	if len(words) == 0 {
		if !has(MODE_NONE) {
			err = ErrOperandMissing
		}
		return
	}

	token := words[0]
	lower := strings.ToLower(token)

	switch {
	case lower == "a":
		mode = MODE_NONE
		if !has(mode) {
			err = ErrModeInvalid
		}

	case strings.HasPrefix(token, "#"):
		mode = MODE_IMM
		var value uint16
		value, label, err = asm.operandValue(token[1:])
		if err != nil {
			return
		}
		if len(label) != 0 {
			err = ErrParseNumber(token)
			return
		}
		var b byte
		b, err = operandByte(value)
		if err != nil {
			return
		}
		data = []byte{b}

	case strings.HasPrefix(token, "(") && strings.HasSuffix(lower, ",x)"):
		mode = MODE_IND_X
		data, label, err = asm.zeroPageOperand(token[1 : len(token)-3])

	case strings.HasPrefix(token, "(") && strings.HasSuffix(lower, "),y"):
		mode = MODE_IND_Y
		data, label, err = asm.zeroPageOperand(token[1 : len(token)-3])

	case strings.HasSuffix(lower, ",x"):
		indexed(MODE_ZP_X, MODE_ABS_X, token[:len(token)-2])

	case strings.HasSuffix(lower, ",y"):
		indexed(MODE_ZP_Y, MODE_ABS_Y, token[:len(token)-2])

	default:
		indexed(MODE_ZP, MODE_ABS, token)
	}

	return
}

// zeroPageOperand resolves a value that must be a zero-page address, as the
// indirect modes require. Labels are not allowed here.
func (asm *Assembler) zeroPageOperand(word string) (data []byte, label string, err error) {
	value, label, err := asm.operandValue(word)
	if err != nil {
		return
	}
	if len(label) != 0 {
		label = ""
		err = ErrParseNumber(word)
		return
	}
	if value > 0xff {
		err = ErrOperandRange
		return
	}

	data = []byte{byte(value)}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(data) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.addr, Words: initial_words, Bytes: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.addr += uint16(len(data))
	}()

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value uint16
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if len(asm.Opcode) == 0 {
			asm.origin = value
			asm.addr = value
			return
		}
		if value < asm.addr {
			err = ErrOrgBackwards
			return
		}
		asm.addr = value

	case ".byte":
		if len(words) < 2 {
			err = ErrByteSyntax
			return
		}
		for _, word := range words[1:] {
			var value uint16
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			var b byte
			b, err = operandByte(value)
			if err != nil {
				return
			}
			data = append(data, b)
		}

	default:
		name := strings.ToLower(words[0])
		modes, ok := mnemonicMap[name]
		if !ok {
			err = ErrMnemonicInvalid
			return
		}

		var mode AddrMode
		var operands []byte
		mode, operands, label, err = asm.operand(modes, words[1:]...)
		if err != nil {
			return
		}

		opcode, ok := modes[mode]
		if !ok {
			err = ErrModeInvalid
			return
		}

		data = append([]byte{opcode}, operands...)
	}

	return
}
