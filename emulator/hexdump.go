package emulator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseHexdump parses an address-prefixed hex dump of the form
// "AAAA: bb bb bb ..." (one or more lines) into a contiguous byte image
// and its implicit load origin. Lines must continue contiguously from the
// first address; blank lines are skipped.
func ParseHexdump(input io.Reader) (origin uint16, data []byte, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var started bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineno++

		if len(line) == 0 {
			continue
		}

		bad := func(werr error) {
			err = &ErrHexdump{LineNo: lineno, Line: line, Err: werr}
		}

		prefix, rest, found := strings.Cut(line, ":")
		if !found {
			bad(ErrHexdumpSyntax)
			return
		}

		addr64, perr := strconv.ParseUint(strings.TrimSpace(prefix), 16, 16)
		if perr != nil {
			bad(ErrHexdumpSyntax)
			return
		}
		addr := uint16(addr64)

		if !started {
			origin = addr
			started = true
		} else if addr != origin+uint16(len(data)) {
			bad(ErrHexdumpGap)
			return
		}

		for _, field := range strings.Fields(rest) {
			b64, perr := strconv.ParseUint(field, 16, 8)
			if perr != nil {
				bad(ErrHexdumpSyntax)
				return
			}
			data = append(data, byte(b64))
		}
	}

	err = scanner.Err()

	return
}

// Hexdump writes a byte image in the address-prefixed hex dump format that
// ParseHexdump reads, 16 bytes per line.
func Hexdump(output io.Writer, origin uint16, data []byte) (err error) {
	for n := 0; n < len(data); n += 16 {
		end := min(n+16, len(data))

		fields := make([]string, 0, 16)
		for _, b := range data[n:end] {
			fields = append(fields, fmt.Sprintf("%02x", b))
		}

		_, err = fmt.Fprintf(output, "%04x: %v\n", origin+uint16(n), strings.Join(fields, " "))
		if err != nil {
			return
		}
	}

	return
}
