// Package asmfmt parses the hand-assembled listing format used by
// this project's test ROM fixtures:
//
//	XXXX OP A1 A2 ...
//
// where XXXX is a four hex-digit address (ignored — lines are expected
// in order starting at the image's base) and the remaining
// space-separated tokens are hex byte values, optionally followed by
// an inline "(*)..." or tab-delimited comment which is stripped before
// parsing. Adapted from the teacher's hand_asm command, which did the
// same job by shelling out to egrep/sed; this version does the
// filtering in Go so it can run as a library, not just a CLI.
package asmfmt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var addressLine = regexp.MustCompile(`^[0-9A-Fa-f]{4} `)

// Assemble reads a hand-assembled listing from r and returns the
// resulting byte image, left-padded with offset zero bytes.
func Assemble(r io.Reader, offset int) ([]byte, error) {
	out := make([]byte, offset)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !addressLine.MatchString(text) {
			continue
		}
		text = text[5:] // drop "XXXX "
		if i := strings.Index(text, "\t"); i >= 0 {
			text = text[:i]
		}
		if i := strings.Index(text, "(*)"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		for _, tok := range strings.Fields(text) {
			v, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("asmfmt: line %d: invalid byte token %q: %w", line, tok, err)
			}
			out = append(out, byte(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asmfmt: scanning input: %w", err)
	}
	return out, nil
}
