package parser

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

const maxLineSize = 1024 * 1024

// LineError is a parse failure tied to its line number (1-based).
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLines parses r one line at a time. A line that does not parse is
// yielded as a *LineError and the next line is read as usual. A read error is
// yielded once and ends the sequence. The sequence reads r as it goes, so it
// can only be ranged over once.
func ParseLines(r io.Reader) iter.Seq2[Program, error] {
	return func(yield func(Program, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		n := 0
		for sc.Scan() {
			n++
			line := strings.TrimSuffix(sc.Text(), "\r")
			prog, err := Parse(line)
			if err != nil {
				err = &LineError{Line: n, Text: line, Err: err}
			}
			if !yield(prog, err) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, fmt.Errorf("read edit input: %w", err))
		}
	}
}
