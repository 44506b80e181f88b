// Package source implements the reader contract the outer interpreter
// reads through: a pushable stack of line/char sources, the base entry
// being the terminal, with each pushed file reader popping on EOF.
//
// Adapted from the teacher's internal/fileinput.Input: same
// "current RuneReader over a queue, track Name()/line for diagnostics"
// shape, restructured as an explicit push/pop stack (rather than a
// drain-once queue) so pushed sources can nest arbitrarily and the outer
// interpreter can observe when the base source hits EOF.
package source

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jcorbin/f2go/internal/runeio"
)

// Named is satisfied by readers that can describe themselves for
// diagnostics (os.File does, via its Name method).
type Named interface {
	Name() string
}

type entry struct {
	rr   runeio.Reader
	name string
	line int
	closer io.Closer
}

// Stack is a pushable stack of input sources. The zero value is empty;
// use Push to install the base (terminal) source before reading.
type Stack struct {
	entries []entry
}

// Len reports how many sources are currently pushed.
func (s *Stack) Len() int { return len(s.entries) }

// Push installs r as the new current (innermost) source.
func (s *Stack) Push(r io.Reader) {
	name := fmt.Sprintf("<unnamed %T>", r)
	if n, ok := r.(Named); ok {
		name = n.Name()
	}
	var closer io.Closer
	if c, ok := r.(io.Closer); ok {
		closer = c
	}
	s.entries = append(s.entries, entry{rr: runeio.NewReader(r), name: name, line: 1, closer: closer})
}

// Pop discards the current source, closing it if it is an io.Closer.
// Reports whether a source was popped.
func (s *Stack) Pop() bool {
	n := len(s.entries)
	if n == 0 {
		return false
	}
	top := s.entries[n-1]
	s.entries = s.entries[:n-1]
	if top.closer != nil {
		top.closer.Close()
	}
	return true
}

// AtBase reports whether the current source is the bottom of the stack
// (the terminal, in normal boot sequences).
func (s *Stack) AtBase() bool { return len(s.entries) == 1 }

// Empty reports whether there is no current source at all.
func (s *Stack) Empty() bool { return len(s.entries) == 0 }

// Current names the innermost source, or "" if the stack is empty.
func (s *Stack) Current() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].name
}

// Line reports the 1-based number of the line the current source will
// read next.
func (s *Stack) Line() int {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].line
}

// ReadLine reads one line (including its trailing newline, if any) from
// the current source, popping exhausted non-base sources and retrying
// until a line is read or the stack empties.
func (s *Stack) ReadLine() (string, error) {
	for {
		if s.Empty() {
			return "", io.EOF
		}
		top := &s.entries[len(s.entries)-1]
		line, err := readLine(top.rr)
		if err == nil || (err == io.EOF && line != "") {
			top.line++
			return line, nil
		}
		if err != io.EOF {
			return "", err
		}
		// EOF with nothing read.
		if s.AtBase() {
			return "", io.EOF
		}
		s.Pop()
	}
}

// ReadChar reads a single rune from the current source, popping exhausted
// non-base sources and retrying as ReadLine does.
func (s *Stack) ReadChar() (rune, error) {
	for {
		if s.Empty() {
			return 0, io.EOF
		}
		top := &s.entries[len(s.entries)-1]
		r, _, err := top.rr.ReadRune()
		if err == nil {
			if r == '\n' {
				top.line++
			}
			return r, nil
		}
		if err != io.EOF {
			return 0, err
		}
		if s.AtBase() {
			return 0, io.EOF
		}
		s.Pop()
	}
}

func readLine(rr runeio.Reader) (string, error) {
	var buf []rune
	for {
		r, _, err := rr.ReadRune()
		if err != nil {
			return string(buf), err
		}
		buf = append(buf, r)
		if r == '\n' {
			return string(buf), nil
		}
	}
}

// NewFileName wraps a bufio-backed reader so it reports a Name() for
// diagnostics, matching what os.File already provides directly.
func NewFileName(r io.Reader, name string) io.Reader {
	return namedReader{bufio.NewReader(r), name}
}

type namedReader struct {
	io.Reader
	name string
}

func (n namedReader) Name() string { return n.name }
