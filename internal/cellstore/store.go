// Package cellstore implements the two fixed-size memory regions a cell
// Forth runs on: the cell array (words, stacks, variables, compiled
// bodies) and the character array (counted strings).
//
// Both are fixed-size on construction, per the data model: addressing is
// always by index, bounds are enforced at load/store time, and growth
// never happens. This mirrors the teacher's memcore.go in spirit (small,
// bounds-checked load/stor primitives) but drops its page-growth scheme,
// since the spec calls for fixed arrays sized at construction.
package cellstore

import "fmt"

// DefaultCells and DefaultChars match the sizes named in the data model.
const (
	DefaultCells = 10000
	DefaultChars = 5000
)

// OutOfRangeError reports an access past the end of a store.
type OutOfRangeError struct {
	Store string
	Addr  int
	Size  int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%v address %v out of range [0,%v)", e.Store, e.Addr, e.Size)
}

// Cells is the fixed array of signed 64-bit cells.
type Cells struct {
	data []int64
}

// NewCells allocates a cell store of the given size (DefaultCells if n<=0).
func NewCells(n int) *Cells {
	if n <= 0 {
		n = DefaultCells
	}
	return &Cells{data: make([]int64, n)}
}

// Len reports the number of addressable cells.
func (c *Cells) Len() int { return len(c.data) }

// Load reads the cell at addr.
func (c *Cells) Load(addr int) (int64, error) {
	if addr < 0 || addr >= len(c.data) {
		return 0, OutOfRangeError{"cells", addr, len(c.data)}
	}
	return c.data[addr], nil
}

// Store writes val at addr.
func (c *Cells) Store(addr int, val int64) error {
	if addr < 0 || addr >= len(c.data) {
		return OutOfRangeError{"cells", addr, len(c.data)}
	}
	c.data[addr] = val
	return nil
}

// Slice returns the raw backing cells between [lo, hi), for dump/trace use
// only; callers must not retain it past a Store call.
func (c *Cells) Slice(lo, hi int) []int64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(c.data) {
		hi = len(c.data)
	}
	if lo >= hi {
		return nil
	}
	return c.data[lo:hi]
}

// Chars is the fixed array backing counted strings: a one-byte length
// prefix followed by that many bytes.
type Chars struct {
	data []byte
}

// NewChars allocates a character store of the given size (DefaultChars if n<=0).
func NewChars(n int) *Chars {
	if n <= 0 {
		n = DefaultChars
	}
	return &Chars{data: make([]byte, n)}
}

// Len reports the number of addressable bytes.
func (s *Chars) Len() int { return len(s.data) }

// MaxCountedLen is the largest length a counted string's one-byte prefix
// can represent.
const MaxCountedLen = 255

// NewString copies text into the store starting at addr, writing a
// length-byte prefix, truncating (and reporting truncated=true) if text is
// longer than MaxCountedLen or does not fit before the end of the store.
func (s *Chars) NewString(addr int, text string) (truncated bool, err error) {
	if addr < 0 || addr >= len(s.data) {
		return false, OutOfRangeError{"chars", addr, len(s.data)}
	}
	b := []byte(text)
	max := MaxCountedLen
	if room := len(s.data) - addr - 1; room < max {
		max = room
	}
	if max < 0 {
		max = 0
	}
	if len(b) > max {
		b = b[:max]
		truncated = true
	}
	s.data[addr] = byte(len(b))
	copy(s.data[addr+1:], b)
	return truncated, nil
}

// GetString reads the counted string at addr.
func (s *Chars) GetString(addr int) (string, error) {
	if addr < 0 || addr >= len(s.data) {
		return "", OutOfRangeError{"chars", addr, len(s.data)}
	}
	n := int(s.data[addr])
	end := addr + 1 + n
	if end > len(s.data) {
		return "", OutOfRangeError{"chars", end, len(s.data)}
	}
	return string(s.data[addr+1 : end]), nil
}

// WriteAt copies text verbatim into the store at addr, with no length
// prefix, for raw scratch regions (TIB/PAD/TMP) rather than counted
// strings. It truncates to fit the store, reporting truncated=true.
func (s *Chars) WriteAt(addr int, text string) (truncated bool, err error) {
	if addr < 0 || addr > len(s.data) {
		return false, OutOfRangeError{"chars", addr, len(s.data)}
	}
	b := []byte(text)
	if room := len(s.data) - addr; len(b) > room {
		b = b[:room]
		truncated = true
	}
	copy(s.data[addr:], b)
	return truncated, nil
}

// ReadAt returns the n raw bytes starting at addr, with no length prefix.
func (s *Chars) ReadAt(addr, n int) (string, error) {
	if addr < 0 || n < 0 || addr+n > len(s.data) {
		return "", OutOfRangeError{"chars", addr + n, len(s.data)}
	}
	return string(s.data[addr : addr+n]), nil
}

// Len8 returns the length byte at addr without copying the string body.
func (s *Chars) Len8(addr int) (byte, error) {
	if addr < 0 || addr >= len(s.data) {
		return 0, OutOfRangeError{"chars", addr, len(s.data)}
	}
	return s.data[addr], nil
}

// Equal reports whether the counted strings at a and b hold identical
// bytes, comparing length bytes first as the spec's str-equal requires.
func (s *Chars) Equal(a, b int) (bool, error) {
	la, err := s.Len8(a)
	if err != nil {
		return false, err
	}
	lb, err := s.Len8(b)
	if err != nil {
		return false, err
	}
	if la != lb {
		return false, nil
	}
	end := a + 1 + int(la)
	if end > len(s.data) || b+1+int(lb) > len(s.data) {
		return false, OutOfRangeError{"chars", end, len(s.data)}
	}
	for i := 0; i < int(la); i++ {
		if s.data[a+1+i] != s.data[b+1+i] {
			return false, nil
		}
	}
	return true, nil
}
