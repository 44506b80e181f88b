package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackReadLineAcrossPush(t *testing.T) {
	var s Stack
	s.Push(strings.NewReader("outer line\n"))

	line, err := s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "outer line\n", line)

	s.Push(strings.NewReader("included\n"))
	line, err = s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "included\n", line)

	// included source is now exhausted; reading pops back to outer, which
	// is also exhausted but is the base, so EOF propagates.
	_, err = s.ReadLine()
	assert.Error(t, err)
}

func TestStackIncludeFilePopsOnEOF(t *testing.T) {
	var s Stack
	s.Push(strings.NewReader("1\n2\n"))
	s.Push(strings.NewReader("a\n"))

	assert.Equal(t, 2, s.Len())
	line, err := s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a\n", line)

	// next read exhausts the pushed file, pops it, and continues on the base.
	line, err = s.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "1\n", line)
	assert.Equal(t, 1, s.Len())
}

func TestStackReadCharEOFOnBase(t *testing.T) {
	var s Stack
	s.Push(strings.NewReader("x"))
	r, err := s.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, 'x', r)

	_, err = s.ReadChar()
	assert.Error(t, err)
}
