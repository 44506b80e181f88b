package cellstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsLoadStore(t *testing.T) {
	c := NewCells(16)
	require.NoError(t, c.Store(3, 42))
	val, err := c.Load(3)
	require.NoError(t, err)
	assert.EqualValues(t, 42, val)

	_, err = c.Load(-1)
	assert.Error(t, err)
	_, err = c.Load(16)
	assert.Error(t, err)
}

func TestCharsCountedStringRoundTrip(t *testing.T) {
	s := NewChars(32)
	truncated, err := s.NewString(0, "hello")
	require.NoError(t, err)
	assert.False(t, truncated)

	got, err := s.GetString(0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCharsTruncatesOverlongString(t *testing.T) {
	s := NewChars(8)
	truncated, err := s.NewString(0, "this string is far too long to fit")
	require.NoError(t, err)
	assert.True(t, truncated)
}

func TestCharsEqual(t *testing.T) {
	s := NewChars(64)
	_, err := s.NewString(0, "dup")
	require.NoError(t, err)
	_, err = s.NewString(16, "dup")
	require.NoError(t, err)
	_, err = s.NewString(32, "drop")
	require.NoError(t, err)

	eq, err := s.Equal(0, 16)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = s.Equal(0, 32)
	require.NoError(t, err)
	assert.False(t, eq)
}
