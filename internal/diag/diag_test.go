package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkFiltersByFloor(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, Warning)

	s.Debugf("TRACE", "should be dropped")
	assert.Empty(t, buf.String())

	s.Warningf("ABORT", "stack underflow")
	assert.Contains(t, buf.String(), "ABORT")
	assert.Contains(t, buf.String(), "stack underflow")
}

func TestSinkExitCodeTracksErrors(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, Debug)
	assert.Equal(t, 0, s.ExitCode())

	s.Warningf("FIND", "unknown token %q", "frobnicate")
	assert.Equal(t, 0, s.ExitCode())

	s.Errorf("INCLUDE-FILE", "could not open %q", "missing.fs")
	assert.Equal(t, 1, s.ExitCode())
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, Warning, l)

	_, ok = ParseLevel("bogus")
	assert.False(t, ok)
}
