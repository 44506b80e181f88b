package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextTokenizesOnSpaces(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.NoError(t, vm.RefillTIB("foo bar  baz"))

	tok, err := vm.Text()
	require.NoError(t, err)
	require.Equal(t, "foo", tok)

	tok, err = vm.Text()
	require.NoError(t, err)
	require.Equal(t, "bar", tok)

	tok, err = vm.Text()
	require.NoError(t, err)
	require.Equal(t, "baz", tok)

	tok, err = vm.Text()
	require.NoError(t, err)
	require.Equal(t, "", tok)
}

func TestParseWithDelimiterStopsAtQuote(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.NoError(t, vm.RefillTIB(`hello" rest`))

	s, err := vm.Parse('"')
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	rest, err := vm.Text()
	require.NoError(t, err)
	require.Equal(t, "rest", rest)
}

func TestParseRestOfLineSentinel(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.NoError(t, vm.RefillTIB("one two three"))

	_, err := vm.Text()
	require.NoError(t, err)

	s, err := vm.Parse(1)
	require.NoError(t, err)
	require.Equal(t, "", s)
	require.Equal(t, 0, vm.tibSize())
	require.Equal(t, 1, vm.tibIn())
}

func TestParseCopiesTokenIntoPAD(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.NoError(t, vm.RefillTIB("hello world"))

	tok, err := vm.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", tok)

	padAddr := vm.loadReg(vm.padPtr)
	s, err := vm.chars.ReadAt(padAddr, len(tok))
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}
