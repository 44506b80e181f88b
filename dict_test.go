package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIsCaseInsensitive(t *testing.T) {
	vm, _ := newTestMachine(t)
	_, cfa, _, found := vm.Find("dup")
	require.True(t, found)
	_, cfa2, _, found2 := vm.Find("DUP")
	require.True(t, found2)
	require.Equal(t, cfa, cfa2)
}

func TestMakeVariableRoundTrips(t *testing.T) {
	vm, _ := newTestMachine(t)
	nfa, err := vm.MakeVariable("x", 7)
	require.NoError(t, err)
	_, cfa, _, found := vm.Find("x")
	require.True(t, found)
	v, err := vm.cells.Load(cfa + 1)
	require.NoError(t, err)
	require.EqualValues(t, 7, v)

	linkCell, err := vm.cells.Load(nfa)
	require.NoError(t, err)
	_, immediate := link(linkCell)
	require.False(t, immediate)
}

func TestNewHeaderChainsToPreviousContext(t *testing.T) {
	vm, _ := newTestMachine(t)
	before := vm.context()
	nfa, _, err := vm.MakeConstant("answer", 42)
	require.NoError(t, err)
	require.Equal(t, nfa, vm.context())
	linkCell, err := vm.cells.Load(nfa)
	require.NoError(t, err)
	prev, _ := link(linkCell)
	require.Equal(t, before, prev)
}

func TestForgetRemovesWordAndEverythingAfterIt(t *testing.T) {
	vm, _ := newTestMachine(t)
	_, _, err := vm.MakeConstant("keep", 1)
	require.NoError(t, err)
	mark := vm.context()
	here := vm.here()
	_, _, err = vm.MakeConstant("gone", 2)
	require.NoError(t, err)

	require.NoError(t, vm.Forget("gone"))
	_, _, _, found := vm.Find("gone")
	require.False(t, found)
	_, _, _, found = vm.Find("keep")
	require.True(t, found)
	require.Equal(t, mark, vm.context())
	require.Equal(t, here, vm.here())
}

func TestForgetUnknownNameErrors(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.Error(t, vm.Forget("NO-SUCH-WORD"))
}
