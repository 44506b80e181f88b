package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestMachine builds a Machine with no input source and output/
// diagnostics captured in buffers, for tests that drive Eval line by
// line instead of going through Quit's QUERY loop.
func newTestMachine(t *testing.T) (*Machine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	var diagBuf bytes.Buffer
	vm, err := New(WithOutput(&out), WithDiagOutput(&diagBuf))
	require.NoError(t, err)
	return vm, &out
}

// evalLine refills the text input buffer with line and runs Eval once.
func evalLine(t *testing.T, vm *Machine, line string) {
	t.Helper()
	require.NoError(t, vm.RefillTIB(line))
	vm.Eval()
}

func TestColdStartRegistersStandardVariables(t *testing.T) {
	vm, _ := newTestMachine(t)

	for _, name := range []string{"HERE", "CONTEXT", "S-HERE", "PAD", "BASE", "STATE", "ABORT?", "'EVAL"} {
		_, _, _, found := vm.Find(name)
		require.Truef(t, found, "expected %s to be defined at cold start", name)
	}

	base, err := vm.cells.Load(vm.basePtr)
	require.NoError(t, err)
	require.EqualValues(t, 10, base)
}

func TestDataStackPushPop(t *testing.T) {
	vm, _ := newTestMachine(t)
	require.NoError(t, vm.PushData(1))
	require.NoError(t, vm.PushData(2))
	require.Equal(t, 2, vm.Depth())

	v, err := vm.PopData()
	require.NoError(t, err)
	require.EqualValues(t, 2, v)

	v, err = vm.PopData()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	_, err = vm.PopData()
	require.Error(t, err)
}

func TestArithmeticTranscript(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, "2 3 + .")
	require.False(t, vm.aborting())
	require.Equal(t, "5 ", out.String())
}

func TestColonDefinitionAndCall(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, ": sq dup * ;")
	require.False(t, vm.aborting())
	evalLine(t, vm, "7 sq .")
	require.False(t, vm.aborting())
	require.Equal(t, "49 ", out.String())
}

func TestVariableStoreAndFetch(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, "variable v")
	require.False(t, vm.aborting())
	evalLine(t, vm, "42 v ! v @ .")
	require.False(t, vm.aborting())
	require.Equal(t, "42 ", out.String())
}

func TestIfElseAbs(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, ": abs dup 0< if -1 * then ;")
	require.False(t, vm.aborting())
	evalLine(t, vm, "-8 abs .")
	require.False(t, vm.aborting())
	require.Equal(t, "8 ", out.String())

	out.Reset()
	evalLine(t, vm, "8 abs .")
	require.False(t, vm.aborting())
	require.Equal(t, "8 ", out.String())
}

func TestIfElseBranch(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, ": sign dup 0< if drop -1 else 0= if 0 else 1 then then ;")
	require.False(t, vm.aborting())

	cases := []struct {
		in   string
		want string
	}{
		{"-5 sign .", "-1 "},
		{"0 sign .", "0 "},
		{"5 sign .", "1 "},
	}
	for _, c := range cases {
		out.Reset()
		evalLine(t, vm, c.in)
		require.False(t, vm.aborting())
		require.Equal(t, c.want, out.String())
	}
}

func TestForNextCountsDown(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, ": countdown 5 for i . next ;")
	require.False(t, vm.aborting())
	evalLine(t, vm, "countdown")
	require.False(t, vm.aborting())
	require.Equal(t, "5 4 3 2 1 ", out.String())
}

func TestStringLiteralTypePrintsText(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, `: greet s" hello" type ;`)
	require.False(t, vm.aborting())
	evalLine(t, vm, "greet")
	require.False(t, vm.aborting())
	require.Equal(t, "hello", out.String())
}

func TestRecurseCountsDownToZero(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, ": down dup . dup 0= if drop else 1 - recurse then ;")
	require.False(t, vm.aborting())
	evalLine(t, vm, "3 down")
	require.False(t, vm.aborting())
	require.Equal(t, "3 2 1 0 ", out.String())
}

func TestMarkerForgetsWordsDefinedAfterIt(t *testing.T) {
	vm, _ := newTestMachine(t)
	evalLine(t, vm, "marker forget-me")
	require.False(t, vm.aborting())
	evalLine(t, vm, ": temp 1 + ;")
	require.False(t, vm.aborting())
	_, _, _, found := vm.Find("TEMP")
	require.True(t, found)

	evalLine(t, vm, "forget-me")
	require.False(t, vm.aborting())
	_, _, _, found = vm.Find("TEMP")
	require.False(t, found)
	_, _, _, found = vm.Find("FORGET-ME")
	require.False(t, found)
}

func TestUnknownWordAborts(t *testing.T) {
	vm, _ := newTestMachine(t)
	evalLine(t, vm, "NOSUCHWORD")
	require.True(t, vm.aborting())
}

func TestStackUnderflowAbortsAndRecovers(t *testing.T) {
	vm, out := newTestMachine(t)
	evalLine(t, vm, "+")
	require.True(t, vm.aborting())

	vm.clearAbort()
	out.Reset()
	evalLine(t, vm, "2 3 + .")
	require.False(t, vm.aborting())
	require.Equal(t, "5 ", out.String())
}

func TestWordsListsDefinedNames(t *testing.T) {
	vm, _ := newTestMachine(t)
	evalLine(t, vm, ": foo ;")
	require.False(t, vm.aborting())
	names := vm.Words()
	found := false
	for _, n := range names {
		if strings.EqualFold(n, "foo") {
			found = true
		}
	}
	require.True(t, found)
}
