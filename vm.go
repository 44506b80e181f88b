package main

import (
	"github.com/jcorbin/f2go/internal/cellstore"
	"github.com/jcorbin/f2go/internal/diag"
	"github.com/jcorbin/f2go/internal/flushio"
	"github.com/jcorbin/f2go/internal/source"
)

// Memory region boundaries, fixed at construction per the data model.
// Word/header space grows up from WordStart; the data stack occupies
// [AllocStart, StackStart), its pointer counting down from StackStart
// toward AllocStart as items are pushed; the return stack grows down from
// RetStart.
const (
	CellCount = cellstore.DefaultCells
	CharCount = cellstore.DefaultChars

	WordStart  = 0
	AllocStart = CellCount / 2
	StackStart = AllocStart + CellCount/4
	RetStart   = CellCount - 1

	BufSize  = 132
	TIBStart = 0
	PadStart = TIBStart + BufSize
	TmpStart = PadStart + BufSize
	StrStart = TmpStart + BufSize
)

// builtinFn is a primitive operation invoked by the inner interpreter,
// indexed by its slot in Machine.builtins.
type builtinFn func(vm *Machine)

type builtin struct {
	name string
	fn   builtinFn
	doc  string
}

// Machine is one interpreter instance: the cell store, string store, the
// registers the dictionary builder and interpreters need, the builtin
// table, and its I/O collaborators. Tests should construct a fresh
// Machine rather than rely on process-global state.
type Machine struct {
	cells *cellstore.Cells
	chars *cellstore.Chars

	diag *diag.Sink
	in   source.Stack
	out  flushio.WriteFlusher

	builtins []builtin

	// data and return stack pointers; not cell-store addresses that Forth
	// code can see directly (there is no SP@ in this system), but plain
	// interpreter state.
	stackPtr  int
	returnPtr int
	pc        int

	// well-known variable addresses, installed by cold-start before any
	// make_word call (sHerePtr, herePtr, contextPtr) and by the standard
	// variable bring-up thereafter.
	sHerePtr   int
	herePtr    int
	contextPtr int
	padPtr     int
	basePtr    int
	tmpPtr     int
	tibPtr     int
	tibSizePtr int
	tibInPtr   int
	hldPtr     int
	lastPtr    int
	evalPtr    int
	abortPtr   int
	statePtr   int
	stepperPtr int

	definingNFA int // nfa of the word currently between `:` and `;`, or 0

	exitFlag  bool
	abortErr  error
	showStack bool

	closers []closer
}

type closer interface{ Close() error }

// loadReg reads the value stored in the variable cell at ptr, defaulting
// to 0 on a bad address (which should never happen once boot has run).
func (vm *Machine) loadReg(ptr int) int {
	v, _ := vm.cells.Load(ptr)
	return int(v)
}
