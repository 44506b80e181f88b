package main

import (
	"io"

	"github.com/jcorbin/f2go/internal/cellstore"
	"github.com/jcorbin/f2go/internal/diag"
	"github.com/jcorbin/f2go/internal/panicerr"
)

// New builds a Machine, applies opts, and runs the cold-start boot
// sequence: hand-crafting S-HERE/HERE/CONTEXT (which the ordinary
// dictionary builder depends on), bringing up the rest of the standard
// variables, and registering the primitive builtins. It does not load a
// core library or run QUIT; main.go's run does that once flags have been
// parsed.
func New(opts ...Option) (*Machine, error) {
	vm := &Machine{
		cells:     cellstore.NewCells(CellCount),
		chars:     cellstore.NewChars(CharCount),
		diag:      diag.NewSink(io.Discard, diag.Warning),
		stackPtr:  StackStart,
		returnPtr: RetStart,
	}
	if err := Options(opts...).apply(vm); err != nil {
		return nil, err
	}
	if err := vm.coldStart(); err != nil {
		return nil, err
	}
	return vm, nil
}

// coldStart is the bring-up sequence described by the boot contract: the
// three self-referential variables first, then the rest of the standard
// variables, then every builtin table.
func (vm *Machine) coldStart() error {
	// Reserve three raw cells for S-HERE/HERE/CONTEXT before any proper
	// dictionary entry can exist; newHeader needs all three to already
	// answer sensibly.
	vm.sHerePtr, vm.herePtr, vm.contextPtr = 0, 1, 2
	vm.setSHere(StrStart)
	vm.setHere(3)
	vm.setContext(0)

	if err := vm.bootSelfRefVariable("S-HERE", vm.sHere, func(a int) { vm.sHerePtr = a }); err != nil {
		return err
	}
	if err := vm.bootSelfRefVariable("HERE", vm.here, func(a int) { vm.herePtr = a }); err != nil {
		return err
	}
	if err := vm.bootSelfRefVariable("CONTEXT", vm.context, func(a int) { vm.contextPtr = a }); err != nil {
		return err
	}

	type namedVar struct {
		name    string
		initial int64
		ptr     *int
	}
	vars := []namedVar{
		{"PAD", int64(PadStart), &vm.padPtr},
		{"BASE", 10, &vm.basePtr},
		{"TMP", int64(TmpStart), &vm.tmpPtr},
		{"'TIB", int64(TIBStart), &vm.tibPtr},
		{"#TIB", 0, &vm.tibSizePtr},
		{">IN", 0, &vm.tibInPtr},
		{"HLD", 0, &vm.hldPtr},
		{"LAST", 0, &vm.lastPtr},
		// 'EVAL traditionally holds the xt of whichever of $INTERPRET/
		// $COMPILE EVAL should dispatch through; this build dispatches
		// directly on STATE instead (see outer.go's Eval), but still
		// keeps the variable as the boot sequence requires, and setState
		// mirrors the current STATE into it for introspection/SEE.
		{"'EVAL", stateInterpret, &vm.evalPtr},
		{"ABORT?", False, &vm.abortPtr},
		{"STATE", stateInterpret, &vm.statePtr},
		{"STEPPER", False, &vm.stepperPtr},
	}
	for _, v := range vars {
		nfa, err := vm.MakeVariable(v.name, v.initial)
		if err != nil {
			return err
		}
		*v.ptr = nfa + headerCells + 1
	}

	for _, register := range []func(*Machine) error{
		registerArithBuiltins,
		registerStackBuiltins,
		registerIOBuiltins,
		registerCompileBuiltins,
	} {
		if err := register(vm); err != nil {
			return err
		}
	}
	return nil
}

// bootSelfRefVariable creates a variable whose initial value is read back
// from getCurrent (via the bootstrap pointer still in effect) right after
// the header is built, since building S-HERE/HERE/CONTEXT's own header
// changes the very values those variables hold. setPtr repoints the
// Machine's field at the freshly allocated value cell.
func (vm *Machine) bootSelfRefVariable(name string, getCurrent func() int, setPtr func(addr int)) error {
	nfa, err := vm.MakeVariable(name, 0)
	if err != nil {
		return err
	}
	valueAddr := nfa + headerCells + 1
	if err := vm.cells.Store(valueAddr, int64(getCurrent())); err != nil {
		return err
	}
	setPtr(valueAddr)
	return nil
}

// Run drives the interpreter to completion: QUIT until BYE or the base
// input source hits EOF, isolated in its own goroutine so that a panic
// (an invariant violation reaching all the way up, or a hostile or
// misbehaving script) comes back as a plain error instead of crashing the
// process.
func (vm *Machine) Run() error {
	return panicerr.Recover("f2go", func() error {
		vm.Quit()
		return vm.abortErr
	})
}
