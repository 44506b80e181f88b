package main

import (
	"io"
	"strconv"
	"strings"
)

// STATE cell values: compiling or interpreting.
const (
	stateInterpret = False
	stateCompile   = True
)

func (vm *Machine) state() int64 {
	v, _ := vm.cells.Load(vm.statePtr)
	return v
}

// setState sets STATE and mirrors it into 'EVAL, the traditional vector
// cell for which of $INTERPRET/$COMPILE EVAL should dispatch through.
func (vm *Machine) setState(v int64) {
	vm.cells.Store(vm.statePtr, v)
	vm.cells.Store(vm.evalPtr, v)
}

// NumberQ is NUMBER?: parses tok as a signed integer in the current BASE.
func (vm *Machine) NumberQ(tok string) (int64, bool) {
	base, _ := vm.cells.Load(vm.basePtr)
	if base <= 0 {
		base = 10
	}
	v, err := strconv.ParseInt(tok, int(base), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Interpret is $INTERPRET: look tok up and execute it immediately, or
// fall back to NUMBER? and push the literal, or warn and ABORT.
func (vm *Machine) Interpret(tok string) {
	if _, cfa, _, found := vm.Find(tok); found {
		if err := vm.Execute(cfa); err != nil && !vm.aborting() {
			vm.Abort("$INTERPRET", err)
		}
		return
	}
	if v, ok := vm.NumberQ(tok); ok {
		vm.PushData(v)
		return
	}
	vm.Abort("$INTERPRET", unknownWordError{tok})
}

// Compile is $COMPILE: look tok up and compile a call to it (executing
// immediately instead if it is tagged immediate), or NUMBER?+LITERAL, or
// warn and ABORT.
func (vm *Machine) Compile(tok string) {
	if nfa, cfa, immediate, found := vm.Find(tok); found {
		_ = nfa
		if immediate {
			if err := vm.Execute(cfa); err != nil && !vm.aborting() {
				vm.Abort("$COMPILE", err)
			}
			return
		}
		if err := vm.CompileCall(cfa); err != nil {
			vm.Abort("$COMPILE", err)
		}
		return
	}
	if v, ok := vm.NumberQ(tok); ok {
		if err := vm.Comma(OpLiteral); err == nil {
			if err := vm.Comma(v); err != nil {
				vm.Abort("$COMPILE", err)
			}
		} else {
			vm.Abort("$COMPILE", err)
		}
		return
	}
	vm.Abort("$COMPILE", unknownWordError{tok})
}

type unknownWordError struct{ tok string }

func (e unknownWordError) Error() string { return e.tok + " ?" }

// Eval repeatedly reads a token via TEXT and dispatches it through
// $INTERPRET or $COMPILE according to STATE, until the text input buffer
// is exhausted, ABORT? is set, or BYE has been called.
func (vm *Machine) Eval() {
	for {
		if vm.exitFlag || vm.aborting() {
			return
		}
		tok, err := vm.Text()
		if err != nil {
			vm.Abort("EVAL", err)
			return
		}
		if tok == "" {
			return
		}
		if vm.state() == stateCompile {
			vm.Compile(tok)
		} else {
			vm.Interpret(tok)
		}
	}
}

// Query is QUERY: read one line from the current input source into the
// text input buffer. Returns io.EOF when the input stack is exhausted.
func (vm *Machine) Query() error {
	line, err := vm.in.ReadLine()
	if err != nil {
		return err
	}
	return vm.RefillTIB(strings.TrimRight(line, "\n"))
}

// Quit is QUIT: reset the return stack and compiler state, then loop
// QUERY/EVAL (printing ok, and the stack while SHOW-STACK is on, like the
// teacher's REPL banner)
// until BYE sets the exit flag or the base input source hits EOF.
func (vm *Machine) Quit() {
	vm.ResetReturnStack()
	vm.setState(stateInterpret)
	for !vm.exitFlag {
		vm.clearAbort()
		if err := vm.Query(); err != nil {
			if err == io.EOF {
				return
			}
			vm.diag.Errorf("QUIT", "%v", err)
			return
		}
		vm.Eval()
		if vm.exitFlag {
			return
		}
		if vm.aborting() {
			continue
		}
		vm.printPrompt()
	}
}

func (vm *Machine) printPrompt() {
	if vm.out == nil {
		return
	}
	io.WriteString(vm.out, " ok")
	if vm.showStack {
		for i := vm.Depth() - 1; i >= 0; i-- {
			v, _ := vm.Peek(i)
			io.WriteString(vm.out, " "+strconv.FormatInt(v, 10))
		}
	}
	io.WriteString(vm.out, "\n")
	vm.out.Flush()
}

// Colon begins a definition (`:`), reading its name from the input and
// switching to compile mode.
func (vm *Machine) Colon() {
	name, err := vm.Text()
	if err != nil || name == "" {
		vm.Abort(":", unknownWordError{"(missing name)"})
		return
	}
	if _, _, _, found := vm.Find(name); found {
		vm.diag.Warningf("UNIQUE?", "redefining %s", name)
	}
	nfa, _, err := vm.BeginDefinition(name)
	if err != nil {
		vm.Abort(":", err)
		return
	}
	vm.definingNFA = nfa
	vm.setState(stateCompile)
}

// Semicolon ends a definition (`;`), compiling EXIT and installing it.
func (vm *Machine) Semicolon() {
	if err := vm.EndDefinition(vm.definingNFA); err != nil {
		vm.Abort(";", err)
		return
	}
	vm.definingNFA = 0
	vm.setState(stateInterpret)
}

// UniqueQ is ?UNIQUE: warns (without aborting) if name is already defined.
func (vm *Machine) UniqueQ(name string) {
	if _, _, _, found := vm.Find(name); found {
		vm.diag.Warningf("UNIQUE?", "redefining %s", name)
	}
}

// Recurse compiles a call back to the word currently being defined, for
// self-reference before `;` has installed it under CONTEXT.
func (vm *Machine) Recurse() {
	if vm.definingNFA == 0 {
		vm.Abort("RECURSE", unknownWordError{"RECURSE outside a definition"})
		return
	}
	if err := vm.CompileCall(vm.definingNFA + headerCells); err != nil {
		vm.Abort("RECURSE", err)
	}
}

// Marker creates a word named name that, when executed, forgets itself
// and everything defined after it (rolling HERE/CONTEXT/S-HERE back).
func (vm *Machine) Marker(name string) {
	mark := name
	_, err := vm.AddBuiltin(mark, false, "restore the dictionary to its state before "+mark, func(vm *Machine) {
		if err := vm.Forget(mark); err != nil {
			vm.Abort("MARKER", err)
		}
	})
	if err != nil {
		vm.Abort("MARKER", err)
	}
}
