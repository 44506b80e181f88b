package main

import (
	"fmt"

	"github.com/jcorbin/f2go/internal/diag"
)

// registerIOBuiltins installs terminal I/O, string-literal, tracing, and
// housekeeping words: EMIT TYPE CR . .S KEY ACCEPT QUERY FLUSH S"
// SHOW-STACK HIDE-STACK WORDS BYE DBG DEBUGLEVEL STEP-ON STEP-OFF.
func registerIOBuiltins(vm *Machine) error {
	type def struct {
		name string
		doc  string
		fn   builtinFn
	}
	defs := []def{
		{"EMIT", "( c -- ) write one character", func(vm *Machine) {
			c, ok := vm.PopOrAbort("EMIT")
			if !ok || vm.out == nil {
				return
			}
			fmt.Fprintf(vm.out, "%c", rune(c))
		}},
		{"TYPE", "( addr len -- ) write len chars starting at addr", func(vm *Machine) {
			length, ok := vm.PopOrAbort("TYPE")
			if !ok {
				return
			}
			addr, ok := vm.PopOrAbort("TYPE")
			if !ok {
				return
			}
			s, err := vm.chars.ReadAt(int(addr), int(length))
			if err != nil {
				vm.Abort("TYPE", err)
				return
			}
			if vm.out != nil {
				fmt.Fprint(vm.out, s)
			}
		}},
		{"CR", "( -- ) write a newline", func(vm *Machine) {
			if vm.out != nil {
				fmt.Fprintln(vm.out)
			}
		}},
		{".", "( n -- ) print the top of stack and a trailing space", func(vm *Machine) {
			v, ok := vm.PopOrAbort(".")
			if !ok || vm.out == nil {
				return
			}
			fmt.Fprintf(vm.out, "%d ", v)
		}},
		{".S", "( -- ) print the stack nondestructively", func(vm *Machine) {
			if vm.out == nil {
				return
			}
			fmt.Fprintf(vm.out, "<%d> ", vm.Depth())
			for i := vm.Depth() - 1; i >= 0; i-- {
				v, _ := vm.Peek(i)
				fmt.Fprintf(vm.out, "%d ", v)
			}
		}},
		{"KEY", "( -- c ) read one character from input", func(vm *Machine) {
			r, err := vm.in.ReadChar()
			if err != nil {
				vm.Abort("KEY", err)
				return
			}
			vm.PushData(int64(r))
		}},
		{"ACCEPT", "( addr maxlen -- len ) read a line into addr", func(vm *Machine) {
			maxLen, ok := vm.PopOrAbort("ACCEPT")
			if !ok {
				return
			}
			addr, ok := vm.PopOrAbort("ACCEPT")
			if !ok {
				return
			}
			line, err := vm.in.ReadLine()
			if err != nil {
				vm.Abort("ACCEPT", err)
				return
			}
			line = trimNewline(line)
			if int64(len(line)) > maxLen {
				line = line[:maxLen]
			}
			if _, err := vm.chars.WriteAt(int(addr), line); err != nil {
				vm.Abort("ACCEPT", err)
				return
			}
			vm.PushData(int64(len(line)))
		}},
		{"QUERY", "( -- ) refill the text input buffer from input", func(vm *Machine) {
			if err := vm.Query(); err != nil {
				vm.Abort("QUERY", err)
			}
		}},
		{"FLUSH", "( -- ) flush output", func(vm *Machine) {
			if vm.out != nil {
				vm.out.Flush()
			}
		}},
		{"SHOW-STACK", "( -- ) enable printing the stack after each line", func(vm *Machine) {
			vm.showStack = true
		}},
		{"HIDE-STACK", "( -- ) disable printing the stack after each line", func(vm *Machine) {
			vm.showStack = false
		}},
		{"WORDS", "( -- ) list every defined name", func(vm *Machine) {
			if vm.out == nil {
				return
			}
			for _, name := range vm.Words() {
				fmt.Fprintf(vm.out, "%s ", name)
			}
			fmt.Fprintln(vm.out)
		}},
		{"BYE", "( -- ) exit the interpreter", func(vm *Machine) {
			vm.exitFlag = true
		}},
		{"DBG", "( level -- ) set the diagnostic floor: 0=error 1=warning 2=info else=debug", func(vm *Machine) {
			v, ok := vm.PopOrAbort("DBG")
			if !ok {
				return
			}
			switch v {
			case 0:
				vm.diag.SetFloor(diag.Error)
			case 1:
				vm.diag.SetFloor(diag.Warning)
			case 2:
				vm.diag.SetFloor(diag.Info)
			default:
				vm.diag.SetFloor(diag.Debug)
			}
		}},
		{"DEBUGLEVEL", "( -- n ) push the current diagnostic floor", func(vm *Machine) {
			vm.PushData(int64(vm.diag.Floor()))
		}},
		{"STEP-ON", "( -- ) enable tracing: log each threaded-loop dispatch at debug level", func(vm *Machine) {
			vm.cells.Store(vm.stepperPtr, True)
		}},
		{"STEP-OFF", "( -- ) disable tracing", func(vm *Machine) {
			vm.cells.Store(vm.stepperPtr, False)
		}},
	}
	for _, d := range defs {
		if _, err := vm.AddBuiltin(d.name, false, d.doc, d.fn); err != nil {
			return err
		}
	}

	// S" is immediate: at compile time it parses up to the closing quote,
	// saves the text into the string store, and compiles two LITERAL
	// cells pushing the address/length pair TYPE expects. At interpret
	// time it copies the text into TMP and pushes that pair directly.
	_, err := vm.AddBuiltin(`S"`, true, `compile or push a string literal up to the next "`, func(vm *Machine) {
		text, err := vm.Parse('"')
		if err != nil {
			vm.Abort(`S"`, err)
			return
		}
		if vm.state() == stateCompile {
			addr := vm.sHere()
			truncated, werr := vm.chars.WriteAt(addr, text)
			if werr != nil {
				vm.Abort(`S"`, werr)
				return
			}
			if truncated {
				vm.diag.Warningf(`S"`, "string literal truncated to fit string store")
			}
			vm.setSHere(addr + len(text))
			if err := vm.Comma(OpLiteral); err != nil {
				vm.Abort(`S"`, err)
				return
			}
			if err := vm.Comma(int64(addr)); err != nil {
				vm.Abort(`S"`, err)
				return
			}
			if err := vm.Comma(OpLiteral); err != nil {
				vm.Abort(`S"`, err)
				return
			}
			if err := vm.Comma(int64(len(text))); err != nil {
				vm.Abort(`S"`, err)
			}
			return
		}
		addr := vm.loadReg(vm.tmpPtr)
		if _, werr := vm.chars.WriteAt(addr, text); werr != nil {
			vm.Abort(`S"`, werr)
			return
		}
		vm.PushData(int64(addr))
		vm.PushData(int64(len(text)))
	})
	if err != nil {
		return err
	}
	return nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
