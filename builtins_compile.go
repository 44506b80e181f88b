package main

import "fmt"

// registerCompileBuiltins installs the dictionary-building and
// control-flow compiling words: , LITERAL [ ] IMMEDIATE ' CREATE VARIABLE
// CONSTANT SEE FIND : ; IF ELSE THEN FOR NEXT RECURSE MARKER ?UNIQUE, and
// the comment words \ and (.
func registerCompileBuiltins(vm *Machine) error {
	type def struct {
		name      string
		immediate bool
		doc       string
		fn        builtinFn
	}
	defs := []def{
		{",", false, "( v -- ) compile v at HERE", func(vm *Machine) {
			v, ok := vm.PopOrAbort(",")
			if !ok {
				return
			}
			if err := vm.Comma(v); err != nil {
				vm.Abort(",", err)
			}
		}},
		{"LITERAL", true, "( v -- ) compile v as a literal", func(vm *Machine) {
			v, ok := vm.PopOrAbort("LITERAL")
			if !ok {
				return
			}
			if err := vm.Comma(OpLiteral); err == nil {
				if err := vm.Comma(v); err != nil {
					vm.Abort("LITERAL", err)
				}
			} else {
				vm.Abort("LITERAL", err)
			}
		}},
		{"[", true, "( -- ) drop to interpret state", func(vm *Machine) {
			vm.setState(stateInterpret)
		}},
		{"]", false, "( -- ) return to compile state", func(vm *Machine) {
			vm.setState(stateCompile)
		}},
		{"IMMEDIATE", false, "( -- ) tag the most recently defined word immediate", func(vm *Machine) {
			nfa := vm.definingNFA
			if nfa == 0 {
				nfa = vm.loadReg(vm.lastPtr)
			}
			if nfa == 0 {
				vm.Abort("IMMEDIATE", fmt.Errorf("no word to mark immediate"))
				return
			}
			if err := vm.SetImmediate(nfa); err != nil {
				vm.Abort("IMMEDIATE", err)
			}
		}},
		{"'", false, "( -- cfa ) look up the next word, pushing its cfa", func(vm *Machine) {
			tok, err := vm.Text()
			if err != nil {
				vm.Abort("'", err)
				return
			}
			_, cfa, _, found := vm.Find(tok)
			if !found {
				vm.Abort("'", unknownWordError{tok})
				return
			}
			vm.PushData(int64(cfa))
		}},
		{"FIND", false, "( -- nfa flag ) look up the next word", func(vm *Machine) {
			tok, err := vm.Text()
			if err != nil {
				vm.Abort("FIND", err)
				return
			}
			nfa, _, _, found := vm.Find(tok)
			vm.PushData(int64(nfa))
			vm.PushData(boolCell(found))
		}},
		{"CREATE", false, "( -- ) make a header whose body can be extended with ,", func(vm *Machine) {
			name, err := vm.Text()
			if err != nil || name == "" {
				vm.Abort("CREATE", unknownWordError{"(missing name)"})
				return
			}
			vm.UniqueQ(name)
			if _, err := vm.MakeVariable(name, 0); err != nil {
				vm.Abort("CREATE", err)
			}
		}},
		{"VARIABLE", false, "( -- ) create a variable initialized to 0", func(vm *Machine) {
			name, err := vm.Text()
			if err != nil || name == "" {
				vm.Abort("VARIABLE", unknownWordError{"(missing name)"})
				return
			}
			vm.UniqueQ(name)
			if _, err := vm.MakeVariable(name, 0); err != nil {
				vm.Abort("VARIABLE", err)
			}
		}},
		{"CONSTANT", false, "( v -- ) create a constant bound to v", func(vm *Machine) {
			v, ok := vm.PopOrAbort("CONSTANT")
			if !ok {
				return
			}
			name, err := vm.Text()
			if err != nil || name == "" {
				vm.Abort("CONSTANT", unknownWordError{"(missing name)"})
				return
			}
			vm.UniqueQ(name)
			if _, err := vm.MakeConstant(name, v); err != nil {
				vm.Abort("CONSTANT", err)
			}
		}},
		{"?UNIQUE", false, "( -- ) warn if the next word is already defined", func(vm *Machine) {
			name, err := vm.Text()
			if err != nil {
				vm.Abort("?UNIQUE", err)
				return
			}
			vm.UniqueQ(name)
		}},
		{"SEE", false, "( -- ) decompile the next word", func(vm *Machine) {
			name, err := vm.Text()
			if err != nil {
				vm.Abort("SEE", err)
				return
			}
			vm.See(name)
		}},
		{":", false, "( -- ) begin a colon definition", func(vm *Machine) { vm.Colon() }},
		{";", true, "( -- ) end a colon definition", func(vm *Machine) { vm.Semicolon() }},
		{"RECURSE", true, "( -- ) compile a call back to the word being defined", func(vm *Machine) { vm.Recurse() }},
		{"MARKER", false, "( -- ) create a word that forgets itself and everything after it", func(vm *Machine) {
			name, err := vm.Text()
			if err != nil || name == "" {
				vm.Abort("MARKER", unknownWordError{"(missing name)"})
				return
			}
			vm.Marker(name)
		}},
		{"\\", true, "( -- ) comment: skip the rest of the line", func(vm *Machine) {
			vm.Parse(1)
		}},
		{"(", true, "( -- ) comment: skip text up to the next )", func(vm *Machine) {
			vm.Parse(')')
		}},

		{"IF", true, "( flag -- ) compile a conditional branch, patched by ELSE/THEN", func(vm *Machine) {
			if err := vm.Comma(OpBranch0); err != nil {
				vm.Abort("IF", err)
				return
			}
			patch := vm.here()
			if err := vm.Comma(0); err != nil {
				vm.Abort("IF", err)
				return
			}
			vm.PushReturn(int64(patch))
		}},
		{"ELSE", true, "( -- ) compile the jump-over-else branch and patch IF", func(vm *Machine) {
			prev, err := vm.PopReturn()
			if err != nil {
				vm.Abort("ELSE", err)
				return
			}
			if err := vm.Comma(OpBranch); err != nil {
				vm.Abort("ELSE", err)
				return
			}
			patch := vm.here()
			if err := vm.Comma(0); err != nil {
				vm.Abort("ELSE", err)
				return
			}
			vm.patchBranch(int(prev))
			vm.PushReturn(int64(patch))
		}},
		{"THEN", true, "( -- ) resolve the pending IF/ELSE branch", func(vm *Machine) {
			patch, err := vm.PopReturn()
			if err != nil {
				vm.Abort("THEN", err)
				return
			}
			vm.patchBranch(int(patch))
		}},

		{"FOR", true, "( n -- ) begin a counted loop, n on the return stack", func(vm *Machine) {
			if !vm.compileCall(">R", "FOR") {
				return
			}
			vm.PushReturn(int64(vm.here()))
		}},
		{"NEXT", true, "( -- ) decrement the loop counter and branch if nonzero", func(vm *Machine) {
			vm.compileNext()
		}},
	}
	for _, d := range defs {
		if _, err := vm.AddBuiltin(d.name, d.immediate, d.doc, d.fn); err != nil {
			return err
		}
	}
	return nil
}

// patchBranch resolves a forward BRANCH/BRANCH0 compiled at patch to jump
// to the current HERE.
func (vm *Machine) patchBranch(patch int) {
	target := vm.here()
	if err := vm.cells.Store(patch, int64(target-patch)); err != nil {
		vm.Abort("IF/ELSE/THEN", err)
	}
}

// compileCall looks up name and compiles a call to it (tagging it
// BuiltinMask if it fronts a builtin, per CompileCall), aborting (through
// source) if name is not defined. Reports whether it succeeded.
func (vm *Machine) compileCall(name, source string) bool {
	_, cfa, _, found := vm.Find(name)
	if !found {
		vm.Abort(source, unknownWordError{name})
		return false
	}
	if err := vm.CompileCall(cfa); err != nil {
		vm.Abort(source, err)
		return false
	}
	return true
}

// compileNext compiles NEXT's body: pull the loop counter back with R>,
// decrement it, push the decremented value back onto the return stack so
// nested loops and I/J keep working, then branch to the loop start
// (recorded by FOR on the compile-time return stack) while it is
// nonzero, falling through to a cleanup R> DROP when it reaches zero.
func (vm *Machine) compileNext() {
	loopStart, err := vm.PopReturn()
	if err != nil {
		vm.Abort("NEXT", err)
		return
	}
	ok := vm.compileCall("R>", "NEXT") &&
		vm.commaLiteral(1) &&
		vm.compileCall("-", "NEXT") &&
		vm.compileCall("DUP", "NEXT") &&
		vm.compileCall(">R", "NEXT")
	if !ok {
		return
	}
	if err := vm.Comma(OpBranch0); err != nil {
		vm.Abort("NEXT", err)
		return
	}
	exitPatch := vm.here()
	if err := vm.Comma(0); err != nil {
		vm.Abort("NEXT", err)
		return
	}
	if err := vm.Comma(OpBranch); err != nil {
		vm.Abort("NEXT", err)
		return
	}
	backCell := vm.here()
	if err := vm.Comma(int64(int(loopStart) - backCell)); err != nil {
		vm.Abort("NEXT", err)
		return
	}
	vm.patchBranch(exitPatch)
	if !(vm.compileCall("R>", "NEXT") && vm.compileCall("DROP", "NEXT")) {
		return
	}
}

func (vm *Machine) commaLiteral(v int64) bool {
	if err := vm.Comma(OpLiteral); err != nil {
		vm.Abort("LITERAL", err)
		return false
	}
	if err := vm.Comma(v); err != nil {
		vm.Abort("LITERAL", err)
		return false
	}
	return true
}
