package main

import "fmt"

// ErrBadOpcode reports a cell that was dispatched as an opcode but whose
// value is neither a known Op* constant nor a plausible call address.
type ErrBadOpcode struct {
	PC   int
	Code int64
}

func (e ErrBadOpcode) Error() string {
	return fmt.Sprintf("bad opcode %d at pc=%d", e.Code, e.PC)
}

// Abort clears both stacks, records why, and sets the ABORT? flag. It is
// the one recovery primitive every error path funnels through: EVAL, the
// threaded loop, and QUIT all poll ABORT? and unwind to a clean prompt
// rather than letting a Go error propagate out through Forth-level frames.
func (vm *Machine) Abort(source string, cause error) {
	vm.ClearStack()
	vm.ResetReturnStack()
	vm.abortErr = cause
	vm.cells.Store(vm.abortPtr, True)
	if cause != nil {
		vm.diag.Errorf(source, "%v", cause)
	}
}

func (vm *Machine) aborting() bool {
	v, _ := vm.cells.Load(vm.abortPtr)
	return v != False
}

func (vm *Machine) clearAbort() {
	vm.cells.Store(vm.abortPtr, False)
	vm.abortErr = nil
}

// Execute runs the word at cfa to completion: primitives (BUILTIN,
// VARIABLE, CONSTANT, STRLIT) fire once and return; a DEFINITION runs the
// full threaded loop over its compiled body.
func (vm *Machine) Execute(cfa int) error {
	code, err := vm.cells.Load(cfa)
	if err != nil {
		return err
	}
	switch code {
	case OpDefinition:
		return vm.runThreaded(cfa)
	case OpBuiltin:
		idxCell, err := vm.cells.Load(cfa + 1)
		if err != nil {
			return err
		}
		return vm.callBuiltin(int(idxCell))
	case OpVariable:
		return vm.PushData(int64(cfa + 1))
	case OpConstant:
		v, err := vm.cells.Load(cfa + 1)
		if err != nil {
			return err
		}
		return vm.PushData(v)
	case OpStrlit:
		return vm.PushData(int64(cfa + 1))
	default:
		return ErrBadOpcode{PC: cfa, Code: code}
	}
}

// callBuiltin invokes the builtin at idx. A builtin signals failure by
// calling vm.Abort itself (setting ABORT? and vm.abortErr); callBuiltin
// does not inspect or propagate that here, since the threaded loop's
// top-of-iteration check catches it on the next pass.
func (vm *Machine) callBuiltin(idx int) error {
	if idx < 0 || idx >= len(vm.builtins) {
		err := fmt.Errorf("invalid builtin index %d", idx)
		vm.Abort("EXECUTE", err)
		return err
	}
	vm.builtins[idx].fn(vm)
	return nil
}

// runThreaded walks a colon definition's compiled body starting at entry,
// maintaining an explicit program counter and return stack rather than
// recursing through Go call frames, so FOR/NEXT, EXIT, and RECURSE all
// just manipulate pc like any other Forth word would expect.
//
// A sentinel 0 is pushed to the return stack before the loop starts;
// EXIT's r_from()/pop() eventually surfaces it back into pc, at which
// point the loop returns and resets the return stack to empty.
func (vm *Machine) runThreaded(entry int) error {
	if err := vm.PushReturn(0); err != nil {
		return err
	}
	vm.pc = entry

	for {
		if vm.exitFlag {
			return nil
		}
		if vm.pc == 0 || vm.aborting() {
			vm.ResetReturnStack()
			return vm.abortErr
		}

		code, err := vm.cells.Load(vm.pc)
		if err != nil {
			vm.Abort("EXECUTE", err)
			return err
		}

		if int64(vm.loadReg(vm.stepperPtr)) != False {
			vm.traceStep(code)
		}

		// A compiled call to a builtin is tagged with BuiltinMask so it
		// can be dispatched without ever touching the return stack: per
		// spec, call the indexed builtin directly and advance pc by one.
		// This matters because builtins like >R/R> manipulate the return
		// stack themselves; routing them through the generic push-return/
		// jump-to-header call mechanism below would leave their own
		// pushes and pops stacked on top of a call-return frame that
		// doesn't belong to them, corrupting pc on return.
		if code&BuiltinMask != 0 {
			vm.callBuiltin(int(code & AddressMask))
			vm.pc++
			continue
		}

		switch code {
		case OpBuiltin:
			idxCell, err := vm.cells.Load(vm.pc + 1)
			if err != nil {
				return err
			}
			vm.callBuiltin(int(idxCell))
			if err := vm.returnToCaller(); err != nil {
				return err
			}

		case OpVariable:
			vm.pc++
			if err := vm.PushData(int64(vm.pc)); err != nil {
				return err
			}
			if err := vm.returnToCaller(); err != nil {
				return err
			}

		case OpConstant:
			vm.pc++
			v, err := vm.cells.Load(vm.pc)
			if err != nil {
				return err
			}
			if err := vm.PushData(v); err != nil {
				return err
			}
			if err := vm.returnToCaller(); err != nil {
				return err
			}

		case OpStrlit:
			vm.pc++
			if err := vm.PushData(int64(vm.pc)); err != nil {
				return err
			}
			if err := vm.returnToCaller(); err != nil {
				return err
			}

		case OpLiteral:
			vm.pc++
			v, err := vm.cells.Load(vm.pc)
			if err != nil {
				return err
			}
			if err := vm.PushData(v); err != nil {
				return err
			}
			vm.pc++

		case OpDefinition:
			vm.pc++

		case OpBranch:
			vm.pc++
			off, err := vm.cells.Load(vm.pc)
			if err != nil {
				return err
			}
			vm.pc += int(off)

		case OpBranch0:
			vm.pc++
			flag, err := vm.PopData()
			if err != nil {
				vm.Abort("BRANCH0", err)
				return err
			}
			off, err := vm.cells.Load(vm.pc)
			if err != nil {
				return err
			}
			if flag == False {
				vm.pc += int(off)
			} else {
				vm.pc++
			}

		case OpAbort:
			vm.Abort("ABORT", nil)
			return nil

		case OpExit:
			if err := vm.returnToCaller(); err != nil {
				return err
			}

		case OpNext:
			// Not compiled by this build: FOR/NEXT emit ordinary
			// BUILTIN/LITERAL/BRANCH0 sequences against looked-up words
			// instead of a dedicated loop opcode, so a dispatch here
			// means a corrupted or hand-assembled program.
			err := fmt.Errorf("NEXT opcode reached at pc=%d but is never compiled", vm.pc)
			vm.Abort("EXECUTE", err)
			return err

		default:
			// A call to another (non-builtin) word: code is literally
			// that word's cfa. Builtin calls never reach here; they are
			// tagged with BuiltinMask and handled above instead.
			if err := vm.PushData(int64(vm.pc + 1)); err != nil {
				return err
			}
			if err := vm.ToR(); err != nil {
				return err
			}
			vm.pc = int(code)
		}
	}
}

// traceStep logs one threaded-loop dispatch when STEPPER is set, the way
// the teacher's step()/codeName() pair logs "@pc word.op r:... s:...";
// here it goes through the diagnostic sink at Debug level instead of a
// dedicated log function, since the sink already gates on a floor.
func (vm *Machine) traceStep(code int64) {
	var name string
	switch {
	case code&BuiltinMask != 0:
		idx := int(code & AddressMask)
		if idx >= 0 && idx < len(vm.builtins) {
			name = vm.builtins[idx].name
		} else {
			name = fmt.Sprintf("builtin(%d)", idx)
		}
	case opcodeName(code) != "":
		name = opcodeName(code)
	default:
		if callee, ok := vm.nameForCFA(int(code)); ok {
			name = "call " + callee
		} else {
			name = fmt.Sprintf("call(%d)", code)
		}
	}
	vm.diag.Debugf("STEP", "@%d %s r:%d s:%d", vm.pc, name, vm.RDepth(), vm.Depth())
}

// returnToCaller is the r_from();pc=pop() pattern every "one-shot"
// opcode (BUILTIN, VARIABLE, CONSTANT, STRLIT, EXIT) uses to resume
// execution right after the call that reached it.
func (vm *Machine) returnToCaller() error {
	if err := vm.RFrom(); err != nil {
		vm.Abort("EXECUTE", err)
		return err
	}
	v, err := vm.PopData()
	if err != nil {
		vm.Abort("EXECUTE", err)
		return err
	}
	vm.pc = int(v)
	return nil
}
