package main

// registerStackBuiltins installs data-stack shuffling, DEPTH/CLEAR, and
// the return-stack transfer words >R R> R@ I J.
func registerStackBuiltins(vm *Machine) error {
	type def struct {
		name string
		doc  string
		fn   builtinFn
	}
	defs := []def{
		{"DUP", "( a -- a a )", func(vm *Machine) {
			a, ok := vm.PopOrAbort("DUP")
			if ok {
				vm.PushData(a)
				vm.PushData(a)
			}
		}},
		{"DROP", "( a -- )", func(vm *Machine) {
			vm.PopOrAbort("DROP")
		}},
		{"SWAP", "( a b -- b a )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("SWAP")
			if ok {
				vm.PushData(b)
				vm.PushData(a)
			}
		}},
		{"OVER", "( a b -- a b a )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("OVER")
			if ok {
				vm.PushData(a)
				vm.PushData(b)
				vm.PushData(a)
			}
		}},
		{"ROT", "( a b c -- b c a )", func(vm *Machine) {
			c, ok := vm.PopOrAbort("ROT")
			if !ok {
				return
			}
			b, ok := vm.PopOrAbort("ROT")
			if !ok {
				return
			}
			a, ok := vm.PopOrAbort("ROT")
			if !ok {
				return
			}
			vm.PushData(b)
			vm.PushData(c)
			vm.PushData(a)
		}},
		{"DEPTH", "( -- n )", func(vm *Machine) {
			vm.PushData(int64(vm.Depth()))
		}},
		{"CLEAR", "( ... -- )", func(vm *Machine) {
			vm.ClearStack()
		}},
		{">R", "( a -- ) ( R: -- a )", func(vm *Machine) {
			if err := vm.ToR(); err != nil {
				vm.Abort(">R", err)
			}
		}},
		{"R>", "( -- a ) ( R: a -- )", func(vm *Machine) {
			if err := vm.RFrom(); err != nil {
				vm.Abort("R>", err)
			}
		}},
		{"R@", "( -- a ) ( R: a -- a )", func(vm *Machine) {
			v, err := vm.PopReturn()
			if err != nil {
				vm.Abort("R@", err)
				return
			}
			if err := vm.PushReturn(v); err != nil {
				vm.Abort("R@", err)
				return
			}
			vm.PushData(v)
		}},
		{"I", "( -- i ) loop index, one level up the return stack", func(vm *Machine) {
			v, ok := vm.loopIndex(0)
			if ok {
				vm.PushData(v)
			}
		}},
		{"J", "( -- j ) loop index, two levels up the return stack", func(vm *Machine) {
			v, ok := vm.loopIndex(1)
			if ok {
				vm.PushData(v)
			}
		}},
		{"@", "( addr -- v )", func(vm *Machine) {
			addr, ok := vm.PopOrAbort("@")
			if !ok {
				return
			}
			v, err := vm.cells.Load(int(addr))
			if err != nil {
				vm.Abort("@", err)
				return
			}
			vm.PushData(v)
		}},
		{"!", "( v addr -- )", func(vm *Machine) {
			addr, ok := vm.PopOrAbort("!")
			if !ok {
				return
			}
			v, ok := vm.PopOrAbort("!")
			if !ok {
				return
			}
			if err := vm.cells.Store(int(addr), v); err != nil {
				vm.Abort("!", err)
			}
		}},
	}
	for _, d := range defs {
		if _, err := vm.AddBuiltin(d.name, false, d.doc, d.fn); err != nil {
			return err
		}
	}
	return nil
}

// loopIndex reads the n-th FOR loop counter held on the return stack,
// counting 0 = innermost (I), 1 = next level out (J). FOR pushes its
// counter with >R, so the counter sits just above whatever return
// addresses are between it and the top.
func (vm *Machine) loopIndex(n int) (int64, bool) {
	v, err := vm.cells.Load(vm.returnPtr + n)
	if err != nil {
		vm.Abort("I/J", err)
		return 0, false
	}
	return v, true
}
