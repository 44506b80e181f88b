package main

// registerArithBuiltins installs the arithmetic, comparison, and boolean
// primitives: + - * / MOD < = 0= 0< AND OR TRUE FALSE.
func registerArithBuiltins(vm *Machine) error {
	type def struct {
		name string
		doc  string
		fn   builtinFn
	}
	defs := []def{
		{"+", "( a b -- a+b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("+")
			if ok {
				vm.PushData(a + b)
			}
		}},
		{"-", "( a b -- a-b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("-")
			if ok {
				vm.PushData(a - b)
			}
		}},
		{"*", "( a b -- a*b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("*")
			if ok {
				vm.PushData(a * b)
			}
		}},
		{"/", "( a b -- a/b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("/")
			if !ok {
				return
			}
			if b == 0 {
				vm.Abort("/", divideByZeroError{})
				return
			}
			vm.PushData(a / b)
		}},
		{"MOD", "( a b -- a%b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("MOD")
			if !ok {
				return
			}
			if b == 0 {
				vm.Abort("MOD", divideByZeroError{})
				return
			}
			vm.PushData(a % b)
		}},
		{"<", "( a b -- flag )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("<")
			if ok {
				vm.PushData(boolCell(a < b))
			}
		}},
		{"=", "( a b -- flag )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("=")
			if ok {
				vm.PushData(boolCell(a == b))
			}
		}},
		{"0=", "( a -- flag )", func(vm *Machine) {
			a, ok := vm.PopOrAbort("0=")
			if ok {
				vm.PushData(boolCell(a == 0))
			}
		}},
		{"0<", "( a -- flag )", func(vm *Machine) {
			a, ok := vm.PopOrAbort("0<")
			if ok {
				vm.PushData(boolCell(a < 0))
			}
		}},
		{"AND", "( a b -- a&b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("AND")
			if ok {
				vm.PushData(a & b)
			}
		}},
		{"OR", "( a b -- a|b )", func(vm *Machine) {
			a, b, ok := vm.Pop2OrAbort("OR")
			if ok {
				vm.PushData(a | b)
			}
		}},
		{"TRUE", "( -- -1 )", func(vm *Machine) { vm.PushData(True) }},
		{"FALSE", "( -- 0 )", func(vm *Machine) { vm.PushData(False) }},
	}
	for _, d := range defs {
		if _, err := vm.AddBuiltin(d.name, false, d.doc, d.fn); err != nil {
			return err
		}
	}
	return nil
}

type divideByZeroError struct{}

func (divideByZeroError) Error() string { return "division by zero" }
