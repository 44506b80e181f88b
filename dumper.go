package main

import "fmt"

// See is the SEE decompiler: it walks a definition's compiled body,
// printing one opcode per line until it reaches EXIT. Variables,
// constants, and builtins print their single code-field cell instead.
func (vm *Machine) See(name string) {
	if vm.out == nil {
		return
	}
	nfa, cfa, immediate, found := vm.Find(name)
	if !found {
		vm.Abort("SEE", unknownWordError{name})
		return
	}
	fmt.Fprintf(vm.out, ": %s", name)
	if immediate {
		fmt.Fprint(vm.out, " immediate")
	}
	fmt.Fprintln(vm.out)

	code, err := vm.cells.Load(cfa)
	if err != nil {
		vm.Abort("SEE", err)
		return
	}
	switch code {
	case OpVariable:
		v, _ := vm.cells.Load(cfa + 1)
		fmt.Fprintf(vm.out, "  VARIABLE = %d\n", v)
		return
	case OpConstant:
		v, _ := vm.cells.Load(cfa + 1)
		fmt.Fprintf(vm.out, "  CONSTANT = %d\n", v)
		return
	case OpBuiltin:
		idx, _ := vm.cells.Load(cfa + 1)
		if int(idx) >= 0 && int(idx) < len(vm.builtins) {
			fmt.Fprintf(vm.out, "  BUILTIN %s\n", vm.builtins[idx].doc)
		}
		return
	case OpDefinition:
		// fall through to body walk below
	default:
		fmt.Fprintf(vm.out, "  ???\n")
		return
	}

	pc := cfa + 1
	_ = nfa
	for {
		c, err := vm.cells.Load(pc)
		if err != nil {
			fmt.Fprintf(vm.out, "  <out of range at %d>\n", pc)
			return
		}
		if c&BuiltinMask != 0 {
			idx := int(c & AddressMask)
			if idx >= 0 && idx < len(vm.builtins) {
				fmt.Fprintf(vm.out, "  %s\n", vm.builtins[idx].name)
			} else {
				fmt.Fprintf(vm.out, "  <bad builtin %d>\n", idx)
			}
			pc++
			continue
		}

		switch c {
		case OpLiteral:
			v, _ := vm.cells.Load(pc + 1)
			fmt.Fprintf(vm.out, "  LITERAL %d\n", v)
			pc += 2
		case OpBranch:
			off, _ := vm.cells.Load(pc + 1)
			fmt.Fprintf(vm.out, "  BRANCH %d (-> %d)\n", off, pc+1+int(off))
			pc += 2
		case OpBranch0:
			off, _ := vm.cells.Load(pc + 1)
			fmt.Fprintf(vm.out, "  BRANCH0 %d (-> %d)\n", off, pc+1+int(off))
			pc += 2
		case OpExit:
			fmt.Fprintln(vm.out, "  EXIT")
			return
		default:
			if opn := opcodeName(c); opn != "" {
				fmt.Fprintf(vm.out, "  %s\n", opn)
				pc++
				continue
			}
			if target, ok := vm.nameForCFA(int(c)); ok {
				fmt.Fprintf(vm.out, "  %s\n", target)
			} else {
				fmt.Fprintf(vm.out, "  call %d\n", c)
			}
			pc++
		}
	}
}

// nameForCFA reverse-looks-up the dictionary entry whose cfa is cfa.
func (vm *Machine) nameForCFA(cfa int) (string, bool) {
	addr := vm.context()
	for addr != 0 {
		linkCell, err := vm.cells.Load(addr)
		if err != nil {
			return "", false
		}
		prev, _ := link(linkCell)
		if addr+headerCells == cfa {
			nameAddr, err := vm.cells.Load(addr + 1)
			if err != nil {
				return "", false
			}
			name, err := vm.chars.GetString(int(nameAddr))
			if err != nil {
				return "", false
			}
			return name, true
		}
		addr = prev
	}
	return "", false
}
