package main

import (
	"fmt"
	"strings"
)

// Dictionary entry layout: two header cells followed by the code field.
//
//	nfa+0  link      address of the previous entry's nfa, OR'd with
//	                 ImmediateMask if this word is immediate
//	nfa+1  name      address of this word's name in the char store
//	nfa+2  cfa       start of the code field (OpDefinition/OpVariable/
//	                 OpConstant/OpBuiltin, followed by whatever that
//	                 opcode expects)
//
// CONTEXT always holds the nfa of the most recently defined word; walking
// link cells from there enumerates the dictionary newest-first.
const headerCells = 2 // link, name; cfa = nfa + headerCells

// errDictFull reports that HERE or S-HERE has run past the boundary of its
// store; the caller should warn and ABORT rather than corrupt memory.
type errDictFull struct {
	what string
}

func (e errDictFull) Error() string { return fmt.Sprintf("dictionary space exhausted: %s", e.what) }

// link reads the nfa and immediate bit out of a tagged link cell.
func link(cell int64) (nfa int, immediate bool) {
	return int(cell & AddressMask), cell&ImmediateMask != 0
}

func taggedLink(nfa int, immediate bool) int64 {
	v := int64(nfa)
	if immediate {
		v |= ImmediateMask
	}
	return v
}

// context returns the nfa of the most recently defined word, or 0 if the
// dictionary is empty.
func (vm *Machine) context() int {
	v, err := vm.cells.Load(vm.contextPtr)
	if err != nil {
		return 0
	}
	return int(v)
}

func (vm *Machine) setContext(nfa int) {
	vm.cells.Store(vm.contextPtr, int64(nfa))
}

func (vm *Machine) here() int {
	v, _ := vm.cells.Load(vm.herePtr)
	return int(v)
}

func (vm *Machine) setHere(addr int) {
	vm.cells.Store(vm.herePtr, int64(addr))
}

func (vm *Machine) sHere() int {
	v, _ := vm.cells.Load(vm.sHerePtr)
	return int(v)
}

func (vm *Machine) setSHere(addr int) {
	vm.cells.Store(vm.sHerePtr, int64(addr))
}

// newHeader allocates a dictionary entry's two header cells at HERE,
// writes name into the string store at S-HERE, links it behind CONTEXT,
// and returns (nfa, cfa). It does not advance LAST or CONTEXT; callers
// finish the entry by writing the code field at cfa and calling install.
func (vm *Machine) newHeader(name string, immediate bool) (nfa, cfa int, err error) {
	nfa = vm.here()
	if nfa+headerCells >= StackStart {
		return 0, 0, errDictFull{"HERE"}
	}
	nameAddr := vm.sHere()
	truncated, serr := vm.chars.NewString(nameAddr, name)
	if serr != nil {
		return 0, 0, serr
	}
	if truncated {
		vm.diag.Warningf("DICT", "name %q truncated to fit string store", name)
	}
	l, lerr := vm.chars.Len8(nameAddr)
	if lerr != nil {
		return 0, 0, lerr
	}
	vm.setSHere(nameAddr + 1 + int(l))

	if err := vm.cells.Store(nfa, taggedLink(vm.context(), immediate)); err != nil {
		return 0, 0, err
	}
	if err := vm.cells.Store(nfa+1, int64(nameAddr)); err != nil {
		return 0, 0, err
	}
	cfa = nfa + headerCells
	vm.setHere(cfa)
	return nfa, cfa, nil
}

// install makes nfa the new head of the dictionary: CONTEXT and LAST both
// point at it. Colon definitions delay this until `;` closes the body so
// that a word being compiled cannot (accidentally) look itself up before
// RECURSE is asked for explicitly. During cold start, before LAST's own
// variable exists, lastPtr is still 0 (S-HERE's bootstrap cell), so LAST
// is left unwritten until then.
func (vm *Machine) install(nfa int) {
	vm.setContext(nfa)
	if vm.lastPtr != 0 {
		vm.cells.Store(vm.lastPtr, int64(nfa))
	}
}

// MakeVariable creates a variable entry holding initial as its value cell,
// installs it, and returns its nfa.
func (vm *Machine) MakeVariable(name string, initial int64) (int, error) {
	nfa, cfa, err := vm.newHeader(name, false)
	if err != nil {
		return 0, err
	}
	if err := vm.cells.Store(cfa, OpVariable); err != nil {
		return 0, err
	}
	if err := vm.cells.Store(cfa+1, initial); err != nil {
		return 0, err
	}
	vm.setHere(cfa + 2)
	vm.install(nfa)
	return nfa, nil
}

// MakeConstant creates a constant entry with the given value.
func (vm *Machine) MakeConstant(name string, value int64) (int, error) {
	nfa, cfa, err := vm.newHeader(name, false)
	if err != nil {
		return 0, err
	}
	if err := vm.cells.Store(cfa, OpConstant); err != nil {
		return 0, err
	}
	if err := vm.cells.Store(cfa+1, value); err != nil {
		return 0, err
	}
	vm.setHere(cfa + 2)
	vm.install(nfa)
	return nfa, nil
}

// AddBuiltin registers fn in the builtin table and creates a dictionary
// entry for name that fronts it.
func (vm *Machine) AddBuiltin(name string, immediate bool, doc string, fn builtinFn) (int, error) {
	nfa, cfa, err := vm.newHeader(name, immediate)
	if err != nil {
		return 0, err
	}
	idx := len(vm.builtins)
	vm.builtins = append(vm.builtins, builtin{name: name, fn: fn, doc: doc})
	if err := vm.cells.Store(cfa, OpBuiltin); err != nil {
		return 0, err
	}
	if err := vm.cells.Store(cfa+1, int64(idx)); err != nil {
		return 0, err
	}
	vm.setHere(cfa + 2)
	vm.install(nfa)
	return nfa, nil
}

// BeginDefinition opens a colon definition: a header is allocated and
// left uninstalled (not yet the head of CONTEXT) until EndDefinition
// closes it with `;`, matching classic Forth's "the name being defined is
// not findable mid-definition unless it RECURSEs".
func (vm *Machine) BeginDefinition(name string) (nfa, cfa int, err error) {
	nfa, cfa, err = vm.newHeader(name, false)
	if err != nil {
		return 0, 0, err
	}
	if err := vm.cells.Store(cfa, OpDefinition); err != nil {
		return 0, 0, err
	}
	vm.setHere(cfa + 1)
	vm.cells.Store(vm.lastPtr, int64(nfa))
	return nfa, cfa, nil
}

// Comma compiles one cell at HERE, advancing it.
func (vm *Machine) Comma(v int64) error {
	h := vm.here()
	if h >= StackStart {
		return errDictFull{"HERE"}
	}
	if err := vm.cells.Store(h, v); err != nil {
		return err
	}
	vm.setHere(h + 1)
	return nil
}

// EndDefinition compiles a trailing EXIT and installs the word being
// defined as the new dictionary head.
func (vm *Machine) EndDefinition(nfa int) error {
	if err := vm.Comma(OpExit); err != nil {
		return err
	}
	vm.setContext(nfa)
	return nil
}

// Find looks name up by walking link cells from CONTEXT, newest first,
// case-insensitively (matching the case-folded lookup every FIG-style
// Forth uses regardless of how a word's name was originally typed). It
// returns the entry's (nfa, cfa, immediate) and true if found.
func (vm *Machine) Find(name string) (nfa, cfa int, immediate, found bool) {
	name = strings.ToUpper(name)
	addr := vm.context()
	for addr != 0 {
		linkCell, err := vm.cells.Load(addr)
		if err != nil {
			return 0, 0, false, false
		}
		prev, imm := link(linkCell)
		nameAddr, err := vm.cells.Load(addr + 1)
		if err != nil {
			return 0, 0, false, false
		}
		stored, err := vm.chars.GetString(int(nameAddr))
		if err == nil && strings.ToUpper(stored) == name {
			return addr, addr + headerCells, imm, true
		}
		addr = prev
	}
	return 0, 0, false, false
}

// CompileCall compiles a call to the word whose code field is at cfa. If
// cfa fronts a builtin, the compiled cell is tagged with BuiltinMask and
// carries the builtin's table index directly, so the threaded loop can
// invoke it without pushing a return-stack frame (spec.md §4.5); a call
// to a colon definition, variable, or constant compiles cfa itself, to be
// dispatched by the threaded loop's generic call mechanism.
func (vm *Machine) CompileCall(cfa int) error {
	code, err := vm.cells.Load(cfa)
	if err != nil {
		return err
	}
	if code == OpBuiltin {
		idx, err := vm.cells.Load(cfa + 1)
		if err != nil {
			return err
		}
		return vm.Comma(BuiltinMask | idx)
	}
	return vm.Comma(int64(cfa))
}

// SetImmediate tags nfa as an immediate word.
func (vm *Machine) SetImmediate(nfa int) error {
	linkCell, err := vm.cells.Load(nfa)
	if err != nil {
		return err
	}
	prev, _ := link(linkCell)
	return vm.cells.Store(nfa, taggedLink(prev, true))
}

// Words returns every dictionary name, newest first, for the WORDS builtin.
func (vm *Machine) Words() []string {
	var names []string
	addr := vm.context()
	for addr != 0 {
		linkCell, err := vm.cells.Load(addr)
		if err != nil {
			break
		}
		prev, _ := link(linkCell)
		nameAddr, err := vm.cells.Load(addr + 1)
		if err != nil {
			break
		}
		name, err := vm.chars.GetString(int(nameAddr))
		if err != nil {
			break
		}
		names = append(names, name)
		addr = prev
	}
	return names
}

// Forget truncates the dictionary back to (and including) the entry named
// name, rolling HERE and CONTEXT back to the state just before it was
// created. Used by MARKER's forgettable word.
func (vm *Machine) Forget(name string) error {
	nfa, _, _, found := vm.Find(name)
	if !found {
		return fmt.Errorf("FORGET: %q not found", name)
	}
	linkCell, err := vm.cells.Load(nfa)
	if err != nil {
		return err
	}
	prev, _ := link(linkCell)
	nameAddr, err := vm.cells.Load(nfa + 1)
	if err != nil {
		return err
	}
	vm.setContext(prev)
	vm.setHere(nfa)
	vm.setSHere(int(nameAddr))
	return nil
}
