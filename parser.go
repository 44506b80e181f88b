package main

// The text input buffer (TIB) is a raw (non counted-string) byte region in
// the char store. 'TIB holds its base address, #TIB how many bytes in it
// are valid, and >IN the next unread offset into it. QUERY/ACCEPT refill
// it from the current input source; Parse/Text consume it.

func (vm *Machine) tibBase() int {
	v, _ := vm.cells.Load(vm.tibPtr)
	return int(v)
}

func (vm *Machine) tibSize() int {
	v, _ := vm.cells.Load(vm.tibSizePtr)
	return int(v)
}

func (vm *Machine) setTIBSize(n int) { vm.cells.Store(vm.tibSizePtr, int64(n)) }

func (vm *Machine) tibIn() int {
	v, _ := vm.cells.Load(vm.tibInPtr)
	return int(v)
}

func (vm *Machine) setTIBIn(n int) { vm.cells.Store(vm.tibInPtr, int64(n)) }

// RefillTIB loads line as the text input buffer's contents, resetting the
// scan offset to 0.
func (vm *Machine) RefillTIB(line string) error {
	if _, err := vm.chars.WriteAt(vm.tibBase(), line); err != nil {
		return err
	}
	vm.setTIBSize(len(line))
	vm.setTIBIn(0)
	return nil
}

// ParseScan is the (PARSE) primitive: starting at >IN, skip a leading run
// of delim bytes, then scan to the next delim byte or the end of TIB.
// Returns the address and length of the token found inside TIB (not yet
// copied anywhere) and advances >IN past it. PARSE (below) is the word
// that actually copies the token to PAD; ParseScan is the pure scanner.
//
// delim == 1 is the sentinel meaning "consume the rest of the TIB": it
// sets #TIB to 0 and >IN to 1 and reports length 0 regardless of what
// remained, so the outer loop takes it as "nothing parsed" and goes back
// to QUERY for a fresh line, matching the original (parse)'s delim-1 rule.
func (vm *Machine) ParseScan(delim byte) (addr, length int, err error) {
	base := vm.tibBase()
	size := vm.tibSize()
	in := vm.tibIn()

	if delim == 1 {
		vm.setTIBSize(0)
		vm.setTIBIn(1)
		return base + in, 0, nil
	}

	for in < size {
		b, rerr := vm.chars.ReadAt(base+in, 1)
		if rerr != nil {
			return 0, 0, rerr
		}
		if b[0] != delim {
			break
		}
		in++
	}
	start := in
	for in < size {
		b, rerr := vm.chars.ReadAt(base+in, 1)
		if rerr != nil {
			return 0, 0, rerr
		}
		if b[0] == delim {
			break
		}
		in++
	}
	length = in - start
	if in < size {
		in++ // consume the trailing delimiter itself
	}
	vm.setTIBIn(in)
	return base + start, length, nil
}

// Parse is PARSE: scan a delim-delimited token out of TIB, copy it into
// PAD, and return the token's text; >IN is advanced past it. A delim==1
// scan yields "" and nothing is copied.
func (vm *Machine) Parse(delim byte) (string, error) {
	addr, n, err := vm.ParseScan(delim)
	if err != nil {
		return "", err
	}
	text, err := vm.chars.ReadAt(addr, n)
	if err != nil {
		return "", err
	}
	if n > 0 {
		if _, err := vm.chars.WriteAt(vm.loadReg(vm.padPtr), text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// Text is TEXT: PARSE with a space delimiter, the normal word-tokenising
// form used by $INTERPRET/$COMPILE.
func (vm *Machine) Text() (string, error) {
	return vm.Parse(' ')
}
