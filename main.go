package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jcorbin/f2go/internal/diag"
	"github.com/jcorbin/f2go/internal/source"
)

const (
	welcomeMessage = "Welcome to f2go."
	exitMessage    = "Finished"
)

// defaultCore lists core-library candidates tried in order; the first one
// that exists is loaded unless --nocore is given.
var defaultCore = []string{
	"~/.f2/corelib.fs",
	"src/f2.fs",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("f2go", flag.ContinueOnError)
	library := fs.String("library", "", "path to a core library to load instead of the built-in search list")
	file := fs.String("file", "", "path to a script to load after the core library")
	noCore := fs.Bool("nocore", false, "skip loading any core library")
	debugLevel := fs.String("debuglevel", "warning", "diagnostic floor: error, warning, info, or debug")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	floor, ok := diag.ParseLevel(*debugLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "f2go: unrecognized -debuglevel %q\n", *debugLevel)
		return 2
	}

	vm, err := New(
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
		WithDiagOutput(os.Stderr),
		WithDiagFloor(floor),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "f2go: %v\n", err)
		return 1
	}

	// The input stack reads its topmost (most recently pushed) source to
	// completion before falling back to what is underneath, so to get
	// "core library, then --file, then the interactive terminal" in that
	// order, --file is pushed before the core library.
	if *file != "" {
		if err := includeFile(vm, *file); err != nil {
			fmt.Fprintf(os.Stderr, "f2go: %v\n", err)
			return 1
		}
	}
	if !*noCore {
		if err := loadCore(vm, *library); err != nil {
			fmt.Fprintf(os.Stderr, "f2go: %v\n", err)
		}
	}

	fmt.Fprintln(os.Stdout, welcomeMessage)
	if err := vm.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "f2go: %v\n", err)
	}
	fmt.Fprintln(os.Stdout, exitMessage)
	return vm.diag.ExitCode()
}

// loadCore pushes the core library onto the input stack: library if
// given, else the first existing path in defaultCore.
func loadCore(vm *Machine, library string) error {
	candidates := defaultCore
	if library != "" {
		candidates = []string{library}
	}
	for _, path := range candidates {
		expanded := expandHome(path)
		if _, err := os.Stat(expanded); err != nil {
			continue
		}
		return includeFile(vm, expanded)
	}
	if library != "" {
		return fmt.Errorf("core library %q not found", library)
	}
	return nil
}

func includeFile(vm *Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	vm.in.Push(source.NewFileName(f, path))
	return nil
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
