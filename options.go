package main

import (
	"io"

	"github.com/jcorbin/f2go/internal/diag"
	"github.com/jcorbin/f2go/internal/flushio"
)

// Option configures a Machine at construction time, mirroring the
// teacher's VMOption pattern: each option is applied in order against the
// machine being built, so options compose without New needing a
// combinatorial set of constructors.
type Option interface {
	apply(vm *Machine) error
}

type optionFunc func(vm *Machine) error

func (f optionFunc) apply(vm *Machine) error { return f(vm) }

// options composes several Options into one, applied in order.
type options []Option

func (opts options) apply(vm *Machine) error {
	for _, opt := range opts {
		if err := opt.apply(vm); err != nil {
			return err
		}
	}
	return nil
}

// Options combines several Options into one.
func Options(opts ...Option) Option { return options(opts) }

// WithInput installs r as the base (terminal) input source.
func WithInput(r io.Reader) Option {
	return optionFunc(func(vm *Machine) error {
		vm.in.Push(r)
		return nil
	})
}

// WithOutput sets where EMIT/TYPE/./.S/WORDS/SEE write.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(vm *Machine) error {
		vm.out = flushio.NewWriteFlusher(w)
		return nil
	})
}

// WithDiagOutput sets where the diagnostic sink writes.
func WithDiagOutput(w io.Writer) Option {
	return optionFunc(func(vm *Machine) error {
		vm.diag.SetOutput(w)
		return nil
	})
}

// WithDiagFloor sets the diagnostic sink's initial floor.
func WithDiagFloor(l diag.Level) Option {
	return optionFunc(func(vm *Machine) error {
		vm.diag.SetFloor(l)
		return nil
	})
}

