package signals

import (
	"fmt"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

// AnyPort is the type-erased view of an Input[T]/Output[T] used by the
// dependency graph and module registration.
type AnyPort interface {
	// Name returns the port's diagnostic name.
	Name() string
	// Bound reports whether the port resolves to a concrete signal.
	Bound() bool
	// Resolve returns the concrete signal the port chain resolves to.
	Resolve() (AnySignal, bool)
	// Subscribe registers info to be woken when the resolved signal
	// changes. An Output always fails: see Output.Subscribe.
	Subscribe(info process.Info) error
}

// Input is an input port: a type-erasing handle that forwards reads and
// subscriptions to the signal it is bound to, directly or through a
// chain of same-polarity ports.
type Input[T SignalValue] struct {
	name     string
	bound    *Signal[T]
	children []*Input[T]
	pending  map[process.Key]process.Info
}

// NewInput declares an unbound input port named name.
func NewInput[T SignalValue](name string) *Input[T] {
	return &Input[T]{name: name}
}

// Name returns the port's diagnostic name.
func (in *Input[T]) Name() string { return in.name }

// Bound reports whether the port resolves to a concrete signal.
func (in *Input[T]) Bound() bool { return in.bound != nil }

// Resolve returns the concrete signal the port chain resolves to.
func (in *Input[T]) Resolve() (AnySignal, bool) {
	if in.bound == nil {
		return nil, false
	}
	return in.bound, true
}

func (in *Input[T]) resolvedSignal() (*Signal[T], error) {
	if in.bound == nil {
		return nil, fmt.Errorf("signals: input %q is not bound", in.name)
	}
	return in.bound, nil
}

// Get returns the current value of the bound signal. It fails if the
// port is unbound.
func (in *Input[T]) Get() (T, error) {
	sig, err := in.resolvedSignal()
	if err != nil {
		var zero T
		return zero, err
	}
	return sig.Get(), nil
}

// GetDelay returns the delay of the bound signal. It fails if the port
// is unbound.
func (in *Input[T]) GetDelay() (commons.Time, error) {
	sig, err := in.resolvedSignal()
	if err != nil {
		return 0, err
	}
	return sig.GetDelay(), nil
}

// Subscribe registers info to be woken when the bound signal changes.
// If the port is not yet bound, the registration is held and
// transferred to the signal as soon as Bind resolves it: an input may
// register subscribers before it is bound.
func (in *Input[T]) Subscribe(info process.Info) error {
	if !info.Valid() {
		return fmt.Errorf("signals: cannot subscribe an invalid process to input %q", in.name)
	}
	if in.bound != nil {
		return in.bound.Subscribe(info)
	}
	if in.pending == nil {
		in.pending = make(map[process.Key]process.Info)
	}
	in.pending[info.Key] = info
	return nil
}

// Bind resolves the port to target, which must be either a *Signal[T]
// (the usual leaf binding) or another *Input[T] (a chained,
// submodule-to-parent binding), both of the same element type. Any
// other target is a configuration error.
func (in *Input[T]) Bind(target any) error {
	switch t := target.(type) {
	case *Input[T]:
		t.children = append(t.children, in)
		if t.bound != nil {
			return in.bindToSignal(t.bound)
		}
		return nil
	case *Signal[T]:
		return in.bindToSignal(t)
	default:
		return fmt.Errorf("signals: invalid bind target %T for input %q", target, in.name)
	}
}

func (in *Input[T]) bindToSignal(sig *Signal[T]) error {
	in.bound = sig
	for _, info := range in.pending {
		if err := sig.Subscribe(info); err != nil {
			return err
		}
	}
	in.pending = nil
	for _, child := range in.children {
		if err := child.bindToSignal(sig); err != nil {
			return err
		}
	}
	return nil
}

// Output is an output port: a type-erasing handle that forwards writes
// to the signal it is bound to, directly or through a chain of
// same-polarity ports.
type Output[T SignalValue] struct {
	name     string
	bound    *Signal[T]
	children []*Output[T]
}

// NewOutput declares an unbound output port named name.
func NewOutput[T SignalValue](name string) *Output[T] {
	return &Output[T]{name: name}
}

// Name returns the port's diagnostic name.
func (out *Output[T]) Name() string { return out.name }

// Bound reports whether the port resolves to a concrete signal.
func (out *Output[T]) Bound() bool { return out.bound != nil }

// Resolve returns the concrete signal the port chain resolves to.
func (out *Output[T]) Resolve() (AnySignal, bool) {
	if out.bound == nil {
		return nil, false
	}
	return out.bound, true
}

func (out *Output[T]) resolvedSignal() (*Signal[T], error) {
	if out.bound == nil {
		return nil, fmt.Errorf("signals: output %q is not bound", out.name)
	}
	return out.bound, nil
}

// Set writes v to the bound signal. It fails if the port is unbound.
func (out *Output[T]) Set(v T) error {
	sig, err := out.resolvedSignal()
	if err != nil {
		return err
	}
	sig.Set(v)
	return nil
}

// Get returns the current value of the bound signal. It fails if the
// port is unbound.
func (out *Output[T]) Get() (T, error) {
	sig, err := out.resolvedSignal()
	if err != nil {
		var zero T
		return zero, err
	}
	return sig.Get(), nil
}

// Subscribe always fails: an output cannot be used to subscribe a
// process.
func (out *Output[T]) Subscribe(process.Info) error {
	return fmt.Errorf("signals: cannot use output %q to subscribe a process", out.name)
}

// Bind resolves the port to target, which must be either a *Signal[T]
// or another *Output[T] (chaining a submodule output up to its parent's
// output), both of the same element type. Any other target is a
// configuration error.
func (out *Output[T]) Bind(target any) error {
	switch t := target.(type) {
	case *Output[T]:
		t.children = append(t.children, out)
		if t.bound != nil {
			return out.bindToSignal(t.bound)
		}
		return nil
	case *Signal[T]:
		return out.bindToSignal(t)
	default:
		return fmt.Errorf("signals: invalid bind target %T for output %q", target, out.name)
	}
}

func (out *Output[T]) bindToSignal(sig *Signal[T]) error {
	out.bound = sig
	for _, child := range out.children {
		if err := child.bindToSignal(sig); err != nil {
			return err
		}
	}
	return nil
}
