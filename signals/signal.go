// Package signals implements the typed value-cell and port abstractions
// the kernel schedules processes around: Signal[T] is the leaf value
// cell with delayed-write semantics, and Input[T]/Output[T] are the
// chainable, type-erased handles modules use to reach a signal without
// naming its concrete type everywhere.
//
// T is constrained to a closed set of primitive attribute types
// (string | int | float64 | bool), widened with int64 for wider buses.
package signals

import (
	"fmt"
	"math"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

// SignalValue is the closed set of primitive types a Signal may carry.
type SignalValue interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// floatEpsilon is the machine epsilon for float64, used for relative
// floating-point comparisons.
const floatEpsilon = 2.220446049250313e-16

// Scheduler is the subset of kernel.Scheduler a Signal needs in order to
// wake its subscribers. A small local interface (rather than importing
// the kernel package) keeps signals free of a dependency on kernel,
// which itself depends on signals — see DESIGN.md.
type Scheduler interface {
	// ScheduleNow schedules info to run in the current delta cycle.
	ScheduleNow(info process.Info)
	// ScheduleAfter schedules info to run delay units from now.
	ScheduleAfter(info process.Info, delay commons.Time)
}

// AnySignal is the type-erased view of a Signal[T] that the dependency
// graph and module registration primitives operate on without knowing T.
type AnySignal interface {
	// Name returns the signal's diagnostic name.
	Name() string
	// GetDelay returns the signal's default write delay.
	GetDelay() commons.Time
	// SetDelay changes the signal's default write delay.
	SetDelay(delay commons.Time)
	// Subscribe registers info to be woken on every change.
	Subscribe(info process.Info) error
	// TypeName names the concrete value type, for DOT export labels.
	TypeName() string
}

// Signal is a typed value cell: it remembers its current and previous
// value (for edge/change detection), its default write delay, and the
// set of processes to wake when it changes.
type Signal[T SignalValue] struct {
	name        string
	value       T
	lastValue   T
	storedValue T
	delay       commons.Time
	typeName    string
	subscribers map[process.Key]process.Info

	sched    Scheduler
	registry *process.Registry
}

// NewSignal constructs a signal named name with the given initial value
// and default write delay. sched and registry are the owning
// simulation's scheduler and process registry (see kernel.Simulation);
// a signal schedules its own subscribers through sched, and registers
// its private "apply stored value" callback through registry.
func NewSignal[T SignalValue](sched Scheduler, registry *process.Registry, name string, initial T, delay commons.Time) *Signal[T] {
	return &Signal[T]{
		name:        name,
		value:       initial,
		lastValue:   initial,
		delay:       delay,
		typeName:    fmt.Sprintf("%T", initial),
		subscribers: make(map[process.Key]process.Info),
		sched:       sched,
		registry:    registry,
	}
}

// Name returns the signal's diagnostic name.
func (s *Signal[T]) Name() string { return s.name }

// TypeName names the concrete value type, for DOT export labels.
func (s *Signal[T]) TypeName() string { return s.typeName }

// GetDelay returns the signal's default write delay.
func (s *Signal[T]) GetDelay() commons.Time { return s.delay }

// SetDelay changes the signal's default write delay.
func (s *Signal[T]) SetDelay(delay commons.Time) { s.delay = delay }

// Initialize resets both value and last value to v without waking any
// subscriber.
func (s *Signal[T]) Initialize(v T) {
	s.value = v
	s.lastValue = v
	var zero T
	s.storedValue = zero
}

// Get returns the signal's current value.
func (s *Signal[T]) Get() T { return s.value }

// HasChanged reports whether the current value differs from the
// previous one, using a relative-epsilon comparison for float64.
func (s *Signal[T]) HasChanged() bool {
	return valuesDiffer(s.lastValue, s.value)
}

// Subscribe registers info to be woken whenever the signal's value
// changes. It is idempotent by process key and rejects an invalid
// process.
func (s *Signal[T]) Subscribe(info process.Info) error {
	if !info.Valid() {
		return fmt.Errorf("signals: cannot subscribe an invalid process to signal %q", s.name)
	}
	if _, found := s.subscribers[info.Key]; found {
		return nil
	}
	s.subscribers[info.Key] = info
	return nil
}

// Bind always fails: signals are bound TO by ports, never bind
// themselves.
func (s *Signal[T]) Bind(target AnySignal) error {
	other := "<nil>"
	if target != nil {
		other = target.Name()
	}
	return fmt.Errorf("signals: cannot bind signal %q to %q; bind a port to a signal instead", s.name, other)
}

// Set writes a new value. With zero delay the write commits
// immediately and wakes subscribers in the current delta cycle; with a
// positive delay the write is staged and applied delay units from now.
func (s *Signal[T]) Set(v T) {
	if s.delay > 0 {
		s.setDelayed(v)
		return
	}
	s.setNow(v)
}

func (s *Signal[T]) setNow(v T) {
	if !valuesDiffer(s.value, v) {
		return
	}
	s.lastValue = s.value
	s.value = v
	for _, info := range s.subscribers {
		s.sched.ScheduleNow(info)
	}
}

func (s *Signal[T]) setDelayed(v T) {
	s.storedValue = v
	info, err := s.registry.GetOrCreate(s, "apply_stored", s.name+".apply_stored", s.applyStored)
	if err != nil {
		// s is always a valid non-nil pointer owner; GetOrCreate only
		// fails for nil/non-pointer owners or a nil callable.
		panic(err)
	}
	s.sched.ScheduleAfter(info, s.delay)
}

func (s *Signal[T]) applyStored() {
	s.setNow(s.storedValue)
}

// valuesDiffer reports whether a and b should be considered distinct
// values. Integral, string and bool types use ==; float64 uses a
// relative-epsilon comparison scaled to the operands' magnitude so
// rounding noise never triggers a spurious wakeup.
func valuesDiffer[T SignalValue](a, b T) bool {
	if af, ok := any(a).(float64); ok {
		bf := any(b).(float64)
		diff := math.Abs(af - bf)
		scale := math.Max(math.Abs(af), math.Abs(bf))
		if scale < 1 {
			scale = 1
		}
		return diff > floatEpsilon*scale
	}
	return a != b
}
