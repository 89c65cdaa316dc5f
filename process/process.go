// Package process gives a scheduled activation a stable identity.
//
// Go has no address-of-member-function, so an activation is represented
// as a plain closure and identified by a Key combining the owning
// object's pointer identity with a caller-supplied tag unique per
// callback registered on that object. The Registry memoises
// (owner, tag) -> ProcessInfo so repeated registrations of the same
// activation return the same ProcessInfo instance, which is what lets
// dedup-by-key work in the event queue and in subscriber sets.
package process

import (
	"fmt"
	"reflect"
	"sync"
)

// Named is implemented by anything that can describe itself for
// diagnostics (modules, signals, ...).
type Named interface {
	Name() string
}

// Key is the canonical identity of a scheduled activation. Two Keys are
// equal iff they were derived from the same (owner, tag) pair.
type Key struct {
	owner uintptr
	tag   string
}

// String renders the key for diagnostics.
func (k Key) String() string {
	return fmt.Sprintf("%#x:%s", k.owner, k.tag)
}

// valid reports whether the key could plausibly have come from
// keyFor — the zero Key is never valid.
func (k Key) valid() bool {
	return k.owner != 0 || k.tag != ""
}

// keyFor derives a Key from an owner's pointer identity and a tag unique
// per registered callback on that owner.
func keyFor(owner any, tag string) (Key, error) {
	if owner == nil {
		return Key{}, fmt.Errorf("process: owner must not be nil")
	}
	v := reflect.ValueOf(owner)
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Map, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		if v.IsNil() {
			return Key{}, fmt.Errorf("process: owner must not be a nil pointer")
		}
		return Key{owner: v.Pointer(), tag: tag}, nil
	default:
		return Key{}, fmt.Errorf("process: owner of type %T has no stable pointer identity", owner)
	}
}

// Info is the identity of a scheduled activation: a stable Key, the
// zero-argument Callable to run, a weak reference to the owning object
// (for diagnostics only), and a short human-readable Name.
type Info struct {
	Key      Key
	Callable func()
	Owner    any
	Name     string
}

// Valid reports whether info has a usable key and a runnable callable.
func (info Info) Valid() bool {
	return info.Key.valid() && info.Callable != nil
}

// String renders the process for diagnostics as "owner.name".
func (info Info) String() string {
	ownerName := "(anonymous)"
	if named, ok := info.Owner.(Named); ok && named != nil {
		ownerName = named.Name()
	}
	return fmt.Sprintf("%s.%s", ownerName, info.Name)
}

// Registry memoises process identities by (owner, tag) so repeated
// lookups for the same activation return the same Info value.
type Registry struct {
	mu    sync.Mutex
	table map[Key]Info
}

// NewRegistry builds an empty process registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[Key]Info)}
}

// GetOrCreate returns the memoised Info for (owner, tag), creating it
// from callable and name on first use. callable is ignored on a cache
// hit: first registration wins, matching the producer-registration
// semantics used throughout the dependency graph.
func (r *Registry) GetOrCreate(owner any, tag, name string, callable func()) (Info, error) {
	key, err := keyFor(owner, tag)
	if err != nil {
		return Info{}, err
	}
	if callable == nil {
		return Info{}, fmt.Errorf("process: callable for %q must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if info, found := r.table[key]; found {
		return info, nil
	}
	info := Info{Key: key, Callable: callable, Owner: owner, Name: name}
	r.table[key] = info
	return info, nil
}
