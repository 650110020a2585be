package settings

import (
	"fmt"
	"sync"
)

// Registry maintains all settings entries and provides type-safe access to
// their values. A Registry is safe for concurrent use; creating new keys is
// expected to happen on the control plane before real-time access begins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // insertion order, for stable ForEach traversal
}

// New creates a new empty settings registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// NewWithDefaults creates a registry populated with the built-in Cadence
// settings.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	return r
}

// Type returns the fixed type of the entry at name, or NoType if the key is
// unknown. It never creates an entry.
func (r *Registry) Type(name string) Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e.typ
	}
	return NoType
}

// Hints returns the hint bitmask of the entry at name, or 0 if the key is
// unknown.
func (r *Registry) Hints(name string) Hint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e.hints
	}
	return 0
}

// IsRealtime reports whether the entry at name was registered with an update
// callback and may therefore be written from a deadline-bound context.
func (r *Registry) IsRealtime(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e.realtime()
	}
	return false
}

// Has reports whether the key is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// RegisterNum registers a numeric entry with a default value, inclusive
// bounds, and hints. The bounds hints are implied and need not be passed.
// The optional update callback marks the entry realtime-safe and is invoked
// after every successful write.
func (r *Registry) RegisterNum(name string, def, min, max float64, hints Hint, fn NumUpdateFunc) error {
	if min > max || def < min || def > max {
		return fmt.Errorf("%w: %s default %v bounds [%v, %v]", ErrInvalidRange, name, def, min, max)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.insert(name, newNumEntry(def, min, max, hints|HintBoundedBelow|HintBoundedAbove, fn))
	return nil
}

// RegisterInt registers an integer entry with a default value, inclusive
// bounds, and hints. The bounds hints are implied and need not be passed.
func (r *Registry) RegisterInt(name string, def, min, max int64, hints Hint, fn IntUpdateFunc) error {
	if min > max || def < min || def > max {
		return fmt.Errorf("%w: %s default %v bounds [%v, %v]", ErrInvalidRange, name, def, min, max)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.insert(name, newIntEntry(def, min, max, hints|HintBoundedBelow|HintBoundedAbove, fn))
	return nil
}

// RegisterStr registers a string entry with a default value and hints.
func (r *Registry) RegisterStr(name, def string, hints Hint, fn StrUpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.insert(name, newStrEntry(def, hints, fn))
	return nil
}

// RegisterSet registers a key representing a fixed, enumerable collection of
// strings rather than a scalar value.
func (r *Registry) RegisterSet(name string, members []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.insert(name, newSetEntry(members))
	return nil
}

// MustRegisterNum registers a numeric entry and panics on error. Intended
// for built-in registrations at startup.
func (r *Registry) MustRegisterNum(name string, def, min, max float64, hints Hint, fn NumUpdateFunc) {
	if err := r.RegisterNum(name, def, min, max, hints, fn); err != nil {
		panic(err)
	}
}

// MustRegisterInt registers an integer entry and panics on error.
func (r *Registry) MustRegisterInt(name string, def, min, max int64, hints Hint, fn IntUpdateFunc) {
	if err := r.RegisterInt(name, def, min, max, hints, fn); err != nil {
		panic(err)
	}
}

// MustRegisterStr registers a string entry and panics on error.
func (r *Registry) MustRegisterStr(name, def string, hints Hint, fn StrUpdateFunc) {
	if err := r.RegisterStr(name, def, hints, fn); err != nil {
		panic(err)
	}
}

// AddOption appends a candidate value to a string entry's option list and
// marks the entry with HintOptionList. Duplicate options are ignored.
func (r *Registry) AddOption(name, option string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	if e.typ != StrType {
		return &TypeError{Name: name, Expected: e.typ, Actual: StrType}
	}

	for _, o := range e.options {
		if o == option {
			return nil
		}
	}
	e.options = append(e.options, option)
	e.hints |= HintOptionList
	return nil
}

// Members returns the collection of a SetType entry. The second return is
// false if the key is unknown or not a set.
func (r *Registry) Members(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok || e.typ != SetType {
		return nil, false
	}
	out := make([]string, len(e.members))
	copy(out, e.members)
	return out, true
}

// lookup returns the entry at name under the read lock.
func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	return e, ok
}

// insert adds an entry to the map and the insertion-order index. Callers
// must hold the write lock.
func (r *Registry) insert(name string, e *entry) {
	r.entries[name] = e
	r.order = append(r.order, name)
}
