package settings

import "sort"

// EntryFunc is invoked once per visited key during enumeration.
type EntryFunc func(name string, typ Type)

// OptionFunc is invoked once per visited option of a string entry.
type OptionFunc func(name, option string)

// ForEach visits every registered key exactly once in insertion order. The
// order is stable for a given registry state. The callback must not create
// new keys.
func (r *Registry) ForEach(fn EntryFunc) {
	for _, v := range r.snapshot(false) {
		fn(v.name, v.typ)
	}
}

// ForEachAlpha visits every registered key exactly once, ordered by
// byte-wise lexicographic comparison of the key strings. The order is
// deterministic and independent of insertion order.
func (r *Registry) ForEachAlpha(fn EntryFunc) {
	for _, v := range r.snapshot(true) {
		fn(v.name, v.typ)
	}
}

// ForEachOption visits the option list of a string entry carrying
// HintOptionList, in the order the options were added. It visits nothing
// for unknown keys or entries without an option list.
func (r *Registry) ForEachOption(name string, fn OptionFunc) {
	for _, o := range r.optionsOf(name, false) {
		fn(name, o)
	}
}

// ForEachOptionAlpha visits the option list in byte-wise lexicographic
// order.
func (r *Registry) ForEachOptionAlpha(name string, fn OptionFunc) {
	for _, o := range r.optionsOf(name, true) {
		fn(name, o)
	}
}

// OptionCount returns the size of a string entry's option list, or 0 if the
// key is unknown or carries no option list.
func (r *Registry) OptionCount(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok || e.typ != StrType {
		return 0
	}
	return len(e.options)
}

type keyType struct {
	name string
	typ  Type
}

// snapshot copies the key set under the read lock so callbacks run without
// holding it. The sort is recomputed per call rather than cached.
func (r *Registry) snapshot(alpha bool) []keyType {
	r.mu.RLock()
	out := make([]keyType, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, keyType{name: name, typ: r.entries[name].typ})
	}
	r.mu.RUnlock()

	if alpha {
		sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	}
	return out
}

// optionsOf copies the option list of a string entry under the read lock.
func (r *Registry) optionsOf(name string, alpha bool) []string {
	r.mu.RLock()
	e, ok := r.entries[name]
	if !ok || e.typ != StrType || e.hints&HintOptionList == 0 {
		r.mu.RUnlock()
		return nil
	}
	out := make([]string, len(e.options))
	copy(out, e.options)
	r.mu.RUnlock()

	if alpha {
		sort.Strings(out)
	}
	return out
}
