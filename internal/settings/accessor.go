package settings

import (
	"math"
	"strconv"
)

// SetNum stores a value into a numeric entry. If the key is unknown, a new
// unbounded numeric entry is created with the value as its default. A write
// to an entry of another type fails with ErrTypeMismatch; a write outside an
// active bound fails with ErrOutOfRange. Failed writes never mutate the
// entry.
func (r *Registry) SetNum(name string, value float64) error {
	e, ok := r.lookup(name)
	if !ok {
		e = r.createNum(name, value)
	}
	if e.typ != NumType {
		return &TypeError{Name: name, Expected: e.typ, Actual: NumType}
	}
	if !e.checkNum(value) {
		return &RangeError{
			Name:  name,
			Value: formatNum(value),
			Min:   formatNum(e.numMin),
			Max:   formatNum(e.numMax),
		}
	}

	e.numVal.Store(math.Float64bits(value))
	if e.numFn != nil {
		e.numFn(name, value)
	}
	return nil
}

// GetNum returns the current value of a numeric entry. The second return is
// false if the key is unknown or of another type.
func (r *Registry) GetNum(name string) (float64, bool) {
	e, ok := r.lookup(name)
	if !ok || e.typ != NumType {
		return 0, false
	}
	return e.num(), true
}

// NumDefault returns the default of a numeric entry, or 0 if the key is
// unknown or of another type. The default is fixed at entry creation.
func (r *Registry) NumDefault(name string) float64 {
	e, ok := r.lookup(name)
	if !ok || e.typ != NumType {
		return 0
	}
	return e.numDef
}

// NumRange returns the active bounds of a numeric entry. For unknown keys,
// non-numeric keys, or unbounded sides it reports the widest representable
// bounds.
func (r *Registry) NumRange(name string) (min, max float64) {
	min, max = -math.MaxFloat64, math.MaxFloat64

	e, ok := r.lookup(name)
	if !ok || e.typ != NumType {
		return min, max
	}
	if e.hints&HintBoundedBelow != 0 {
		min = e.numMin
	}
	if e.hints&HintBoundedAbove != 0 {
		max = e.numMax
	}
	return min, max
}

// SetInt stores a value into an integer entry, with the same creation,
// type, and bounds contract as SetNum.
func (r *Registry) SetInt(name string, value int64) error {
	e, ok := r.lookup(name)
	if !ok {
		e = r.createInt(name, value)
	}
	if e.typ != IntType {
		return &TypeError{Name: name, Expected: e.typ, Actual: IntType}
	}
	if !e.checkInt(value) {
		return &RangeError{
			Name:  name,
			Value: strconv.FormatInt(value, 10),
			Min:   strconv.FormatInt(e.intMin, 10),
			Max:   strconv.FormatInt(e.intMax, 10),
		}
	}

	e.intVal.Store(value)
	if e.intFn != nil {
		e.intFn(name, value)
	}
	return nil
}

// GetInt returns the current value of an integer entry. The second return
// is false if the key is unknown or of another type.
func (r *Registry) GetInt(name string) (int64, bool) {
	e, ok := r.lookup(name)
	if !ok || e.typ != IntType {
		return 0, false
	}
	return e.intVal.Load(), true
}

// IntDefault returns the default of an integer entry, or 0 if the key is
// unknown or of another type.
func (r *Registry) IntDefault(name string) int64 {
	e, ok := r.lookup(name)
	if !ok || e.typ != IntType {
		return 0
	}
	return e.intDef
}

// IntRange returns the active bounds of an integer entry, widening to the
// full int64 range for unknown keys or unbounded sides.
func (r *Registry) IntRange(name string) (min, max int64) {
	min, max = math.MinInt64, math.MaxInt64

	e, ok := r.lookup(name)
	if !ok || e.typ != IntType {
		return min, max
	}
	if e.hints&HintBoundedBelow != 0 {
		min = e.intMin
	}
	if e.hints&HintBoundedAbove != 0 {
		max = e.intMax
	}
	return min, max
}

// SetStr stores a value into a string entry, creating an unhinted string
// entry with the value as its default if the key is unknown.
//
// Option lists are not enforced here: they describe the candidate set for
// UIs and for load-time validation, matching the behavior of the bounds-free
// string entries the audio and MIDI drivers register.
func (r *Registry) SetStr(name, value string) error {
	e, ok := r.lookup(name)
	if !ok {
		e = r.createStr(name, value)
	}
	if e.typ != StrType {
		return &TypeError{Name: name, Expected: e.typ, Actual: StrType}
	}

	v := value
	e.strVal.Store(&v)
	if e.strFn != nil {
		e.strFn(name, value)
	}
	return nil
}

// GetStr returns the current value of a string entry. The second return is
// false if the key is unknown or of another type.
func (r *Registry) GetStr(name string) (string, bool) {
	e, ok := r.lookup(name)
	if !ok || e.typ != StrType {
		return "", false
	}
	return e.str(), true
}

// StrDefault returns the default of a string entry, or "" if the key is
// unknown or of another type.
func (r *Registry) StrDefault(name string) string {
	e, ok := r.lookup(name)
	if !ok || e.typ != StrType {
		return ""
	}
	return e.strDef
}

// CopyStr copies the current value of a string entry into dst without
// allocating, for use on the real-time path. It returns the number of bytes
// copied. If dst cannot hold the whole value the copy is truncated and
// ErrBufferTooSmall is returned alongside the truncated length.
func (r *Registry) CopyStr(name string, dst []byte) (int, error) {
	e, ok := r.lookup(name)
	if !ok {
		return 0, ErrUnknownSetting
	}
	if e.typ != StrType {
		return 0, &TypeError{Name: name, Expected: e.typ, Actual: StrType}
	}

	s := e.str()
	n := copy(dst, s)
	if n < len(s) {
		return n, ErrBufferTooSmall
	}
	return n, nil
}

// DupStr returns a caller-owned copy of the current value of a string
// entry, detached from any backing storage the registry may share with
// other callers. The second return is false if the key is unknown or of
// another type.
func (r *Registry) DupStr(name string) (string, bool) {
	e, ok := r.lookup(name)
	if !ok || e.typ != StrType {
		return "", false
	}
	b := []byte(e.str())
	return string(b), true
}

// StrEqual reports whether the current value of a string entry is byte-exact
// equal to s. It is false for unknown or non-string keys.
func (r *Registry) StrEqual(name, s string) bool {
	e, ok := r.lookup(name)
	if !ok || e.typ != StrType {
		return false
	}
	return e.str() == s
}

// createNum lazily creates an unbounded numeric entry with def as both the
// default and the initial value, returning the existing entry if another
// writer got there first.
func (r *Registry) createNum(name string, def float64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		return e
	}
	e := newNumEntry(def, -math.MaxFloat64, math.MaxFloat64, 0, nil)
	r.insert(name, e)
	return e
}

func (r *Registry) createInt(name string, def int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		return e
	}
	e := newIntEntry(def, math.MinInt64, math.MaxInt64, 0, nil)
	r.insert(name, e)
	return e
}

func (r *Registry) createStr(name, def string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		return e
	}
	e := newStrEntry(def, 0, nil)
	r.insert(name, e)
	return e
}

// formatNum formats a float for error messages without exponent noise for
// common values.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
