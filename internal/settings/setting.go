package settings

import (
	"math"
	"sync/atomic"
)

// Type is the fixed data type of a settings entry.
type Type int

// Entry types. The values are part of the registry's public contract and
// are reported by Registry.Type.
const (
	// NoType is reported for keys that have never been registered or set.
	NoType Type = iota - 1
	// NumType is a double-precision floating point entry.
	NumType
	// IntType is a 64-bit integer entry.
	IntType
	// StrType is a string entry.
	StrType
	// SetType is a fixed, enumerable collection of strings.
	SetType
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case NumType:
		return "num"
	case IntType:
		return "int"
	case StrType:
		return "str"
	case SetType:
		return "set"
	default:
		return "none"
	}
}

// Hint is a bitmask of semantic metadata attached to an entry.
//
// Numeric and string entries use separate hint spaces; HintFilename and
// HintOptionList are only meaningful on string entries and reuse low bit
// values.
type Hint int

// Numeric hints.
const (
	// HintBoundedBelow marks the lower bound as meaningful (inclusive).
	HintBoundedBelow Hint = 0x1
	// HintBoundedAbove marks the upper bound as meaningful (inclusive).
	HintBoundedAbove Hint = 0x2
	// HintToggled marks the entry as a boolean toggle (0 off, nonzero on).
	HintToggled Hint = 0x4
	// HintSampleRate marks bounds as multiples of the engine sample rate.
	HintSampleRate Hint = 0x8
	// HintLogarithmic suggests a logarithmic scale for display.
	HintLogarithmic Hint = 0x10
	// HintIntegerStep suggests a stepped integer control.
	HintIntegerStep Hint = 0x20
)

// String hints (separate bit space).
const (
	// HintFilename marks the value as a file path.
	HintFilename Hint = 0x01
	// HintOptionList marks the value as one of an enumerable candidate set.
	HintOptionList Hint = 0x02
)

// Update callbacks, invoked synchronously after a successful write to an
// entry registered with one. An entry with an update callback is considered
// realtime-safe: the callback is how value changes reach the audio context.
type (
	// NumUpdateFunc receives the new value of a numeric entry.
	NumUpdateFunc func(name string, value float64)
	// IntUpdateFunc receives the new value of an integer entry.
	IntUpdateFunc func(name string, value int64)
	// StrUpdateFunc receives the new value of a string entry.
	StrUpdateFunc func(name string, value string)
)

// entry is a single typed settings slot. The typ tag is fixed at creation;
// only the current value mutates afterward. Scalar values are stored
// atomically so concurrent readers never observe a torn write.
type entry struct {
	typ   Type
	hints Hint

	numVal atomic.Uint64 // math.Float64bits of the current value
	numDef float64
	numMin float64
	numMax float64
	numFn  NumUpdateFunc

	intVal atomic.Int64
	intDef int64
	intMin int64
	intMax int64
	intFn  IntUpdateFunc

	strVal  atomic.Pointer[string]
	strDef  string
	options []string
	strFn   StrUpdateFunc

	members []string
}

func newNumEntry(def, min, max float64, hints Hint, fn NumUpdateFunc) *entry {
	e := &entry{
		typ:    NumType,
		hints:  hints,
		numDef: def,
		numMin: min,
		numMax: max,
		numFn:  fn,
	}
	e.numVal.Store(math.Float64bits(def))
	return e
}

func newIntEntry(def, min, max int64, hints Hint, fn IntUpdateFunc) *entry {
	e := &entry{
		typ:    IntType,
		hints:  hints,
		intDef: def,
		intMin: min,
		intMax: max,
		intFn:  fn,
	}
	e.intVal.Store(def)
	return e
}

func newStrEntry(def string, hints Hint, fn StrUpdateFunc) *entry {
	e := &entry{
		typ:    StrType,
		hints:  hints,
		strDef: def,
		strFn:  fn,
	}
	e.strVal.Store(&def)
	return e
}

func newSetEntry(members []string) *entry {
	m := make([]string, len(members))
	copy(m, members)
	return &entry{typ: SetType, members: m}
}

// num returns the current value of a numeric entry.
func (e *entry) num() float64 {
	return math.Float64frombits(e.numVal.Load())
}

// str returns the current value of a string entry.
func (e *entry) str() string {
	return *e.strVal.Load()
}

// checkNum validates a numeric write against the active bounds.
func (e *entry) checkNum(v float64) bool {
	if e.hints&HintBoundedBelow != 0 && v < e.numMin {
		return false
	}
	if e.hints&HintBoundedAbove != 0 && v > e.numMax {
		return false
	}
	return true
}

// checkInt validates an integer write against the active bounds.
func (e *entry) checkInt(v int64) bool {
	if e.hints&HintBoundedBelow != 0 && v < e.intMin {
		return false
	}
	if e.hints&HintBoundedAbove != 0 && v > e.intMax {
		return false
	}
	return true
}

// realtime reports whether the entry carries an update callback.
func (e *entry) realtime() bool {
	switch e.typ {
	case NumType:
		return e.numFn != nil
	case IntType:
		return e.intFn != nil
	case StrType:
		return e.strFn != nil
	default:
		return false
	}
}
