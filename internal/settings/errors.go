package settings

import (
	"errors"
	"fmt"
)

// Errors returned by registry operations.
var (
	// ErrUnknownSetting indicates the key has never been registered or set.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates an access with a type different from the
	// entry's fixed type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange indicates a write outside a bounded entry's [min, max].
	ErrOutOfRange = errors.New("value out of range")

	// ErrAlreadyRegistered indicates a duplicate explicit registration.
	ErrAlreadyRegistered = errors.New("setting already registered")

	// ErrBufferTooSmall indicates a bounded string copy was truncated.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrInvalidRange indicates a registration where min > max or the
	// default falls outside [min, max].
	ErrInvalidRange = errors.New("invalid range")
)

// TypeError describes a type mismatch on a specific key.
type TypeError struct {
	// Name is the setting key.
	Name string
	// Expected is the entry's fixed type.
	Expected Type
	// Actual is the type of the attempted access.
	Actual Type
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch for %s: entry is %s, access is %s", e.Name, e.Expected, e.Actual)
}

// Is matches TypeError against ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// RangeError describes an out-of-range write on a bounded entry.
type RangeError struct {
	// Name is the setting key.
	Name string
	// Value is the rejected value, formatted for the entry's type.
	Value string
	// Min and Max are the active bounds, formatted for the entry's type.
	Min, Max string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s for %s outside range [%s, %s]", e.Value, e.Name, e.Min, e.Max)
}

// Is matches RangeError against ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
