// Package settings provides the typed, hierarchical settings registry for
// the Cadence synthesizer.
//
// The registry maps dotted-path keys (e.g. "audio.driver") to typed entries
// holding a current value, an immutable default, optional bounds, and hint
// metadata for UI and validation. Entries are created either explicitly via
// the Register* functions or lazily on first write; once created, an entry's
// type is fixed and the entry lives for the lifetime of the registry.
//
// Scalar values are stored atomically, so a real-time audio goroutine can
// read (and, for keys registered with an update callback, write) existing
// entries without tearing and without contending on the structural lock.
// Creating new keys is a control-plane operation and must not race with
// iteration.
package settings
