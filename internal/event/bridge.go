package event

import "github.com/soniclab/cadence/internal/settings"

// Bridge funnels settings update callbacks into a Queue. Keys bound through
// a bridge become realtime-safe: control-plane writes enqueue the new value
// and the audio goroutine drains it at block boundaries.
//
// The registry invokes update callbacks synchronously on the writer's
// goroutine, so all bound keys share the bridge's single producer side as
// long as settings writes stay on one control goroutine.
type Bridge struct {
	queue *Queue
}

// NewBridge creates a bridge with a queue of the given capacity.
func NewBridge(capacity int) *Bridge {
	return &Bridge{queue: NewQueue(capacity)}
}

// Queue returns the underlying queue for the consumer side.
func (b *Bridge) Queue() *Queue {
	return b.queue
}

// NumFunc returns an update callback that enqueues numeric changes.
func (b *Bridge) NumFunc() settings.NumUpdateFunc {
	return func(name string, value float64) {
		b.queue.Push(Param{Name: name, Kind: KindNum, Float: value})
	}
}

// IntFunc returns an update callback that enqueues integer changes.
func (b *Bridge) IntFunc() settings.IntUpdateFunc {
	return func(name string, value int64) {
		b.queue.Push(Param{Name: name, Kind: KindInt, Int: value})
	}
}

// StrFunc returns an update callback that enqueues string changes.
func (b *Bridge) StrFunc() settings.StrUpdateFunc {
	return func(name string, value string) {
		b.queue.Push(Param{Name: name, Kind: KindStr, Str: value})
	}
}

// BindNum registers a realtime numeric entry wired to the bridge.
func (b *Bridge) BindNum(reg *settings.Registry, name string, def, min, max float64, hints settings.Hint) error {
	return reg.RegisterNum(name, def, min, max, hints, b.NumFunc())
}

// BindInt registers a realtime integer entry wired to the bridge.
func (b *Bridge) BindInt(reg *settings.Registry, name string, def, min, max int64, hints settings.Hint) error {
	return reg.RegisterInt(name, def, min, max, hints, b.IntFunc())
}

// BindStr registers a realtime string entry wired to the bridge.
func (b *Bridge) BindStr(reg *settings.Registry, name, def string, hints settings.Hint) error {
	return reg.RegisterStr(name, def, hints, b.StrFunc())
}

// Drain delivers all pending changes to fn and returns the count. Called
// from the audio goroutine.
func (b *Bridge) Drain(fn func(Param)) int {
	return b.queue.Drain(fn)
}
