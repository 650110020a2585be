// Package notify provides control-plane change notification for settings
// updates.
//
// Registry update callbacks are the realtime delivery mechanism; this
// package is the observer layer for everything else (UI refresh, warning
// reporting, persistence). Components subscribe globally or per key prefix
// and receive callbacks when values change or the configuration is
// reloaded.
package notify

import (
	"sync"
)

// Kind is the kind of settings change.
type Kind int

const (
	// KindSet indicates a value was written.
	KindSet Kind = iota

	// KindReload indicates the whole configuration was re-applied.
	KindReload
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change is a settings change event. Keys are never deleted, so there is no
// removal kind.
type Change struct {
	// Name is the dotted settings key. Empty for reload events.
	Name string

	// Kind is the kind of change.
	Kind Kind

	// Old is the previous value (nil when unknown).
	Old any

	// New is the value after the change.
	New any

	// Source identifies where the change came from ("file", "env",
	// "script", "api").
	Source string
}

// Observer is called when a settings change occurs.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	name     string
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages settings change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	global map[uint64]Observer
	byName map[string]map[uint64]Observer
	nextID uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables buffered asynchronous delivery. Synchronous delivery is
// the default.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		global: make(map[uint64]Observer),
		byName: make(map[string]map[uint64]Observer),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.deliverLoop()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeName registers an observer for a key or key prefix. Subscribing
// to "audio" receives changes to "audio.driver" and "audio.jack.id".
func (n *Notifier) SubscribeName(name string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.byName[name] == nil {
		n.byName[name] = make(map[uint64]Observer)
	}
	n.byName[name][id] = observer

	return &Subscription{id: id, name: name, notifier: n}
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliver(change)
}

// NotifySet is a convenience for value writes.
func (n *Notifier) NotifySet(name string, old, new any, source string) {
	n.Notify(Change{Name: name, Kind: KindSet, Old: old, New: new, Source: source})
}

// NotifyReload is a convenience for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Kind: KindReload, Source: source})
}

// Close shuts the notifier down. Safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for name, obs := range n.byName {
		delete(obs, id)
		if len(obs) == 0 {
			delete(n.byName, name)
		}
	}
}

// deliver collects matching observers under the read lock and calls them
// outside it.
func (n *Notifier) deliver(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.global {
		observers = append(observers, obs)
	}

	if change.Name != "" {
		if exact, ok := n.byName[change.Name]; ok {
			for _, obs := range exact {
				observers = append(observers, obs)
			}
		}
		for name, byName := range n.byName {
			if isPrefixKey(name, change.Name) {
				for _, obs := range byName {
					observers = append(observers, obs)
				}
			}
		}
	} else {
		// Reload reaches every keyed observer too.
		for _, byName := range n.byName {
			for _, obs := range byName {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) deliverLoop() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliver(change)
		case <-n.done:
			for {
				select {
				case change := <-n.buffer:
					n.deliver(change)
				default:
					return
				}
			}
		}
	}
}

// isPrefixKey reports whether prefix is a dotted-path ancestor of key.
func isPrefixKey(prefix, key string) bool {
	if len(prefix) >= len(key) {
		return false
	}
	if prefix == "" {
		return true
	}
	return key[:len(prefix)] == prefix && key[len(prefix)] == '.'
}

// Batch collects changes and delivers them together, for multi-key apply
// steps like a config file load.
type Batch struct {
	mu       sync.Mutex
	notifier *Notifier
	changes  []Change
}

// NewBatch creates an empty batch.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Set appends a value write to the batch.
func (b *Batch) Set(name string, old, new any, source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, Change{Name: name, Kind: KindSet, Old: old, New: new, Source: source})
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// Commit delivers all pending changes and empties the batch.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Discard empties the batch without delivering.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}
