// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors configuration files through fsnotify and delivers
// debounced change events. Watching the containing directory rather than
// the file itself keeps events flowing across the rename-and-replace saves
// editors perform.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned for operations on a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Operation is the type of file change.
type Operation int

const (
	// OpWrite indicates the file content changed.
	OpWrite Operation = iota
	// OpCreate indicates the file appeared.
	OpCreate
	// OpRemove indicates the file disappeared.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a debounced file change.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string
	// Op is the coalesced operation.
	Op Operation
	// Time is when the last underlying event arrived.
	Time time.Time
}

// Handler receives file change events.
type Handler func(event Event)

// Logger is the subset of the application logger the watcher needs.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Watcher monitors configuration files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool // watched file paths
	dirs     map[string]bool // directories added to fsnotify
	handlers []Handler
	log      Logger

	debounce time.Duration
	pending  map[string]*pendingEvent

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// pendingEvent coalesces rapid changes to one file. Remove wins over
// everything; create wins over write.
type pendingEvent struct {
	op    Operation
	at    time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch loop errors.
func WithLogger(log Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a watcher. Close must be called to release the underlying
// fsnotify resources.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		log:      nopLogger{},
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Watch starts watching a file.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// OnChange registers a handler for debounced change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = make(map[string]*pendingEvent)
	w.mu.Unlock()

	close(w.done)
	_ = w.fsw.Close()
	w.wg.Wait()
}

// loop drains fsnotify events and errors until Close.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleRaw(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.log.Warn("watcher: %v", err)
			}
		}
	}
}

// handleRaw filters directory events down to watched files and queues them
// for debounced delivery.
func (w *Watcher) handleRaw(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	if w.closed || !w.files[abs] {
		w.mu.Unlock()
		return
	}

	var op Operation
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = OpRemove
	case ev.Op&fsnotify.Create != 0:
		op = OpCreate
	case ev.Op&(fsnotify.Write|fsnotify.Chmod) != 0:
		op = OpWrite
	default:
		w.mu.Unlock()
		return
	}

	now := time.Now()
	if p, ok := w.pending[abs]; ok {
		p.at = now
		p.op = coalesce(p.op, op)
		p.timer.Reset(w.debounce)
		w.mu.Unlock()
		return
	}

	p := &pendingEvent{op: op, at: now}
	p.timer = time.AfterFunc(w.debounce, func() {
		w.flush(abs)
	})
	w.pending[abs] = p
	w.mu.Unlock()
}

// coalesce merges a new operation into a pending one.
func coalesce(old, new Operation) Operation {
	switch {
	case new == OpRemove:
		return OpRemove
	case old == OpRemove && new == OpCreate:
		// Rename-and-replace save: the file is back.
		return OpWrite
	case old == OpCreate:
		return OpCreate
	default:
		return new
	}
}

// flush delivers the pending event for path, outside the lock.
func (w *Watcher) flush(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	event := Event{Path: path, Op: p.op, Time: p.at}
	w.mu.Unlock()

	for _, handler := range handlers {
		w.call(handler, event)
	}
}

// call invokes a handler with panic recovery so one bad handler cannot
// kill event delivery.
func (w *Watcher) call(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn("watcher: handler panic: %v", r)
		}
	}()
	handler(event)
}
