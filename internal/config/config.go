// Package config ties the settings registry to its configuration sources:
// TOML files, environment overrides, and live reload.
//
// Load order is defaults < file < environment. Values that fail the
// registry's type or bounds checks are collected as warnings and skipped;
// the registry is never left half-mutated by a bad source.
package config

import (
	"fmt"
	"sync"

	"github.com/soniclab/cadence/internal/config/loader"
	"github.com/soniclab/cadence/internal/config/watcher"
	"github.com/soniclab/cadence/internal/settings"
	"github.com/soniclab/cadence/internal/settings/notify"
)

// Logger is the subset of the application logger the manager needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything; used when no logger is configured.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Warning records a configuration value that was rejected by the registry.
type Warning struct {
	// Name is the dotted settings key.
	Name string
	// Value is the rejected value.
	Value any
	// Err is the registry error (type mismatch, out of range).
	Err error
}

// String formats the warning for logging.
func (w Warning) String() string {
	return fmt.Sprintf("%s = %v rejected: %v", w.Name, w.Value, w.Err)
}

// Manager loads configuration into a settings registry and keeps it fresh.
type Manager struct {
	mu sync.Mutex

	reg      *settings.Registry
	notifier *notify.Notifier
	log      Logger

	path      string
	fileLdr   loader.FileLoader
	envLdr    loader.Loader
	fsWatcher *watcher.Watcher
}

// Option configures a Manager.
type Option func(*Manager)

// WithPath sets the configuration file path.
func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithLogger sets the warning/debug logger.
func WithLogger(log Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithNotifier sets the change notifier used for apply and reload events.
func WithNotifier(n *notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithFileLoader overrides the file loader (tests use an in-memory FS).
func WithFileLoader(l loader.FileLoader) Option {
	return func(m *Manager) { m.fileLdr = l }
}

// WithEnvLoader overrides the environment loader.
func WithEnvLoader(l loader.Loader) Option {
	return func(m *Manager) { m.envLdr = l }
}

// New creates a manager for the given registry.
func New(reg *settings.Registry, opts ...Option) *Manager {
	m := &Manager{
		reg: reg,
		log: nopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fileLdr == nil {
		m.fileLdr = loader.NewTOMLLoader(m.path)
	}
	if m.envLdr == nil {
		m.envLdr = loader.NewEnvLoader()
	}
	return m
}

// Registry returns the managed registry.
func (m *Manager) Registry() *settings.Registry {
	return m.reg
}

// Load applies the configuration file (if any) and then environment
// overrides. Rejected values are returned as warnings and logged; they do
// not abort the load.
func (m *Manager) Load() ([]Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

// Reload re-runs Load and emits a reload notification. It is the handler
// for file watch events.
func (m *Manager) Reload() ([]Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	warns, err := m.loadLocked()
	if err != nil {
		return warns, err
	}
	if m.notifier != nil {
		m.notifier.NotifyReload("file")
	}
	return warns, nil
}

func (m *Manager) loadLocked() ([]Warning, error) {
	var warnings []Warning

	if m.path != "" {
		fileCfg, err := m.fileLdr.LoadFrom(m.path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", m.path, err)
		}
		if fileCfg != nil {
			warnings = append(warnings, m.applyLocked(Flatten(fileCfg), "file")...)
		}
	}

	envCfg, err := m.envLdr.Load()
	if err != nil {
		return warnings, fmt.Errorf("load environment: %w", err)
	}
	warnings = append(warnings, m.applyLocked(Flatten(envCfg), "env")...)

	for _, w := range warnings {
		m.log.Warn("config: %s", w)
	}
	return warnings, nil
}

// Apply drives the typed setters for a flat key -> value map, tagging
// change notifications with source. It returns the rejected values.
func (m *Manager) Apply(values map[string]any, source string) []Warning {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyLocked(values, source)
}

func (m *Manager) applyLocked(values map[string]any, source string) []Warning {
	var warnings []Warning
	var batch *notify.Batch
	if m.notifier != nil {
		batch = m.notifier.NewBatch()
	}

	for name, value := range values {
		old := m.currentValue(name)
		if err := applyValue(m.reg, name, value); err != nil {
			warnings = append(warnings, Warning{Name: name, Value: value, Err: err})
			continue
		}
		if batch != nil {
			batch.Set(name, old, value, source)
		}
	}

	if batch != nil {
		batch.Commit()
	}
	return warnings
}

// currentValue fetches the value before a write, for change notifications.
func (m *Manager) currentValue(name string) any {
	switch m.reg.Type(name) {
	case settings.NumType:
		v, _ := m.reg.GetNum(name)
		return v
	case settings.IntType:
		v, _ := m.reg.GetInt(name)
		return v
	case settings.StrType:
		v, _ := m.reg.GetStr(name)
		return v
	default:
		return nil
	}
}

// applyValue coerces a loaded value onto the registry's type for the key.
// Unknown keys are created by the write itself, typed by the value.
func applyValue(reg *settings.Registry, name string, value any) error {
	switch reg.Type(name) {
	case settings.NumType:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%w: %s wants num, got %T", settings.ErrTypeMismatch, name, value)
		}
		return reg.SetNum(name, f)

	case settings.IntType:
		i, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: %s wants int, got %T", settings.ErrTypeMismatch, name, value)
		}
		return reg.SetInt(name, i)

	case settings.StrType:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants str, got %T", settings.ErrTypeMismatch, name, value)
		}
		return reg.SetStr(name, s)

	case settings.SetType:
		return fmt.Errorf("%w: %s is an enumerable set", settings.ErrTypeMismatch, name)

	default:
		// Unknown key: first write fixes the type.
		switch v := value.(type) {
		case string:
			return reg.SetStr(name, v)
		case bool:
			if v {
				return reg.SetInt(name, 1)
			}
			return reg.SetInt(name, 0)
		case int64:
			return reg.SetInt(name, v)
		case int:
			return reg.SetInt(name, int64(v))
		case float64:
			return reg.SetNum(name, v)
		case float32:
			return reg.SetNum(name, float64(v))
		default:
			return fmt.Errorf("%w: unsupported value type %T for %s", settings.ErrTypeMismatch, value, name)
		}
	}
}

// toFloat coerces TOML/env scalar types onto float64. Integers are
// acceptable for numeric entries.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// toInt coerces integers and toggles onto int64. Booleans map to 0/1 so
// TOML `true` works for HintToggled entries.
func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case float64:
		// Whole floats are accepted; TOML writers sometimes emit 64.0.
		if v == float64(int64(v)) {
			return int64(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Flatten converts a nested configuration map into dotted settings keys.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string]any, prefix string, nested map[string]any) {
	for k, v := range nested {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(flat, name, child)
			continue
		}
		flat[name] = v
	}
}

// StartWatch begins watching the configuration file and reloads on change.
// It is a no-op without a configured path.
func (m *Manager) StartWatch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" || m.fsWatcher != nil {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(m.log))
	if err != nil {
		return err
	}
	if err := w.Watch(m.path); err != nil {
		w.Close()
		return err
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			m.log.Warn("config: %s removed", ev.Path)
			return
		}
		m.log.Info("config: %s changed, reloading", ev.Path)
		if _, err := m.Reload(); err != nil {
			m.log.Error("config: reload failed: %v", err)
		}
	})

	m.fsWatcher = w
	return nil
}

// Close stops the file watcher if one is running.
func (m *Manager) Close() {
	m.mu.Lock()
	w := m.fsWatcher
	m.fsWatcher = nil
	m.mu.Unlock()

	if w != nil {
		w.Close()
	}
}
