// Package app wires the settings registry, configuration manager, and
// script runner into a running application.
package app

import (
	"fmt"
	"io"

	"github.com/soniclab/cadence/internal/config"
	"github.com/soniclab/cadence/internal/script"
	"github.com/soniclab/cadence/internal/settings"
	"github.com/soniclab/cadence/internal/settings/notify"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is the path to the TOML configuration file. Empty means no
	// file is loaded.
	ConfigPath string
	// ScriptPath is the path to a Lua init script run after configuration
	// loading. Empty means no script is run.
	ScriptPath string
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string
	// Watch enables live reloading when the config file changes.
	Watch bool
	// LogOutput overrides the log destination. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application owns the settings registry and its configuration pipeline.
type Application struct {
	logger   *Logger
	registry *settings.Registry
	notifier *notify.Notifier
	manager  *config.Manager
}

// New creates and initializes the application: registers the built-in
// settings, loads configuration from file and environment, runs the init
// script, and optionally starts the config file watcher.
func New(opts Options) (*Application, error) {
	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(opts.LogLevel),
		Output: opts.LogOutput,
		Prefix: "cadence",
	})

	registry := settings.NewWithDefaults()
	notifier := notify.New()

	manager := config.New(registry,
		config.WithPath(opts.ConfigPath),
		config.WithLogger(logger),
		config.WithNotifier(notifier),
	)

	application := &Application{
		logger:   logger,
		registry: registry,
		notifier: notifier,
		manager:  manager,
	}

	warns, err := manager.Load()
	if err != nil {
		application.Shutdown()
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Debug("configuration loaded with %d warnings", len(warns))

	if opts.ScriptPath != "" {
		if err := application.runScript(opts.ScriptPath); err != nil {
			application.Shutdown()
			return nil, err
		}
	}

	if opts.Watch {
		if opts.ConfigPath == "" {
			application.Shutdown()
			return nil, fmt.Errorf("watch requires a configuration file path")
		}
		if err := manager.StartWatch(); err != nil {
			application.Shutdown()
			return nil, fmt.Errorf("start config watcher: %w", err)
		}
		logger.Info("watching %s for changes", opts.ConfigPath)
	}

	return application, nil
}

// runScript executes the init script against the registry.
func (app *Application) runScript(path string) error {
	runner := script.New(app.registry)
	defer runner.Close()

	if err := runner.RunFile(path); err != nil {
		return fmt.Errorf("init script: %w", err)
	}
	app.logger.Debug("init script %s completed", path)
	return nil
}

// Registry returns the settings registry.
func (app *Application) Registry() *settings.Registry {
	return app.registry
}

// Config returns the configuration manager.
func (app *Application) Config() *config.Manager {
	return app.manager
}

// Notifier returns the change notifier.
func (app *Application) Notifier() *notify.Notifier {
	return app.notifier
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Shutdown stops the watcher and the notifier. Safe to call more than once.
func (app *Application) Shutdown() {
	if app.manager != nil {
		app.manager.Close()
	}
	if app.notifier != nil {
		app.notifier.Close()
	}
}
