// Package main is the entry point for the cadencecfg settings tool.
//
// cadencecfg loads the engine's settings from defaults, a TOML file, the
// environment, and an optional Lua init script, then lists the resulting
// values, checks a configuration for errors, or watches the file and
// reports live changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soniclab/cadence/internal/app"
	"github.com/soniclab/cadence/internal/settings"
	"github.com/soniclab/cadence/internal/settings/notify"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, m := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	switch {
	case m.check:
		return check(application)
	case m.options != "":
		return listOptions(application.Registry(), m.options)
	case opts.Watch && !m.list:
		return watch(application)
	default:
		return list(application.Registry())
	}
}

// mode selects what the tool does after loading.
type mode struct {
	list    bool
	check   bool
	options string
}

func parseFlags() (app.Options, mode) {
	var opts app.Options
	var m mode
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to Lua init script")
	flag.StringVar(&opts.ScriptPath, "s", "", "Path to Lua init script (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Watch the config file and report changes")
	flag.BoolVar(&m.list, "list", false, "List effective settings (default action)")
	flag.BoolVar(&m.check, "check", false, "Validate the configuration and exit")
	flag.StringVar(&m.options, "options", "", "List the allowed options for a settings key")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cadencecfg - inspect and validate engine settings\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cadencecfg [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cadencecfg                          List effective settings\n")
		fmt.Fprintf(os.Stderr, "  cadencecfg -c cadence.toml -check   Validate a config file\n")
		fmt.Fprintf(os.Stderr, "  cadencecfg -options audio.driver    Show allowed drivers\n")
		fmt.Fprintf(os.Stderr, "  cadencecfg -c cadence.toml -watch   Report live changes\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("cadencecfg %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts, m
}

// list prints every setting alphabetically with its type, value, and
// default.
func list(reg *settings.Registry) int {
	reg.ForEachAlpha(func(name string, typ settings.Type) {
		switch typ {
		case settings.NumType:
			v, _ := reg.GetNum(name)
			fmt.Printf("%-28s %-4s %v (default %v)\n", name, typ, v, reg.NumDefault(name))
		case settings.IntType:
			v, _ := reg.GetInt(name)
			fmt.Printf("%-28s %-4s %v (default %v)\n", name, typ, v, reg.IntDefault(name))
		case settings.StrType:
			v, _ := reg.GetStr(name)
			fmt.Printf("%-28s %-4s %q (default %q)\n", name, typ, v, reg.StrDefault(name))
		case settings.SetType:
			members, _ := reg.Members(name)
			fmt.Printf("%-28s %-4s %v\n", name, typ, members)
		}
	})
	return 0
}

// listOptions prints the allowed options of one key.
func listOptions(reg *settings.Registry, name string) int {
	if !reg.Has(name) {
		fmt.Fprintf(os.Stderr, "Error: unknown setting %q\n", name)
		return 1
	}
	if reg.OptionCount(name) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %q has no option list\n", name)
		return 1
	}
	reg.ForEachOptionAlpha(name, func(_, option string) {
		fmt.Println(option)
	})
	return 0
}

// check reloads the configuration and reports warnings as errors.
func check(application *app.Application) int {
	warns, err := application.Config().Reload()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(warns) > 0 {
		for _, w := range warns {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		return 1
	}
	fmt.Println("configuration OK")
	return 0
}

// watch blocks, printing every settings change until interrupted.
func watch(application *app.Application) int {
	application.Notifier().Subscribe(func(c notify.Change) {
		if c.Kind == notify.KindReload {
			fmt.Printf("reloaded from %s\n", c.Source)
			return
		}
		fmt.Printf("%s: %v -> %v (%s)\n", c.Name, c.Old, c.New, c.Source)
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}
