// Package script runs Lua configuration scripts against the settings
// registry.
//
// An init script is the programmable counterpart to a config file: it can
// branch on the host environment, derive values, and register
// application-specific keys before the engine starts. The runner exposes a
// `settings` table to the script:
//
//	settings.set("synth.gain", 0.5)
//	if settings.get("audio.driver") == "jack" then
//	    settings.set("audio.jack.autoconnect", 1)
//	end
//
// A Runner owns its Lua state and is not safe for concurrent use; run
// scripts from one goroutine and Close when done.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/soniclab/cadence/internal/settings"
)

// Runner executes configuration scripts against a registry.
type Runner struct {
	reg *settings.Registry
	L   *lua.LState
}

// New creates a runner bound to the registry.
func New(reg *settings.Registry) *Runner {
	r := &Runner{
		reg: reg,
		L:   lua.NewState(),
	}
	r.register()
	return r
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

// RunFile executes a script file.
func (r *Runner) RunFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes script source.
func (r *Runner) RunString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// register installs the settings table into the Lua state.
func (r *Runner) register() {
	mod := r.L.NewTable()

	r.L.SetField(mod, "get", r.L.NewFunction(r.get))
	r.L.SetField(mod, "set", r.L.NewFunction(r.set))
	r.L.SetField(mod, "has", r.L.NewFunction(r.has))
	r.L.SetField(mod, "type", r.L.NewFunction(r.typeOf))
	r.L.SetField(mod, "default", r.L.NewFunction(r.defaultOf))
	r.L.SetField(mod, "options", r.L.NewFunction(r.options))
	r.L.SetField(mod, "foreach", r.L.NewFunction(r.foreach))

	r.L.SetGlobal("settings", mod)
}

// get returns the current value of a key, or nil for unknown keys.
func (r *Runner) get(L *lua.LState) int {
	name := L.CheckString(1)

	switch r.reg.Type(name) {
	case settings.NumType:
		v, _ := r.reg.GetNum(name)
		L.Push(lua.LNumber(v))
	case settings.IntType:
		v, _ := r.reg.GetInt(name)
		L.Push(lua.LNumber(v))
	case settings.StrType:
		v, _ := r.reg.GetStr(name)
		L.Push(lua.LString(v))
	default:
		L.Push(lua.LNil)
	}
	return 1
}

// set writes a value, dispatching on the entry's type (or, for unknown
// keys, on the Lua value). Returns true, or false plus an error message.
func (r *Runner) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.CheckAny(2)

	err := r.apply(name, value)
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (r *Runner) apply(name string, value lua.LValue) error {
	typ := r.reg.Type(name)

	switch v := value.(type) {
	case lua.LNumber:
		switch typ {
		case settings.IntType:
			return r.reg.SetInt(name, int64(v))
		case settings.StrType, settings.SetType:
			return fmt.Errorf("%w: %s is %s", settings.ErrTypeMismatch, name, typ)
		default:
			return r.reg.SetNum(name, float64(v))
		}

	case lua.LString:
		if typ != settings.StrType && typ != settings.NoType {
			return fmt.Errorf("%w: %s is %s", settings.ErrTypeMismatch, name, typ)
		}
		return r.reg.SetStr(name, string(v))

	case lua.LBool:
		// Toggles are integer entries.
		if typ != settings.IntType && typ != settings.NoType {
			return fmt.Errorf("%w: %s is %s", settings.ErrTypeMismatch, name, typ)
		}
		if v {
			return r.reg.SetInt(name, 1)
		}
		return r.reg.SetInt(name, 0)

	default:
		return fmt.Errorf("unsupported value type %s for %s", value.Type(), name)
	}
}

// has reports whether a key is registered.
func (r *Runner) has(L *lua.LState) int {
	name := L.CheckString(1)
	L.Push(lua.LBool(r.reg.Has(name)))
	return 1
}

// typeOf returns the type name of a key, or nil for unknown keys.
func (r *Runner) typeOf(L *lua.LState) int {
	name := L.CheckString(1)

	typ := r.reg.Type(name)
	if typ == settings.NoType {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(typ.String()))
	return 1
}

// defaultOf returns the default value of a key, or nil for unknown keys.
func (r *Runner) defaultOf(L *lua.LState) int {
	name := L.CheckString(1)

	switch r.reg.Type(name) {
	case settings.NumType:
		L.Push(lua.LNumber(r.reg.NumDefault(name)))
	case settings.IntType:
		L.Push(lua.LNumber(r.reg.IntDefault(name)))
	case settings.StrType:
		L.Push(lua.LString(r.reg.StrDefault(name)))
	default:
		L.Push(lua.LNil)
	}
	return 1
}

// options returns the option list of a string key as an array table,
// alphabetically ordered.
func (r *Runner) options(L *lua.LState) int {
	name := L.CheckString(1)

	tbl := L.NewTable()
	r.reg.ForEachOptionAlpha(name, func(_, option string) {
		tbl.Append(lua.LString(option))
	})
	L.Push(tbl)
	return 1
}

// foreach calls fn(name, type) for every key in alphabetical order. The
// callback must not register new keys.
func (r *Runner) foreach(L *lua.LState) int {
	fn := L.CheckFunction(1)

	var callErr error
	r.reg.ForEachAlpha(func(name string, typ settings.Type) {
		if callErr != nil {
			return
		}
		callErr = L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			lua.LString(name), lua.LString(typ.String()))
	})

	if callErr != nil {
		L.RaiseError("foreach: %v", callErr)
	}
	return 0
}
