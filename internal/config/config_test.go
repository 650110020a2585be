package config

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/soniclab/cadence/internal/config/loader"
	"github.com/soniclab/cadence/internal/settings"
	"github.com/soniclab/cadence/internal/settings/notify"
)

type mapFS struct {
	fstest.MapFS
}

// staticLoader serves a fixed nested map, standing in for the env loader.
type staticLoader struct {
	data map[string]any
}

func (l staticLoader) Load() (map[string]any, error) {
	return l.data, nil
}

func TestFlatten(t *testing.T) {
	nested := map[string]any{
		"synth": map[string]any{
			"gain": 0.5,
			"reverb": map[string]any{
				"active": true,
			},
		},
		"top": "value",
	}

	want := map[string]any{
		"synth.gain":          0.5,
		"synth.reverb.active": true,
		"top":                 "value",
	}

	if got := Flatten(nested); !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}

func TestManager_Load(t *testing.T) {
	fsys := mapFS{fstest.MapFS{
		"cadence.toml": &fstest.MapFile{Data: []byte(`
[synth]
gain = 0.5
polyphony = 128

[audio]
driver = "alsa"

[audio.jack]
autoconnect = true
`)},
	}}

	reg := settings.NewWithDefaults()
	m := New(reg,
		WithPath("cadence.toml"),
		WithFileLoader(loader.NewTOMLLoaderWithFS(fsys, "cadence.toml")),
		WithEnvLoader(staticLoader{map[string]any{
			"synth": map[string]any{"gain": 0.7},
		}}),
	)

	warns, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("warnings = %v, want none", warns)
	}

	// Environment overrides the file.
	if v, _ := reg.GetNum("synth.gain"); v != 0.7 {
		t.Errorf("synth.gain = %v, want 0.7 (env wins)", v)
	}
	if v, _ := reg.GetInt("synth.polyphony"); v != 128 {
		t.Errorf("synth.polyphony = %v, want 128", v)
	}
	if v, _ := reg.GetStr("audio.driver"); v != "alsa" {
		t.Errorf("audio.driver = %q, want alsa", v)
	}
	// TOML true lands on a toggle entry as 1.
	if v, _ := reg.GetInt("audio.jack.autoconnect"); v != 1 {
		t.Errorf("audio.jack.autoconnect = %v, want 1", v)
	}
}

func TestManager_Warnings(t *testing.T) {
	reg := settings.NewWithDefaults()
	m := New(reg, WithEnvLoader(staticLoader{nil}))

	warns := m.Apply(map[string]any{
		"synth.gain":      "loud",      // type mismatch
		"synth.polyphony": int64(0),    // out of range
		"audio.driver":    "jack",      // fine
		"custom.knob":     int64(7),    // unknown key, created as int
	}, "test")

	if len(warns) != 2 {
		t.Fatalf("warnings = %v, want 2", warns)
	}
	byName := map[string]error{}
	for _, w := range warns {
		byName[w.Name] = w.Err
	}
	if !errors.Is(byName["synth.gain"], settings.ErrTypeMismatch) {
		t.Errorf("synth.gain warning = %v, want type mismatch", byName["synth.gain"])
	}
	if !errors.Is(byName["synth.polyphony"], settings.ErrOutOfRange) {
		t.Errorf("synth.polyphony warning = %v, want out of range", byName["synth.polyphony"])
	}

	// Rejected values leave the previous state intact.
	if v, _ := reg.GetNum("synth.gain"); v != 0.2 {
		t.Errorf("synth.gain = %v, want default 0.2", v)
	}
	if v, _ := reg.GetInt("synth.polyphony"); v != 256 {
		t.Errorf("synth.polyphony = %v, want default 256", v)
	}

	// Unknown keys are created on first write, typed by the value.
	if got := reg.Type("custom.knob"); got != settings.IntType {
		t.Errorf("custom.knob type = %v, want IntType", got)
	}
	if v, _ := reg.GetInt("custom.knob"); v != 7 {
		t.Errorf("custom.knob = %v, want 7", v)
	}
}

func TestManager_Notifications(t *testing.T) {
	reg := settings.NewWithDefaults()
	n := notify.New()
	defer n.Close()

	var changes []notify.Change
	n.Subscribe(func(c notify.Change) { changes = append(changes, c) })

	m := New(reg, WithNotifier(n), WithEnvLoader(staticLoader{nil}))

	m.Apply(map[string]any{"synth.gain": 0.9}, "script")

	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	c := changes[0]
	if c.Name != "synth.gain" || c.Source != "script" {
		t.Errorf("change = %+v", c)
	}
	if c.Old != 0.2 || c.New != 0.9 {
		t.Errorf("change values = %v -> %v, want 0.2 -> 0.9", c.Old, c.New)
	}
}

func TestManager_IntFromWholeFloat(t *testing.T) {
	reg := settings.NewWithDefaults()
	m := New(reg, WithEnvLoader(staticLoader{nil}))

	warns := m.Apply(map[string]any{"audio.period-size": 128.0}, "test")
	if len(warns) != 0 {
		t.Fatalf("warnings = %v", warns)
	}
	if v, _ := reg.GetInt("audio.period-size"); v != 128 {
		t.Errorf("audio.period-size = %v, want 128", v)
	}

	warns = m.Apply(map[string]any{"audio.period-size": 128.5}, "test")
	if len(warns) != 1 {
		t.Errorf("fractional value on int entry should warn, got %v", warns)
	}
}
