package loader

import (
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("CADENCE_GAIN", "0.8")
	t.Setenv("CADENCE_AUDIO_DRIVER", "pulseaudio")
	t.Setenv("CADENCE_AUDIO_PERIOD_SIZE", "256")
	t.Setenv("CADENCE_SYNTH_REVERB_ACTIVE", "off")
	t.Setenv("UNRELATED_VAR", "ignored")

	config, err := NewEnvLoader().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	synth, _ := config["synth"].(map[string]any)
	if synth == nil {
		t.Fatalf("synth section missing: %v", config)
	}
	// Mapped shorthand variable.
	if synth["gain"] != 0.8 {
		t.Errorf("gain = %v, want 0.8", synth["gain"])
	}
	// Generic conversion keeps remaining underscores as dashes.
	if synth["reverb-active"] != false {
		t.Errorf("reverb-active = %v, want false", synth["reverb-active"])
	}

	audio := config["audio"].(map[string]any)
	if audio["driver"] != "pulseaudio" {
		t.Errorf("driver = %v, want pulseaudio", audio["driver"])
	}
	if audio["period-size"] != int64(256) {
		t.Errorf("period-size = %v (%T), want int64 256", audio["period-size"], audio["period-size"])
	}

	if _, ok := config["unrelated"]; ok {
		t.Error("unprefixed variable leaked into config")
	}
}

func TestEnvLoader_EnvToPath(t *testing.T) {
	l := NewEnvLoader()

	tests := []struct {
		env  string
		want string
	}{
		{"CADENCE_AUDIO_DRIVER", "audio.driver"},
		{"CADENCE_AUDIO_PERIOD_SIZE", "audio.period-size"},
		{"CADENCE_SYNTH_GAIN", "synth.gain"},
		{"CADENCE_LASH_ENABLE", "lash.enable"},
	}

	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%s) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"0.5", 0.5},
		{"jack", "jack"},
		{"", ""},
		{"1", int64(1)}, // numeric toggles stay integers
	}

	for _, tt := range tests {
		if got := parseEnvValue(tt.in); got != tt.want {
			t.Errorf("parseEnvValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	t.Setenv("CADENCE_SF", "/usr/share/sounds/sf2/default.sf2")

	l := NewEnvLoader()
	l.AddMapping("CADENCE_SF", "synth.soundfont")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	synth := config["synth"].(map[string]any)
	if synth["soundfont"] != "/usr/share/sounds/sf2/default.sf2" {
		t.Errorf("soundfont = %v", synth["soundfont"])
	}
}
