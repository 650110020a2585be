package settings

import "testing"

func TestDefaults_CoreKeys(t *testing.T) {
	r := NewWithDefaults()

	tests := []struct {
		name string
		typ  Type
	}{
		{"synth.gain", NumType},
		{"synth.sample-rate", NumType},
		{"synth.polyphony", IntType},
		{"synth.soundfont", StrType},
		{"audio.driver", StrType},
		{"audio.period-size", IntType},
		{"audio.file.name", StrType},
		{"midi.driver", StrType},
		{"audio.drivers", SetType},
	}

	for _, tt := range tests {
		if got := r.Type(tt.name); got != tt.typ {
			t.Errorf("Type(%s) = %v, want %v", tt.name, got, tt.typ)
		}
	}
}

func TestDefaults_GainBounds(t *testing.T) {
	r := NewWithDefaults()

	if v, ok := r.GetNum("synth.gain"); !ok || v != 0.2 {
		t.Errorf("synth.gain = %v, %v, want 0.2", v, ok)
	}
	if min, max := r.NumRange("synth.gain"); min != 0 || max != 10 {
		t.Errorf("synth.gain range = (%v, %v), want (0, 10)", min, max)
	}
	if r.Hints("synth.gain")&HintLogarithmic == 0 {
		t.Error("synth.gain should carry HintLogarithmic")
	}

	if err := r.SetNum("synth.gain", 11); err == nil {
		t.Error("expected out-of-range rejection for gain 11")
	}
}

func TestDefaults_Toggles(t *testing.T) {
	r := NewWithDefaults()

	for _, name := range []string{"synth.verbose", "audio.jack.multi", "lash.enable"} {
		if r.Hints(name)&HintToggled == 0 {
			t.Errorf("%s should carry HintToggled", name)
		}
		if min, max := r.IntRange(name); min != 0 || max != 1 {
			t.Errorf("%s range = (%d, %d), want (0, 1)", name, min, max)
		}
	}
}

func TestDefaults_DriverOptions(t *testing.T) {
	r := NewWithDefaults()

	if r.Hints("audio.driver")&HintOptionList == 0 {
		t.Error("audio.driver should carry HintOptionList")
	}
	if got := r.OptionCount("audio.driver"); got != len(audioDrivers) {
		t.Errorf("audio.driver options = %d, want %d", got, len(audioDrivers))
	}

	found := false
	r.ForEachOption("audio.driver", func(name, option string) {
		if option == "file" {
			found = true
		}
	})
	if !found {
		t.Error("audio.driver options should include file")
	}

	members, ok := r.Members("midi.drivers")
	if !ok || len(members) != len(midiDrivers) {
		t.Errorf("midi.drivers members = %v, %v", members, ok)
	}
}
