package settings

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterNum(t *testing.T) {
	r := New()

	if err := r.RegisterNum("synth.gain", 0.2, 0, 10, 0, nil); err != nil {
		t.Fatalf("RegisterNum failed: %v", err)
	}

	if got := r.Type("synth.gain"); got != NumType {
		t.Errorf("Type = %v, want NumType", got)
	}

	// Bounds hints are implied by registration.
	hints := r.Hints("synth.gain")
	if hints&HintBoundedBelow == 0 || hints&HintBoundedAbove == 0 {
		t.Errorf("Hints = %#x, want bounded below and above", hints)
	}

	// Duplicate registration fails.
	err := r.RegisterNum("synth.gain", 0.5, 0, 1, 0, nil)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("duplicate RegisterNum = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegistry_RegisterNum_InvalidRange(t *testing.T) {
	r := New()

	tests := []struct {
		name          string
		def, min, max float64
	}{
		{"inverted", 0, 10, 0},
		{"default below", -1, 0, 10},
		{"default above", 11, 0, 10},
	}

	for _, tt := range tests {
		err := r.RegisterNum("k."+tt.name, tt.def, tt.min, tt.max, 0, nil)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s: err = %v, want ErrInvalidRange", tt.name, err)
		}
	}
}

func TestRegistry_TypeImmutability(t *testing.T) {
	r := New()

	if err := r.SetNum("k", 1.0); err != nil {
		t.Fatalf("SetNum failed: %v", err)
	}

	// A write with another type fails and leaves the entry unchanged.
	if err := r.SetStr("k", "x"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetStr on num entry = %v, want ErrTypeMismatch", err)
	}
	if err := r.SetInt("k", 2); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetInt on num entry = %v, want ErrTypeMismatch", err)
	}

	if v, ok := r.GetNum("k"); !ok || v != 1.0 {
		t.Errorf("GetNum = %v, %v, want 1.0, true", v, ok)
	}

	// Explicit registration over an existing key also fails.
	if err := r.RegisterStr("k", "x", 0, nil); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("RegisterStr over num entry = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegistry_UnknownKey(t *testing.T) {
	r := New()

	if got := r.Type("never.set"); got != NoType {
		t.Errorf("Type = %v, want NoType", got)
	}
	if got := r.Hints("never.set"); got != 0 {
		t.Errorf("Hints = %#x, want 0", got)
	}
	if r.Has("never.set") {
		t.Error("Has = true for unknown key")
	}
	if r.IsRealtime("never.set") {
		t.Error("IsRealtime = true for unknown key")
	}
	if _, ok := r.GetNum("never.set"); ok {
		t.Error("GetNum ok for unknown key")
	}
	if _, ok := r.GetInt("never.set"); ok {
		t.Error("GetInt ok for unknown key")
	}
	if _, ok := r.GetStr("never.set"); ok {
		t.Error("GetStr ok for unknown key")
	}
}

func TestRegistry_IsRealtime(t *testing.T) {
	r := New()

	r.MustRegisterNum("synth.gain", 0.2, 0, 10, 0, func(name string, v float64) {})
	r.MustRegisterNum("synth.sample-rate", 44100, 22050, 96000, 0, nil)

	if !r.IsRealtime("synth.gain") {
		t.Error("entry with update callback should be realtime")
	}
	if r.IsRealtime("synth.sample-rate") {
		t.Error("entry without update callback should not be realtime")
	}
}

func TestRegistry_UpdateCallback(t *testing.T) {
	r := New()

	var gotName string
	var gotVal int64
	r.MustRegisterInt("synth.polyphony", 256, 1, 65535, 0, func(name string, v int64) {
		gotName = name
		gotVal = v
	})

	if err := r.SetInt("synth.polyphony", 64); err != nil {
		t.Fatalf("SetInt failed: %v", err)
	}
	if gotName != "synth.polyphony" || gotVal != 64 {
		t.Errorf("callback got (%q, %d), want (synth.polyphony, 64)", gotName, gotVal)
	}

	// Rejected writes do not fire the callback.
	gotVal = 0
	if err := r.SetInt("synth.polyphony", 0); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if gotVal != 0 {
		t.Errorf("callback fired for rejected write, got %d", gotVal)
	}
}

func TestRegistry_AddOption(t *testing.T) {
	r := New()
	r.MustRegisterStr("audio.driver", "jack", 0, nil)

	for _, o := range []string{"jack", "alsa", "pulse", "alsa"} {
		if err := r.AddOption("audio.driver", o); err != nil {
			t.Fatalf("AddOption(%q) failed: %v", o, err)
		}
	}

	// Duplicates ignored.
	if got := r.OptionCount("audio.driver"); got != 3 {
		t.Errorf("OptionCount = %d, want 3", got)
	}
	if r.Hints("audio.driver")&HintOptionList == 0 {
		t.Error("AddOption should imply HintOptionList")
	}

	// Unknown and non-string keys are rejected.
	if err := r.AddOption("never.set", "x"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("AddOption unknown = %v, want ErrUnknownSetting", err)
	}
	r.MustRegisterInt("audio.periods", 16, 2, 64, 0, nil)
	if err := r.AddOption("audio.periods", "x"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AddOption on int = %v, want ErrTypeMismatch", err)
	}
}

func TestRegistry_RegisterSet(t *testing.T) {
	r := New()

	src := []string{"jack", "alsa"}
	if err := r.RegisterSet("audio.drivers", src); err != nil {
		t.Fatalf("RegisterSet failed: %v", err)
	}
	src[0] = "mutated" // registry keeps its own copy

	if got := r.Type("audio.drivers"); got != SetType {
		t.Errorf("Type = %v, want SetType", got)
	}

	members, ok := r.Members("audio.drivers")
	if !ok {
		t.Fatal("Members not ok")
	}
	if len(members) != 2 || members[0] != "jack" || members[1] != "alsa" {
		t.Errorf("Members = %v, want [jack alsa]", members)
	}

	if _, ok := r.Members("never.set"); ok {
		t.Error("Members ok for unknown key")
	}
}

func TestRegistry_Len(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	r.MustRegisterStr("a", "", 0, nil)
	r.MustRegisterStr("b", "", 0, nil)
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}
