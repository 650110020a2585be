package settings

// RegisterDefaults registers the built-in Cadence settings: the synthesizer
// core keys plus the keys consumed by the audio and MIDI driver layers.
// Toggles are integer entries bounded to [0, 1] with HintToggled.
func (r *Registry) RegisterDefaults() {
	// Synthesizer core
	r.MustRegisterNum("synth.gain", 0.2, 0.0, 10.0, HintLogarithmic, nil)
	r.MustRegisterNum("synth.sample-rate", 44100.0, 22050.0, 96000.0, 0, nil)
	r.MustRegisterInt("synth.polyphony", 256, 1, 65535, 0, nil)
	r.MustRegisterInt("synth.midi-channels", 16, 16, 256, 0, nil)
	r.MustRegisterInt("synth.audio-channels", 1, 1, 128, 0, nil)
	r.MustRegisterInt("synth.audio-groups", 1, 1, 128, 0, nil)
	r.MustRegisterInt("synth.effects-channels", 2, 2, 2, 0, nil)
	r.MustRegisterInt("synth.min-note-length", 10, 0, 65535, 0, nil)
	r.MustRegisterInt("synth.verbose", 0, 0, 1, HintToggled, nil)
	r.MustRegisterInt("synth.dump", 0, 0, 1, HintToggled, nil)
	r.MustRegisterInt("synth.reverb.active", 1, 0, 1, HintToggled, nil)
	r.MustRegisterInt("synth.chorus.active", 1, 0, 1, HintToggled, nil)
	r.MustRegisterInt("synth.ladspa.active", 0, 0, 1, HintToggled, nil)
	r.MustRegisterStr("synth.soundfont", "", HintFilename, nil)

	// Audio driver layer
	r.MustRegisterStr("audio.driver", "jack", 0, nil)
	for _, d := range audioDrivers {
		_ = r.AddOption("audio.driver", d)
	}
	r.MustRegisterInt("audio.periods", 16, 2, 64, 0, nil)
	r.MustRegisterInt("audio.period-size", 64, 64, 8192, 0, nil)
	r.MustRegisterInt("audio.realtime-prio", 60, 0, 99, 0, nil)
	r.MustRegisterStr("audio.sample-format", "16bits", 0, nil)
	_ = r.AddOption("audio.sample-format", "16bits")
	_ = r.AddOption("audio.sample-format", "float")

	// File renderer
	r.MustRegisterStr("audio.file.name", "cadence.wav", HintFilename, nil)
	r.MustRegisterStr("audio.file.type", "auto", 0, nil)
	for _, t := range []string{"auto", "wav", "aiff", "au", "flac", "raw"} {
		_ = r.AddOption("audio.file.type", t)
	}
	r.MustRegisterStr("audio.file.format", "s16", 0, nil)
	for _, f := range []string{"s8", "s16", "s24", "s32", "float", "double"} {
		_ = r.AddOption("audio.file.format", f)
	}
	r.MustRegisterStr("audio.file.endian", "auto", 0, nil)
	for _, e := range []string{"auto", "little", "big", "cpu"} {
		_ = r.AddOption("audio.file.endian", e)
	}

	// JACK driver
	r.MustRegisterStr("audio.jack.id", "cadence", 0, nil)
	r.MustRegisterStr("audio.jack.server", "", 0, nil)
	r.MustRegisterInt("audio.jack.multi", 0, 0, 1, HintToggled, nil)
	r.MustRegisterInt("audio.jack.autoconnect", 0, 0, 1, HintToggled, nil)

	// MIDI driver layer
	r.MustRegisterStr("midi.driver", "alsa_seq", 0, nil)
	for _, d := range midiDrivers {
		_ = r.AddOption("midi.driver", d)
	}
	r.MustRegisterInt("midi.realtime-prio", 50, 0, 99, 0, nil)
	r.MustRegisterStr("midi.alsa.device", "default", 0, nil)
	r.MustRegisterStr("midi.portname", "", 0, nil)

	// Session support
	r.MustRegisterInt("lash.enable", 0, 0, 1, HintToggled, nil)

	// Enumerable driver collections, for hosts that list capabilities
	// rather than walking the option lists.
	_ = r.RegisterSet("audio.drivers", audioDrivers)
	_ = r.RegisterSet("midi.drivers", midiDrivers)
}

var (
	audioDrivers = []string{"jack", "alsa", "oss", "pulseaudio", "file"}
	midiDrivers  = []string{"alsa_seq", "alsa_raw", "oss", "jack"}
)
