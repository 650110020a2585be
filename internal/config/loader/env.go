package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix scanned for settings overrides.
const DefaultEnvPrefix = "CADENCE_"

// EnvLoader loads configuration from environment variables.
//
// Variables are either explicitly mapped (CADENCE_GAIN -> synth.gain) or
// converted generically: the first underscore after the prefix becomes the
// section dot and remaining underscores become dashes, so
// CADENCE_AUDIO_PERIOD_SIZE maps to audio.period-size.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
}

// NewEnvLoader creates an environment loader using DefaultEnvPrefix.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{
		prefix:  DefaultEnvPrefix,
		mapping: defaultEnvMapping(),
	}
}

// NewEnvLoaderWithPrefix creates a loader with a custom prefix (including
// the trailing underscore) and mapping.
func NewEnvLoaderWithPrefix(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// defaultEnvMapping covers the common shorthand variables that don't follow
// the generic conversion.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"CADENCE_GAIN":        "synth.gain",
		"CADENCE_SAMPLE_RATE": "synth.sample-rate",
		"CADENCE_POLYPHONY":   "synth.polyphony",
		"CADENCE_SOUNDFONT":   "synth.soundfont",
		"CADENCE_AUDIO_DRIVER": "audio.driver",
		"CADENCE_MIDI_DRIVER":  "midi.driver",
	}
}

// Load reads environment variables and returns a nested configuration map.
// Empty string values are valid values, not unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(config, path, parseEnvValue(val))
		}
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}

		setByPath(config, l.envToPath(name), parseEnvValue(value))
	}

	return config, nil
}

// AddMapping adds an explicit environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// envToPath converts CADENCE_AUDIO_PERIOD_SIZE to audio.period-size.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))

	section, rest, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}
	return section + "." + strings.ReplaceAll(rest, "_", "-")
}

// parseEnvValue parses a string into the closest settings value type:
// toggles become bools, integral strings int64, decimals float64, anything
// else stays a string.
func parseEnvValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
