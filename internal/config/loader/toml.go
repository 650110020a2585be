package loader

import (
	"bytes"
	"errors"
	"io"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fsys,
		path: path,
	}
}

// Load reads configuration from the configured path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path. A missing file is not
// an error; it returns nil, nil.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	if _, err := l.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := l.parse(data)
	if err != nil {
		return nil, l.wrapParseError(path, err)
	}
	return config, nil
}

// LoadFromReader reads configuration from a reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	config, err := l.parse(data)
	if err != nil {
		return nil, l.wrapParseError("<reader>", err)
	}
	return config, nil
}

// parse unmarshals TOML into a nested map.
func (l *TOMLLoader) parse(data []byte) (map[string]any, error) {
	config := make(map[string]any)
	dec := toml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// wrapParseError converts a go-toml decode error into a positioned
// ParseError.
func (l *TOMLLoader) wrapParseError(path string, err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		line, col := derr.Position()
		return &ParseError{
			Path:    path,
			Line:    line,
			Column:  col,
			Message: derr.Error(),
			Err:     err,
		}
	}
	return &ParseError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}
