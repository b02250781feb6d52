package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a file whose extension is neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("common: unsupported file format")

// Unmarshal decodes data into v, choosing TOML or YAML by the extension of name.
//
// Parameters:
//   - name: a file name whose extension selects the format (.toml, .yaml, .yml)
//   - data: the encoded document
//   - v: pointer to the destination value
//
// Returns:
//   - error: ErrUnsupportedFormat or the decoder's error
func Unmarshal(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return toml.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// UnmarshalFile reads a TOML or YAML file into v.
//
// Parameters:
//   - path: the file path
//   - v: pointer to the destination value
//
// Returns:
//   - error: the read or decode error, wrapped with the path
func UnmarshalFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Unmarshal(path, data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
