package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load merges the override file onto the defaults. The format is picked by the file
// extension: .json, .yaml/.yml or .toml. Fields absent in the file keep their default values.
//
// The returned config is always usable: an empty path or a non-existing file silently result
// in defaults, and a broken file results in defaults along with the error describing what was
// wrong, so the caller may only log it.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Default(), nil
	case err != nil:
		return Default(), fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes the data in the format denoted by ext (with or without the leading dot)
// over the defaults.
func Parse(ext string, data []byte) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		err = json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, cfg)
	case "toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}

	return cfg, nil
}
