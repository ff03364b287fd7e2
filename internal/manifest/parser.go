package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultManifest []byte

// ErrInvalid is returned when a manifest fails validation.
var ErrInvalid = errors.New("invalid template manifest")

// Parse unmarshals manifest YAML without validating it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	applyDefaults(&m)
	return &m, nil
}

// Default returns the embedded go-boilerplate manifest.
func Default() (*Manifest, error) {
	return parseValid(defaultManifest, "embedded default")
}

// Load reads FileName from the root of dir. When the file is absent the
// embedded default is returned and path is empty.
func Load(dir string) (m *Manifest, path string, err error) {
	path = filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		m, err = Default()
		return m, "", err
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading file %s: %w", path, err)
	}

	m, err = parseValid(data, path)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}

func parseValid(data []byte, origin string) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", origin, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%s: %w:\n  %s", origin, ErrInvalid, strings.Join(result.Messages(), "\n  "))
	}
	return Parse(data)
}

func applyDefaults(m *Manifest) {
	if m.Templates.Glob == "" {
		m.Templates.Glob = "**/*.go"
	}
}
