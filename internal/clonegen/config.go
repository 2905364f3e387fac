package clonegeninternal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the configuration file looked up in the working
// directory.
const ConfigFile = ".clonegen.yaml"

// Config configures code generation.
type Config struct {
	// Output is the name of the generated file in each package.
	Output string `yaml:"output"`

	// Tags is the comma-separated build tags to load packages with, in
	// addition to "clonegen".
	Tags string `yaml:"tags"`

	// Tests includes test files of the packages.
	Tests bool `yaml:"tests"`

	// CopyTypes lists named types which are copied by plain assignment, such
	// as "time.Time". They are written as they appear in field types.
	CopyTypes []string `yaml:"copy_types"`

	// NarrowBounds requires the clone capability only of the type parameters
	// which are cloned by value.
	NarrowBounds bool `yaml:"narrow_bounds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Output:    "clonegen_gen.go",
		CopyTypes: []string{"time.Time", "time.Duration"},
	}
}

// LoadConfig loads the configuration from a YAML file. Missing keys keep
// their default values. If the file does not exist and required is false, it
// returns the default configuration.
func LoadConfig(path string, required bool) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if cfg.Output == "" {
		return Config{}, fmt.Errorf("output must not be empty")
	}
	return cfg, nil
}
