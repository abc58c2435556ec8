// Package config holds the small set of knobs the typecore driver exposes,
// loaded from a YAML run-configuration file, and the built-in name
// constants the inference core uses.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in method/operator names the inference core's call resolution
// recognizes specially.
const (
	NewMethodName        = "new"
	AllocateMethodName   = "allocate"
	InitializeMethodName = "initialize"
	DisjunctionOpName    = "||"
)

// RunConfig is the driver's YAML-loaded configuration: which primitive
// classes to seed into a fresh Module beyond the fixed built-ins, and
// whether to emit structured per-phase log lines to stderr.
type RunConfig struct {
	// ExtraPrimitives names additional built-in classes to register (as
	// direct Object subclasses) before inference runs, letting a fixture
	// exercise classes the core does not hard-code; the fixed built-in
	// primitive set is unaffected, this is strictly additive.
	ExtraPrimitives []string `yaml:"extraPrimitives"`

	// Verbose enables structured phase/timing log lines during the run.
	Verbose bool `yaml:"verbose"`

	// Color forces (true) or disables (false) colorized diagnostic output
	// regardless of terminal detection; nil defers to the isatty check.
	Color *bool `yaml:"color"`
}

// Load reads and parses a RunConfig from path. A missing file is not an
// error: it yields the zero-value (empty extras, non-verbose, color
// auto-detected).
func Load(path string) (RunConfig, error) {
	if path == "" {
		return RunConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return RunConfig{}, nil
	}
	if err != nil {
		return RunConfig{}, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parsing run config: %w", err)
	}
	return cfg, nil
}
