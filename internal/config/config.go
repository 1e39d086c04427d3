// Package config loads the run configuration for the label placement tool.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class maps a request classification to a presentation layer/color pair.
type Class struct {
	Layer string `yaml:"layer"`
	Color int    `yaml:"color"`
}

// Config is the YAML run configuration. Zero values fall back to defaults.
type Config struct {
	// TargetLayer filters template lookup to entities on this layer.
	TargetLayer string `yaml:"target_layer"`
	// Annotative disables chain cloning when explicitly false.
	Annotative *bool `yaml:"annotative"`
	// HandleFloor is the lowest handle to mint, as unprefixed hex.
	HandleFloor string `yaml:"handle_floor"`
	// SkipClass excludes requests carrying this classification.
	SkipClass string `yaml:"skip_class"`
	// Classes maps request classifications to layer/color pairs.
	Classes map[string]Class `yaml:"classes"`
}

// Default returns the stock configuration: two presentation classes and the
// "skip" exclusion value.
func Default() *Config {
	return &Config{
		SkipClass: "skip",
		Classes: map[string]Class{
			"keep":   {Layer: "LABELS-KEEP", Color: 3},
			"remove": {Layer: "LABELS-REMOVE", Color: 1},
		},
	}
}

// Load reads a YAML configuration, filling unset members from Default.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	def := Default()
	if cfg.SkipClass == "" {
		cfg.SkipClass = def.SkipClass
	}
	if len(cfg.Classes) == 0 {
		cfg.Classes = def.Classes
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration from a file path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Floor parses the configured handle floor. Zero means unset.
func (c *Config) Floor() (uint64, error) {
	if c.HandleFloor == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(c.HandleFloor), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse handle_floor %q: %w", c.HandleFloor, err)
	}
	return v, nil
}

func (c *Config) validate() error {
	for name, class := range c.Classes {
		if name == c.SkipClass {
			return fmt.Errorf("config: class %q collides with skip_class", name)
		}
		if class.Layer == "" {
			return fmt.Errorf("config: class %q has no layer", name)
		}
	}
	if _, err := c.Floor(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
