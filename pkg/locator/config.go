package locator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed indicators.yaml
var defaultConfigYAML []byte

// Settings are the window sizes used by Scan and FindChunk, in runes.
type Settings struct {
	WindowSize      int `yaml:"window_size" json:"window_size"`
	OverlapStride   int `yaml:"overlap_stride" json:"overlap_stride"`
	BufferSize      int `yaml:"buffer_size" json:"buffer_size"`
	OutputChunkSize int `yaml:"output_chunk_size" json:"output_chunk_size"`
}

// IndicatorSets holds both languages for one statement.
type IndicatorSets struct {
	EN []string `yaml:"en" json:"en"`
	ES []string `yaml:"es" json:"es"`
}

// Config is the read-only locator configuration.
type Config struct {
	Settings   Settings                        `yaml:"settings" json:"settings"`
	Indicators map[StatementType]IndicatorSets `yaml:"indicators" json:"indicators"`
}

// DefaultConfig returns the embedded configuration. It is parsed once per
// process and shared, so callers must not modify it.
var DefaultConfig = sync.OnceValues(func() (*Config, error) {
	return parseConfig(defaultConfigYAML)
})

// LoadConfig reads a YAML override on top of the embedded defaults. Settings
// are merged field by field; a statement listed under indicators replaces
// both of its languages.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locator config: %w", err)
	}

	cfg, err := parseConfig(defaultConfigYAML)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse locator config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid locator config %s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse locator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IndicatorSet returns the indicators for statement t in language lang.
func (c *Config) IndicatorSet(t StatementType, lang Language) []string {
	sets := c.Indicators[t]
	if lang == Spanish {
		return sets.ES
	}
	return sets.EN
}

// Validate reports non-positive settings, missing sets and empty indicators.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("locator config is nil")
	}

	s := c.Settings
	for _, f := range []struct {
		name  string
		value int
	}{
		{"window_size", s.WindowSize},
		{"overlap_stride", s.OverlapStride},
		{"buffer_size", s.BufferSize},
		{"output_chunk_size", s.OutputChunkSize},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", f.name, f.value)
		}
	}

	for _, t := range StatementTypes {
		for _, lang := range []Language{English, Spanish} {
			set := c.IndicatorSet(t, lang)
			if len(set) == 0 {
				return fmt.Errorf("missing %s indicators for %s", lang, t)
			}
			for i, ind := range set {
				if ind == "" {
					return fmt.Errorf("empty %s indicator for %s at index %d", lang, t, i)
				}
				if Fold(ind) != ind {
					return fmt.Errorf("%s indicator %q for %s is not lowercase and accent-stripped", lang, ind, t)
				}
			}
		}
	}
	return nil
}
