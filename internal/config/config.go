// Package config loads engine configuration from YAML with defaults for
// every omitted field.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// #region types

// Config is the root configuration document.
type Config struct {
	Engine  EngineConfig   `yaml:"engine"`
	Control control.Config `yaml:"control"`
	Traits  traits.Profile `yaml:"traits"`
	Source  SourceConfig   `yaml:"source"`
	History HistoryConfig  `yaml:"history"`
	Log     LogConfig      `yaml:"log"`
}

// EngineConfig selects the extraction pipeline.
type EngineConfig struct {
	UserID     string  `yaml:"user_id"`
	Extractor  string  `yaml:"extractor"`   // "amplitude" | "goertzel"
	SampleRate float32 `yaml:"sample_rate"` // Hz, goertzel only
	HistoryCap int     `yaml:"history_cap"`
}

// SourceConfig selects where sample windows come from.
type SourceConfig struct {
	Kind       string `yaml:"kind"` // "synthetic" | "socket"
	URL        string `yaml:"url"`  // socket only
	Seed       int64  `yaml:"seed"` // synthetic only
	WindowSize int    `yaml:"window_size"`
}

// HistoryConfig controls the SQLite outcome store.
type HistoryConfig struct {
	Path string `yaml:"path"` // empty disables persistence
	Keep int    `yaml:"keep"` // outcomes retained by Prune; 0 keeps all
}

// LogConfig selects the zap preset.
type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" | "prod"
}

// #endregion types

// #region defaults

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			UserID:     "local",
			Extractor:  "amplitude",
			SampleRate: bands.DefaultSampleRate,
			HistoryCap: 256,
		},
		Control: control.DefaultConfig(),
		Traits:  traits.Neutral(),
		Source: SourceConfig{
			Kind:       "synthetic",
			Seed:       1,
			WindowSize: 256,
		},
		History: HistoryConfig{},
		Log:     LogConfig{Mode: "dev"},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown selector values and out-of-range traits.
func (c Config) Validate() error {
	switch c.Engine.Extractor {
	case "amplitude", "goertzel":
	default:
		return fmt.Errorf("unknown extractor %q", c.Engine.Extractor)
	}
	switch c.Source.Kind {
	case "synthetic", "socket":
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == "socket" && c.Source.URL == "" {
		return fmt.Errorf("socket source requires a url")
	}
	if c.Source.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.Source.WindowSize)
	}
	if err := c.Traits.Validate(); err != nil {
		return err
	}
	return nil
}

// BuildExtractor constructs the configured band power extractor.
func (c Config) BuildExtractor() bands.Extractor {
	if c.Engine.Extractor == "goertzel" {
		return bands.NewGoertzelExtractor(nil, c.Engine.SampleRate)
	}
	return bands.NewAmplitudeExtractor(nil)
}

// #endregion load
