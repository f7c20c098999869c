package grove

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultStepRate is the update rate used when neither the config nor the
// room sets one.
const DefaultStepRate = 60

// DefaultMaxCatchUpSteps caps how many updates a single Tick may run.
const DefaultMaxCatchUpSteps = 8

// Config holds game-wide settings. It can be built in code or loaded from a
// TOML or YAML file with LoadConfig.
type Config struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// StepRate is the default update rate in steps per second for new rooms.
	StepRate int `toml:"step_rate" yaml:"step_rate"`
	// MaxCatchUpSteps caps the updates run by one Tick after a stall. Time
	// beyond the cap is dropped. Negative means unlimited.
	MaxCatchUpSteps int `toml:"max_catch_up_steps" yaml:"max_catch_up_steps"`

	Debug   bool          `toml:"debug" yaml:"debug"`
	ShowFPS bool          `toml:"show_fps" yaml:"show_fps"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// LoggingConfig selects the logger built by NewLogger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the settings used for any field left at its zero
// value.
func DefaultConfig() Config {
	return Config{
		Title:           "grove",
		Width:           640,
		Height:          480,
		StepRate:        DefaultStepRate,
		MaxCatchUpSteps: DefaultMaxCatchUpSteps,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.StepRate <= 0 {
		c.StepRate = d.StepRate
	}
	if c.MaxCatchUpSteps == 0 {
		c.MaxCatchUpSteps = d.MaxCatchUpSteps
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	return c
}

// LoadConfig reads a config file layered over DefaultConfig. Files ending in
// .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg.withDefaults(), nil
}
