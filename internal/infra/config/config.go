// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the appliance image installs its configuration.
const DefaultPath = "/etc/musikbox.yaml"

// Config represents the application configuration.
type Config struct {
	MusicDir   string           `yaml:"music_dir" default:"/home/pi/Music" validate:"required"`
	RFID       RFIDConfig       `yaml:"rfid"`
	ActionTags ActionTagsConfig `yaml:"action_tags"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
	Hooks      HooksConfig      `yaml:"hooks"`
}

// RFIDConfig represents tag reader configuration. Reader is an opaque
// settings map interpreted by the rfid package.
type RFIDConfig struct {
	Enabled bool           `yaml:"enabled"`
	Reader  map[string]any `yaml:"reader"`
}

// ActionTagsConfig binds tag UIDs to control actions. Empty values disable
// the respective action tag.
type ActionTagsConfig struct {
	PauseUID string `yaml:"pause_uid"`
	NextUID  string `yaml:"next_uid"`
	PrevUID  string `yaml:"prev_uid"`
}

// AudioConfig represents audio output configuration.
type AudioConfig struct {
	BufferMs int `yaml:"buffer_ms" default:"100" validate:"gte=10,lte=1000"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `yaml:"output" default:"stdout"`
}

// HooksConfig lists commands run around the player lifecycle, e.g. driving a
// status LED on the appliance enclosure.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// Load loads configuration from a YAML file. A missing file is not an error:
// the box then runs on defaults and whatever flags were given.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("MUSIKBOX_MUSIC_DIR"); v != "" {
		c.MusicDir = v
	}
	if v := os.Getenv("MUSIKBOX_PAUSE_UID"); v != "" {
		c.ActionTags.PauseUID = v
	}
	if v := os.Getenv("MUSIKBOX_NEXT_UID"); v != "" {
		c.ActionTags.NextUID = v
	}
	if v := os.Getenv("MUSIKBOX_PREV_UID"); v != "" {
		c.ActionTags.PrevUID = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
