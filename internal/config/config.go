// Package config handles applaunch configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the root configuration structure for applaunch.
type Config struct {
	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Launch settings
	Launch LaunchConfig `yaml:"launch" mapstructure:"launch"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// LaunchConfig contains launch pipeline settings.
type LaunchConfig struct {
	// ReconcileWait is how long to wait before reading the PID file a
	// wrapper script may have written for the real application PID.
	ReconcileWait time.Duration `yaml:"reconcile_wait" mapstructure:"reconcile_wait"`

	// DefaultSink is where child streams go when the descriptor leaves
	// them unspecified.
	DefaultSink string `yaml:"default_sink" mapstructure:"default_sink"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		Launch: LaunchConfig{
			ReconcileWait: 500 * time.Millisecond,
			DefaultSink:   os.DevNull,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Launch.ReconcileWait < 0 {
		return fmt.Errorf("launch.reconcile_wait must not be negative")
	}
	if c.Launch.DefaultSink == "" {
		return fmt.Errorf("launch.default_sink must not be empty")
	}
	return nil
}
