// Package config centralizes configuration for the morph CLI and server,
// loaded from config files, environment variables, and command-line flags.
package config

import (
	"fmt"
)

const infoLevel = "info"

// Config represents the complete configuration for the morphium application.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Warp engine parameters
	Warp WarpConfig `mapstructure:"warp" yaml:"warp" json:"warp"`

	// Grid visualization settings
	Grid GridConfig `mapstructure:"grid" yaml:"grid" json:"grid"`

	// Animation sequence settings
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation" json:"animation"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// WarpConfig contains the weighted displacement model parameters.
type WarpConfig struct {
	A       float64 `mapstructure:"a" yaml:"a" json:"a"`
	B       float64 `mapstructure:"b" yaml:"b" json:"b"`
	P       float64 `mapstructure:"p" yaml:"p" json:"p"`
	Workers int     `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// GridConfig contains grid overlay settings.
type GridConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Spacing int    `mapstructure:"spacing" yaml:"spacing" json:"spacing"`
	Color   string `mapstructure:"color" yaml:"color" json:"color"`
}

// AnimationConfig contains frame sequence settings.
type AnimationConfig struct {
	Steps      int  `mapstructure:"steps" yaml:"steps" json:"steps"`
	DelayMS    int  `mapstructure:"delay_ms" yaml:"delay_ms" json:"delay_ms"`
	PingPong   bool `mapstructure:"ping_pong" yaml:"ping_pong" json:"ping_pong"`
	MaxWorkers int  `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains request quota settings.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	MaxDataPerDayMB   int  `mapstructure:"max_data_per_day_mb" yaml:"max_data_per_day_mb" json:"max_data_per_day_mb"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel: infoLevel,
		Verbose:  false,
		Warp: WarpConfig{
			A:       0.01,
			B:       2.0,
			P:       0.0,
			Workers: 0, // auto
		},
		Grid: GridConfig{
			Enabled: false,
			Spacing: 30,
			Color:   "cyan",
		},
		Animation: AnimationConfig{
			Steps:      11,
			DelayMS:    200,
			PingPong:   true,
			MaxWorkers: 0, // auto
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "png",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 60,
				MaxDataPerDayMB:   1024,
			},
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", infoLevel, "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Warp.A <= 0 {
		return fmt.Errorf("invalid warp.a: %g (must be positive)", c.Warp.A)
	}
	if c.Warp.B < 0 {
		return fmt.Errorf("invalid warp.b: %g (must be non-negative)", c.Warp.B)
	}
	if c.Warp.Workers < 0 {
		return fmt.Errorf("invalid warp.workers: %d (must be non-negative)", c.Warp.Workers)
	}

	if c.Grid.Spacing <= 0 {
		return fmt.Errorf("invalid grid.spacing: %d (must be positive)", c.Grid.Spacing)
	}

	if c.Animation.Steps < 2 {
		return fmt.Errorf("invalid animation.steps: %d (must be at least 2)", c.Animation.Steps)
	}
	if c.Animation.DelayMS <= 0 {
		return fmt.Errorf("invalid animation.delay_ms: %d (must be positive)", c.Animation.DelayMS)
	}

	switch c.Output.Format {
	case "png", "jpg", "jpeg", "bmp":
	default:
		return fmt.Errorf("invalid output.format: %s (must be png, jpg, jpeg, or bmp)", c.Output.Format)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid server.max_upload_mb: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid server.timeout_sec: %d (must be positive)", c.Server.TimeoutSec)
	}

	return nil
}
