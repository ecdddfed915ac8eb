package config

import (
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected log_level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to be false")
	}

	// Warp defaults match the canonical field-morphing parameters.
	if cfg.Warp.A != 0.01 {
		t.Errorf("Expected warp.a 0.01, got %g", cfg.Warp.A)
	}
	if cfg.Warp.B != 2.0 {
		t.Errorf("Expected warp.b 2.0, got %g", cfg.Warp.B)
	}
	if cfg.Warp.P != 0.0 {
		t.Errorf("Expected warp.p 0.0, got %g", cfg.Warp.P)
	}

	if cfg.Grid.Spacing != 30 {
		t.Errorf("Expected grid spacing 30, got %d", cfg.Grid.Spacing)
	}

	if cfg.Animation.Steps != 11 {
		t.Errorf("Expected animation steps 11, got %d", cfg.Animation.Steps)
	}
	if cfg.Animation.DelayMS != 200 {
		t.Errorf("Expected animation delay 200ms, got %d", cfg.Animation.DelayMS)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Expected server host 'localhost', got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", cfg.Server.Port)
	}
}

// TestDefaultConfigValidates ensures the defaults pass validation.
func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero warp.a", func(c *Config) { c.Warp.A = 0 }},
		{"negative warp.b", func(c *Config) { c.Warp.B = -1 }},
		{"negative workers", func(c *Config) { c.Warp.Workers = -1 }},
		{"zero grid spacing", func(c *Config) { c.Grid.Spacing = 0 }},
		{"one animation step", func(c *Config) { c.Animation.Steps = 1 }},
		{"zero animation delay", func(c *Config) { c.Animation.DelayMS = 0 }},
		{"bad output format", func(c *Config) { c.Output.Format = "gif" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
