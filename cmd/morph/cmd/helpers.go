package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/morphium/internal/config"
	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// loadLineSet reads a JSON feature line file and validates it.
func loadLineSet(path string) (geometry.LineSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read line file %s: %w", path, err)
	}

	var lines geometry.LineSet
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse line file %s: %w", path, err)
	}
	if err := lines.Validate(); err != nil {
		return nil, fmt.Errorf("invalid line file %s: %w", path, err)
	}
	return lines, nil
}

// warpParamsFromConfig builds warp parameters from config with CLI flag overrides.
func warpParamsFromConfig(cmd *cobra.Command, cfg *config.Config) (warp.Params, error) {
	params := warp.Params{
		A: cfg.Warp.A,
		B: cfg.Warp.B,
		P: cfg.Warp.P,
	}

	if cmd.Flags().Changed("param-a") {
		params.A, _ = cmd.Flags().GetFloat64("param-a")
	}
	if cmd.Flags().Changed("param-b") {
		params.B, _ = cmd.Flags().GetFloat64("param-b")
	}
	if cmd.Flags().Changed("param-p") {
		params.P, _ = cmd.Flags().GetFloat64("param-p")
	}

	return params, params.Validate()
}

// warpOptionsFromConfig builds warp options from config with CLI flag overrides.
func warpOptionsFromConfig(cmd *cobra.Command, cfg *config.Config) warp.Options {
	workers := cfg.Warp.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	return warp.Options{Workers: workers}
}
