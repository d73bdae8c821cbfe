package cmd

import (
	"fmt"

	"github.com/rvasquez-dev/suiarb/config"
)

// loadConfig assembles a Config the same way in every subcommand:
// .env into the process environment, then env vars, then (if --config
// points at a file) a YAML override of the monitored-pool list.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotenv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := config.LoadYAMLOverrides(cfgFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
