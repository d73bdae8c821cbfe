package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// yamlOverrides is the subset of Config that can be supplied as a YAML
// file instead of MONITORED_POOLS's flat env-var encoding. The pool list
// is the one value in Config that's naturally structured (one venue, one
// object ID, two coin types per entry) and gets unwieldy as a single
// comma-separated string once more than a handful of pools are
// monitored, so it's the only field this file overrides.
type yamlOverrides struct {
	MonitoredPools []yamlPoolConfig `yaml:"monitored_pools"`
}

type yamlPoolConfig struct {
	Dex       string `yaml:"dex"`
	PoolID    string `yaml:"pool_id"`
	CoinTypeA string `yaml:"coin_type_a"`
	CoinTypeB string `yaml:"coin_type_b"`
}

// LoadYAMLOverrides reads path and, if it names at least one pool,
// replaces cfg.MonitoredPools with the decoded list. Called after
// FromEnv so a YAML file always wins over MONITORED_POOLS when both are
// present, mirroring the teacher's cmd/start.go --config flag (there
// wired to cobra but never consumed; here actually applied).
func LoadYAMLOverrides(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var overrides yamlOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if len(overrides.MonitoredPools) == 0 {
		return nil
	}

	pools := make([]PoolConfig, 0, len(overrides.MonitoredPools))
	for i, p := range overrides.MonitoredPools {
		dex, ok := parseDex(p.Dex)
		if !ok {
			return fmt.Errorf("config file %s: monitored_pools[%d]: unknown dex %q", path, i, p.Dex)
		}
		if p.PoolID == "" || p.CoinTypeA == "" || p.CoinTypeB == "" {
			return fmt.Errorf("config file %s: monitored_pools[%d]: pool_id, coin_type_a and coin_type_b are required", path, i)
		}
		pools = append(pools, PoolConfig{Dex: dex, PoolID: p.PoolID, CoinTypeA: p.CoinTypeA, CoinTypeB: p.CoinTypeB})
	}

	cfg.MonitoredPools = pools
	return nil
}
