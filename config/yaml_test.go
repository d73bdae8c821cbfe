package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/types"
)

func TestLoadYAMLOverridesEmptyPathIsNoop(t *testing.T) {
	cfg := &Config{MonitoredPools: []PoolConfig{{Dex: types.Cetus, PoolID: "0x1", CoinTypeA: "a", CoinTypeB: "b"}}}

	err := LoadYAMLOverrides("", cfg)

	require.NoError(t, err)
	assert.Len(t, cfg.MonitoredPools, 1)
}

func TestLoadYAMLOverridesReplacesMonitoredPools(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.yaml")
	content := `
monitored_pools:
  - dex: cetus
    pool_id: "0xpool1"
    coin_type_a: "0x2::sui::SUI"
    coin_type_b: "0xabc::usdc::USDC"
  - dex: deepbook
    pool_id: "0xpool2"
    coin_type_a: "0x2::sui::SUI"
    coin_type_b: "0xdef::usdt::USDT"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &Config{MonitoredPools: []PoolConfig{{Dex: types.Turbos, PoolID: "0xold"}}}
	err := LoadYAMLOverrides(path, cfg)

	require.NoError(t, err)
	require.Len(t, cfg.MonitoredPools, 2)
	assert.Equal(t, types.Cetus, cfg.MonitoredPools[0].Dex)
	assert.Equal(t, "0xpool1", cfg.MonitoredPools[0].PoolID)
	assert.Equal(t, types.DeepBook, cfg.MonitoredPools[1].Dex)
}

func TestLoadYAMLOverridesLeavesConfigUntouchedWhenFileNamesNoPools(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitored_pools: []\n"), 0o600))

	existing := []PoolConfig{{Dex: types.Cetus, PoolID: "0x1", CoinTypeA: "a", CoinTypeB: "b"}}
	cfg := &Config{MonitoredPools: existing}

	require.NoError(t, LoadYAMLOverrides(path, cfg))
	assert.Equal(t, existing, cfg.MonitoredPools)
}

func TestLoadYAMLOverridesRejectsUnknownDex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := "monitored_pools:\n  - dex: notarealdex\n    pool_id: \"0x1\"\n    coin_type_a: a\n    coin_type_b: b\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	err := LoadYAMLOverrides(path, &Config{})

	assert.Error(t, err)
}

func TestLoadYAMLOverridesRejectsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := "monitored_pools:\n  - dex: cetus\n    pool_id: \"0x1\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	err := LoadYAMLOverrides(path, &Config{})

	assert.Error(t, err)
}

func TestLoadYAMLOverridesErrorsOnMissingFile(t *testing.T) {
	err := LoadYAMLOverrides("/nonexistent/path/pools.yaml", &Config{})

	assert.Error(t, err)
}
