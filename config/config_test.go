package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/types"
)

func TestParsePoolConfigsSplitsCoinTypesAtAddressBoundary(t *testing.T) {
	raw := "cetus:0xpool1:0x2::sui::SUI:0xabc::usdc::USDC,turbos:0xpool2:0x2::sui::SUI:0xdef::usdt::USDT"

	pools, err := parsePoolConfigs(raw)

	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, types.Cetus, pools[0].Dex)
	assert.Equal(t, "0xpool1", pools[0].PoolID)
	assert.Equal(t, "0x2::sui::SUI", pools[0].CoinTypeA)
	assert.Equal(t, "0xabc::usdc::USDC", pools[0].CoinTypeB)
	assert.Equal(t, types.Turbos, pools[1].Dex)
}

func TestParsePoolConfigsIgnoresBlankEntries(t *testing.T) {
	pools, err := parsePoolConfigs(" , cetus:0xpool1:0x2::sui::SUI:0xabc::usdc::USDC ,")

	require.NoError(t, err)
	require.Len(t, pools, 1)
}

func TestParsePoolConfigsRejectsUnknownDex(t *testing.T) {
	_, err := parsePoolConfigs("notadex:0xpool1:0x2::sui::SUI:0xabc::usdc::USDC")

	assert.Error(t, err)
}

func TestParsePoolConfigsRejectsMissingCoinTypeBoundary(t *testing.T) {
	_, err := parsePoolConfigs("cetus:0xpool1:justsomestring")

	assert.Error(t, err)
}

func TestParseDexRecognizesAllVenueAliases(t *testing.T) {
	cases := map[string]types.Dex{
		"cetus":      types.Cetus,
		"Turbos":     types.Turbos,
		"deepbook":   types.DeepBook,
		"AFTERMATH":  types.Aftermath,
		"flowx_clmm": types.FlowxClmm,
		"flowxamm":   types.FlowxAmm,
	}
	for name, want := range cases {
		got, ok := parseDex(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := parseDex("uniswap")
	assert.False(t, ok)
}

func TestCircuitBreakerConfigValidateRequiresPositiveFields(t *testing.T) {
	valid := CircuitBreakerConfig{MaxConsecutiveFailures: 5, CooldownMs: 1000}
	assert.NoError(t, valid.Validate())

	zeroFailures := CircuitBreakerConfig{CooldownMs: 1000}
	assert.Error(t, zeroFailures.Validate())

	zeroCooldown := CircuitBreakerConfig{MaxConsecutiveFailures: 5}
	assert.Error(t, zeroCooldown.Validate())
}

func TestConfigValidateAggregatesAllErrors(t *testing.T) {
	cfg := &Config{
		CircuitBreaker: CircuitBreakerConfig{MaxConsecutiveFailures: 1, CooldownMs: 1},
	}

	err := cfg.Validate()

	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "SUI_RPC_URL")
	assert.Contains(t, msg, "PACKAGE_ID")
	assert.Contains(t, msg, "MIN_PROFIT_MIST")
	assert.Contains(t, msg, "MONITORED_POOLS")
}

func TestConfigValidatePassesWithMinimalRequiredFields(t *testing.T) {
	cfg := &Config{
		RPCURL:         "https://fullnode.mainnet.sui.io:443",
		PackageID:      "0xabc",
		MinProfitMist:  1,
		PollIntervalMs: 500,
		MonitoredPools: []PoolConfig{{Dex: types.Cetus, PoolID: "0x1", CoinTypeA: "a", CoinTypeB: "b"}},
		CircuitBreaker: CircuitBreakerConfig{MaxConsecutiveFailures: 5, CooldownMs: 1000},
	}

	assert.NoError(t, cfg.Validate())
}

func TestPollIntervalConvertsMillisecondsToDuration(t *testing.T) {
	cfg := &Config{PollIntervalMs: 250}
	assert.Equal(t, "250ms", cfg.PollInterval().String())
}
