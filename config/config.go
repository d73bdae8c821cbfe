// Package config loads suiarb's runtime configuration from environment
// variables (optionally via a .env file), grounded on the teacher's
// config/config.go aggregated-error Validate pattern and
// original_source/bot-rs/crates/types/src/config.rs's field set and
// MONITORED_POOLS encoding.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/types"
)

// Config is suiarb's full runtime configuration.
type Config struct {
	// Network
	RPCURL       string
	WSURL        string
	UseWebsocket bool
	WSMode       string

	// Wallet
	PrivateKeyHex string

	// Deployed package
	PackageID   string
	AdminCapID  string
	PauseFlagID string

	// DEX shared objects
	CetusGlobalConfig string
	TurbosVersioned   string
	FlowxVersioned    string

	// Aftermath shared objects
	AftermathRegistry  string
	AftermathFeeVault  string
	AftermathTreasury  string
	AftermathInsurance string
	AftermathReferral  string

	// FlowX AMM
	FlowxContainer string

	// DeepBook
	DeepFeeCoinID string

	// Per-venue Move package IDs, used only to build the WebSocket
	// event-stream subscription list (empty means don't subscribe to
	// that venue's swap events). Optional even when UseWebsocket is on;
	// the poller covers any venue left unsubscribed.
	CetusPackageID     string
	TurbosPackageID    string
	DeepBookPackageID  string
	AftermathPackageID string
	FlowxPackageID     string

	// Pool monitoring
	MonitoredPools []PoolConfig

	// Strategy params
	MinProfitMist      uint64
	PollIntervalMs     uint64
	MaxGasBudget       uint64
	DryRunBeforeSubmit bool

	// Circuit breaker
	CircuitBreaker CircuitBreakerConfig

	// Gas monitor
	MinGasBalanceMist uint64

	// DeploymentArtifact is set when PackageID/AdminCapID/PauseFlagID
	// were recovered from a deployment artifact file rather than the
	// environment (spec.md §6); nil when no such file was consulted.
	DeploymentArtifact *DeploymentArtifact

	Logger *zap.Logger `json:"-"`
}

// PoolConfig names one pool to monitor: which venue it lives on, its
// object ID, and its two coin types.
type PoolConfig struct {
	Dex       types.Dex
	PoolID    string
	CoinTypeA string
	CoinTypeB string
}

// CircuitBreakerConfig configures the breaker package's dual trip
// condition (consecutive failures OR cumulative loss), per spec.md §7.
type CircuitBreakerConfig struct {
	MaxConsecutiveFailures uint32
	MaxCumulativeLossMist  int64
	CooldownMs             uint64
}

func (c *CircuitBreakerConfig) Validate() error {
	if c.MaxConsecutiveFailures == 0 {
		return fmt.Errorf("max consecutive failures must be positive")
	}
	if c.CooldownMs == 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	return nil
}

// FromEnv builds a Config from environment variables, applying the same
// defaults as original_source's Config::from_env. Call LoadDotenv first
// to populate the process environment from a .env file, if present.
func FromEnv() (*Config, error) {
	cfg := &Config{
		RPCURL:             mustEnv("SUI_RPC_URL"),
		WSURL:              envOr("SUI_WS_URL", ""),
		UseWebsocket:       envBool("USE_WEBSOCKET", false),
		WSMode:             envOr("WS_MODE", "events"),
		PrivateKeyHex:      mustEnv("SUI_PRIVATE_KEY"),
		PackageID:          mustEnv("PACKAGE_ID"),
		AdminCapID:         mustEnv("ADMIN_CAP_ID"),
		PauseFlagID:        mustEnv("PAUSE_FLAG_ID"),
		CetusGlobalConfig:  mustEnv("CETUS_GLOBAL_CONFIG"),
		TurbosVersioned:    mustEnv("TURBOS_VERSIONED"),
		FlowxVersioned:     envOr("FLOWX_VERSIONED", ""),
		AftermathRegistry:  envOr("AFTERMATH_REGISTRY", ""),
		AftermathFeeVault:  envOr("AFTERMATH_FEE_VAULT", ""),
		AftermathTreasury:  envOr("AFTERMATH_TREASURY", ""),
		AftermathInsurance: envOr("AFTERMATH_INSURANCE", ""),
		AftermathReferral:  envOr("AFTERMATH_REFERRAL", ""),
		FlowxContainer:     envOr("FLOWX_CONTAINER", ""),
		DeepFeeCoinID:      envOr("DEEP_FEE_COIN_ID", ""),
		CetusPackageID:     envOr("CETUS_PACKAGE_ID", ""),
		TurbosPackageID:    envOr("TURBOS_PACKAGE_ID", ""),
		DeepBookPackageID:  envOr("DEEPBOOK_PACKAGE_ID", ""),
		AftermathPackageID: envOr("AFTERMATH_PACKAGE_ID", ""),
		FlowxPackageID:     envOr("FLOWX_PACKAGE_ID", ""),
		MinProfitMist:      envUint("MIN_PROFIT_MIST", 1_000_000),
		PollIntervalMs:     envUint("POLL_INTERVAL_MS", 500),
		MaxGasBudget:       envUint("MAX_GAS_BUDGET", 50_000_000),
		DryRunBeforeSubmit: envBool("DRY_RUN_BEFORE_SUBMIT", true),
		MinGasBalanceMist:  envUint("MIN_GAS_BALANCE_MIST", 100_000_000),
		CircuitBreaker: CircuitBreakerConfig{
			MaxConsecutiveFailures: uint32(envUint("CB_MAX_CONSECUTIVE_FAILURES", 5)),
			MaxCumulativeLossMist:  envInt("CB_MAX_CUMULATIVE_LOSS_MIST", 1_000_000_000),
			CooldownMs:             envUint("CB_COOLDOWN_MS", 60_000),
		},
	}

	pools, err := parsePoolConfigs(envOr("MONITORED_POOLS", ""))
	if err != nil {
		return nil, err
	}
	cfg.MonitoredPools = pools

	if err := cfg.applyDeploymentArtifact(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate aggregates every configuration error into one message,
// mirroring the teacher's config.ValidateConfig.
func (c *Config) Validate() error {
	var errs []string

	if c.RPCURL == "" {
		errs = append(errs, "SUI_RPC_URL must be specified")
	}
	if c.UseWebsocket && c.WSURL == "" {
		errs = append(errs, "SUI_WS_URL must be specified when USE_WEBSOCKET is true")
	}
	if c.PackageID == "" {
		errs = append(errs, "PACKAGE_ID must be specified")
	}
	if c.MinProfitMist == 0 {
		errs = append(errs, "MIN_PROFIT_MIST must be positive")
	}
	if c.PollIntervalMs == 0 {
		errs = append(errs, "POLL_INTERVAL_MS must be positive")
	}
	if len(c.MonitoredPools) == 0 {
		errs = append(errs, "MONITORED_POOLS must name at least one pool")
	}
	if err := c.CircuitBreaker.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("circuit breaker: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// PollInterval is PollIntervalMs as a time.Duration, for ticker setup.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func parseDex(name string) (types.Dex, bool) {
	switch strings.ToLower(name) {
	case "cetus":
		return types.Cetus, true
	case "turbos":
		return types.Turbos, true
	case "deepbook":
		return types.DeepBook, true
	case "aftermath":
		return types.Aftermath, true
	case "flowxclmm", "flowx_clmm", "flowx":
		return types.FlowxClmm, true
	case "flowxamm", "flowx_amm":
		return types.FlowxAmm, true
	default:
		return 0, false
	}
}

// parsePoolConfigs decodes MONITORED_POOLS, a comma-separated list of
// "DEX:POOL_ID:COIN_TYPE_A:COIN_TYPE_B" entries. Coin types contain "::"
// module-path separators, so splitting naively on ':' would shred them;
// instead the two coin types are separated at the ":0x" boundary that
// marks the start of the second type's address, the same approach as
// original_source's parse_pool_entry.
func parsePoolConfigs(raw string) ([]PoolConfig, error) {
	var out []PoolConfig
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pc, ok := parsePoolEntry(entry)
		if !ok {
			return nil, fmt.Errorf("malformed MONITORED_POOLS entry: %q", entry)
		}
		out = append(out, pc)
	}
	return out, nil
}

func parsePoolEntry(entry string) (PoolConfig, bool) {
	colon1 := strings.IndexByte(entry, ':')
	if colon1 < 0 {
		return PoolConfig{}, false
	}
	dexName := entry[:colon1]
	rest1 := entry[colon1+1:]

	colon2 := strings.IndexByte(rest1, ':')
	if colon2 < 0 {
		return PoolConfig{}, false
	}
	poolID := rest1[:colon2]
	rest2 := rest1[colon2+1:]

	boundary := strings.Index(rest2, ":0x")
	if boundary < 0 {
		return PoolConfig{}, false
	}
	coinTypeA := rest2[:boundary]
	coinTypeB := rest2[boundary+1:]

	if dexName == "" || poolID == "" || coinTypeA == "" || coinTypeB == "" {
		return PoolConfig{}, false
	}
	dex, ok := parseDex(dexName)
	if !ok {
		return PoolConfig{}, false
	}
	return PoolConfig{Dex: dex, PoolID: poolID, CoinTypeA: coinTypeA, CoinTypeB: coinTypeB}, true
}

func lookupEnv(name string) (string, bool) {
	v := os.Getenv(name)
	if v == "" {
		return "", false
	}
	return v, true
}

func mustEnv(name string) string {
	return os.Getenv(name)
}

func envOr(name, fallback string) string {
	if v, ok := lookupEnv(name); ok {
		return v
	}
	return fallback
}

func envUint(name string, fallback uint64) uint64 {
	v, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envInt(name string, fallback int64) int64 {
	v, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(name string, fallback bool) bool {
	v, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
