package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names this package reads.
const (
	EnvRPCURL       = "SUI_RPC_URL"
	EnvWSURL        = "SUI_WS_URL"
	EnvPrivateKey   = "SUI_PRIVATE_KEY"
	EnvPackageID    = "PACKAGE_ID"
	EnvAdminCapID   = "ADMIN_CAP_ID"
	EnvPauseFlagID  = "PAUSE_FLAG_ID"
	EnvMonitoredPools = "MONITORED_POOLS"
	EnvDeepFeeCoinID  = "DEEP_FEE_COIN_ID"
)

// LoadDotenv loads environment variables from a .env file if present.
// A missing file is not an error — production deployments set real
// environment variables directly.
func LoadDotenv() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
