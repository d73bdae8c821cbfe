package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DeploymentArtifact is the on-disk record a `sui client publish` run
// (or the project's own deploy script) leaves behind, shaped per
// spec.md §6: network, the published package and its admin/pause/
// upgrade capabilities, who deployed it, and what the publish
// transaction cost.
type DeploymentArtifact struct {
	Network    string `json:"network"`
	PackageID  string `json:"packageId"`
	AdminCap   string `json:"adminCap"`
	PauseFlag  string `json:"pauseFlag"`
	UpgradeCap string `json:"upgradeCap"`
	Deployer   string `json:"deployer"`
	TxDigest   string `json:"txDigest"`
	GasCost    uint64 `json:"gasCost"`
	Timestamp  uint64 `json:"timestamp"`
}

// deployArtifactPathEnv names the environment variable that overrides
// the default deployment artifact path.
const deployArtifactPathEnv = "DEPLOY_ARTIFACT_PATH"

// defaultDeployArtifactPath is where the deploy tooling this bot pairs
// with writes its output by convention.
const defaultDeployArtifactPath = "deployment.json"

// applyDeploymentArtifact fills PackageID/AdminCapID/PauseFlagID from a
// deployment artifact file when the corresponding environment variables
// were left unset, so a freshly deployed package can be picked up
// without re-typing its object IDs into the environment by hand. A
// missing file is not an error — env vars remain the primary source,
// and Validate still rejects the config if nothing supplied them.
func (c *Config) applyDeploymentArtifact() error {
	if c.PackageID != "" && c.AdminCapID != "" && c.PauseFlagID != "" {
		return nil
	}

	path := envOr(deployArtifactPathEnv, defaultDeployArtifactPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read deployment artifact %s: %w", path, err)
	}

	var artifact DeploymentArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("parse deployment artifact %s: %w", path, err)
	}

	if c.PackageID == "" {
		c.PackageID = artifact.PackageID
	}
	if c.AdminCapID == "" {
		c.AdminCapID = artifact.AdminCap
	}
	if c.PauseFlagID == "" {
		c.PauseFlagID = artifact.PauseFlag
	}
	c.DeploymentArtifact = &artifact
	return nil
}
