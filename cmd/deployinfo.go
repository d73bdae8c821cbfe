package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvasquez-dev/suiarb/executor"
)

var deployInfoCmd = &cobra.Command{
	Use:   "deploy-info",
	Short: "Print the deployed package, capability objects, and wallet address from the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		signer, err := executor.NewSignerFromHex(cfg.PrivateKeyHex)
		if err != nil {
			return fmt.Errorf("load wallet key: %w", err)
		}

		fmt.Printf("wallet address:      %s\n", signer.Address())
		fmt.Printf("RPC URL:             %s\n", cfg.RPCURL)
		fmt.Printf("package ID:          %s\n", cfg.PackageID)
		fmt.Printf("admin cap ID:        %s\n", cfg.AdminCapID)
		fmt.Printf("pause flag ID:       %s\n", cfg.PauseFlagID)
		fmt.Printf("monitored pools:     %d\n", len(cfg.MonitoredPools))
		fmt.Printf("min profit (MIST):   %d\n", cfg.MinProfitMist)
		fmt.Printf("poll interval:       %s\n", cfg.PollInterval())
		fmt.Printf("dry-run before submit: %v\n", cfg.DryRunBeforeSubmit)
		if a := cfg.DeploymentArtifact; a != nil {
			fmt.Printf("deployment artifact: %s network, tx %s, deployer %s, gas %d MIST\n",
				a.Network, a.TxDigest, a.Deployer, a.GasCost)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployInfoCmd)
}
