// Package cmd implements arbengine's cobra CLI, grounded on the
// teacher's cmd/root.go persistent-root + subcommand shape.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rvasquez-dev/suiarb/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "arbengine",
	Short: "A cross-venue arbitrage engine for Sui DEXes",
	Long: `arbengine watches Cetus, Turbos, DeepBook, Aftermath and FlowX pools on
Sui for cross-venue price divergence and executes flash-loan-funded
arbitrage swaps when one is found profitable after gas.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML file overriding the monitored-pool list (env vars and ./.env are read regardless)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}
