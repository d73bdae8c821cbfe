package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/executor"
	"github.com/rvasquez-dev/suiarb/orchestrator"
	"github.com/rvasquez-dev/suiarb/rpc"
	"github.com/rvasquez-dev/suiarb/utils"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the arbitrage engine's scan-execute loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := loadConfig()
		if err != nil {
			log.Fatal("failed to load configuration", zap.Error(err))
		}
		cfg.Logger = log

		client := rpc.New(rpc.Config{URL: cfg.RPCURL, Logger: log})

		signer, err := executor.NewSignerFromHex(cfg.PrivateKeyHex)
		if err != nil {
			log.Fatal("failed to load wallet key", zap.Error(err))
		}
		log.Info("wallet loaded", zap.String("address", signer.Address()))

		o := orchestrator.New(cfg, client, signer, log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		o.Start(ctx)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down gracefully...")
		cancel()
		o.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
