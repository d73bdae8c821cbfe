package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/executor"
	"github.com/rvasquez-dev/suiarb/orchestrator"
	"github.com/rvasquez-dev/suiarb/rpc"
	"github.com/rvasquez-dev/suiarb/utils"
)

var dryrunCmd = &cobra.Command{
	Use:   "dryrun",
	Short: "Scan once, refine the best opportunity, and simulate its transaction without submitting",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Logger = log

		client := rpc.New(rpc.Config{URL: cfg.RPCURL, Logger: log})

		signer, err := executor.NewSignerFromHex(cfg.PrivateKeyHex)
		if err != nil {
			return fmt.Errorf("load wallet key: %w", err)
		}

		o := orchestrator.New(cfg, client, signer, log)

		opp, outcome, err := o.DryRunBest(context.Background())
		if err != nil {
			return fmt.Errorf("dry run: %w", err)
		}
		if opp == nil {
			fmt.Println("no profitable opportunity found")
			return nil
		}

		fmt.Printf("opportunity %s (%s)\n", opp.ID, opp.Strategy.MoveFunctionName())
		fmt.Printf("  amount in:       %d MIST\n", opp.AmountIn)
		fmt.Printf("  expected profit: %d MIST\n", opp.ExpectedProfit)
		fmt.Printf("  net profit:      %d MIST\n", opp.NetProfit)
		fmt.Printf("  dry-run success: %v\n", outcome.Success)
		if !outcome.Success {
			fmt.Printf("  dry-run error:   %s\n", outcome.ErrorMsg)
		}
		fmt.Printf("  gas cost:        %d MIST\n", outcome.GasCostMist)

		log.Info("dry run complete",
			zap.String("opportunity", opp.ID), zap.Bool("success", outcome.Success), zap.Uint64("gas_cost_mist", outcome.GasCostMist))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dryrunCmd)
}
