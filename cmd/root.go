package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cre8worthy/appraise-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "appraise-cli",
	Short: "AI-assisted price recommendation for art objects",
	Long:  "Collects descriptive attributes of an art object, combines them with heuristic arithmetic and generative-AI answers into a recommended price, and keeps a reviewable ledger of results and oracle calls.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
