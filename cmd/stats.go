package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics over all stored analyses",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := signalContext()
		defer cancel()

		logger, config, client := bootstrap()

		stats, err := client.GetStats(ctx)
		if err != nil {
			logger.Fatal("getting stats", zap.String("reason", analyzer.UserMessage(err, "Failed to load statistics")), zap.Error(err))
		}

		if err := newPrinter(config).Stats(stats); err != nil {
			logger.Fatal("printing stats", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
