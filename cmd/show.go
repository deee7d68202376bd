package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/presentation"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a stored analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		logger, config, client := bootstrap()

		entry, err := client.GetAnalysis(ctx, args[0])
		if err != nil {
			logger.Fatal("getting analysis",
				zap.String("id", args[0]),
				zap.String("reason", analyzer.UserMessage(err, "Failed to load analysis")),
				zap.Error(err),
			)
		}

		if err := newPrinter(config).Result(presentation.Build(entry, false)); err != nil {
			logger.Fatal("printing analysis", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
