package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/export"
	"github.com/spigell/resume-analyzer/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses together with overall statistics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "l", 0, "maximum number of analyses to fetch (default is history-limit from config)")
	historyCmd.Flags().StringP("export", "e", "", "write the fetched analyses to a .json or .xlsx file")
	historyCmd.Flags().Bool("dump", false, "dump the fetched analyses to a temporary json file")
}

func listHistory(cmd *cobra.Command) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config, client := bootstrap()

	limit := config.HistoryLimit
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		limit = v
	}

	page := history.NewController(client, limit, logger)
	if err := page.Load(ctx); err != nil {
		logger.Fatal("loading history", zap.String("reason", page.Snapshot().LoadError), zap.Error(err))
	}

	snap := page.Snapshot()
	if err := newPrinter(config).History(snap); err != nil {
		logger.Fatal("printing history", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("export")
	dump, _ := cmd.Flags().GetBool("dump")
	if path == "" && !dump {
		return
	}

	filename, err := export.ToFile(&export.Dump{Stats: snap.Stats, Analyses: snap.Entries}, path)
	if err != nil {
		logger.Fatal("exporting history", zap.Error(err))
	}
	logger.Info("dumping history to file", zap.String("filename", filename), zap.Int("count", len(snap.Entries)))
}
