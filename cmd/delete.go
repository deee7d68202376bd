package cmd

import (
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/history"
)

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteAnalysis(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation")
}

func deleteAnalysis(cmd *cobra.Command, id string) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config, client := bootstrap()

	var confirm history.Confirmer = history.ConfirmFunc(confirmPrompt)
	if approve, _ := cmd.Flags().GetBool("auto-approve"); approve {
		confirm = history.ConfirmFunc(func(string) (bool, error) { return true, nil })
	}

	page := history.NewController(client, config.HistoryLimit, logger)

	err := page.Delete(ctx, id, confirm)
	switch {
	case errors.Is(err, history.ErrDeclined):
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
	case err != nil:
		logger.Fatal("deleting analysis",
			zap.String("id", id),
			zap.String("reason", page.Snapshot().DeleteError),
			zap.Error(err),
		)
	default:
		logger.Info("analysis deleted", zap.String("id", id))
	}
}

// confirmPrompt asks a yes/no question. Answering no is not an error.
func confirmPrompt(question string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
