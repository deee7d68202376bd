package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/presentation"
	"github.com/spigell/resume-analyzer/internal/render"
	"github.com/spigell/resume-analyzer/internal/shell"
	"github.com/spigell/resume-analyzer/internal/upload"
)

const (
	PromptAnalyze = "Analyze a resume"
	PromptHistory = "History"
	PromptDelete  = "Delete an analysis"
	PromptReset   = "Reset"
	PromptQuit    = "Quit"
	PromptBack    = "back"
)

var errExit = errors.New("exit requested")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive resume analyzer",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		runShell()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell() {
	ctx := context.Background()

	logger, config, client := bootstrap()
	session := shell.New(client, config.HistoryLimit, logger)
	printer := newPrinter(config)

	logger.Info("starting the resume analyzer", zap.String("version", version), zap.String("api_url", client.APIURL))

	menu := promptui.Select{
		Label: "What next?",
		Items: []string{PromptAnalyze, PromptHistory, PromptDelete, PromptReset, PromptQuit},
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleShellAction(ctx, action, session, printer, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				continue
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleShellAction(ctx context.Context, action string, session *shell.Shell, printer *render.Printer, logger *zap.Logger) error {
	switch action {
	case PromptAnalyze:
		if err := session.SwitchView(ctx, shell.ViewAnalyze); err != nil {
			return err
		}
		return analyzeInteractive(ctx, session, printer, logger)
	case PromptHistory:
		// A failed load is shown on the page itself.
		_ = session.SwitchView(ctx, shell.ViewHistory)
		return printer.History(session.History().Snapshot())
	case PromptDelete:
		return deleteInteractive(ctx, session, printer, logger)
	case PromptReset:
		session.Reset()
		if err := session.SwitchView(ctx, shell.ViewAnalyze); err != nil {
			return err
		}
		return printer.Result(session.ResultView())
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func analyzeInteractive(ctx context.Context, session *shell.Shell, printer *render.Printer, logger *zap.Logger) error {
	pathPrompt := promptui.Prompt{
		Label: "Resume file (PDF, TXT or DOCX)",
		Validate: func(input string) error {
			stat, err := os.Stat(strings.TrimSpace(input))
			if err != nil {
				return errors.New("file not found")
			}
			if stat.IsDir() {
				return errors.New("a file is required")
			}
			return nil
		},
	}

	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}

	doc, err := upload.FromFile(strings.TrimSpace(path))
	if err != nil {
		logger.Warn("opening resume", zap.Error(err))
		return nil
	}

	if err := session.Upload().Select(doc); err != nil {
		logger.Warn("document rejected", zap.String("reason", session.Upload().Snapshot().Message))
		return nil
	}

	jobPrompt := promptui.Prompt{
		Label:   "Job description (text, or @file to read it from a file)",
		Default: session.Upload().Snapshot().JobDescription,
	}

	text, err := jobPrompt.Run()
	if err != nil {
		return err
	}

	if strings.HasPrefix(text, "@") {
		data, err := os.ReadFile(strings.TrimSpace(text[1:]))
		if err != nil {
			logger.Warn("reading job description", zap.Error(err))
			return nil
		}
		text = string(data)
	}
	session.Upload().SetJobDescription(text)

	if err := printer.Result(presentation.Build(nil, true)); err != nil {
		return err
	}

	if _, err := session.Upload().Submit(ctx); err != nil {
		logger.Warn("analysis failed", zap.String("reason", session.Upload().Snapshot().Message), zap.Error(err))
		return nil
	}

	return printer.Result(session.ResultView())
}

func deleteInteractive(ctx context.Context, session *shell.Shell, printer *render.Printer, logger *zap.Logger) error {
	if session.View() != shell.ViewHistory || session.History().State() != history.StateReady {
		if err := session.SwitchView(ctx, shell.ViewHistory); err != nil {
			return printer.History(session.History().Snapshot())
		}
	}

	entries := session.History().Snapshot().Entries
	if len(entries) == 0 {
		logger.Info("nothing to delete", zap.String("reason", "history is empty"))
		return nil
	}

	items := make([]string, 0, len(entries)+1)
	for _, row := range history.Rows(entries) {
		items = append(items, fmt.Sprintf("%s %s / %s / %d%%", row.ID, row.Filename, row.Created, row.Score))
	}

	entryPrompt := promptui.Select{
		Label: "Choose an analysis and press ENTER",
		Items: append(items, PromptBack),
	}

	index, _, err := entryPrompt.Run()
	if err != nil {
		return err
	}

	id, ok := selectedID(entries, index)
	if !ok {
		return nil
	}

	err = session.Delete(ctx, id, history.ConfirmFunc(confirmPrompt))
	switch {
	case errors.Is(err, history.ErrDeclined):
		return nil
	case err != nil:
		logger.Warn("deleting analysis", zap.String("id", id), zap.Error(err))
	}

	return printer.History(session.History().Snapshot())
}

// selectedID maps a menu index back to its entry. The trailing back item and
// anything out of range select nothing.
func selectedID(entries []*analyzer.HistoryEntry, index int) (string, bool) {
	if index < 0 || index >= len(entries) {
		return "", false
	}
	return entries[index].ID, true
}
