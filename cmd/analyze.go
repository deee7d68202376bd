package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/shell"
	"github.com/spigell/resume-analyzer/internal/upload"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume (PDF, TXT or DOCX, up to 5MB)")
	analyzeCmd.Flags().StringP("job-description", "t", "", "job description text")
	analyzeCmd.Flags().StringP("job-description-file", "f", "", "file with the job description text")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file")
}

func analyze(cmd *cobra.Command) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config, client := bootstrap()

	jobDescription, err := jobDescriptionFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("resume")
	doc, err := upload.FromFile(path)
	if err != nil {
		logger.Fatal("opening resume", zap.String("path", path), zap.Error(err))
	}

	session := shell.New(client, config.HistoryLimit, logger)

	logger.Info("analyzing resume",
		zap.String("file", doc.Name()),
		zap.String("media_type", doc.MediaType()),
		zap.Int64("size", doc.Size()),
	)

	if _, err := session.Analyze(ctx, doc, jobDescription); err != nil {
		logger.Fatal("analysis failed",
			zap.String("reason", session.Upload().Snapshot().Message),
			zap.Error(err),
		)
	}

	if err := newPrinter(config).Result(session.ResultView()); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}
}

func jobDescriptionFromFlags(cmd *cobra.Command) (string, error) {
	if file, _ := cmd.Flags().GetString("job-description-file"); strings.TrimSpace(file) != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}

	text, _ := cmd.Flags().GetString("job-description")
	return text, nil
}
