package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/fakeservice"
	"github.com/spigell/resume-analyzer/internal/logger"
)

var serveFakeCmd = &cobra.Command{
	Use:   "serve-fake",
	Short: "Run an in-memory analysis service for local development",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signalContext()
		defer cancel()

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if err := fakeservice.New(logger).Run(ctx, addr); err != nil {
			logger.Fatal("serving", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveFakeCmd)

	serveFakeCmd.Flags().String("addr", "127.0.0.1:5001", "listen address")
}
