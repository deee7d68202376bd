package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the analysis service is reachable",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := signalContext()
		defer cancel()

		logger, _, client := bootstrap()

		health, err := client.Health(ctx)
		if err != nil {
			logger.Fatal("pinging analysis service", zap.String("api_url", client.APIURL), zap.Error(err))
		}

		fmt.Printf("%s: %s (%s)\n", client.APIURL, health.Status, health.Message)
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
