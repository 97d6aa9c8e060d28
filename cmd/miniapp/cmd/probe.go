package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
	"github.com/spf13/cobra"
)

var (
	probeBaseURL string
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the readiness of a running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()

		health, err := miniappsdk.NewSDKClient(probeBaseURL).GetReadiness(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(health)
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeBaseURL, "url", "http://localhost:8080", "base URL of the server")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "request timeout")
	rootCmd.AddCommand(probeCmd)
}
