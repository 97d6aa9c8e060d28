package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "miniapp",
	Short: "JBA AI mini-app web front for the MB Bank webview",
	Long: `Serves the JBA AI mini-app pages inside the MB Bank webview, exchanges the
login tokens handed over by the banking app for tab-scoped sessions and hands
payments back to the app.

Configuration is read from MINIAPP_* environment variables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
