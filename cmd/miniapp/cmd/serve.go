package cmd

import (
	"fmt"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
