package cmd

import (
	"errors"
	"fmt"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/urltoken"
	"github.com/spf13/cobra"
)

var tokenKey string

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Inspect launch URLs handed over by the banking app",
}

var urlExtractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Print the login token carried by a URL",
	Long: `Print the login token carried by a URL. The query string is checked first,
then the fragment, then a query embedded in the fragment route.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := urltoken.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parse url: %w", err)
		}

		token := urltoken.ExtractKey(u, tokenKey)
		if token == "" {
			return errors.New("no login token in url")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

var urlStripCmd = &cobra.Command{
	Use:   "strip <url>",
	Short: "Print a URL without its login token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := urltoken.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parse url: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), urltoken.StripKey(u, tokenKey).String())
		return err
	},
}

func init() {
	urlCmd.PersistentFlags().StringVar(&tokenKey, "key", urltoken.Key, "URL parameter carrying the login token")
	urlCmd.AddCommand(urlExtractCmd, urlStripCmd)
	rootCmd.AddCommand(urlCmd)
}
