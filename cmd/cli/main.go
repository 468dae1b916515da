// bookhub is the command-line client. classify and recommend run the NLP
// pipeline locally; the other commands call a running API server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"bookhub/internal/client"
	"bookhub/internal/logging"
)

var (
	apiURL     string
	tokenPath  string
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "bookhub",
	Short:         "Book recommendation assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{Level: "warn", Format: "console"})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&apiURL, "api", envOr("BOOKHUB_API", client.DefaultBaseURL), "API base URL")
	pf.StringVar(&tokenPath, "token", client.DefaultTokenPath(), "token file path")
	pf.StringVar(&configPath, "config", "", "config file for local commands")
	pf.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	rootCmd.AddCommand(
		newClassifyCmd(),
		newRecommendCmd(),
		newChatCmd(),
		newBooksCmd(),
		newHistoryCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatsCmd(),
		newConfigureCmd(),
		newReloadCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// apiClient returns a client carrying the saved token, if any.
func apiClient() *client.Client {
	c := client.New(apiURL, timeout)
	if tok, err := client.ReadToken(tokenPath); err == nil {
		c.Token = tok
	}
	return c
}

func mustLoggedIn(c *client.Client) error {
	if c.Token == "" {
		return fmt.Errorf("not logged in; run bookhub login")
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
