package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookhub/internal/client"
)

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as staff and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.New(apiURL, timeout).Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := client.SaveToken(tokenPath, resp.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved token and delete it",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiClient()
			if c.Token != "" {
				if err := c.Logout(cmd.Context()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "server logout failed:", err)
				}
			}
			if err := client.ClearToken(tokenPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show assistant usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiClient().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the statistics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiClient()
			if err := mustLoggedIn(c); err != nil {
				return err
			}
			msg, err := c.ResetStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "test <message>",
		Short: "Show how a message would be processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := apiClient().TestProcessing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	})
	return cmd
}

func newConfigureCmd() *cobra.Command {
	var (
		threshold float64
		advanced  bool
	)
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Change the NLP settings (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.ConfigureRequest
			if cmd.Flags().Changed("threshold") {
				req.ConfidenceThreshold = &threshold
			}
			if cmd.Flags().Changed("advanced") {
				req.AdvancedProcessing = &advanced
			}
			if req.ConfidenceThreshold == nil && req.AdvancedProcessing == nil {
				return fmt.Errorf("set --threshold or --advanced")
			}
			c := apiClient()
			if err := mustLoggedIn(c); err != nil {
				return err
			}
			resp, err := c.Configure(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.3, "confidence threshold (0.1-0.9)")
	cmd.Flags().BoolVar(&advanced, "advanced", true, "enable advanced processing")
	return cmd
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the server's in-memory catalog (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiClient()
			if err := mustLoggedIn(c); err != nil {
				return err
			}
			n, err := c.ReloadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog reloaded: %d books\n", n)
			return nil
		},
	}
}
