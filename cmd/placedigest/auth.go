package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rounakb/placedigest/internal/mailbox"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Gmail access",
	Long:  "Runs the interactive OAuth flow and caches the token for later scans.",
	RunE:  runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := mailbox.Authorize(context.Background(), cfg.Mailbox.CredentialsFile, cfg.Mailbox.TokenFile); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	fmt.Println("Gmail access authorized. You can now run `placedigest scan`.")
	return nil
}
