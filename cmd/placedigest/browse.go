package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rounakb/placedigest/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored summaries interactively",
	Long:  "Opens a terminal UI for browsing stored summaries and their details.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	records, err := sqlStore.ListRecords(resolveUser(cfg))
	if err != nil {
		return err
	}
	return browse.Run(records)
}
