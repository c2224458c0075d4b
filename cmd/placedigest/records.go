package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List stored summaries",
	Long:  "Prints a table of all stored summaries for the user, newest first.",
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
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
	if len(records) == 0 {
		fmt.Println("No summaries yet. Run `placedigest scan` first.")
		return nil
	}

	fmt.Printf("%-12s %-40s %-20s %s\n", "Date", "Subject", "Company", "Status")
	fmt.Println(strings.Repeat("─", 84))

	failed := 0
	for _, r := range records {
		status := "ok"
		if r.Failed() {
			status = "failed"
			failed++
		}
		company := "-"
		if r.Company != nil {
			company = *r.Company
		}
		fmt.Printf("%-12s %-40s %-20s %s\n",
			r.CreatedAt.Local().Format("2006-01-02"),
			clip(r.Subject, 40),
			clip(company, 20),
			status,
		)
	}

	fmt.Printf("\nTotal: %d summaries (%d ok, %d failed)\n", len(records), len(records)-failed, failed)
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
