package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rounakb/placedigest/internal/extract"
	"github.com/rounakb/placedigest/internal/mailbox"
	"github.com/rounakb/placedigest/internal/pipeline"
	"github.com/rounakb/placedigest/internal/ratelimit"
	"github.com/rounakb/placedigest/internal/store"
)

var dryRun bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the inbox and summarize new placement emails",
	Long:  "Fetches placement-related emails, skips ones already summarized,\nruns each new one through Gemini, and stores the results.",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and dedup only; print what would be summarized, write nothing")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	userID := resolveUser(cfg)

	logger.Info("config loaded",
		"user", userID,
		"max_results", cfg.Mailbox.MaxResults,
		"model", cfg.Extraction.Model,
		"extraction_delay", cfg.Pipeline.ExtractionDelay.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accessToken, err := mailbox.AccessToken(ctx, cfg.Mailbox.CredentialsFile, cfg.Mailbox.TokenFile)
	if err != nil {
		logger.Error("gmail authorization failed, run `placedigest auth` first", "error", err)
		os.Exit(1)
	}

	source, err := mailbox.NewGmailSource(ctx, accessToken, cfg.Mailbox.MaxResults)
	if err != nil {
		logger.Error("failed to init gmail client", "error", err)
		os.Exit(1)
	}

	sqlStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if dryRun {
		return runDryScan(ctx, source, sqlStore, userID)
	}

	httpClient := &http.Client{Timeout: cfg.Extraction.Timeout}
	provider := extract.NewGeminiProvider(cfg.Extraction.BaseURL, cfg.Extraction.Model, httpClient)
	extractor := extract.NewClient(provider, logger)

	p := pipeline.New(
		source,
		extractor,
		sqlStore,
		sqlStore,
		ratelimit.NewLimiter(cfg.Pipeline.ExtractionDelay),
		setupNotifier(cfg, httpClient, logger),
		pipeline.NewRunLocks(),
		logger,
	)

	res, err := p.Run(ctx, userID)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Scan complete: %d new, %d total. Run `placedigest records` to see them.\n",
		res.NewCount, len(res.Records))
	return nil
}

// runDryScan fetches and dedups but never calls the extraction backend or
// writes to the store.
func runDryScan(ctx context.Context, source *mailbox.GmailSource, sqlStore *store.SQLiteStore, userID string) error {
	messages, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	known, err := sqlStore.KnownMessageIDs(userID)
	if err != nil {
		return err
	}
	fresh := pipeline.Dedup(messages, known)

	fmt.Printf("Fetched %d messages, %d already summarized, %d would be processed:\n",
		len(messages), len(messages)-len(fresh), len(fresh))
	for _, m := range fresh {
		fmt.Printf("  %-20s %s\n", m.ID, m.Subject)
	}
	return nil
}
