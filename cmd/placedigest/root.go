package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/rounakb/placedigest/internal/config"
	"github.com/rounakb/placedigest/internal/model"
	"github.com/rounakb/placedigest/internal/notifier"
	"github.com/rounakb/placedigest/internal/secret"
	"github.com/rounakb/placedigest/internal/store"
)

var (
	cfgPath  string
	debug    bool
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "placedigest",
	Short: "Placement email digest — scan, summarize, browse",
	Long:  "PlaceDigest scans your Gmail inbox for placement and job opportunity emails,\nsummarizes them with Gemini, and keeps the results in a local database.",
	RunE:  runScan,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: PLACEDIGEST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id (default: user from config)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > PLACEDIGEST_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("PLACEDIGEST_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// resolveUser picks the user id for this invocation: --user beats config.
func resolveUser(cfg *config.Config) string {
	if userFlag != "" {
		return userFlag
	}
	return cfg.User
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// openStore builds the record store from config, including the secret keeper
// that guards stored API keys.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	keeper, err := secret.NewKeeper(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(cfg.Store.Path, keeper)
}
