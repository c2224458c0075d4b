package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for placedigest.
type Config struct {
	User         string // default user id for CLI commands
	Mailbox      MailboxConfig
	Extraction   ExtractionConfig
	Pipeline     PipelineConfig
	Store        StoreConfig
	Security     SecurityConfig
	Notification NotificationConfig
}

// MailboxConfig controls the Gmail message source.
type MailboxConfig struct {
	CredentialsFile string // OAuth client secret JSON
	TokenFile       string // cached OAuth token
	MaxResults      int64  // cap on messages considered per scan
}

// ExtractionConfig controls the Gemini extraction backend.
type ExtractionConfig struct {
	BaseURL string        // defaults to the public Generative Language endpoint
	Model   string        // e.g. "gemini-2.5-flash"
	Timeout time.Duration // per-request timeout
}

// PipelineConfig controls run pacing.
type PipelineConfig struct {
	ExtractionDelay time.Duration // fixed pause between consecutive extraction calls
}

// StoreConfig locates the record store.
type StoreConfig struct {
	Path string
}

// SecurityConfig holds the key that encrypts stored API keys at rest.
type SecurityConfig struct {
	EncryptionKey string // 64 hex chars; expanded from env var by Load
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	User         string               `yaml:"user"`
	Mailbox      rawMailboxConfig     `yaml:"mailbox"`
	Extraction   rawExtractionConfig  `yaml:"extraction"`
	Pipeline     rawPipelineConfig    `yaml:"pipeline"`
	Store        rawStoreConfig       `yaml:"store"`
	Security     rawSecurityConfig    `yaml:"security"`
	Notification NotificationConfig   `yaml:"notification"`
}

type rawMailboxConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	MaxResults      int64  `yaml:"max_results"`
}

type rawExtractionConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type rawPipelineConfig struct {
	ExtractionDelay string `yaml:"extraction_delay"`
}

type rawStoreConfig struct {
	Path string `yaml:"path"`
}

type rawSecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	extractionTimeout := 60 * time.Second // default
	if raw.Extraction.Timeout != "" {
		extractionTimeout, err = time.ParseDuration(raw.Extraction.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse extraction.timeout %q: %w", raw.Extraction.Timeout, err)
		}
	}

	extractionDelay := 5 * time.Second // default: Gemini free-tier pacing
	if raw.Pipeline.ExtractionDelay != "" {
		extractionDelay, err = time.ParseDuration(raw.Pipeline.ExtractionDelay)
		if err != nil {
			return nil, fmt.Errorf("parse pipeline.extraction_delay %q: %w", raw.Pipeline.ExtractionDelay, err)
		}
	}

	cfg := &Config{
		User: raw.User,
		Mailbox: MailboxConfig{
			CredentialsFile: raw.Mailbox.CredentialsFile,
			TokenFile:       raw.Mailbox.TokenFile,
			MaxResults:      raw.Mailbox.MaxResults,
		},
		Extraction: ExtractionConfig{
			BaseURL: raw.Extraction.BaseURL,
			Model:   raw.Extraction.Model,
			Timeout: extractionTimeout,
		},
		Pipeline: PipelineConfig{
			ExtractionDelay: extractionDelay,
		},
		Store: StoreConfig{
			Path: raw.Store.Path,
		},
		Security: SecurityConfig{
			EncryptionKey: strings.TrimSpace(raw.Security.EncryptionKey),
		},
		Notification: raw.Notification,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.User == "" {
		cfg.User = "default"
	}
	if cfg.Mailbox.CredentialsFile == "" {
		cfg.Mailbox.CredentialsFile = "credentials.json"
	}
	if cfg.Mailbox.TokenFile == "" {
		cfg.Mailbox.TokenFile = "token.json"
	}
	if cfg.Mailbox.MaxResults == 0 {
		cfg.Mailbox.MaxResults = 50
	}
	if cfg.Extraction.BaseURL == "" {
		cfg.Extraction.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Extraction.Model == "" {
		cfg.Extraction.Model = defaultGeminiModel
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "placedigest.db"
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
}

func validate(cfg *Config) error {
	if cfg.Mailbox.MaxResults < 1 || cfg.Mailbox.MaxResults > 500 {
		return fmt.Errorf("mailbox.max_results must be between 1 and 500, got %d", cfg.Mailbox.MaxResults)
	}

	if cfg.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction.timeout must be positive, got %v", cfg.Extraction.Timeout)
	}

	if cfg.Pipeline.ExtractionDelay < 0 {
		return fmt.Errorf("pipeline.extraction_delay must not be negative, got %v", cfg.Pipeline.ExtractionDelay)
	}

	if cfg.Security.EncryptionKey == "" {
		return fmt.Errorf("security.encryption_key is required (64 hex chars; set PLACEDIGEST_ENCRYPTION_KEY and reference it as ${PLACEDIGEST_ENCRYPTION_KEY})")
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}
