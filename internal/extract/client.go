package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rounakb/placedigest/internal/model"
)

// Ensure Client implements model.Extractor.
var _ model.Extractor = (*Client)(nil)

const (
	emptyBodyPlaceholder = "Email body not available"
	summaryFallback      = "Could not generate summary"
)

// Client implements model.Extractor on top of a generative-language backend.
type Client struct {
	provider LLMProvider
	logger   *slog.Logger
}

// NewClient creates an extraction client backed by the given provider.
func NewClient(provider LLMProvider, logger *slog.Logger) *Client {
	return &Client{
		provider: provider,
		logger:   logger,
	}
}

// rawSummary is the JSON shape the prompt asks the backend for. null fields
// unmarshal to "".
type rawSummary struct {
	Summary         string `json:"summary"`
	Company         string `json:"company"`
	JobRole         string `json:"jobRole"`
	Deadline        string `json:"deadline"`
	Eligibility     string `json:"eligibility"`
	ApplicationLink string `json:"applicationLink"`
}

// Extract summarizes one message. Every failure is a *model.ExtractionError
// so the pipeline can record it instead of propagating it.
func (c *Client) Extract(ctx context.Context, apiKey, subject, from, body string) (model.ExtractionResult, error) {
	var zero model.ExtractionResult

	if strings.TrimSpace(apiKey) == "" {
		return zero, &model.ExtractionError{
			Kind: model.ExtractInvalidCredential,
			Err:  errors.New("gemini API key is missing or empty"),
		}
	}

	emailBody := strings.TrimSpace(body)
	if emailBody == "" {
		c.logger.Warn("email body is empty, using placeholder", "subject", subject)
		emailBody = emptyBodyPlaceholder
	}

	var promptBuf bytes.Buffer
	err := summarizeTemplate.Execute(&promptBuf, promptData{
		Subject: subject,
		From:    from,
		Body:    emailBody,
	})
	if err != nil {
		return zero, &model.ExtractionError{
			Kind: model.ExtractBackendFailure,
			Err:  fmt.Errorf("render prompt: %w", err),
		}
	}

	raw, err := c.provider.Complete(ctx, apiKey, promptBuf.String())
	if err != nil {
		return zero, model.ClassifyBackendError(err)
	}

	if strings.TrimSpace(raw) == "" {
		return zero, &model.ExtractionError{Kind: model.ExtractEmptyResponse}
	}

	cleaned := stripCodeFences(raw)

	var rs rawSummary
	if err := json.Unmarshal([]byte(cleaned), &rs); err != nil {
		return zero, &model.ExtractionError{Kind: model.ExtractMalformedResponse, Err: err}
	}

	result := model.ExtractionResult{
		Summary:         rs.Summary,
		Company:         optional(rs.Company),
		JobRole:         optional(rs.JobRole),
		Deadline:        optional(rs.Deadline),
		Eligibility:     optional(rs.Eligibility),
		ApplicationLink: optional(rs.ApplicationLink),
	}
	if result.Summary == "" {
		result.Summary = summaryFallback
	}
	return result, nil
}

// stripCodeFences removes markdown code fences the backend sometimes wraps
// its JSON in, with or without a json language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// optional maps a present-but-empty field to absent.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
