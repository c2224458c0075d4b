package model

import (
	"context"
	"time"
)

// RawMessage is a normalized, decoded mailbox message. It lives only for the
// duration of a single pipeline run.
type RawMessage struct {
	ID      string // provider-assigned message id, stable across fetches
	Subject string // "No Subject" when the provider omits the header
	From    string // "Unknown" when the provider omits the header
	Date    string // raw Date header, "" when absent
	Snippet string // provider-generated preview
	Body    string // plain text: tags stripped, whitespace collapsed, capped
}

// ExtractionResult is the structured data pulled out of one message by the
// extraction backend. Optional fields are nil when the backend could not
// find them; nil, not "", is the canonical unknown.
type ExtractionResult struct {
	Summary         string
	Company         *string
	JobRole         *string
	Deadline        *string
	Eligibility     *string
	ApplicationLink *string
}

// FailureSummaryPrefix starts the summary of every record written for a
// failed extraction attempt, so failures are distinguishable from real
// summaries both visually and programmatically.
const FailureSummaryPrefix = "Failed to generate summary: "

// SummaryRecord is the persisted outcome of one extraction attempt, success
// or failure. At most one record exists per (UserID, EmailID) pair.
type SummaryRecord struct {
	ID              int64
	UserID          string
	EmailID         string
	Subject         string
	From            string
	Snippet         string
	Summary         string
	Company         *string
	JobRole         *string
	Deadline        *string
	Eligibility     *string
	ApplicationLink *string
	CreatedAt       time.Time
}

// Failed reports whether this record was written for a failed extraction.
func (r SummaryRecord) Failed() bool {
	return len(r.Summary) >= len(FailureSummaryPrefix) &&
		r.Summary[:len(FailureSummaryPrefix)] == FailureSummaryPrefix
}

// MessageSource fetches placement-related messages from the mailbox provider.
// Any provider error aborts the whole fetch; there is no partial result.
type MessageSource interface {
	Fetch(ctx context.Context) ([]RawMessage, error)
}

// Extractor turns one message's text into an ExtractionResult using the
// extraction backend. apiKey is the user's backend credential.
type Extractor interface {
	Extract(ctx context.Context, apiKey, subject, from, body string) (ExtractionResult, error)
}

// RecordStore holds persisted summary records, keyed by (user, message id).
type RecordStore interface {
	// KnownMessageIDs returns the message ids of every record the user
	// already has, in one batch.
	KnownMessageIDs(userID string) (map[string]struct{}, error)
	// Insert writes one record. Records are never updated or deleted here.
	Insert(rec SummaryRecord) error
	// ListRecords returns all of the user's records, newest first.
	ListRecords(userID string) ([]SummaryRecord, error)
}

// CredentialSource resolves a user's decrypted extraction-backend credential.
// Returns ErrNoCredential when the user has not configured one.
type CredentialSource interface {
	APIKey(userID string) (string, error)
}

// Notifier announces records newly written by a run.
type Notifier interface {
	Notify(records []SummaryRecord) error
}
