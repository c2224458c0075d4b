package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rounakb/placedigest/internal/model"
)

// Pacer spaces out consecutive extraction calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Pipeline owns the full scan for a single run:
// fetch → dedup → extract → persist → notify.
type Pipeline struct {
	source      model.MessageSource
	extractor   model.Extractor
	store       model.RecordStore
	credentials model.CredentialSource
	pacer       Pacer
	notifier    model.Notifier
	locks       *RunLocks
	logger      *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	source model.MessageSource,
	extractor model.Extractor,
	store model.RecordStore,
	credentials model.CredentialSource,
	pacer Pacer,
	notifier model.Notifier,
	locks *RunLocks,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		source:      source,
		extractor:   extractor,
		store:       store,
		credentials: credentials,
		pacer:       pacer,
		notifier:    notifier,
		locks:       locks,
		logger:      logger,
	}
}

// Result is the outcome of one run: the user's full record list and how many
// of those records this run added.
type Result struct {
	Records  []model.SummaryRecord
	NewCount int
}

// Run executes one scan for the user. Messages already summarized are
// skipped; each fresh message gets exactly one extraction attempt, and a
// failed attempt is persisted as a failure record rather than aborting the
// run. Only credential, fetch, and store errors propagate.
func (p *Pipeline) Run(ctx context.Context, userID string) (Result, error) {
	if !p.locks.TryAcquire(userID) {
		return Result{}, model.ErrRunInProgress
	}
	defer p.locks.Release(userID)

	apiKey, err := p.credentials.APIKey(userID)
	if err != nil {
		return Result{}, err
	}

	messages, err := p.source.Fetch(ctx)
	if err != nil {
		return Result{}, &model.FetchError{Err: err}
	}

	known, err := p.store.KnownMessageIDs(userID)
	if err != nil {
		return Result{}, err
	}
	fresh := Dedup(messages, known)

	var written []model.SummaryRecord
	for _, msg := range fresh {
		if err := p.pacer.Wait(ctx); err != nil {
			return Result{}, err
		}

		rec := p.process(ctx, apiKey, userID, msg)
		if err := p.store.Insert(rec); err != nil {
			return Result{}, err
		}
		written = append(written, rec)
	}

	if len(written) > 0 && p.notifier != nil {
		if err := p.notifier.Notify(written); err != nil {
			p.logger.Error("notification failed", "error", err)
		}
	}

	records, err := p.store.ListRecords(userID)
	if err != nil {
		return Result{}, err
	}

	p.logger.Info("scan complete",
		"user", userID,
		"fetched", len(messages),
		"new", len(written),
		"total", len(records),
	)

	return Result{Records: records, NewCount: len(written)}, nil
}

// process runs one extraction attempt and builds the record to persist,
// success or failure.
func (p *Pipeline) process(ctx context.Context, apiKey, userID string, msg model.RawMessage) model.SummaryRecord {
	rec := model.SummaryRecord{
		UserID:    userID,
		EmailID:   msg.ID,
		Subject:   msg.Subject,
		From:      msg.From,
		Snippet:   msg.Snippet,
		CreatedAt: time.Now().UTC(),
	}

	res, err := p.extractor.Extract(ctx, apiKey, msg.Subject, msg.From, msg.Body)
	if err != nil {
		var exErr *model.ExtractionError
		if !errors.As(err, &exErr) {
			exErr = &model.ExtractionError{Kind: model.ExtractBackendFailure, Err: err}
		}
		p.logger.Warn("extraction failed",
			"email_id", msg.ID,
			"subject", msg.Subject,
			"error", exErr,
		)
		rec.Summary = model.FailureSummaryPrefix + exErr.Error()
		return rec
	}

	rec.Summary = res.Summary
	rec.Company = res.Company
	rec.JobRole = res.JobRole
	rec.Deadline = res.Deadline
	rec.Eligibility = res.Eligibility
	rec.ApplicationLink = res.ApplicationLink
	return rec
}
