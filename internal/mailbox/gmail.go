package mailbox

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/rounakb/placedigest/internal/model"
)

const gmailUser = "me"

// DefaultMaxResults caps how many matching messages one fetch considers.
const DefaultMaxResults = 50

// placementKeywords is the fixed search vocabulary. Each keyword is matched
// against the subject only — precision over recall: a relevant body under an
// unrelated subject is invisible to the pipeline.
var placementKeywords = []string{
	"placement",
	"recruitment",
	"career",
	"hiring",
	"job opportunity",
	"campus drive",
	"job opening",
	"walk-in",
	"interview",
	"offer letter",
	"internship",
	"fresher",
	"graduate",
	"trainee",
	"tpo",
	"cdc",
	"career services",
	"talent acquisition",
}

// buildQuery ORs every keyword, each scoped to the subject field. Keywords
// containing spaces are quoted so Gmail keeps the whole phrase on the subject.
func buildQuery() string {
	terms := make([]string, len(placementKeywords))
	for i, k := range placementKeywords {
		if strings.ContainsRune(k, ' ') {
			k = `"` + k + `"`
		}
		terms[i] = "subject:" + k
	}
	return strings.Join(terms, " OR ")
}

// GmailSource retrieves placement-related messages over the Gmail API.
type GmailSource struct {
	svc        *gmail.Service
	maxResults int64
}

// NewGmailSource builds a source authenticated with the given OAuth access
// token. maxResults <= 0 falls back to DefaultMaxResults.
func NewGmailSource(ctx context.Context, accessToken string, maxResults int64) (*GmailSource, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &GmailSource{svc: svc, maxResults: maxResults}, nil
}

// Fetch lists messages matching the placement query and resolves each to a
// RawMessage, preserving provider order. Any provider error, on the list or
// on a per-message get, aborts the whole fetch with no partial result.
func (s *GmailSource) Fetch(ctx context.Context) ([]model.RawMessage, error) {
	list, err := s.svc.Users.Messages.List(gmailUser).
		Q(buildQuery()).
		MaxResults(s.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]model.RawMessage, 0, len(list.Messages))
	for _, m := range list.Messages {
		if m.Id == "" {
			continue
		}
		full, err := s.svc.Users.Messages.Get(gmailUser, m.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", m.Id, err)
		}
		messages = append(messages, parseMessage(full))
	}

	return messages, nil
}
