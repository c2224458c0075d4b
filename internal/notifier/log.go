package notifier

import (
	"log/slog"

	"github.com/rounakb/placedigest/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly summarized opportunities to the given logger as
// structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each record via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each record with subject, sender, and the extracted fields.
// Failed extractions are logged at warn level. Returns nil (stdout logging
// does not fail).
func (n *LogNotifier) Notify(records []model.SummaryRecord) error {
	for _, r := range records {
		if r.Failed() {
			n.logger.Warn("summary failed", "subject", r.Subject, "from", r.From, "summary", r.Summary)
			continue
		}
		args := []any{"subject", r.Subject, "from", r.From, "summary", r.Summary}
		if r.Company != nil {
			args = append(args, "company", *r.Company)
		}
		if r.JobRole != nil {
			args = append(args, "role", *r.JobRole)
		}
		if r.Deadline != nil {
			args = append(args, "deadline", *r.Deadline)
		}
		n.logger.Info("new opportunity", args...)
	}
	return nil
}
