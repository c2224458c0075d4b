package pipeline

import "github.com/rounakb/placedigest/internal/model"

// Dedup returns the messages whose ids are not in known, preserving the
// fetch order.
func Dedup(messages []model.RawMessage, known map[string]struct{}) []model.RawMessage {
	var fresh []model.RawMessage
	for _, m := range messages {
		if _, ok := known[m.ID]; ok {
			continue
		}
		fresh = append(fresh, m)
	}
	return fresh
}
