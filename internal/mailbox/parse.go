package mailbox

import (
	"encoding/base64"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/rounakb/placedigest/internal/model"
)

// Fallbacks for absent or empty headers.
const (
	noSubject   = "No Subject"
	unknownFrom = "Unknown"
)

// parseMessage normalizes a full Gmail message into a RawMessage.
func parseMessage(msg *gmail.Message) model.RawMessage {
	raw := model.RawMessage{
		ID:      msg.Id,
		Subject: noSubject,
		From:    unknownFrom,
		Snippet: msg.Snippet,
	}
	if msg.Payload == nil {
		return raw
	}

	if v := header(msg.Payload.Headers, "Subject"); v != "" {
		raw.Subject = v
	}
	if v := header(msg.Payload.Headers, "From"); v != "" {
		raw.From = v
	}
	raw.Date = header(msg.Payload.Headers, "Date")

	raw.Body = NormalizeBody(extractBody(msg.Payload))
	return raw
}

// header finds the first header with the given name, case-insensitively.
// An empty value counts as absent.
func header(hs []*gmail.MessagePartHeader, name string) string {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) && h.Value != "" {
			return h.Value
		}
	}
	return ""
}

// extractBody prefers the message's top-level body payload. Without one, it
// uses the first direct part whose media type is plain text or HTML. The
// scan is not recursive: a nested multipart without a direct text part
// yields an empty body.
func extractBody(p *gmail.MessagePart) string {
	if p.Body != nil && p.Body.Data != "" {
		return decodeBody(p.Body.Data)
	}
	for _, part := range p.Parts {
		if part.MimeType == "text/plain" || part.MimeType == "text/html" {
			if part.Body == nil {
				return ""
			}
			return decodeBody(part.Body.Data)
		}
	}
	return ""
}

// decodeBody decodes Gmail's URL-safe base64 transport encoding, which may
// arrive with or without padding. Undecodable data yields an empty body
// rather than an error: a single mangled part should not abort the fetch.
func decodeBody(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}
