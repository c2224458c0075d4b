package mailbox

import (
	"encoding/base64"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestParseMessage_HeadersAndBody(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m-1",
		Snippet: "Acme is hiring",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "subject", Value: "Placement Drive: Acme"},
				{Name: "FROM", Value: "tpo@college.edu"},
				{Name: "Date", Value: "Mon, 2 Mar 2026 10:00:00 +0530"},
			},
			Body: &gmail.MessagePartBody{Data: b64("<p>Apply   by <b>Friday</b></p>")},
		},
	}

	raw := parseMessage(msg)
	if raw.ID != "m-1" {
		t.Errorf("ID = %q", raw.ID)
	}
	if raw.Subject != "Placement Drive: Acme" {
		t.Errorf("Subject = %q, header lookup should be case-insensitive", raw.Subject)
	}
	if raw.From != "tpo@college.edu" {
		t.Errorf("From = %q", raw.From)
	}
	if raw.Date != "Mon, 2 Mar 2026 10:00:00 +0530" {
		t.Errorf("Date = %q", raw.Date)
	}
	if raw.Snippet != "Acme is hiring" {
		t.Errorf("Snippet = %q", raw.Snippet)
	}
	if raw.Body != "Apply by Friday" {
		t.Errorf("Body = %q", raw.Body)
	}
}

func TestParseMessage_MissingHeadersUseFallbacks(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m-2",
		Payload: &gmail.MessagePart{},
	}

	raw := parseMessage(msg)
	if raw.Subject != noSubject {
		t.Errorf("Subject = %q, want %q", raw.Subject, noSubject)
	}
	if raw.From != unknownFrom {
		t.Errorf("From = %q, want %q", raw.From, unknownFrom)
	}
	if raw.Date != "" {
		t.Errorf("Date = %q, want empty", raw.Date)
	}
}

func TestParseMessage_EmptyHeaderValueCountsAsAbsent(t *testing.T) {
	msg := &gmail.Message{
		Id: "m-3",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: ""},
			},
		},
	}

	if raw := parseMessage(msg); raw.Subject != noSubject {
		t.Errorf("Subject = %q, want fallback for empty header", raw.Subject)
	}
}

func TestParseMessage_NilPayload(t *testing.T) {
	raw := parseMessage(&gmail.Message{Id: "m-4", Snippet: "s"})
	if raw.Subject != noSubject || raw.From != unknownFrom || raw.Body != "" {
		t.Errorf("unexpected RawMessage for nil payload: %+v", raw)
	}
}

func TestExtractBody_PrefersTopLevelPayload(t *testing.T) {
	p := &gmail.MessagePart{
		Body: &gmail.MessagePartBody{Data: b64("top level")},
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("part")}},
		},
	}
	if got := extractBody(p); got != "top level" {
		t.Errorf("extractBody = %q, want top-level payload", got)
	}
}

func TestExtractBody_FirstTextOrHTMLPart(t *testing.T) {
	p := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			{MimeType: "application/pdf", Body: &gmail.MessagePartBody{Data: b64("binary")}},
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>html part</p>")}},
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain part")}},
		},
	}
	if got := extractBody(p); got != "<p>html part</p>" {
		t.Errorf("extractBody = %q, want the first text part in order", got)
	}
}

func TestExtractBody_NoTextPart(t *testing.T) {
	p := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			{MimeType: "image/png", Body: &gmail.MessagePartBody{Data: b64("img")}},
		},
	}
	if got := extractBody(p); got != "" {
		t.Errorf("extractBody = %q, want empty", got)
	}
}

func TestDecodeBody_RawAndPaddedBase64(t *testing.T) {
	if got := decodeBody(base64.RawURLEncoding.EncodeToString([]byte("unpadded"))); got != "unpadded" {
		t.Errorf("decodeBody raw = %q", got)
	}
	if got := decodeBody(base64.URLEncoding.EncodeToString([]byte("padded!"))); got != "padded!" {
		t.Errorf("decodeBody padded = %q", got)
	}
	if got := decodeBody("%%%not-base64%%%"); got != "" {
		t.Errorf("decodeBody garbage = %q, want empty", got)
	}
}
