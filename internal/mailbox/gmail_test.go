package mailbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func TestBuildQuery(t *testing.T) {
	q := buildQuery()

	if !strings.Contains(q, "subject:placement") {
		t.Error("query missing subject:placement")
	}
	if !strings.Contains(q, "subject:internship") {
		t.Error("query missing subject:internship")
	}
	if !strings.Contains(q, `subject:"job opportunity"`) {
		t.Error("multi-word keywords must be quoted to stay scoped to the subject")
	}
	if strings.Count(q, " OR ") != len(placementKeywords)-1 {
		t.Errorf("expected %d OR separators, got %d", len(placementKeywords)-1, strings.Count(q, " OR "))
	}
	for _, term := range strings.Split(q, " OR ") {
		if !strings.HasPrefix(term, "subject:") {
			t.Errorf("term %q is not scoped to the subject field", term)
		}
	}
}

// newFakeGmailSource points a GmailSource at a local test server.
func newFakeGmailSource(t *testing.T, handler http.Handler) (*GmailSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL),
	)
	if err != nil {
		t.Fatalf("gmail.NewService: %v", err)
	}
	return &GmailSource{svc: svc, maxResults: 10}, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestFetch_ListsAndResolvesMessages(t *testing.T) {
	var gotQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		writeJSON(t, w, &gmail.ListMessagesResponse{
			Messages: []*gmail.Message{{Id: "m-1"}, {Id: "m-2"}},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		writeJSON(t, w, &gmail.Message{
			Id:      id,
			Snippet: "snippet " + id,
			Payload: &gmail.MessagePart{
				Headers: []*gmail.MessagePartHeader{
					{Name: "Subject", Value: "Walk-in " + id},
					{Name: "From", Value: "hr@acme.example"},
				},
				Body: &gmail.MessagePartBody{Data: b64("body of " + id)},
			},
		})
	})

	src, _ := newFakeGmailSource(t, mux)

	msgs, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	// Provider order preserved.
	if msgs[0].ID != "m-1" || msgs[1].ID != "m-2" {
		t.Errorf("order not preserved: %q, %q", msgs[0].ID, msgs[1].ID)
	}
	if msgs[0].Subject != "Walk-in m-1" {
		t.Errorf("Subject = %q", msgs[0].Subject)
	}
	if msgs[0].Body != "body of m-1" {
		t.Errorf("Body = %q", msgs[0].Body)
	}
	if !strings.Contains(gotQuery, "subject:placement") {
		t.Errorf("list query %q missing subject keywords", gotQuery)
	}
}

func TestFetch_EmptyMailbox(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &gmail.ListMessagesResponse{})
	})

	src, _ := newFakeGmailSource(t, mux)

	msgs, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}

func TestFetch_ListErrorAborts(t *testing.T) {
	src, _ := newFakeGmailSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"backend"}}`, http.StatusInternalServerError)
	}))

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestFetch_GetErrorAbortsWholeFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &gmail.ListMessagesResponse{
			Messages: []*gmail.Message{{Id: "ok"}, {Id: "boom"}},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "boom") {
			http.Error(w, `{"error":{"code":500,"message":"backend"}}`, http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, &gmail.Message{Id: "ok", Payload: &gmail.MessagePart{}})
	})

	src, _ := newFakeGmailSource(t, mux)

	msgs, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error when a per-message get fails")
	}
	if msgs != nil {
		t.Errorf("expected no partial result, got %d messages", len(msgs))
	}
}
