package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
)

func TestChatSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("message"); got != "plan a science lesson" {
			t.Fatalf("message field wrong: %q", got)
		}
		if got := r.FormValue("teacher_language"); got != "hindi" {
			t.Fatalf("teacher_language wrong: %q", got)
		}
		if got := r.FormValue("current_page"); got != "4" {
			t.Fatalf("current_page wrong: %q", got)
		}
		file, header, err := r.FormFile("file_0")
		if err != nil {
			t.Fatalf("file_0 missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "chapter.pdf" {
			t.Fatalf("file name wrong: %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"Here is a lesson plan."}`))
	}))
	defer server.Close()

	client := NewFromEnv(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	payload, err := client.Chat(context.Background(), ChatRequest{
		Message: "plan a science lesson",
		Files:   []FileAttachment{{Name: "chapter.pdf", Data: []byte("%PDF-1.4")}},
		Context: educontext.Context{TeacherLanguage: "hindi", CurrentPage: 4, TotalPages: 9},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if payload.Text != "Here is a lesson plan." {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	client := NewFromEnv(Config{Endpoint: "http://localhost:0"})
	if _, err := client.Chat(context.Background(), ChatRequest{Message: "   "}); err == nil {
		t.Fatal("empty message should be rejected before any network call")
	}
}

func TestChatWrapsStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no message"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewFromEnv(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestFollowUpRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/followup" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body struct {
			Message    string `json:"message"`
			BoxID      string `json:"box_id"`
			BoxHeading string `json:"box_heading"`
			BoxText    string `json:"box_text"`
			Education  struct {
				ClassLevel string `json:"class_level"`
			} `json:"education_context"`
		}
		if err := decodeJSON(r, &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.BoxID != "box-2" || body.BoxHeading != "Activity" {
			t.Fatalf("box fields wrong: %+v", body)
		}
		if body.Education.ClassLevel != "8" {
			t.Fatalf("education context missing: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"updated_text":"Try pair reading instead."}`))
	}))
	defer server.Close()

	client := NewFromEnv(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	updated, err := client.FollowUp(context.Background(), FollowUpRequest{
		Message:    "make it shorter",
		BoxID:      "box-2",
		BoxHeading: "Activity",
		BoxText:    "Group reading.",
		Context:    educontext.Context{ClassLevel: "8"},
	})
	if err != nil {
		t.Fatalf("FollowUp() error = %v", err)
	}
	if updated != "Try pair reading instead." {
		t.Fatalf("unexpected updated text: %q", updated)
	}
}

func TestFollowUpMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"updated_text":`))
	}))
	defer server.Close()

	client := NewFromEnv(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	if _, err := client.FollowUp(context.Background(), FollowUpRequest{Message: "q", BoxID: "b"}); err == nil {
		t.Fatal("malformed JSON should surface as an error")
	}
}

func TestFollowUpMissingUpdatedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewFromEnv(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	if _, err := client.FollowUp(context.Background(), FollowUpRequest{Message: "q", BoxID: "b"}); err == nil {
		t.Fatal("missing updated_text should surface as an error")
	}
}
