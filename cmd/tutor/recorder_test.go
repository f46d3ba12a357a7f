package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/live"
)

func TestRecorder_Record(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody dto.IngestTranscriptRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.IngestTranscriptResponse{Stored: 1})
	}))
	defer srv.Close()

	rec := newRecorder(srv.URL, "sk-fl-test", "", "ls_demo_cafe", slog.Default())
	rec.sessionID = "sess_123"

	spokenAt := time.Date(2024, 1, 15, 10, 30, 5, 0, time.UTC)
	err := rec.Record(context.Background(), live.TranscriptEvent{
		Role:      live.RoleUser,
		Text:      "Un café, s'il vous plaît.",
		Timestamp: spokenAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/transcripts/entries" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotAPIKey != "sk-fl-test" {
		t.Errorf("expected api key header, got '%s'", gotAPIKey)
	}
	if gotBody.SessionID != "sess_123" {
		t.Errorf("unexpected session id '%s'", gotBody.SessionID)
	}
	if gotBody.LessonID != "ls_demo_cafe" {
		t.Errorf("unexpected lesson id '%s'", gotBody.LessonID)
	}
	if len(gotBody.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(gotBody.Entries))
	}
	entry := gotBody.Entries[0]
	if entry.Role != "user" {
		t.Errorf("unexpected role '%s'", entry.Role)
	}
	if entry.Text != "Un café, s'il vous plaît." {
		t.Errorf("unexpected text '%s'", entry.Text)
	}
	if !entry.SpokenAt.Equal(spokenAt) {
		t.Errorf("expected spoken_at %v, got %v", spokenAt, entry.SpokenAt)
	}
}

func TestRecorder_Record_BearerWins(t *testing.T) {
	var gotAuth, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("X-API-Key")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rec := newRecorder(srv.URL, "sk-fl-test", "jwt-token", "", slog.Default())
	rec.sessionID = "sess_123"

	if err := rec.Record(context.Background(), live.TranscriptEvent{Role: live.RoleUser, Text: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer jwt-token" {
		t.Errorf("expected bearer auth, got '%s'", gotAuth)
	}
	if gotAPIKey != "" {
		t.Errorf("expected no api key header when a bearer token is set, got '%s'", gotAPIKey)
	}
}

func TestRecorder_Record_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	rec := newRecorder(srv.URL, "", "", "", slog.Default())
	rec.sessionID = "sess_123"

	if err := rec.Record(context.Background(), live.TranscriptEvent{Role: live.RoleUser, Text: "hi"}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
