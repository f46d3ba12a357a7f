package transcript

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fluentloop/voice-tutor/internal/live"
)

type stubIndexer struct {
	mu      sync.Mutex
	entries []*Entry
	forgot  []string
}

func (s *stubIndexer) IndexEntry(e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *stubIndexer) ForgetSession(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgot = append(s.forgot, sessionID)
}

func (s *stubIndexer) indexed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newTestRecorder(t *testing.T) (*SessionRecorder, *Store, *Feed) {
	store := setupTestTranscriptDB(t)
	feed, _ := newTestFeed(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec := NewSessionRecorder(store, feed, nil, nil, logger, "sess_1", "user_1", "ls_1")
	return rec, store, feed
}

func TestSessionRecorder_Record(t *testing.T) {
	rec, store, _ := newTestRecorder(t)

	err := rec.Record(context.Background(), live.TranscriptEvent{
		Text:      "je voudrais un café",
		Role:      live.RoleUser,
		Timestamp: time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	entries, err := store.BySession(context.Background(), "sess_1", 100, 0)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Text != "je voudrais un café" {
		t.Errorf("unexpected text %q", entries[0].Text)
	}
	if entries[0].Role != "user" {
		t.Errorf("expected role user, got %s", entries[0].Role)
	}
	if entries[0].UserID != "user_1" {
		t.Errorf("expected user_1, got %s", entries[0].UserID)
	}
	if entries[0].LessonID != "ls_1" {
		t.Errorf("expected ls_1, got %s", entries[0].LessonID)
	}
}

func TestSessionRecorder_SkipsEmptyText(t *testing.T) {
	rec, store, _ := newTestRecorder(t)

	if err := rec.Record(context.Background(), live.TranscriptEvent{Text: "   ", Role: live.RoleAssistant}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	entries, err := store.BySession(context.Background(), "sess_1", 100, 0)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected blank line to be skipped, got %d entries", len(entries))
	}
}

func TestSessionRecorder_FillsZeroTimestamp(t *testing.T) {
	rec, store, _ := newTestRecorder(t)

	before := time.Now().Add(-time.Second)
	if err := rec.Record(context.Background(), live.TranscriptEvent{Text: "hello", Role: live.RoleAssistant}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	entries, err := store.BySession(context.Background(), "sess_1", 100, 0)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SpokenAt.Before(before) {
		t.Errorf("expected spoken_at to be filled in, got %v", entries[0].SpokenAt)
	}
}

func TestSessionRecorder_IndexesEntries(t *testing.T) {
	store := setupTestTranscriptDB(t)
	feed, _ := newTestFeed(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	indexer := &stubIndexer{}

	rec := NewSessionRecorder(store, feed, indexer, nil, logger, "sess_1", "user_1", "ls_1")

	if err := rec.Record(context.Background(), live.TranscriptEvent{Text: "merci", Role: live.RoleUser}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if indexer.indexed() != 1 {
		t.Errorf("expected 1 indexed entry, got %d", indexer.indexed())
	}
}

func TestSessionRecorder_PublishesToFeed(t *testing.T) {
	rec, _, feed := newTestRecorder(t)

	ch, stop, err := feed.Subscribe("sess_1")
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer stop()

	time.Sleep(100 * time.Millisecond)

	if err := rec.Record(context.Background(), live.TranscriptEvent{
		Text: "très bien",
		Role: live.RoleAssistant,
	}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	select {
	case got := <-ch:
		if got.Text != "très bien" {
			t.Errorf("expected text %q, got %q", "très bien", got.Text)
		}
		if got.SessionID != "sess_1" {
			t.Errorf("expected sess_1, got %s", got.SessionID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed event")
	}
}
