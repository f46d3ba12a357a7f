package transcript

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/live"
	"github.com/fluentloop/voice-tutor/internal/metrics"
)

// SessionRecorder persists one live session's transcript lines and
// republishes them on the feed for observers.
type SessionRecorder struct {
	store   *Store
	feed    *Feed
	indexer Indexer
	metrics *metrics.Metrics
	logger  *slog.Logger

	sessionID string
	userID    string
	lessonID  string
}

func NewSessionRecorder(store *Store, feed *Feed, indexer Indexer, m *metrics.Metrics, logger *slog.Logger, sessionID, userID, lessonID string) *SessionRecorder {
	return &SessionRecorder{
		store:     store,
		feed:      feed,
		indexer:   indexer,
		metrics:   m,
		logger:    logger.With("session_id", sessionID),
		sessionID: sessionID,
		userID:    userID,
		lessonID:  lessonID,
	}
}

func (r *SessionRecorder) Record(ctx context.Context, evt live.TranscriptEvent) error {
	text := strings.TrimSpace(evt.Text)
	if text == "" {
		return nil
	}

	spokenAt := evt.Timestamp
	if spokenAt.IsZero() {
		spokenAt = time.Now()
	}

	entry := &Entry{
		SessionID: r.sessionID,
		UserID:    r.userID,
		LessonID:  r.lessonID,
		Role:      string(evt.Role),
		Text:      text,
		SpokenAt:  spokenAt,
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return err
	}
	r.metrics.RecordTranscriptLine(entry.Role)

	if r.indexer != nil {
		go r.indexer.IndexEntry(entry)
	}

	// The stored row is the source of truth. Observers just miss a
	// line when the feed is unreachable.
	if r.feed != nil {
		ev := &Event{
			SessionID: r.sessionID,
			Role:      entry.Role,
			Text:      entry.Text,
			SpokenAt:  entry.SpokenAt,
		}
		if err := r.feed.Publish(ctx, ev); err != nil {
			r.logger.Error("publishing transcript line", "error", err)
		}
	}

	return nil
}
