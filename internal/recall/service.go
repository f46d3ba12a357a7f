package recall

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fluentloop/voice-tutor/internal/transcript"
)

// ErrNotConfigured means no embedding backend is wired, so recall can
// neither index nor search.
var ErrNotConfigured = errors.New("embeddings not configured")

// Embedder turns a piece of text into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Noop stands in for the embedder when the upstream API key is absent.
type Noop struct{}

func (Noop) EmbedText(context.Context, string) ([]float32, error) {
	return nil, ErrNotConfigured
}

// Service indexes stored transcript lines and answers semantic recall
// queries over them.
type Service struct {
	embedder Embedder
	store    *Store
	logger   *slog.Logger
}

func NewService(embedder Embedder, store *Store, logger *slog.Logger) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   logger.With("component", "recall"),
	}
}

// IndexEntry embeds one transcript line and upserts it. It runs off the
// request path and only logs failures; a line that never gets a vector
// is still in the transcript, it just won't surface in recall.
func (s *Service) IndexEntry(entry *transcript.Entry) {
	text := strings.TrimSpace(entry.Text)
	if text == "" {
		return
	}

	ctx := context.Background()
	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			s.logger.Error("failed to embed transcript line", "error", err, "entry_id", entry.ID)
		}
		return
	}

	if err := s.store.UpsertEmbedding(ctx, entry.ID, embedding); err != nil {
		s.logger.Error("failed to index transcript line", "error", err, "entry_id", entry.ID)
	}
}

// ForgetSession drops a session's vectors. Runs before the rows go away.
func (s *Service) ForgetSession(ctx context.Context, sessionID string) {
	if err := s.store.DeleteBySession(ctx, sessionID); err != nil {
		s.logger.Error("failed to forget session vectors", "error", err, "session_id", sessionID)
	}
}

// Search embeds the query and returns the caller's closest lines.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]*transcript.Entry, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.SearchBySimilarity(ctx, userID, embedding, limit)
}
