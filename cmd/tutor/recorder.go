package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/live"
)

const ingestPath = "/api/v1/transcripts/entries"

// recorder ships each spoken line to the backend as it happens, so the
// finished session shows up in history and recall without a separate
// upload step. The session owns error handling; a failed line is lost.
type recorder struct {
	baseURL     string
	apiKey      string
	bearerToken string
	lessonID    string
	sessionID   string
	client      *http.Client
	logger      *slog.Logger
}

func newRecorder(baseURL, apiKey, bearerToken, lessonID string, logger *slog.Logger) *recorder {
	return &recorder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		bearerToken: bearerToken,
		lessonID:    lessonID,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With("component", "recorder"),
	}
}

func (r *recorder) Record(ctx context.Context, evt live.TranscriptEvent) error {
	spokenAt := evt.Timestamp
	if spokenAt.IsZero() {
		spokenAt = time.Now()
	}

	body, err := json.Marshal(dto.IngestTranscriptRequest{
		SessionID: r.sessionID,
		LessonID:  r.lessonID,
		Entries: []dto.IngestTranscriptEntry{{
			Role:     string(evt.Role),
			Text:     evt.Text,
			SpokenAt: spokenAt,
		}},
	})
	if err != nil {
		return fmt.Errorf("encode transcript entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+ingestPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ingest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case r.bearerToken != "":
		req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	case r.apiKey != "":
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload transcript entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload transcript entry: unexpected status %d", resp.StatusCode)
	}
	return nil
}
