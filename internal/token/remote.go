package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const mintPath = "/api/v1/live/tokens"

// Remote fetches ephemeral grants from the tutoring backend. The
// backend holds the upstream credentials; clients only ever see
// short-lived tokens.
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client

	// LessonID scopes minted grants to one lesson; the backend then
	// resolves the lesson's briefing into the grant's instruction.
	LessonID string
}

func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Remote) Token(ctx context.Context, instruction string) (*Grant, error) {
	body, err := json.Marshal(mintRequest{LessonID: r.LessonID, SystemInstruction: instruction})
	if err != nil {
		return nil, fmt.Errorf("encode mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+mintPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("mint token: unexpected status %d", resp.StatusCode)
	}

	var grant Grant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("decode grant: %w", err)
	}
	if grant.Token == "" {
		return nil, fmt.Errorf("mint token: empty grant")
	}
	grant.Ephemeral = true
	return &grant, nil
}

type mintRequest struct {
	LessonID          string `json:"lesson_id,omitempty"`
	SystemInstruction string `json:"system_instruction,omitempty"`
}
