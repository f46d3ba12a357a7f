package liveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/token"
)

const (
	DefaultLiveModel  = "models/gemini-2.0-flash-live-001"
	DefaultEmbedModel = "models/text-embedding-004"

	DefaultTokenTTL = 30 * time.Minute

	mintPath = "/v1alpha/auth_tokens"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	Backoff    shared.BackoffConfig
}

// Client calls the Google generative language REST API to mint
// ephemeral live tokens and embed transcript text. Rate limits and
// server errors retry with exponential backoff.
type Client struct {
	cfg     Config
	http    *http.Client
	backoff shared.BackoffConfig
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google api key not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLiveModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 15 * time.Second},
		backoff: normalizeBackoff(cfg.Backoff),
		logger:  logger,
	}, nil
}

// Model is the live model grants are locked to.
func (c *Client) Model() string {
	return c.cfg.Model
}

type MintOptions struct {
	// SystemInstruction is baked into the token so the client cannot
	// run a different prompt than the one the server minted for.
	SystemInstruction string
	Model             string
	Uses              int
	TTL               time.Duration
}

type textPart struct {
	Text string `json:"text"`
}

type textContent struct {
	Parts []textPart `json:"parts"`
}

type liveSetup struct {
	Model             string       `json:"model,omitempty"`
	SystemInstruction *textContent `json:"systemInstruction,omitempty"`
}

type mintRequest struct {
	Uses                     int        `json:"uses,omitempty"`
	ExpireTime               string     `json:"expireTime,omitempty"`
	NewSessionExpireTime     string     `json:"newSessionExpireTime,omitempty"`
	BidiGenerateContentSetup *liveSetup `json:"bidiGenerateContentSetup,omitempty"`
}

type mintResponse struct {
	Name string `json:"name"`
}

// MintToken creates a single-use ephemeral credential for the live
// endpoint, locked to the resolved model and system instruction.
func (c *Client) MintToken(ctx context.Context, opts MintOptions) (*token.Grant, error) {
	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	uses := opts.Uses
	if uses <= 0 {
		uses = 1
	}

	now := time.Now()
	expiry := now.Add(ttl)

	req := mintRequest{
		Uses:                 uses,
		ExpireTime:           expiry.UTC().Format(time.RFC3339),
		NewSessionExpireTime: now.Add(2 * time.Minute).UTC().Format(time.RFC3339),
		BidiGenerateContentSetup: &liveSetup{
			Model: model,
		},
	}
	if opts.SystemInstruction != "" {
		req.BidiGenerateContentSetup.SystemInstruction = &textContent{
			Parts: []textPart{{Text: opts.SystemInstruction}},
		}
	}

	var resp mintResponse
	if err := c.post(ctx, mintPath, req, &resp); err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	if resp.Name == "" {
		return nil, errors.New("mint token: empty token in response")
	}

	c.logger.Info("minted live token", "model", model, "expires_at", expiry)

	return &token.Grant{
		Token:             resp.Name,
		Expiry:            expiry,
		Model:             model,
		SystemInstruction: opts.SystemInstruction,
		Ephemeral:         true,
	}, nil
}

type embedRequest struct {
	Content textContent `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// EmbedText embeds a transcript line for semantic recall.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{Content: textContent{Parts: []textPart{{Text: text}}}}

	var resp embedResponse
	path := fmt.Sprintf("/v1beta/%s:embedContent", c.cfg.EmbedModel)
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, errors.New("embed text: empty embedding in response")
	}
	return resp.Embedding.Values, nil
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	delay := c.backoff.Initial
	var lastErr error
	for attempt := 0; attempt < c.backoff.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay = minDuration(delay*2, c.backoff.MaxDelay)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.cfg.APIKey)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		done, err := c.consume(resp, out)
		if done {
			return err
		}
		lastErr = err
		c.logger.Warn("retrying google api call", "path", path, "attempt", attempt+1, "error", err)
	}
	return lastErr
}

// consume reads one response. done is false only for retryable
// statuses.
func (c *Client) consume(resp *http.Response, out any) (done bool, err error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return true, fmt.Errorf("decode response: %w", err)
		}
		return true, nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := ""
	var apiErr apiErrorBody
	if json.Unmarshal(data, &apiErr) == nil {
		msg = apiErr.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	err = fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return !retryable, err
}

func normalizeBackoff(cfg shared.BackoffConfig) shared.BackoffConfig {
	if cfg.Initial <= 0 {
		cfg.Initial = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	return cfg
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
