package recall

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/labstack/echo/v4"
)

func newTestRecallHandler(t *testing.T, embedder Embedder) *Handler {
	store, _ := setupTestRecallDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(embedder, store, logger)
	return NewHandler(service, nil, logger)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID string) echo.Context {
	c := e.NewContext(req, rec)
	auth.WithClaims(c, &auth.Claims{UserID: userID})
	return c
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h := newTestRecallHandler(t, Noop{})
	e := echo.New()
	h.RegisterRoutes(e.Group("/recall"))

	found := false
	for _, r := range e.Routes() {
		if r.Method == http.MethodGet && r.Path == "/recall" {
			found = true
		}
	}
	if !found {
		t.Error("expected GET /recall to be registered")
	}
}

func TestHandler_Search_Unauthorized(t *testing.T) {
	h := newTestRecallHandler(t, Noop{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/recall?q=coffee", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Search(c)
	if err == nil {
		t.Fatal("expected error for unauthenticated request")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestHandler_Search_MissingQuery(t *testing.T) {
	h := newTestRecallHandler(t, Noop{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/recall", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user_1")

	err := h.Search(c)
	if err == nil {
		t.Fatal("expected error for missing query")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_Search_NotConfigured(t *testing.T) {
	h := newTestRecallHandler(t, Noop{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/recall?q=coffee", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user_1")

	err := h.Search(c)
	if err == nil {
		t.Fatal("expected error without embeddings")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

func TestHandler_Search_StoreUnavailable(t *testing.T) {
	h := newTestRecallHandler(t, &fixedEmbedder{vec: []float32{0.1, 0.2}})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/recall?q=coffee", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user_1")

	err := h.Search(c)
	if err == nil {
		t.Fatal("expected error without qdrant")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}
