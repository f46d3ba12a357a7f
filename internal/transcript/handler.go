package transcript

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/live"
	"github.com/fluentloop/voice-tutor/internal/metrics"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	sseKeepAliveInterval = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	store   *Store
	feed    *Feed
	indexer Indexer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(store *Store, feed *Feed, indexer Indexer, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		feed:    feed,
		indexer: indexer,
		metrics: m,
		logger:  logger.With("component", "transcript_handler"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/:id", h.GetSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.GET("/sessions/:id/live", h.StreamSession)
	g.POST("/entries", h.Ingest)
}

// @Summary      List recorded sessions
// @Description  Returns the caller's recorded tutoring sessions, most recent first
// @Tags         transcripts
// @Produce      json
// @Param        limit   query     int  false  "Number of results (default 20, max 100)"
// @Param        offset  query     int  false  "Offset for pagination"
// @Success      200     {object}  dto.TranscriptSessionListResponse
// @Failure      401     {object}  shared.APIError
// @Failure      500     {object}  shared.APIError
// @Security     BearerAuth
// @Router       /transcripts/sessions [get]
func (h *Handler) ListSessions(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		if o, err := strconv.Atoi(s); err == nil && o >= 0 {
			offset = o
		}
	}

	sessions, err := h.store.Sessions(c.Request().Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err, "user_id", userID)
		return shared.InternalError("list_failed", "failed to list sessions")
	}

	response := make([]dto.TranscriptSessionResponse, len(sessions))
	for i, s := range sessions {
		response[i] = dto.TranscriptSessionResponse{
			SessionID: s.SessionID,
			LessonID:  s.LessonID,
			StartedAt: s.StartedAt.Format(time.RFC3339),
			EndedAt:   s.EndedAt.Format(time.RFC3339),
			Lines:     s.Lines,
		}
	}

	return c.JSON(http.StatusOK, dto.TranscriptSessionListResponse{
		Sessions: response,
		Limit:    limit,
		Offset:   offset,
	})
}

// @Summary      Get a session transcript
// @Description  Returns one recorded session's lines in spoken order
// @Tags         transcripts
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.SessionTranscriptResponse
// @Failure      401  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /transcripts/sessions/{id} [get]
func (h *Handler) GetSession(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	sessionID := c.Param("id")
	owner, err := h.store.SessionOwner(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		return shared.InternalError("get_failed", "failed to load session")
	}
	if owner != userID {
		return shared.Forbidden("not_owner", "you don't own this session")
	}

	entries, err := h.store.BySession(c.Request().Context(), sessionID, 1000, 0)
	if err != nil {
		h.logger.Error("failed to load transcript", "error", err, "session_id", sessionID)
		return shared.InternalError("get_failed", "failed to load session")
	}

	response := dto.SessionTranscriptResponse{
		SessionID: sessionID,
		Entries:   make([]dto.TranscriptEntryResponse, len(entries)),
	}
	for i, e := range entries {
		if response.LessonID == "" {
			response.LessonID = e.LessonID
		}
		response.Entries[i] = dto.TranscriptEntryResponse{
			ID:       e.ID,
			Role:     e.Role,
			Text:     e.Text,
			SpokenAt: e.SpokenAt.Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, response)
}

// @Summary      Delete a session transcript
// @Description  Deletes all stored lines of one recorded session
// @Tags         transcripts
// @Param        id  path  string  true  "Session ID"
// @Success      204
// @Failure      401  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /transcripts/sessions/{id} [delete]
func (h *Handler) DeleteSession(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	sessionID := c.Param("id")
	ctx := c.Request().Context()

	owner, err := h.store.SessionOwner(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		return shared.InternalError("delete_failed", "failed to delete session")
	}
	if owner != userID {
		return shared.Forbidden("not_owner", "you don't own this session")
	}

	// Vectors resolve through the rows, so they go first.
	if h.indexer != nil {
		h.indexer.ForgetSession(ctx, sessionID)
	}

	if err := h.store.DeleteSession(ctx, sessionID, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.logger.Error("failed to delete session", "error", err, "session_id", sessionID)
		return shared.InternalError("delete_failed", "failed to delete session")
	}

	return c.NoContent(http.StatusNoContent)
}

// StreamSession follows a session live. Clients that accept
// text/event-stream get SSE, everyone else is upgraded to a websocket.
func (h *Handler) StreamSession(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	sessionID := c.Param("id")

	// A session that has already recorded lines belongs to someone; a
	// brand new one has no rows yet and is claimable by whoever holds
	// its unguessable ID.
	owner, err := h.store.SessionOwner(c.Request().Context(), sessionID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return shared.InternalError("stream_failed", "failed to check session")
	}
	if err == nil && owner != userID {
		return shared.Forbidden("not_owner", "you don't own this session")
	}

	events, stop, err := h.feed.Subscribe(sessionID)
	if err != nil {
		h.logger.Error("failed to subscribe", "error", err, "session_id", sessionID)
		return shared.InternalError("stream_failed", "failed to subscribe to session")
	}

	accept := c.Request().Header.Get("Accept")
	if strings.Contains(accept, "text/event-stream") {
		return h.streamSSE(c, sessionID, events, stop)
	}
	return h.streamWS(c, sessionID, events, stop)
}

func (h *Handler) streamSSE(c echo.Context, sessionID string, events <-chan *Event, stop func()) error {
	defer stop()

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	h.logger.Info("observer connected (SSE)", "session_id", sessionID)
	defer h.logger.Info("observer disconnected (SSE)", "session_id", sessionID)

	ticker := time.NewTicker(sseKeepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := c.Response().Write([]byte("data: ")); err != nil {
				return nil
			}
			if _, err := c.Response().Write(data); err != nil {
				return nil
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return nil
			}
			c.Response().Flush()
		case <-ticker.C:
			if _, err := c.Response().Write([]byte(":keepalive\n\n")); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}

func (h *Handler) streamWS(c echo.Context, sessionID string, events <-chan *Event, stop func()) error {
	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		stop()
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}
	defer ws.Close()
	defer stop()

	h.logger.Info("observer connected (WebSocket)", "session_id", sessionID)
	defer h.logger.Info("observer disconnected (WebSocket)", "session_id", sessionID)

	// The observer never sends data; the read loop just notices the
	// client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.SetReadLimit(maxMessageSize)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case ev, ok := <-events:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// @Summary      Ingest transcript entries
// @Description  Stores transcript lines recorded offline, e.g. by the CLI after a session
// @Tags         transcripts
// @Accept       json
// @Produce      json
// @Param        request  body      dto.IngestTranscriptRequest  true  "Entries to store"
// @Success      201      {object}  dto.IngestTranscriptResponse
// @Failure      400      {object}  shared.APIError
// @Failure      401      {object}  shared.APIError
// @Failure      403      {object}  shared.APIError
// @Security     BearerAuth
// @Router       /transcripts/entries [post]
func (h *Handler) Ingest(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.IngestTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if req.SessionID == "" {
		return shared.BadRequest("missing_session_id", "session_id is required")
	}
	if len(req.Entries) == 0 {
		return shared.BadRequest("missing_entries", "entries are required")
	}

	ctx := c.Request().Context()

	owner, err := h.store.SessionOwner(ctx, req.SessionID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return shared.InternalError("ingest_failed", "failed to check session")
	}
	if err == nil && owner != userID {
		return shared.Forbidden("not_owner", "you don't own this session")
	}

	for _, in := range req.Entries {
		if in.Role != string(live.RoleUser) && in.Role != string(live.RoleAssistant) {
			return shared.BadRequest("invalid_role", "role must be user or assistant")
		}
	}

	recorder := NewSessionRecorder(h.store, h.feed, h.indexer, h.metrics, h.logger, req.SessionID, userID, req.LessonID)

	stored := 0
	for _, in := range req.Entries {
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		err := recorder.Record(ctx, live.TranscriptEvent{
			Text:      in.Text,
			Role:      live.Role(in.Role),
			Timestamp: in.SpokenAt,
		})
		if err != nil {
			h.logger.Error("failed to store entry", "error", err, "session_id", req.SessionID)
			return shared.InternalError("ingest_failed", "failed to store entries")
		}
		stored++
	}

	return c.JSON(http.StatusCreated, dto.IngestTranscriptResponse{Stored: stored})
}
