package recall

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/metrics"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(service *Service, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger.With("component", "recall_handler"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Search)
}

// @Summary      Recall past conversation lines
// @Description  Semantic search over the caller's stored transcripts
// @Tags         recall
// @Produce      json
// @Param        q      query     string  true   "What to look for"
// @Param        limit  query     int     false  "Number of results (default 10, max 50)"
// @Success      200    {object}  dto.RecallSearchResponse
// @Failure      400    {object}  shared.APIError
// @Failure      401    {object}  shared.APIError
// @Failure      500    {object}  shared.APIError
// @Security     BearerAuth
// @Router       /recall [get]
func (h *Handler) Search(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return shared.BadRequest("missing_query", "query parameter q is required")
	}

	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	h.metrics.RecordRecallSearch()

	entries, err := h.service.Search(c.Request().Context(), userID, query, limit)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return shared.InternalError("recall_unavailable", "semantic recall is not available")
		}
		h.logger.Error("recall search failed", "error", err, "user_id", userID)
		return shared.InternalError("search_failed", "search failed")
	}

	matches := make([]dto.RecallMatchResponse, len(entries))
	for i, e := range entries {
		matches[i] = dto.RecallMatchResponse{
			EntryID:   e.ID,
			SessionID: e.SessionID,
			LessonID:  e.LessonID,
			Role:      e.Role,
			Text:      e.Text,
			SpokenAt:  e.SpokenAt.Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, dto.RecallSearchResponse{
		Query:   query,
		Matches: matches,
	})
}
