package lesson

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the learner-facing lesson catalog. Only
// published lessons are visible here, and never their prompts.
type CatalogHandler struct {
	store      *Store
	embeddings EmbeddingService
	logger     *slog.Logger
}

func NewCatalogHandler(store *Store, embeddings EmbeddingService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:      store,
		embeddings: embeddings,
		logger:     logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/lessons", h.List)
	g.GET("/lessons/search", h.Search)
	g.GET("/lessons/:id", h.Get)
}

func lessonToCatalogResponse(l *Lesson) dto.CatalogLessonResponse {
	return dto.CatalogLessonResponse{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Language:      l.Language,
		Level:         string(l.Level),
		Topic:         l.Topic,
		Objectives:    l.Objectives,
		Vocabulary:    l.Vocabulary,
		TotalSessions: l.TotalSessions,
	}
}

// @Summary      List published lessons
// @Description  Returns paginated published lessons, optionally filtered by language and level
// @Tags         catalog
// @Produce      json
// @Param        limit     query     int     false  "Number of results (default 20, max 100)"
// @Param        offset    query     int     false  "Offset for pagination"
// @Param        language  query     string  false  "Filter by target language"
// @Param        level     query     string  false  "Filter by CEFR level"
// @Success      200       {object}  dto.CatalogListResponse
// @Failure      400       {object}  shared.APIError
// @Failure      500       {object}  shared.APIError
// @Router       /catalog/lessons [get]
func (h *CatalogHandler) List(c echo.Context) error {
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

	var level *shared.Level
	if s := c.QueryParam("level"); s != "" {
		lv := shared.Level(strings.ToUpper(s))
		if !lv.Valid() {
			return shared.BadRequest("invalid_level", "level must be one of A1, A2, B1, B2, C1, C2")
		}
		level = &lv
	}

	language := normalizeLanguage(c.QueryParam("language"))

	lessons, err := h.store.ListPublished(c.Request().Context(), language, level, limit, offset)
	if err != nil {
		h.logger.Error("failed to list published lessons", "error", err)
		return shared.InternalError("list_failed", "failed to list lessons")
	}

	response := make([]dto.CatalogLessonResponse, len(lessons))
	for i, l := range lessons {
		response[i] = lessonToCatalogResponse(l)
	}

	return c.JSON(http.StatusOK, dto.CatalogListResponse{
		Lessons: response,
		Limit:   limit,
		Offset:  offset,
	})
}

// @Summary      Get a published lesson
// @Description  Returns details of a published lesson by ID
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Lesson ID"
// @Success      200  {object}  dto.CatalogLessonResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /catalog/lessons/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	lesson, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("lesson_not_found", "lesson not found")
		}
		return shared.InternalError("get_failed", "failed to get lesson")
	}

	if !lesson.IsPublished {
		return shared.NotFound("lesson_not_found", "lesson not found")
	}

	return c.JSON(http.StatusOK, lessonToCatalogResponse(lesson))
}

// @Summary      Search lessons
// @Description  Searches published lessons using semantic search
// @Tags         catalog
// @Produce      json
// @Param        q      query     string  true   "Search query"
// @Param        limit  query     int     false  "Number of results (default 10, max 50)"
// @Success      200    {object}  dto.CatalogSearchResponse
// @Failure      400    {object}  shared.APIError
// @Failure      500    {object}  shared.APIError
// @Router       /catalog/lessons/search [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return shared.BadRequest("missing_query", "search query is required")
	}

	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	if h.embeddings == nil {
		return shared.InternalError("search_unavailable", "search is not available")
	}

	embedding, err := h.embeddings.EmbedText(c.Request().Context(), query)
	if err != nil {
		return shared.InternalError("search_failed", "failed to generate search embedding")
	}

	lessons, err := h.store.SearchByEmbedding(c.Request().Context(), embedding, limit)
	if err != nil {
		return shared.InternalError("search_failed", "failed to search lessons")
	}

	response := make([]dto.CatalogLessonResponse, 0, len(lessons))
	for _, l := range lessons {
		if l.IsPublished {
			response = append(response, lessonToCatalogResponse(l))
		}
	}

	return c.JSON(http.StatusOK, dto.CatalogSearchResponse{Lessons: response})
}
