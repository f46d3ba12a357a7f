package lesson

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/user"
	"github.com/labstack/echo/v4"
)

type EmbeddingService interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type Handler struct {
	store      *Store
	userStore  *user.Store
	embeddings EmbeddingService
	logger     *slog.Logger
}

func NewHandler(store *Store, userStore *user.Store, embeddings EmbeddingService, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		userStore:  userStore,
		embeddings: embeddings,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/publish", h.Publish)
}

func (h *Handler) requireDeveloper(c echo.Context) (string, error) {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return "", err
	}

	u, err := h.userStore.GetByID(c.Request().Context(), userID)
	if err != nil {
		return "", shared.NotFound("user_not_found", "user not found")
	}

	if !u.IsDeveloper {
		return "", shared.Forbidden("not_developer", "developer access required")
	}

	return userID, nil
}

func lessonToResponse(l *Lesson) dto.LessonResponse {
	return dto.LessonResponse{
		ID:            l.ID,
		AuthorID:      l.AuthorID,
		Title:         l.Title,
		Description:   l.Description,
		Language:      l.Language,
		Level:         string(l.Level),
		Topic:         l.Topic,
		Objectives:    l.Objectives,
		Vocabulary:    l.Vocabulary,
		Prompt:        l.Prompt,
		IsPublished:   l.IsPublished,
		TotalSessions: l.TotalSessions,
		CreatedAt:     l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     l.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func normalizeLanguage(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (h *Handler) List(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	lessons, err := h.store.GetByAuthor(c.Request().Context(), authorID)
	if err != nil {
		h.logger.Error("failed to list lessons", "error", err, "author_id", authorID)
		return shared.InternalError("list_failed", "failed to list lessons")
	}

	response := make([]dto.LessonResponse, len(lessons))
	for i, l := range lessons {
		response[i] = lessonToResponse(l)
	}

	return c.JSON(http.StatusOK, dto.LessonListResponse{Lessons: response})
}

func (h *Handler) Create(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	var req dto.CreateLessonRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if req.Title == "" {
		return shared.BadRequest("missing_title", "title is required")
	}
	if req.Language == "" {
		return shared.BadRequest("missing_language", "language is required")
	}
	if req.Prompt == "" {
		return shared.BadRequest("missing_prompt", "prompt is required")
	}

	level := shared.LevelA1
	if req.Level != "" {
		level = shared.Level(strings.ToUpper(req.Level))
		if !level.Valid() {
			return shared.BadRequest("invalid_level", "level must be one of A1, A2, B1, B2, C1, C2")
		}
	}

	lesson := &Lesson{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Language:    normalizeLanguage(req.Language),
		Level:       level,
		Topic:       req.Topic,
		Objectives:  req.Objectives,
		Vocabulary:  req.Vocabulary,
		Prompt:      req.Prompt,
	}

	if err := h.store.Create(c.Request().Context(), lesson); err != nil {
		h.logger.Error("failed to create lesson", "error", err, "author_id", authorID)
		return shared.InternalError("create_failed", "failed to create lesson")
	}

	if h.embeddings != nil {
		go h.updateEmbedding(lesson)
	}

	return c.JSON(http.StatusCreated, lessonToResponse(lesson))
}

func (h *Handler) Get(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	lesson, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("lesson_not_found", "lesson not found")
		}
		return shared.InternalError("get_failed", "failed to get lesson")
	}

	if lesson.AuthorID != authorID {
		return shared.Forbidden("not_owner", "you don't own this lesson")
	}

	return c.JSON(http.StatusOK, lessonToResponse(lesson))
}

func (h *Handler) Update(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	lesson, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("lesson_not_found", "lesson not found")
		}
		return shared.InternalError("get_failed", "failed to get lesson")
	}

	if lesson.AuthorID != authorID {
		return shared.Forbidden("not_owner", "you don't own this lesson")
	}

	var req dto.UpdateLessonRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Language != nil {
		lesson.Language = normalizeLanguage(*req.Language)
	}
	if req.Level != nil {
		level := shared.Level(strings.ToUpper(*req.Level))
		if !level.Valid() {
			return shared.BadRequest("invalid_level", "level must be one of A1, A2, B1, B2, C1, C2")
		}
		lesson.Level = level
	}
	if req.Topic != nil {
		lesson.Topic = *req.Topic
	}
	if req.Objectives != nil {
		lesson.Objectives = req.Objectives
	}
	if req.Vocabulary != nil {
		lesson.Vocabulary = req.Vocabulary
	}
	if req.Prompt != nil {
		lesson.Prompt = *req.Prompt
	}

	if err := h.store.Update(c.Request().Context(), lesson); err != nil {
		h.logger.Error("failed to update lesson", "error", err, "lesson_id", lesson.ID)
		return shared.InternalError("update_failed", "failed to update lesson")
	}

	if h.embeddings != nil {
		go h.updateEmbedding(lesson)
	}

	return c.JSON(http.StatusOK, lessonToResponse(lesson))
}

func (h *Handler) Delete(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	lessonID := c.Param("id")
	lesson, err := h.store.GetByID(c.Request().Context(), lessonID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("lesson_not_found", "lesson not found")
		}
		return shared.InternalError("get_failed", "failed to get lesson")
	}

	if lesson.AuthorID != authorID {
		return shared.Forbidden("not_owner", "you don't own this lesson")
	}

	if err := h.store.Delete(c.Request().Context(), lessonID); err != nil {
		h.logger.Error("failed to delete lesson", "error", err, "lesson_id", lessonID)
		return shared.InternalError("delete_failed", "failed to delete lesson")
	}

	if h.embeddings != nil {
		go h.store.DeleteEmbedding(context.Background(), lessonID)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Publish(c echo.Context) error {
	authorID, err := h.requireDeveloper(c)
	if err != nil {
		return err
	}

	lesson, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("lesson_not_found", "lesson not found")
		}
		return shared.InternalError("get_failed", "failed to get lesson")
	}

	if lesson.AuthorID != authorID {
		return shared.Forbidden("not_owner", "you don't own this lesson")
	}

	lesson.IsPublished = true
	if err := h.store.Update(c.Request().Context(), lesson); err != nil {
		return shared.InternalError("publish_failed", "failed to publish lesson")
	}

	return c.JSON(http.StatusOK, lessonToResponse(lesson))
}

func (h *Handler) updateEmbedding(lesson *Lesson) {
	ctx := context.Background()
	text := lesson.Title + " " + lesson.Description + " " + lesson.Topic + " " + strings.Join(lesson.Vocabulary, " ")
	embedding, err := h.embeddings.EmbedText(ctx, text)
	if err != nil {
		h.logger.Error("failed to embed lesson", "error", err, "lesson_id", lesson.ID)
		return
	}
	if err := h.store.UpsertEmbedding(ctx, lesson.ID, embedding); err != nil {
		h.logger.Error("failed to store lesson embedding", "error", err, "lesson_id", lesson.ID)
	}
}
