package liveapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/metrics"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/token"
)

type Minter interface {
	MintToken(ctx context.Context, opts MintOptions) (*token.Grant, error)
}

// PromptSource resolves the system instruction a lesson session should
// run with.
type PromptSource interface {
	SessionPrompt(ctx context.Context, userID, lessonID string) (string, error)
}

// Limiter gates token minting per user and reports recent usage.
// Allow returns shared.ErrQuotaExceeded when the user is over their
// cap.
type Limiter interface {
	Allow(ctx context.Context, userID string) error
	Usage(ctx context.Context, userID string, hours int) (int64, error)
}

type Handler struct {
	minter  Minter
	prompts PromptSource
	limiter Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(minter Minter, prompts PromptSource, limiter Limiter, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		minter:  minter,
		prompts: prompts,
		limiter: limiter,
		metrics: m,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/live/tokens", h.MintToken)
	g.GET("/live/usage", h.Usage)
}

// @Summary      Mint a live session token
// @Description  Creates a short-lived credential for the realtime voice endpoint, locked to the lesson's system instruction
// @Tags         live
// @Accept       json
// @Produce      json
// @Param        request  body  dto.MintTokenRequest  false  "Lesson or instruction override"
// @Success      201  {object}  dto.TokenResponse
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      429  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /live/tokens [post]
func (h *Handler) MintToken(c echo.Context) error {
	claims := auth.GetClaims(c)
	if claims == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	var req dto.MintTokenRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}

	ctx := c.Request().Context()

	if h.limiter != nil {
		if err := h.limiter.Allow(ctx, claims.UserID); err != nil {
			if errors.Is(err, shared.ErrQuotaExceeded) {
				h.metrics.RecordTokenMint("quota")
				return shared.TooManyRequests("quota_exceeded", "live session quota exceeded")
			}
			// A broken quota backend should not take lessons down.
			h.logger.Error("failed to check session quota", "error", err, "user_id", claims.UserID)
		}
	}

	instruction := req.SystemInstruction
	if instruction == "" && req.LessonID != "" && h.prompts != nil {
		prompt, err := h.prompts.SessionPrompt(ctx, claims.UserID, req.LessonID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NotFound("lesson_not_found", "lesson not found")
			}
			h.logger.Error("failed to resolve lesson prompt", "error", err, "lesson_id", req.LessonID)
			return shared.InternalError("prompt_failed", "failed to resolve lesson prompt")
		}
		instruction = prompt
	}

	grant, err := h.minter.MintToken(ctx, MintOptions{SystemInstruction: instruction})
	if err != nil {
		h.metrics.RecordTokenMint("failed")
		h.logger.Error("failed to mint live token", "error", err, "user_id", claims.UserID)
		return shared.InternalError("mint_failed", "failed to mint live token")
	}

	h.metrics.RecordTokenMint("ok")
	h.logger.Info("live token issued", "user_id", claims.UserID, "lesson_id", req.LessonID, "model", grant.Model)

	return c.JSON(http.StatusCreated, dto.TokenResponse{
		Token:             grant.Token,
		ExpiresAt:         grant.Expiry,
		Model:             grant.Model,
		SystemInstruction: grant.SystemInstruction,
	})
}

const (
	defaultUsageWindow = 24
	maxUsageWindow     = 168
)

// @Summary      Report live session usage
// @Description  Sums the caller's session starts over a trailing window of hours. Counting happens at mint time, so a deployment without quotas reports zero.
// @Tags         live
// @Produce      json
// @Param        hours  query  int  false  "Window in hours, 1 to 168"  default(24)
// @Success      200  {object}  dto.UsageResponse
// @Failure      400  {object}  shared.APIError
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /live/usage [get]
func (h *Handler) Usage(c echo.Context) error {
	claims := auth.GetClaims(c)
	if claims == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	hours := defaultUsageWindow
	if v := c.QueryParam("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxUsageWindow {
			return shared.BadRequest("invalid_hours", "hours must be between 1 and 168")
		}
		hours = n
	}

	var used int64
	if h.limiter != nil {
		n, err := h.limiter.Usage(c.Request().Context(), claims.UserID, hours)
		if err != nil {
			h.logger.Error("failed to read session usage", "error", err, "user_id", claims.UserID)
			return shared.InternalError("usage_failed", "failed to read session usage")
		}
		used = n
	}

	return c.JSON(http.StatusOK, dto.UsageResponse{
		SessionsUsed: used,
		WindowHours:  hours,
	})
}
