package classroom

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/labstack/echo/v4"
)

const joinTokenTTL = 24 * time.Hour

type Handler struct {
	tokens *TokenService
	logger *slog.Logger
}

func NewHandler(tokens *TokenService, logger *slog.Logger) *Handler {
	return &Handler{
		tokens: tokens,
		logger: logger.With("component", "classroom_handler"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateRoom)
	g.POST("/:room/token", h.JoinRoom)
}

// @Summary      Open a practice room
// @Description  Creates a fresh group practice room and returns a join token for it
// @Tags         classrooms
// @Produce      json
// @Success      200  {object}  dto.ClassroomTokenResponse
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /classrooms [post]
func (h *Handler) CreateRoom(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	room := h.tokens.NewRoomName()
	return h.issueToken(c, userID, room)
}

// @Summary      Join a practice room
// @Description  Returns a join token for an existing practice room
// @Tags         classrooms
// @Produce      json
// @Param        room  path  string  true  "Room name"
// @Success      200  {object}  dto.ClassroomTokenResponse
// @Failure      400  {object}  shared.APIError
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /classrooms/{room}/token [post]
func (h *Handler) JoinRoom(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	room := strings.TrimSpace(c.Param("room"))
	if room == "" || len(room) > 64 {
		return shared.BadRequest("invalid_room", "room name must be 1-64 characters")
	}

	return h.issueToken(c, userID, room)
}

func (h *Handler) issueToken(c echo.Context, userID, room string) error {
	token, err := h.tokens.MintJoinToken(userID, room, joinTokenTTL)
	if err != nil {
		h.logger.Error("failed to mint join token", "error", err, "user_id", userID, "room", room)
		return shared.InternalError("token_failed", "failed to mint a join token")
	}

	return c.JSON(http.StatusOK, dto.ClassroomTokenResponse{
		Token:    token,
		URL:      h.tokens.URL(),
		Room:     room,
		Identity: userID,
	})
}
