package apikey

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/user"
	"github.com/labstack/echo/v4"
)

// HeaderAPIKey carries the key secret on programmatic requests, the way
// CLI and server-side integrations authenticate instead of a browser
// session or bearer token.
const HeaderAPIKey = "X-API-Key"

type Middleware struct {
	store  *Store
	users  *user.Store
	logger *slog.Logger
}

func NewMiddleware(store *Store, users *user.Store, logger *slog.Logger) *Middleware {
	return &Middleware{
		store:  store,
		users:  users,
		logger: logger,
	}
}

// Authenticate validates an X-API-Key header and attaches the owner's
// claims to the request. Requests without the header, or with claims
// already attached by the JWT middleware, pass through untouched, so the
// route's own auth checks still apply.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.GetClaims(c) != nil {
			return next(c)
		}

		secret := c.Request().Header.Get(HeaderAPIKey)
		if secret == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		key, err := m.store.Validate(ctx, secret)
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrUnauthorized) {
			return shared.Unauthorized("invalid_api_key", "invalid or expired API key")
		}
		if err != nil {
			m.logger.Error("api key validation failed", "error", err)
			return shared.InternalError("auth_failed", "could not authenticate request")
		}

		claims, err := m.claimsFor(ctx, key)
		if err != nil {
			return err
		}

		auth.WithClaims(c, claims)
		return next(c)
	}
}

func (m *Middleware) claimsFor(ctx context.Context, key *APIKey) (*auth.Claims, error) {
	if key.OwnerType != OwnerTypeUser {
		return &auth.Claims{UserID: key.OwnerID}, nil
	}

	u, err := m.users.GetByID(ctx, key.OwnerID)
	if errors.Is(err, shared.ErrNotFound) {
		// Owner deleted; the orphaned key no longer grants access.
		return nil, shared.Unauthorized("invalid_api_key", "invalid or expired API key")
	}
	if err != nil {
		m.logger.Error("api key owner lookup failed", "error", err, "key_id", key.ID)
		return nil, shared.InternalError("auth_failed", "could not authenticate request")
	}

	return &auth.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}, nil
}
