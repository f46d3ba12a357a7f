package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/labstack/echo/v4"
)

type contextKey string

const claimsKey contextKey = "jwt_claims"

// UserSyncer keeps the local user row in step with the identity a JWT
// carries, so profile edits made elsewhere show up on the next request.
type UserSyncer interface {
	SyncFromJWT(ctx context.Context, userID, email, name, avatar string) error
}

type Middleware struct {
	validator  *JWTValidator
	userSyncer UserSyncer
}

func NewMiddleware(validator *JWTValidator, userSyncer UserSyncer) *Middleware {
	return &Middleware{
		validator:  validator,
		userSyncer: userSyncer,
	}
}

// Authenticate rejects requests without a valid bearer token. Unlike
// Validate, it insists on the Bearer scheme; bare tokens in the
// Authorization header are a client bug worth surfacing.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return shared.Unauthorized("missing_token", "authorization header required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return shared.Unauthorized("invalid_token", "bearer token required")
		}

		claims, err := m.validator.Validate(authHeader)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return shared.Unauthorized("token_expired", "token has expired")
			}
			return shared.Unauthorized("invalid_token", "invalid or malformed token")
		}

		WithClaims(c, claims)

		if m.userSyncer != nil {
			// a sync failure must not turn a valid token into a 401
			_ = m.userSyncer.SyncFromJWT(c.Request().Context(), claims.UserID, claims.Email, claims.Name, claims.AvatarURL)
		}

		return next(c)
	}
}

// OptionalAuthenticate attaches claims when a valid token is present
// and passes anonymous requests through untouched.
func (m *Middleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return next(c)
		}

		claims, err := m.validator.Validate(authHeader)
		if err != nil {
			return next(c)
		}

		WithClaims(c, claims)
		return next(c)
	}
}

// WithClaims attaches validated claims to the request context. Besides
// the JWT middleware, the API key middleware uses it so handlers see one
// identity type regardless of how the caller authenticated.
func WithClaims(c echo.Context, claims *Claims) {
	ctx := context.WithValue(c.Request().Context(), claimsKey, claims)
	c.SetRequest(c.Request().WithContext(ctx))
}

func GetClaims(c echo.Context) *Claims {
	claims, ok := c.Request().Context().Value(claimsKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

func RequireAuth(c echo.Context) (string, error) {
	claims := GetClaims(c)
	if claims == nil {
		return "", shared.Unauthorized("auth_required", "authentication required")
	}
	return claims.UserID, nil
}

func MiddlewareFunc(validator *JWTValidator, userSyncer UserSyncer) echo.MiddlewareFunc {
	return NewMiddleware(validator, userSyncer).Authenticate
}

func OptionalMiddlewareFunc(validator *JWTValidator) echo.MiddlewareFunc {
	return NewMiddleware(validator, nil).OptionalAuthenticate
}
