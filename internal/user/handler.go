package user

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/dto"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/labstack/echo/v4"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600

	// Desktop and CLI clients hold their token for a month; the browser
	// session cookie stays on its own shorter expiry.
	cliTokenTTL = 30 * 24 * time.Hour
)

// TokenIssuer mints bearer tokens for native clients. *auth.JWTValidator
// satisfies it.
type TokenIssuer interface {
	Issue(userID, email, name, avatarURL string, ttl time.Duration) (string, error)
}

type Handler struct {
	store   *Store
	google  Provider
	github  Provider
	sm      *SessionManager
	issuer  TokenIssuer
	schemes map[string]struct{}
	logger  *slog.Logger
}

// NewHandler wires the auth surface. schemes lists the custom URL schemes
// native clients may use as OAuth redirect targets, e.g. "fluentloop".
func NewHandler(store *Store, google, github Provider, sm *SessionManager, issuer TokenIssuer, schemes []string, logger *slog.Logger) *Handler {
	normalized := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			normalized[s] = struct{}{}
		}
	}
	return &Handler{
		store:   store,
		google:  google,
		github:  github,
		sm:      sm,
		issuer:  issuer,
		schemes: normalized,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/google", h.GoogleLogin)
	g.GET("/google/callback", h.GoogleCallback)
	g.GET("/github", h.GitHubLogin)
	g.GET("/github/callback", h.GitHubCallback)
	g.GET("/me", h.Me)
	g.PUT("/me/profile", h.UpdateProfile)
	g.POST("/me/developer", h.BecomeDeveloper)
	g.POST("/cli/token", h.CLIToken)
	g.POST("/logout", h.Logout)
}

// @Summary      Start Google sign-in
// @Description  Redirects to Google's consent screen. redirect_uri is honored after login if it passes the allowlist.
// @Tags         auth
// @Param        redirect_uri  query  string  false  "Post-login redirect target"
// @Success      307
// @Failure      500  {object}  shared.APIError
// @Router       /auth/google [get]
func (h *Handler) GoogleLogin(c echo.Context) error {
	return h.handleLogin(c, h.google)
}

// @Summary      Google sign-in callback
// @Tags         auth
// @Success      307
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /auth/google/callback [get]
func (h *Handler) GoogleCallback(c echo.Context) error {
	return h.handleCallback(c, h.google)
}

// @Summary      Start GitHub sign-in
// @Tags         auth
// @Param        redirect_uri  query  string  false  "Post-login redirect target"
// @Success      307
// @Failure      500  {object}  shared.APIError
// @Router       /auth/github [get]
func (h *Handler) GitHubLogin(c echo.Context) error {
	return h.handleLogin(c, h.github)
}

// @Summary      GitHub sign-in callback
// @Tags         auth
// @Success      307
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /auth/github/callback [get]
func (h *Handler) GitHubCallback(c echo.Context) error {
	return h.handleCallback(c, h.github)
}

func (h *Handler) handleLogin(c echo.Context, p Provider) error {
	if p == nil {
		return shared.InternalError("provider_unavailable", "login provider is not configured")
	}

	redirect := h.sanitizeRedirectURI(c.QueryParam("redirect_uri"))
	state := h.sm.GenerateOAuthState(redirect)

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   h.sm.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusTemporaryRedirect, p.AuthURL(state))
}

func (h *Handler) handleCallback(c echo.Context, p Provider) error {
	if p == nil {
		return shared.InternalError("provider_unavailable", "login provider is not configured")
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil {
		return shared.BadRequest("missing_state", "oauth state cookie missing")
	}

	state := c.QueryParam("state")
	if state == "" || state != stateCookie.Value {
		return shared.BadRequest("state_mismatch", "oauth state does not match")
	}

	if err := h.sm.VerifyOAuthState(state); err != nil {
		return shared.BadRequest("invalid_state", "oauth state invalid or expired")
	}

	if oauthErr := c.QueryParam("error"); oauthErr != "" {
		return shared.BadRequest("oauth_denied", "provider returned "+oauthErr)
	}

	code := c.QueryParam("code")
	if code == "" {
		return shared.BadRequest("missing_code", "authorization code missing")
	}

	pu, err := p.Exchange(c.Request().Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange failed", "provider", p.Name(), "error", err)
		return shared.InternalError("exchange_failed", "could not complete sign-in")
	}

	u, err := h.store.FindOrCreate(c.Request().Context(), p.Name(), pu)
	if err != nil {
		h.logger.Error("user upsert failed", "provider", p.Name(), "error", err)
		return shared.InternalError("user_upsert_failed", "could not complete sign-in")
	}

	h.sm.Create(c, u.ID)
	h.clearStateCookie(c)

	redirect := h.sanitizeRedirectURI(h.sm.ExtractRedirectURI(state))
	if redirect == "" {
		redirect = "/"
	}
	if h.isNativeRedirect(redirect) {
		redirect = h.appendNativeToken(redirect, u)
	}

	h.logger.Info("user signed in", "user_id", u.ID, "provider", p.Name())
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// @Summary      Get the signed-in user
// @Description  Returns the current user's profile, including learner settings
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *Handler) Me(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	u, err := h.store.GetByID(c.Request().Context(), userID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("user_not_found", "user not found")
	}
	if err != nil {
		h.logger.Error("user lookup failed", "error", err, "user_id", userID)
		return shared.InternalError("user_lookup_failed", "could not load user")
	}

	return c.JSON(http.StatusOK, meResponse(u))
}

// @Summary      Update learner profile
// @Description  Sets native language, target language and CEFR level for the current user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.UpdateProfileRequest  true  "Profile fields"
// @Success      200  {object}  dto.MeResponse
// @Failure      400  {object}  shared.APIError
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me/profile [put]
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	level := shared.Level(strings.ToUpper(strings.TrimSpace(req.Level)))
	if level != "" && !level.Valid() {
		return shared.BadRequest("invalid_level", "level must be a CEFR code between A1 and C2")
	}

	if err := h.store.UpdateProfile(c.Request().Context(), userID, req.NativeLanguage, req.TargetLanguage, level); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("user_not_found", "user not found")
		}
		h.logger.Error("profile update failed", "error", err, "user_id", userID)
		return shared.InternalError("update_failed", "failed to update profile")
	}

	u, err := h.store.GetByID(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("user lookup failed", "error", err, "user_id", userID)
		return shared.InternalError("user_lookup_failed", "could not load user")
	}

	return c.JSON(http.StatusOK, meResponse(u))
}

// @Summary      Become a developer
// @Description  Upgrades the current user to developer status, unlocking API key management
// @Tags         auth
// @Success      204  "No Content"
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me/developer [post]
func (h *Handler) BecomeDeveloper(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.store.SetDeveloper(c.Request().Context(), userID, true); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("user_not_found", "user not found")
		}
		h.logger.Error("failed to set developer status", "error", err, "user_id", userID)
		return shared.InternalError("update_failed", "failed to update user")
	}

	return c.NoContent(http.StatusNoContent)
}

// @Summary      Issue a CLI token
// @Description  Mints a long-lived bearer token for the desktop and CLI clients
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.CLITokenResponse
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/cli/token [post]
func (h *Handler) CLIToken(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}
	if h.issuer == nil {
		return shared.InternalError("issuer_unavailable", "token issuer is not configured")
	}

	u, err := h.store.GetByID(c.Request().Context(), userID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("user_not_found", "user not found")
	}
	if err != nil {
		h.logger.Error("user lookup failed", "error", err, "user_id", userID)
		return shared.InternalError("user_lookup_failed", "could not load user")
	}

	token, err := h.issuer.Issue(u.ID, u.Email, u.Name, u.AvatarURL, cliTokenTTL)
	if err != nil {
		h.logger.Error("cli token mint failed", "error", err, "user_id", u.ID)
		return shared.InternalError("token_mint_failed", "could not issue token")
	}

	return c.JSON(http.StatusOK, dto.CLITokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(cliTokenTTL),
	})
}

// @Summary      Log out
// @Description  Clears the browser session
// @Tags         auth
// @Success      204  "No Content"
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	if _, err := h.currentUserID(c); err != nil {
		return err
	}

	h.sm.Clear(c)
	return c.NoContent(http.StatusNoContent)
}

// currentUserID resolves the caller from a bearer token when the JWT
// middleware already validated one, otherwise from the session cookie.
// Cookie auth requires the CSRF token on every call.
func (h *Handler) currentUserID(c echo.Context) (string, error) {
	if claims := auth.GetClaims(c); claims != nil {
		return claims.UserID, nil
	}

	userID, csrf, err := h.sm.Get(c)
	if err != nil {
		return "", shared.Unauthorized("auth_required", "authentication required")
	}
	if err := h.sm.RequireCSRF(c, csrf); err != nil {
		return "", err
	}
	return userID, nil
}

// sanitizeRedirectURI rejects redirect targets that could leak the
// session elsewhere. Allowed: relative paths, https, http to loopback
// hosts, and the configured native client schemes.
func (h *Handler) sanitizeRedirectURI(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		return raw
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return raw
		}
		return ""
	default:
		if _, ok := h.schemes[strings.ToLower(u.Scheme)]; ok {
			return raw
		}
		return ""
	}
}

func (h *Handler) isNativeRedirect(redirect string) bool {
	u, err := url.Parse(redirect)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return false
	}
	_, ok := h.schemes[strings.ToLower(u.Scheme)]
	return ok
}

// appendNativeToken attaches a bearer token to a native client redirect
// so the app ends up signed in without sharing the browser cookie.
func (h *Handler) appendNativeToken(redirect string, u *User) string {
	if h.issuer == nil {
		return redirect
	}

	token, err := h.issuer.Issue(u.ID, u.Email, u.Name, u.AvatarURL, cliTokenTTL)
	if err != nil {
		h.logger.Error("native token mint failed", "error", err, "user_id", u.ID)
		return redirect
	}

	parsed, err := url.Parse(redirect)
	if err != nil {
		return redirect
	}
	q := parsed.Query()
	q.Set("token", token)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func (h *Handler) clearStateCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func meResponse(u *User) dto.MeResponse {
	return dto.MeResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		NativeLanguage: u.NativeLanguage,
		TargetLanguage: u.TargetLanguage,
		Level:          string(u.Level),
		IsDeveloper:    u.IsDeveloper,
	}
}
