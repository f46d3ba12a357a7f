package user

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "fluentloop_session"
	csrfCookieName    = "fluentloop_csrf"

	sessionTTL = 7 * 24 * time.Hour
	stateTTL   = 10 * time.Minute
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrStateExpired   = errors.New("oauth state expired")
)

// SessionManager issues and checks the signed browser cookies. The
// signed payload carries its own deadline, so a replayed cookie stops
// working at the deadline regardless of what the browser did with
// MaxAge.
type SessionManager struct {
	hmacKey []byte
	secure  bool
	domain  string
}

func NewSessionManager(hmacKey []byte, secure bool, domain string) *SessionManager {
	return &SessionManager{
		hmacKey: hmacKey,
		secure:  secure,
		domain:  domain,
	}
}

// Get returns the logged-in user and the session's CSRF token, or an
// error when there is no session, the signature fails, or the session
// has run out.
func (s *SessionManager) Get(c echo.Context) (userID, csrf string, err error) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return "", "", err
	}

	payload, err := s.VerifyValue(cookie.Value)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return "", "", errors.New("invalid session format")
	}
	if expired(parts[2]) {
		return "", "", ErrSessionExpired
	}

	return parts[0], parts[1], nil
}

func (s *SessionManager) Create(c echo.Context, userID string) {
	csrf := randomToken(32)
	deadline := time.Now().Add(sessionTTL).Unix()
	payload := userID + "|" + csrf + "|" + strconv.FormatInt(deadline, 10)

	maxAge := int(sessionTTL.Seconds())
	s.setCookie(c, sessionCookieName, s.SignValue(payload), maxAge, true)
	s.setCookie(c, csrfCookieName, csrf, maxAge, false)
}

func (s *SessionManager) Clear(c echo.Context) {
	s.setCookie(c, sessionCookieName, "", -1, true)
	s.setCookie(c, csrfCookieName, "", -1, false)
}

func (s *SessionManager) setCookie(c echo.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignValue produces base64(value).base64(hmac-sha256(value)).
func (s *SessionManager) SignValue(value string) string {
	mac := hmac.New(sha256.New, s.hmacKey)
	mac.Write([]byte(value))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

func (s *SessionManager) VerifyValue(signed string) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid signature format")
	}

	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.hmacKey)
	mac.Write(payload)
	expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expectedSig)) {
		return "", errors.New("invalid signature")
	}

	return string(payload), nil
}

// RequireCSRF is the double-submit check for cookie-authenticated
// mutations: the X-CSRF-Token header must match both the csrf cookie
// and the token bound into the session.
func (s *SessionManager) RequireCSRF(c echo.Context, sessionCSRF string) error {
	header := c.Request().Header.Get("X-CSRF-Token")
	if header == "" {
		return echo.NewHTTPError(http.StatusForbidden, "missing csrf token")
	}

	csrfCookie, err := c.Cookie(csrfCookieName)
	if err != nil || csrfCookie.Value == "" {
		return echo.NewHTTPError(http.StatusForbidden, "missing csrf cookie")
	}

	if csrfCookie.Value != header || sessionCSRF != header {
		return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
	}

	return nil
}

// GenerateOAuthState builds a signed, short-lived state for the OAuth
// round trip. The redirect target rides along inside the signature so
// the callback cannot be steered somewhere the login never asked for.
func (s *SessionManager) GenerateOAuthState(redirectURI string) string {
	deadline := time.Now().Add(stateTTL).Unix()
	payload := randomToken(16) + "|" + strconv.FormatInt(deadline, 10) + "|" + redirectURI
	return s.SignValue(payload)
}

// VerifyOAuthState checks the state's signature and freshness. A state
// older than stateTTL fails even when the signature holds, which keeps
// a captured login URL from being replayable later.
func (s *SessionManager) VerifyOAuthState(state string) error {
	_, _, err := s.openState(state)
	return err
}

// ExtractRedirectURI returns the redirect target bound into a state,
// or empty for an invalid or stale one.
func (s *SessionManager) ExtractRedirectURI(state string) string {
	_, redirect, err := s.openState(state)
	if err != nil {
		return ""
	}
	return redirect
}

func (s *SessionManager) openState(state string) (nonce, redirect string, err error) {
	payload, err := s.VerifyValue(state)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return "", "", errors.New("invalid state format")
	}
	if expired(parts[1]) {
		return "", "", ErrStateExpired
	}

	return parts[0], parts[2], nil
}

func expired(unixStr string) bool {
	deadline, err := strconv.ParseInt(unixStr, 10, 64)
	if err != nil {
		return true
	}
	return time.Now().Unix() > deadline
}

func randomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return base64.URLEncoding.EncodeToString(b)
}
