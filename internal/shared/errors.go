package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// ErrorKind classifies failures inside a live voice session.
type ErrorKind string

const (
	KindTokenAcquisition ErrorKind = "token_acquisition"
	KindTransport        ErrorKind = "transport"
	KindPermission       ErrorKind = "permission"
	KindProtocol         ErrorKind = "protocol"
	KindPlayback         ErrorKind = "playback"
)

// SessionError tags an error with its kind and the operation that
// produced it, so callers can branch on the failure class without
// string matching.
type SessionError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func NewSessionError(kind ErrorKind, op string, err error) *SessionError {
	return &SessionError{Kind: kind, Op: op, Err: err}
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func TokenError(op string, err error) *SessionError {
	return NewSessionError(KindTokenAcquisition, op, err)
}

func TransportError(op string, err error) *SessionError {
	return NewSessionError(KindTransport, op, err)
}

func PermissionError(op string, err error) *SessionError {
	return NewSessionError(KindPermission, op, err)
}

func ProtocolError(op string, err error) *SessionError {
	return NewSessionError(KindProtocol, op, err)
}

func PlaybackError(op string, err error) *SessionError {
	return NewSessionError(KindPlayback, op, err)
}

// KindOf returns the session error kind of err, or "" when err does not
// wrap a SessionError.
func KindOf(err error) ErrorKind {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

type APIError struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"Invalid request body"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func Unauthorized(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusUnauthorized)
}

func Forbidden(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusForbidden)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func Conflict(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusConflict)
}

func TooManyRequests(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusTooManyRequests)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}
