package token

import (
	"context"
	"time"
)

// Grant is the credential for one live connection attempt, together
// with the model and system instruction negotiated for the session.
type Grant struct {
	Token             string    `json:"token"`
	Expiry            time.Time `json:"expires_at"`
	Model             string    `json:"model"`
	SystemInstruction string    `json:"system_instruction,omitempty"`

	// Ephemeral grants authenticate via access_token, long-lived API
	// keys via the key query parameter.
	Ephemeral bool `json:"-"`
}

// Provider supplies connection credentials. instruction overrides the
// provider's default system instruction when non-empty; the returned
// grant carries the instruction the session should use.
type Provider interface {
	Token(ctx context.Context, instruction string) (*Grant, error)
}
