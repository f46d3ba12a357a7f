package shared

import "time"

// BackoffConfig bounds retry behavior for outbound clients. Zero values
// are replaced with the owning client's defaults.
type BackoffConfig struct {
	Initial     time.Duration
	MaxAttempts int
	MaxDelay    time.Duration
}
