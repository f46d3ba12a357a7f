package apikey

import (
	"testing"
	"time"
)

func TestAPIKey_IsExpired(t *testing.T) {
	future := time.Now().Add(90 * 24 * time.Hour)
	past := time.Now().Add(-time.Second)

	tests := []struct {
		name string
		key  APIKey
		want bool
	}{
		{name: "never expires", key: APIKey{}, want: false},
		{name: "well within validity", key: APIKey{ExpiresAt: &future}, want: false},
		{name: "past deadline", key: APIKey{ExpiresAt: &past}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
