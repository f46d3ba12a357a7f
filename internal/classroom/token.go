package classroom

import (
	"errors"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/livekit/protocol/auth"
)

// TokenService mints LiveKit join tokens for group practice rooms.
type TokenService struct {
	apiKey    string
	apiSecret string
	url       string
}

func NewTokenService(apiKey, apiSecret, url string) *TokenService {
	return &TokenService{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		url:       url,
	}
}

func (s *TokenService) URL() string {
	return s.url
}

func (s *TokenService) MintJoinToken(identity, room string, ttl time.Duration) (string, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return "", errors.New("livekit credentials not configured")
	}

	at := auth.NewAccessToken(s.apiKey, s.apiSecret)

	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     room,
	}

	at.SetIdentity(identity).
		SetValidFor(ttl).
		SetVideoGrant(grant)

	return at.ToJWT()
}

func (s *TokenService) NewRoomName() string {
	return "room_" + shared.NewID("")
}
