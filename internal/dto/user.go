package dto

import "time"

type MeResponse struct {
	ID             string `json:"id" example:"user_abc123"`
	Email          string `json:"email,omitempty" example:"ana@example.com"`
	Name           string `json:"name,omitempty" example:"Ana Souza"`
	AvatarURL      string `json:"avatar_url,omitempty" example:"https://example.com/avatar.png"`
	NativeLanguage string `json:"native_language,omitempty" example:"pt"`
	TargetLanguage string `json:"target_language,omitempty" example:"en"`
	Level          string `json:"level,omitempty" example:"B1"`
	IsDeveloper    bool   `json:"is_developer" example:"false"`
}

type UpdateProfileRequest struct {
	NativeLanguage string `json:"native_language" example:"pt"`
	TargetLanguage string `json:"target_language" example:"en"`
	Level          string `json:"level" example:"B1"`
}

type CLITokenResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	ExpiresAt time.Time `json:"expires_at" example:"2025-07-01T12:00:00Z"`
}
