package dto

import "time"

type MintTokenRequest struct {
	LessonID          string `json:"lesson_id,omitempty" example:"ls_abc123"`
	SystemInstruction string `json:"system_instruction,omitempty" example:"You are a patient Brazilian Portuguese tutor."`
}

type TokenResponse struct {
	Token             string    `json:"token" example:"auth_tokens/tok_abc123"`
	ExpiresAt         time.Time `json:"expires_at"`
	Model             string    `json:"model" example:"models/gemini-2.0-flash-live-001"`
	SystemInstruction string    `json:"system_instruction,omitempty"`
}

type UsageResponse struct {
	SessionsUsed int64 `json:"sessions_used" example:"3"`
	WindowHours  int   `json:"window_hours" example:"24"`
}
