package dto

import "time"

type TranscriptEntryResponse struct {
	ID       string `json:"id" example:"tr_abc123"`
	Role     string `json:"role" example:"assistant" enums:"user,assistant"`
	Text     string `json:"text" example:"Bonjour ! Qu'est-ce que je vous sers ?"`
	SpokenAt string `json:"spoken_at" example:"2024-01-15T10:30:02Z"`
}

type SessionTranscriptResponse struct {
	SessionID string                    `json:"session_id" example:"3f1c9a2e-8b4d-4f6a-9c27-5d8e1b0a7f43"`
	LessonID  string                    `json:"lesson_id,omitempty" example:"ls_abc123"`
	Entries   []TranscriptEntryResponse `json:"entries"`
}

type TranscriptSessionResponse struct {
	SessionID string `json:"session_id" example:"3f1c9a2e-8b4d-4f6a-9c27-5d8e1b0a7f43"`
	LessonID  string `json:"lesson_id,omitempty" example:"ls_abc123"`
	StartedAt string `json:"started_at" example:"2024-01-15T10:30:00Z"`
	EndedAt   string `json:"ended_at" example:"2024-01-15T10:42:17Z"`
	Lines     int64  `json:"lines" example:"48"`
}

type TranscriptSessionListResponse struct {
	Sessions []TranscriptSessionResponse `json:"sessions"`
	Limit    int                         `json:"limit" example:"20"`
	Offset   int                         `json:"offset" example:"0"`
}

type IngestTranscriptEntry struct {
	Role     string    `json:"role" example:"user" enums:"user,assistant"`
	Text     string    `json:"text" example:"Un café, s'il vous plaît."`
	SpokenAt time.Time `json:"spoken_at" example:"2024-01-15T10:30:05Z"`
}

type IngestTranscriptRequest struct {
	SessionID string                  `json:"session_id" example:"3f1c9a2e-8b4d-4f6a-9c27-5d8e1b0a7f43"`
	LessonID  string                  `json:"lesson_id,omitempty" example:"ls_abc123"`
	Entries   []IngestTranscriptEntry `json:"entries"`
}

type IngestTranscriptResponse struct {
	Stored int `json:"stored" example:"12"`
}
