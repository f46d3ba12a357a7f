package dto

// RecallMatchResponse is one transcript line surfaced by semantic search.
type RecallMatchResponse struct {
	EntryID   string `json:"entry_id" example:"tr_1a2b3c"`
	SessionID string `json:"session_id" example:"sess_9f8e7d"`
	LessonID  string `json:"lesson_id,omitempty" example:"ls_4d5e6f"`
	Role      string `json:"role" enums:"user,assistant" example:"assistant"`
	Text      string `json:"text" example:"Un café au lait, s'il vous plaît."`
	SpokenAt  string `json:"spoken_at" example:"2024-03-10T14:02:11Z"`
}

// RecallSearchResponse answers a recall query.
type RecallSearchResponse struct {
	Query   string                `json:"query" example:"ordering coffee"`
	Matches []RecallMatchResponse `json:"matches"`
}
