package dto

type CreateLessonRequest struct {
	Title       string   `json:"title" example:"Ordering at a café"`
	Description string   `json:"description,omitempty" example:"Practice ordering food and drinks"`
	Language    string   `json:"language" example:"fr"`
	Level       string   `json:"level,omitempty" example:"A2" enums:"A1,A2,B1,B2,C1,C2"`
	Topic       string   `json:"topic,omitempty" example:"everyday situations"`
	Objectives  []string `json:"objectives,omitempty" example:"order a drink,ask for the bill"`
	Vocabulary  []string `json:"vocabulary,omitempty" example:"un café,l'addition,s'il vous plaît"`
	Prompt      string   `json:"prompt" example:"You are a friendly waiter in a Paris café."`
}

type UpdateLessonRequest struct {
	Title       *string  `json:"title,omitempty" example:"Ordering at a restaurant"`
	Description *string  `json:"description,omitempty" example:"Updated description"`
	Language    *string  `json:"language,omitempty" example:"fr"`
	Level       *string  `json:"level,omitempty" example:"B1" enums:"A1,A2,B1,B2,C1,C2"`
	Topic       *string  `json:"topic,omitempty" example:"dining out"`
	Objectives  []string `json:"objectives,omitempty" example:"book a table"`
	Vocabulary  []string `json:"vocabulary,omitempty" example:"une réservation"`
	Prompt      *string  `json:"prompt,omitempty" example:"You are a waiter in a busy bistro."`
}

type LessonResponse struct {
	ID            string   `json:"id" example:"ls_abc123"`
	AuthorID      string   `json:"author_id" example:"usr_xyz789"`
	Title         string   `json:"title" example:"Ordering at a café"`
	Description   string   `json:"description,omitempty" example:"Practice ordering food and drinks"`
	Language      string   `json:"language" example:"fr"`
	Level         string   `json:"level" example:"A2"`
	Topic         string   `json:"topic,omitempty" example:"everyday situations"`
	Objectives    []string `json:"objectives,omitempty" example:"order a drink,ask for the bill"`
	Vocabulary    []string `json:"vocabulary,omitempty" example:"un café,l'addition"`
	Prompt        string   `json:"prompt,omitempty" example:"You are a friendly waiter in a Paris café."`
	IsPublished   bool     `json:"is_published" example:"true"`
	TotalSessions int64    `json:"total_sessions" example:"120"`
	CreatedAt     string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt     string   `json:"updated_at" example:"2024-01-20T15:45:00Z"`
}

type LessonListResponse struct {
	Lessons []LessonResponse `json:"lessons"`
}

// CatalogLessonResponse is the learner-facing view of a published
// lesson. It never carries the tutor briefing.
type CatalogLessonResponse struct {
	ID            string   `json:"id" example:"ls_abc123"`
	Title         string   `json:"title" example:"Ordering at a café"`
	Description   string   `json:"description,omitempty" example:"Practice ordering food and drinks"`
	Language      string   `json:"language" example:"fr"`
	Level         string   `json:"level" example:"A2"`
	Topic         string   `json:"topic,omitempty" example:"everyday situations"`
	Objectives    []string `json:"objectives,omitempty" example:"order a drink,ask for the bill"`
	Vocabulary    []string `json:"vocabulary,omitempty" example:"un café,l'addition"`
	TotalSessions int64    `json:"total_sessions" example:"120"`
}

type CatalogListResponse struct {
	Lessons []CatalogLessonResponse `json:"lessons"`
	Limit   int                     `json:"limit" example:"20"`
	Offset  int                     `json:"offset" example:"0"`
}

type CatalogSearchResponse struct {
	Lessons []CatalogLessonResponse `json:"lessons"`
}
