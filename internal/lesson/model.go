package lesson

import (
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
)

// Lesson is an authored tutoring scenario. Prompt is the briefing the
// voice tutor runs with; it never leaves the server, learners only see
// the descriptive fields.
type Lesson struct {
	ID       string `gorm:"primaryKey" json:"id"`
	AuthorID string `gorm:"not null;index" json:"author_id"`

	Title       string             `gorm:"not null" json:"title"`
	Description string             `json:"description,omitempty"`
	Language    string             `gorm:"not null;index" json:"language"`
	Level       shared.Level       `gorm:"default:'A1'" json:"level"`
	Topic       string             `json:"topic,omitempty"`
	Objectives  shared.StringSlice `gorm:"type:json" json:"objectives,omitempty"`
	Vocabulary  shared.StringSlice `gorm:"type:json" json:"vocabulary,omitempty"`
	Prompt      string             `gorm:"not null" json:"-"`

	IsPublished bool `gorm:"default:false" json:"is_published"`

	TotalSessions int64 `gorm:"default:0" json:"total_sessions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
