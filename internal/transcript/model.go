package transcript

import "time"

// Entry is one stored transcript line. Role carries the live session
// speaker label, "user" for the learner and "assistant" for the tutor.
type Entry struct {
	ID        string `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"not null;index" json:"session_id"`
	UserID    string `gorm:"not null;index" json:"user_id"`
	LessonID  string `gorm:"index" json:"lesson_id,omitempty"`

	Role     string    `gorm:"not null" json:"role"`
	Text     string    `gorm:"not null" json:"text"`
	SpokenAt time.Time `json:"spoken_at"`

	CreatedAt time.Time `json:"created_at"`
}

// Event is the wire form of a transcript line on the live feed.
type Event struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	SpokenAt  time.Time `json:"spoken_at"`
}

// SessionSummary is one past session as seen in a learner's history.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	LessonID  string    `json:"lesson_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Lines     int64     `json:"lines"`
}
