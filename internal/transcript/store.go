package transcript

import (
	"context"
	"errors"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Entry{})
}

func (s *Store) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = shared.NewID("tr_")
	}
	return s.db.WithContext(ctx).Create(e).Error
}

// BySession returns one session's lines in spoken order.
func (s *Store) BySession(ctx context.Context, sessionID string, limit, offset int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).
		Order("spoken_at ASC, created_at ASC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, err
}

// SessionOwner reports who a recorded session belongs to, or
// shared.ErrNotFound when nothing has been stored for it yet.
func (s *Store) SessionOwner(ctx context.Context, sessionID string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).Select("user_id").
		Where("session_id = ?", sessionID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return e.UserID, nil
}

// Sessions lists a learner's recorded sessions, most recent first.
func (s *Store) Sessions(ctx context.Context, userID string, limit, offset int) ([]*SessionSummary, error) {
	var sessions []*SessionSummary
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Select("session_id, lesson_id, MIN(spoken_at) AS started_at, MAX(spoken_at) AS ended_at, COUNT(*) AS lines").
		Where("user_id = ?", userID).
		Group("session_id, lesson_id").
		Order("started_at DESC").Limit(limit).Offset(offset).
		Scan(&sessions).Error
	return sessions, err
}

func (s *Store) DeleteSession(ctx context.Context, sessionID, userID string) error {
	result := s.db.WithContext(ctx).Delete(&Entry{}, "session_id = ? AND user_id = ?", sessionID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
