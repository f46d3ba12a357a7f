package user

import (
	"context"
	"errors"
	"strings"

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
	return s.db.AutoMigrate(&User{})
}

func (s *Store) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = shared.NewID("user_")
	}
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &u, err
}

func (s *Store) GetByProvider(ctx context.Context, provider, sub string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("provider = ? AND provider_sub = ?", provider, sub).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &u, err
}

// FindOrCreate upserts the user for an identity provider login. Contact
// fields follow the provider on every login; the learner profile is only
// seeded on first login and never overwritten afterwards.
func (s *Store) FindOrCreate(ctx context.Context, provider string, pu *ProviderUser) (*User, error) {
	u, err := s.GetByProvider(ctx, provider, pu.Sub)
	if err == nil {
		if u.Email != pu.Email || u.Name != pu.Name || u.AvatarURL != pu.AvatarURL {
			u.Email = pu.Email
			u.Name = pu.Name
			u.AvatarURL = pu.AvatarURL
			if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
				return nil, err
			}
		}
		return u, nil
	}

	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	u = &User{
		ID:             shared.NewID("user_"),
		Provider:       provider,
		ProviderSub:    pu.Sub,
		Email:          pu.Email,
		Name:           pu.Name,
		AvatarURL:      pu.AvatarURL,
		NativeLanguage: primaryLanguage(pu.Locale),
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Store) SetDeveloper(ctx context.Context, id string, isDeveloper bool) error {
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_developer", isDeveloper)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateProfile replaces the learner profile. Empty strings clear the
// corresponding field.
func (s *Store) UpdateProfile(ctx context.Context, id, native, target string, level shared.Level) error {
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]any{
		"native_language": primaryLanguage(native),
		"target_language": primaryLanguage(target),
		"level":           level,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) FindOrCreateFromJWT(ctx context.Context, userID, email, name, avatar string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err == nil {
		if u.Email != email || u.Name != name || u.AvatarURL != avatar {
			u.Email = email
			u.Name = name
			u.AvatarURL = avatar
			if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
				return nil, err
			}
		}
		return &u, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u = User{
		ID:          userID,
		Provider:    "jwt",
		ProviderSub: userID,
		Email:       email,
		Name:        name,
		AvatarURL:   avatar,
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}

	return &u, nil
}

// SyncFromJWT keeps the local row current for bearer-token logins. It
// satisfies auth.UserSyncer.
func (s *Store) SyncFromJWT(ctx context.Context, userID, email, name, avatar string) error {
	_, err := s.FindOrCreateFromJWT(ctx, userID, email, name, avatar)
	return err
}

// primaryLanguage reduces a BCP-47 tag like "pt-BR" to its primary
// subtag. Language fields are stored in this form so lesson filters and
// prompt templates can match on them directly.
func primaryLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
