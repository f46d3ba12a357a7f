package apikey

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"gorm.io/gorm"
)

// secretPrefix brands every issued key. The stored lookup prefix is the
// first prefixLen characters of the secret, so the brand plus a few hex
// digits uniquely locate the row without storing the secret itself.
const (
	secretPrefix = "sk-fl-"
	prefixLen    = 12
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&APIKey{})
}

func (s *Store) Create(ctx context.Context, key *APIKey) (secret string, err error) {
	if key.ID == "" {
		key.ID = shared.NewID("key_")
	}

	secret, err = generateSecret()
	if err != nil {
		return "", err
	}

	key.Prefix = secret[:prefixLen]
	key.SecretHash = hashSecret(secret)

	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return "", err
	}
	return secret, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*APIKey, error) {
	var key APIKey
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &key, err
}

func (s *Store) GetByOwner(ctx context.Context, ownerID string, ownerType OwnerType) ([]*APIKey, error) {
	var keys []*APIKey
	err := s.db.WithContext(ctx).Where("owner_id = ? AND owner_type = ?", ownerID, ownerType).Find(&keys).Error
	return keys, err
}

func (s *Store) Validate(ctx context.Context, secret string) (*APIKey, error) {
	if len(secret) < prefixLen {
		return nil, shared.ErrNotFound
	}

	prefix := secret[:prefixLen]
	var key APIKey
	err := s.db.WithContext(ctx).Where("prefix = ?", prefix).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if key.SecretHash != hashSecret(secret) {
		return nil, shared.ErrNotFound
	}

	if key.IsExpired() {
		return nil, shared.ErrUnauthorized
	}

	go s.updateLastUsed(key.ID)

	return &key, nil
}

// Rotate replaces a key's secret in place, keeping its identity and
// expiry. The old secret stops working the moment the new one is
// stored, and the usage timestamp restarts with the new credential.
func (s *Store) Rotate(ctx context.Context, id string) (*APIKey, string, error) {
	key, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, "", err
	}
	key.Prefix = secret[:prefixLen]
	key.SecretHash = hashSecret(secret)
	key.LastUsedAt = nil

	err = s.db.WithContext(ctx).Model(&APIKey{}).Where("id = ?", key.ID).Updates(map[string]any{
		"prefix":       key.Prefix,
		"secret_hash":  key.SecretHash,
		"last_used_at": nil,
	}).Error
	if err != nil {
		return nil, "", err
	}
	return key, secret, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&APIKey{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByOwner(ctx context.Context, ownerID string, ownerType OwnerType) error {
	return s.db.WithContext(ctx).Delete(&APIKey{}, "owner_id = ? AND owner_type = ?", ownerID, ownerType).Error
}

func (s *Store) updateLastUsed(id string) {
	s.db.Model(&APIKey{}).Where("id = ?", id).Update("last_used_at", time.Now())
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return secretPrefix + hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}
