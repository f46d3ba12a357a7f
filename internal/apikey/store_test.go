package apikey

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	store := NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func mustCreate(t *testing.T, store *Store, key *APIKey) string {
	t.Helper()
	secret, err := store.Create(context.Background(), key)
	if err != nil {
		t.Fatalf("failed to create key: %v", err)
	}
	return secret
}

func TestStore_Migrate(t *testing.T) {
	store := newTestStore(t)
	if !store.db.Migrator().HasTable(&APIKey{}) {
		t.Error("expected APIKey table to exist")
	}
}

func TestStore_Create(t *testing.T) {
	store := newTestStore(t)

	key := &APIKey{
		OwnerID:   "svc_recall",
		OwnerType: OwnerTypeService,
		Name:      "Recall Worker",
	}
	secret := mustCreate(t, store, key)

	if !strings.HasPrefix(secret, "sk-fl-") {
		t.Errorf("secret %q should carry the sk-fl- brand", secret)
	}
	if key.ID == "" {
		t.Error("expected ID to be set")
	}
	if key.Prefix != secret[:prefixLen] {
		t.Errorf("prefix %q must be the first %d bytes of the secret", key.Prefix, prefixLen)
	}
	if key.SecretHash == "" {
		t.Error("expected secret hash to be set")
	}
	if strings.Contains(key.SecretHash, secret) {
		t.Error("the stored hash must not contain the secret")
	}
}

func TestStore_Create_WithExistingID(t *testing.T) {
	store := newTestStore(t)

	key := &APIKey{
		ID:        "key_existing",
		OwnerID:   "svc_recall",
		OwnerType: OwnerTypeService,
		Name:      "Recall Worker",
	}
	mustCreate(t, store, key)

	if key.ID != "key_existing" {
		t.Errorf("ID = %q, want key_existing", key.ID)
	}
}

func TestStore_GetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &APIKey{OwnerID: "svc_recall", OwnerType: OwnerTypeService, Name: "Recall Worker"}
	mustCreate(t, store, key)

	found, err := store.GetByID(ctx, key.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.ID != key.ID || found.Name != "Recall Worker" {
		t.Errorf("got %+v", found)
	}

	if _, err := store.GetByID(ctx, "key_missing"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("error = %v, want %v", err, shared.ErrNotFound)
	}
}

func TestStore_GetByOwner_ScopesByOwnerAndType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreate(t, store, &APIKey{OwnerID: "user_ana", OwnerType: OwnerTypeUser, Name: "Dev Key"})
	}
	// Same owner ID under a different type must not leak in.
	mustCreate(t, store, &APIKey{OwnerID: "user_ana", OwnerType: OwnerTypeService, Name: "Service Key"})
	mustCreate(t, store, &APIKey{OwnerID: "user_ben", OwnerType: OwnerTypeUser, Name: "Other Key"})

	keys, err := store.GetByOwner(ctx, "user_ana", OwnerTypeUser)
	if err != nil {
		t.Fatalf("GetByOwner() error = %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("got %d keys, want 3", len(keys))
	}
	for _, k := range keys {
		if k.Name != "Dev Key" {
			t.Errorf("unexpected key %q in scope", k.Name)
		}
	}
}

func TestStore_Validate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &APIKey{OwnerID: "svc_recall", OwnerType: OwnerTypeService, Name: "Recall Worker"}
	secret := mustCreate(t, store, key)

	found, err := store.Validate(ctx, secret)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if found.ID != key.ID {
		t.Errorf("ID = %q, want %q", found.ID, key.ID)
	}
}

func TestStore_Validate_Rejects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &APIKey{OwnerID: "svc_recall", OwnerType: OwnerTypeService, Name: "Recall Worker"}
	secret := mustCreate(t, store, key)

	tests := []struct {
		name   string
		secret string
	}{
		{"shorter than a prefix", "short"},
		{"unknown prefix", "sk-fl-nonexistent1234567890"},
		// A wrong secret under a real prefix must look exactly like a
		// missing key.
		{"right prefix wrong secret", secret[:prefixLen] + strings.Repeat("0", len(secret)-prefixLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Validate(ctx, tt.secret); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("error = %v, want %v", err, shared.ErrNotFound)
			}
		})
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	key := &APIKey{
		OwnerID:   "svc_recall",
		OwnerType: OwnerTypeService,
		Name:      "Recall Worker",
		ExpiresAt: &expired,
	}
	secret := mustCreate(t, store, key)

	if _, err := store.Validate(ctx, secret); !errors.Is(err, shared.ErrUnauthorized) {
		t.Errorf("error = %v, want %v", err, shared.ErrUnauthorized)
	}
}

func TestStore_Rotate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &APIKey{OwnerID: "user_ana", OwnerType: OwnerTypeUser, Name: "Dev Key"}
	oldSecret := mustCreate(t, store, key)
	oldPrefix := key.Prefix

	rotated, newSecret, err := store.Rotate(ctx, key.ID)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	if rotated.ID != key.ID {
		t.Errorf("ID = %q, want %q", rotated.ID, key.ID)
	}
	if newSecret == oldSecret {
		t.Error("expected a fresh secret")
	}
	if rotated.Prefix == oldPrefix {
		t.Error("expected a fresh prefix")
	}
	if rotated.LastUsedAt != nil {
		t.Error("usage timestamp must restart with the new credential")
	}

	if _, err := store.Validate(ctx, oldSecret); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("old secret error = %v, want %v", err, shared.ErrNotFound)
	}
	found, err := store.Validate(ctx, newSecret)
	if err != nil {
		t.Fatalf("Validate(new) error = %v", err)
	}
	if found.ID != key.ID {
		t.Errorf("new secret resolves to %q, want %q", found.ID, key.ID)
	}
}

func TestStore_Rotate_NotFound(t *testing.T) {
	store := newTestStore(t)

	if _, _, err := store.Rotate(context.Background(), "key_missing"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("error = %v, want %v", err, shared.ErrNotFound)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &APIKey{OwnerID: "svc_recall", OwnerType: OwnerTypeService, Name: "Recall Worker"}
	mustCreate(t, store, key)

	if err := store.Delete(ctx, key.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, key.ID); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected key to be gone, got error = %v", err)
	}

	if err := store.Delete(ctx, "key_missing"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("error = %v, want %v", err, shared.ErrNotFound)
	}
}

func TestStore_DeleteByOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreate(t, store, &APIKey{OwnerID: "user_ana", OwnerType: OwnerTypeUser, Name: "Dev Key"})
	}
	survivor := &APIKey{OwnerID: "user_ben", OwnerType: OwnerTypeUser, Name: "Other Key"}
	mustCreate(t, store, survivor)

	if err := store.DeleteByOwner(ctx, "user_ana", OwnerTypeUser); err != nil {
		t.Fatalf("DeleteByOwner() error = %v", err)
	}

	keys, err := store.GetByOwner(ctx, "user_ana", OwnerTypeUser)
	if err != nil {
		t.Fatalf("GetByOwner() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected 0 keys after delete, got %d", len(keys))
	}
	if _, err := store.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("other owners' keys must survive: %v", err)
	}
}

func TestGenerateSecret(t *testing.T) {
	secret, err := generateSecret()
	if err != nil {
		t.Fatalf("generateSecret() error = %v", err)
	}

	if !strings.HasPrefix(secret, "sk-fl-") {
		t.Errorf("secret %q should carry the sk-fl- brand", secret)
	}
	if len(secret) < 64 {
		t.Errorf("secret too short: %d", len(secret))
	}

	secret2, _ := generateSecret()
	if secret == secret2 {
		t.Error("expected unique secrets")
	}
}

func TestHashSecret(t *testing.T) {
	hash1 := hashSecret("test-secret")
	hash2 := hashSecret("test-secret")
	hash3 := hashSecret("different-secret")

	if hash1 != hash2 {
		t.Error("same secret should produce same hash")
	}
	if hash1 == hash3 {
		t.Error("different secrets should produce different hashes")
	}
	if len(hash1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash1))
	}
}
