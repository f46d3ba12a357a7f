package lesson

import (
	"context"
	"strings"
	"testing"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestLessonDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func TestNewStore(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	if store == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_Create(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	tests := []struct {
		name    string
		lesson  *Lesson
		wantErr bool
	}{
		{
			name: "create lesson with id",
			lesson: &Lesson{
				ID:       "ls_test1",
				AuthorID: "usr_1",
				Title:    "Ordering at a café",
				Language: "fr",
				Level:    shared.LevelA2,
				Prompt:   "You are a waiter.",
			},
			wantErr: false,
		},
		{
			name: "create lesson without id",
			lesson: &Lesson{
				AuthorID: "usr_1",
				Title:    "Small talk",
				Language: "de",
				Prompt:   "You are a friendly neighbor.",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Create(ctx, tt.lesson)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.lesson.ID == "" {
				t.Error("lesson ID should be generated if not provided")
			}
			if err == nil && tt.lesson.ID != "ls_test1" && !strings.HasPrefix(tt.lesson.ID, "ls_") {
				t.Errorf("generated ID should have ls_ prefix, got %s", tt.lesson.ID)
			}
		})
	}
}

func TestStore_GetByID(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:       "ls_getbyid",
		AuthorID: "usr_1",
		Title:    "Greetings",
		Language: "es",
		Prompt:   "Practice greetings.",
	})

	got, err := store.GetByID(ctx, "ls_getbyid")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Greetings" {
		t.Errorf("expected Greetings, got %s", got.Title)
	}

	_, err = store.GetByID(ctx, "ls_nonexistent")
	if err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByAuthor(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{AuthorID: "usr_author", Title: "One", Language: "fr", Prompt: "p"})
	store.Create(ctx, &Lesson{AuthorID: "usr_author", Title: "Two", Language: "fr", Prompt: "p"})
	store.Create(ctx, &Lesson{AuthorID: "usr_other", Title: "Three", Language: "fr", Prompt: "p"})

	lessons, err := store.GetByAuthor(ctx, "usr_author")
	if err != nil {
		t.Fatalf("GetByAuthor failed: %v", err)
	}
	if len(lessons) != 2 {
		t.Errorf("expected 2 lessons, got %d", len(lessons))
	}
}

func TestStore_ListPublished(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "FR A2", Language: "fr", Level: shared.LevelA2, Prompt: "p", IsPublished: true})
	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "FR B1", Language: "fr", Level: shared.LevelB1, Prompt: "p", IsPublished: true})
	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "DE A2", Language: "de", Level: shared.LevelA2, Prompt: "p", IsPublished: true})
	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "Draft", Language: "fr", Level: shared.LevelA2, Prompt: "p"})

	all, err := store.ListPublished(ctx, "", nil, 20, 0)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 published lessons, got %d", len(all))
	}

	french, _ := store.ListPublished(ctx, "fr", nil, 20, 0)
	if len(french) != 2 {
		t.Errorf("expected 2 french lessons, got %d", len(french))
	}

	a2 := shared.LevelA2
	frenchA2, _ := store.ListPublished(ctx, "fr", &a2, 20, 0)
	if len(frenchA2) != 1 {
		t.Errorf("expected 1 french A2 lesson, got %d", len(frenchA2))
	}
	if len(frenchA2) == 1 && frenchA2[0].Title != "FR A2" {
		t.Errorf("expected FR A2, got %s", frenchA2[0].Title)
	}
}

func TestStore_Update(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	l := &Lesson{ID: "ls_update", AuthorID: "usr_1", Title: "Before", Language: "fr", Prompt: "p"}
	store.Create(ctx, l)

	l.Title = "After"
	l.IsPublished = true
	if err := store.Update(ctx, l); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "ls_update")
	if got.Title != "After" || !got.IsPublished {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestStore_Delete(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{ID: "ls_delete", AuthorID: "usr_1", Title: "Gone", Language: "fr", Prompt: "p"})

	if err := store.Delete(ctx, "ls_delete"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, "ls_delete"); err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, "ls_nonexistent"); err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing lesson, got %v", err)
	}
}

func TestStore_Counts(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "A", Language: "fr", Prompt: "p", IsPublished: true})
	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "B", Language: "fr", Prompt: "p", IsPublished: true})
	store.Create(ctx, &Lesson{AuthorID: "usr_1", Title: "C", Language: "de", Prompt: "p"})

	total, published, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("failed to count lessons: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 total, got %d", total)
	}
	if published != 2 {
		t.Errorf("expected 2 published, got %d", published)
	}
}

func TestStore_IncrementSessions(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)
	store.Migrate()
	ctx := context.Background()

	store.Create(ctx, &Lesson{ID: "ls_count", AuthorID: "usr_1", Title: "Counted", Language: "fr", Prompt: "p"})

	store.IncrementSessions(ctx, "ls_count")
	store.IncrementSessions(ctx, "ls_count")

	got, _ := store.GetByID(ctx, "ls_count")
	if got.TotalSessions != 2 {
		t.Errorf("expected 2 sessions, got %d", got.TotalSessions)
	}
}

func TestStore_SearchByEmbedding_NilQdrant(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)

	_, err := store.SearchByEmbedding(context.Background(), []float32{0.1, 0.2}, 10)
	if err == nil {
		t.Error("expected error when qdrant is nil")
	}
}

func TestStore_UpsertEmbedding_NilQdrant(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)

	err := store.UpsertEmbedding(context.Background(), "ls_x", []float32{0.1})
	if err == nil {
		t.Error("expected error when qdrant is nil")
	}
}

func TestStore_DeleteEmbedding_NilQdrant(t *testing.T) {
	db := setupTestLessonDB(t)
	store := NewStore(db, nil)

	err := store.DeleteEmbedding(context.Background(), "ls_x")
	if err == nil {
		t.Error("expected error when qdrant is nil")
	}
}
