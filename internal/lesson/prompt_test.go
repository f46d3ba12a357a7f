package lesson

import (
	"context"
	"strings"
	"testing"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/user"
)

func newTestPrompts(t *testing.T) (*Prompts, *Store, *user.Store) {
	db := setupTestLessonDB(t)

	store := NewStore(db, nil)
	store.Migrate()
	users := user.NewStore(db)
	users.Migrate()

	return NewPrompts(store, users), store, users
}

func TestPrompts_SessionPrompt(t *testing.T) {
	prompts, store, users := newTestPrompts(t)
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:          "ls_cafe",
		AuthorID:    "usr_author",
		Title:       "Ordering at a café",
		Language:    "fr",
		Level:       shared.LevelA2,
		Topic:       "everyday situations",
		Objectives:  shared.StringSlice{"order a drink", "ask for the bill"},
		Vocabulary:  shared.StringSlice{"un café", "l'addition"},
		Prompt:      "You are a friendly waiter in a Paris café.",
		IsPublished: true,
	})
	users.Create(ctx, &user.User{
		ID:             "usr_learner",
		Provider:       "google",
		ProviderSub:    "sub_learner",
		NativeLanguage: "pt",
		TargetLanguage: "fr",
		Level:          shared.LevelB1,
	})

	got, err := prompts.SessionPrompt(ctx, "usr_learner", "ls_cafe")
	if err != nil {
		t.Fatalf("SessionPrompt failed: %v", err)
	}

	for _, want := range []string{
		"You are a friendly waiter in a Paris café.",
		"Lesson: Ordering at a café (everyday situations)",
		"Target language: fr, level A2.",
		"Objectives: order a drink; ask for the bill.",
		"Vocabulary to practice: un café, l'addition.",
		"native language is pt",
		"self-assesses at B1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestPrompts_SessionPrompt_NoProfile(t *testing.T) {
	prompts, store, _ := newTestPrompts(t)
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:          "ls_plain",
		AuthorID:    "usr_author",
		Title:       "Greetings",
		Language:    "es",
		Level:       shared.LevelA1,
		Prompt:      "Practice greetings.",
		IsPublished: true,
	})

	got, err := prompts.SessionPrompt(ctx, "usr_unknown", "ls_plain")
	if err != nil {
		t.Fatalf("SessionPrompt failed: %v", err)
	}
	if strings.Contains(got, "native language") {
		t.Errorf("prompt should not mention a profile that does not exist:\n%s", got)
	}
	if !strings.Contains(got, "Target language: es, level A1.") {
		t.Errorf("prompt missing lesson facts:\n%s", got)
	}
}

func TestPrompts_SessionPrompt_MatchingLevelOmitted(t *testing.T) {
	prompts, store, users := newTestPrompts(t)
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:          "ls_match",
		AuthorID:    "usr_author",
		Title:       "Matched",
		Language:    "fr",
		Level:       shared.LevelB1,
		Prompt:      "p",
		IsPublished: true,
	})
	users.Create(ctx, &user.User{
		ID:          "usr_matched",
		Provider:    "google",
		ProviderSub: "sub_matched",
		Level:       shared.LevelB1,
	})

	got, _ := prompts.SessionPrompt(ctx, "usr_matched", "ls_match")
	if strings.Contains(got, "self-assesses") {
		t.Errorf("matching level should not be restated:\n%s", got)
	}
}

func TestPrompts_SessionPrompt_Unpublished(t *testing.T) {
	prompts, store, _ := newTestPrompts(t)
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:       "ls_draft",
		AuthorID: "usr_author",
		Title:    "Draft",
		Language: "fr",
		Prompt:   "p",
	})

	if _, err := prompts.SessionPrompt(ctx, "usr_stranger", "ls_draft"); err != shared.ErrNotFound {
		t.Errorf("unpublished lesson should be invisible to strangers, got %v", err)
	}

	if _, err := prompts.SessionPrompt(ctx, "usr_author", "ls_draft"); err != nil {
		t.Errorf("author should resolve their own draft, got %v", err)
	}
}

func TestPrompts_SessionPrompt_NotFound(t *testing.T) {
	prompts, _, _ := newTestPrompts(t)

	_, err := prompts.SessionPrompt(context.Background(), "usr_x", "ls_nonexistent")
	if err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPrompts_SessionPrompt_CountsSessions(t *testing.T) {
	prompts, store, _ := newTestPrompts(t)
	ctx := context.Background()

	store.Create(ctx, &Lesson{
		ID:          "ls_counted",
		AuthorID:    "usr_author",
		Title:       "Counted",
		Language:    "fr",
		Prompt:      "p",
		IsPublished: true,
	})

	prompts.SessionPrompt(ctx, "usr_a", "ls_counted")
	prompts.SessionPrompt(ctx, "usr_b", "ls_counted")

	got, _ := store.GetByID(ctx, "ls_counted")
	if got.TotalSessions != 2 {
		t.Errorf("expected 2 counted sessions, got %d", got.TotalSessions)
	}
}
