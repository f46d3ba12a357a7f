package lesson

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/user"
)

// Prompts resolves the system instruction a live session runs with,
// composed from the lesson briefing and the learner's profile.
type Prompts struct {
	lessons *Store
	users   *user.Store
}

func NewPrompts(lessons *Store, users *user.Store) *Prompts {
	return &Prompts{
		lessons: lessons,
		users:   users,
	}
}

// SessionPrompt builds the instruction for one learner starting one
// lesson. Unpublished lessons resolve only for their author.
func (p *Prompts) SessionPrompt(ctx context.Context, userID, lessonID string) (string, error) {
	l, err := p.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return "", err
	}
	if !l.IsPublished && l.AuthorID != userID {
		return "", shared.ErrNotFound
	}

	var u *user.User
	if p.users != nil {
		u, _ = p.users.GetByID(ctx, userID)
	}

	// Session counts are best effort; a failed bump never blocks a mint.
	_ = p.lessons.IncrementSessions(ctx, l.ID)

	return buildPrompt(l, u), nil
}

func buildPrompt(l *Lesson, u *user.User) string {
	var b strings.Builder
	if prompt := strings.TrimSpace(l.Prompt); prompt != "" {
		b.WriteString(prompt)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Lesson: %s", l.Title)
	if l.Topic != "" {
		fmt.Fprintf(&b, " (%s)", l.Topic)
	}
	fmt.Fprintf(&b, "\nTarget language: %s, level %s.", l.Language, l.Level)

	if len(l.Objectives) > 0 {
		fmt.Fprintf(&b, "\nObjectives: %s.", strings.Join(l.Objectives, "; "))
	}
	if len(l.Vocabulary) > 0 {
		fmt.Fprintf(&b, "\nVocabulary to practice: %s.", strings.Join(l.Vocabulary, ", "))
	}

	if u != nil {
		if u.NativeLanguage != "" {
			fmt.Fprintf(&b, "\nThe learner's native language is %s; explain in it only when they are stuck.", u.NativeLanguage)
		}
		if u.Level.Valid() && u.Level != l.Level {
			fmt.Fprintf(&b, "\nThe learner self-assesses at %s; adjust pacing to match.", u.Level)
		}
	}

	return b.String()
}
