package lesson

import (
	"context"
	"errors"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/qdrant/go-client/qdrant"
	"gorm.io/gorm"
)

const embeddingCollection = "lessons"

type Store struct {
	db     *gorm.DB
	qdrant *qdrant.Client
}

func NewStore(db *gorm.DB, qdrantClient *qdrant.Client) *Store {
	return &Store{
		db:     db,
		qdrant: qdrantClient,
	}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Lesson{})
}

func (s *Store) Create(ctx context.Context, l *Lesson) error {
	if l.ID == "" {
		l.ID = shared.NewID("ls_")
	}
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Lesson, error) {
	var l Lesson
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &l, err
}

func (s *Store) GetByAuthor(ctx context.Context, authorID string) ([]*Lesson, error) {
	var lessons []*Lesson
	err := s.db.WithContext(ctx).Where("author_id = ?", authorID).
		Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

// ListPublished returns published lessons, optionally narrowed to a
// target language and CEFR level, newest first.
func (s *Store) ListPublished(ctx context.Context, language string, level *shared.Level, limit, offset int) ([]*Lesson, error) {
	var lessons []*Lesson
	q := s.db.WithContext(ctx).Where("is_published = ?", true)
	if language != "" {
		q = q.Where("language = ?", language)
	}
	if level != nil {
		q = q.Where("level = ?", *level)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&lessons).Error
	return lessons, err
}

func (s *Store) Update(ctx context.Context, l *Lesson) error {
	return s.db.WithContext(ctx).Save(l).Error
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Lesson{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Counts reports how many lessons exist and how many are published.
func (s *Store) Counts(ctx context.Context) (total, published int64, err error) {
	if err = s.db.WithContext(ctx).Model(&Lesson{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = s.db.WithContext(ctx).Model(&Lesson{}).Where("is_published = ?", true).Count(&published).Error
	return total, published, err
}

func (s *Store) IncrementSessions(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Lesson{}).Where("id = ?", id).
		UpdateColumn("total_sessions", gorm.Expr("total_sessions + 1")).Error
}

func (s *Store) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*Lesson, error) {
	if s.qdrant == nil {
		return nil, errors.New("qdrant client not configured")
	}

	results, err := s.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: embeddingCollection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.Id != nil {
			if uuid := r.Id.GetUuid(); uuid != "" {
				ids = append(ids, uuid)
			}
		}
	}

	if len(ids) == 0 {
		return []*Lesson{}, nil
	}

	var lessons []*Lesson
	err = s.db.WithContext(ctx).Where("id IN ? AND is_published = ?", ids, true).Find(&lessons).Error
	return lessons, err
}

func (s *Store) UpsertEmbedding(ctx context.Context, lessonID string, embedding []float32) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: embeddingCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(lessonID),
				Vectors: qdrant.NewVectors(embedding...),
			},
		},
	})
	return err
}

func (s *Store) DeleteEmbedding(ctx context.Context, lessonID string) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: embeddingCollection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(lessonID)),
	})
	return err
}
