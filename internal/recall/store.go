package recall

import (
	"context"
	"errors"

	"github.com/fluentloop/voice-tutor/internal/transcript"
	"github.com/qdrant/go-client/qdrant"
	"gorm.io/gorm"
)

const embeddingCollection = "transcripts"

// Store keeps transcript line embeddings in qdrant. The relational row
// in the transcript store stays the source of truth; points carry no
// payload and search results are hydrated back through gorm.
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

func (s *Store) UpsertEmbedding(ctx context.Context, entryID string, embedding []float32) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: embeddingCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(entryID),
				Vectors: qdrant.NewVectors(embedding...),
			},
		},
	})
	return err
}

// SearchBySimilarity returns the caller's transcript lines closest to
// the query embedding. Hits whose rows are gone, or that belong to
// someone else, drop out at hydration.
func (s *Store) SearchBySimilarity(ctx context.Context, userID string, embedding []float32, limit int) ([]*transcript.Entry, error) {
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
			if id := r.Id.GetUuid(); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return []*transcript.Entry{}, nil
	}

	var entries []*transcript.Entry
	err = s.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteBySession drops the points for every line a session holds. It
// resolves the entry IDs through the rows, so it has to run before the
// session's rows are deleted.
func (s *Store) DeleteBySession(ctx context.Context, sessionID string) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	var ids []string
	err := s.db.WithContext(ctx).Model(&transcript.Entry{}).
		Where("session_id = ?", sessionID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	points := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		points[i] = qdrant.NewID(id)
	}

	_, err = s.qdrant.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: embeddingCollection,
		Points:         qdrant.NewPointsSelector(points...),
	})
	return err
}
