package bootstrap

import (
	"github.com/fluentloop/voice-tutor/internal/apikey"
	"github.com/fluentloop/voice-tutor/internal/lesson"
	"github.com/fluentloop/voice-tutor/internal/recall"
	"github.com/fluentloop/voice-tutor/internal/transcript"
	"github.com/fluentloop/voice-tutor/internal/user"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideUserStore(db *gorm.DB) *user.Store {
	return user.NewStore(db)
}

func ProvideLessonStore(db *gorm.DB, qdrantClient *qdrant.Client) *lesson.Store {
	return lesson.NewStore(db, qdrantClient)
}

func ProvideAPIKeyStore(db *gorm.DB) *apikey.Store {
	return apikey.NewStore(db)
}

func ProvideTranscriptStore(db *gorm.DB) *transcript.Store {
	return transcript.NewStore(db)
}

func ProvideRecallStore(db *gorm.DB, qdrantClient *qdrant.Client) *recall.Store {
	return recall.NewStore(db, qdrantClient)
}

func RunMigrations(userStore *user.Store, lessonStore *lesson.Store, apiKeyStore *apikey.Store, transcriptStore *transcript.Store) error {
	if err := userStore.Migrate(); err != nil {
		return err
	}
	if err := lessonStore.Migrate(); err != nil {
		return err
	}
	if err := apiKeyStore.Migrate(); err != nil {
		return err
	}
	return transcriptStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideUserStore,
		ProvideLessonStore,
		ProvideAPIKeyStore,
		ProvideTranscriptStore,
		ProvideRecallStore,
	),
	fx.Invoke(RunMigrations),
)
