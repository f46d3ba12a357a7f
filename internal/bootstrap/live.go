package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fluentloop/voice-tutor/internal/classroom"
	"github.com/fluentloop/voice-tutor/internal/lesson"
	"github.com/fluentloop/voice-tutor/internal/liveapi"
	"github.com/fluentloop/voice-tutor/internal/recall"
	"github.com/fluentloop/voice-tutor/internal/token"
	"github.com/fluentloop/voice-tutor/internal/transcript"
	"github.com/fluentloop/voice-tutor/internal/user"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideLiveConfig(cfg *Config) liveapi.Config {
	return liveapi.Config{
		APIKey:     cfg.GoogleAPIKey,
		BaseURL:    cfg.LiveAPIBase,
		Model:      cfg.LiveModel,
		EmbedModel: cfg.EmbedModel,
	}
}

// ProvideLiveClient returns nil when no API key is configured. The
// readiness check reports the component unhealthy and minting fails,
// but the rest of the API stays up.
func ProvideLiveClient(cfg liveapi.Config, logger *slog.Logger) *liveapi.Client {
	if cfg.APIKey == "" {
		logger.Warn("google api key not set, live tokens and recall are disabled")
		return nil
	}

	client, err := liveapi.New(cfg, logger)
	if err != nil {
		logger.Error("failed to build live api client", "error", err)
		return nil
	}
	return client
}

type unconfiguredMinter struct{}

func (unconfiguredMinter) MintToken(ctx context.Context, opts liveapi.MintOptions) (*token.Grant, error) {
	return nil, errors.New("live api not configured")
}

func ProvideMinter(client *liveapi.Client) liveapi.Minter {
	if client == nil {
		return unconfiguredMinter{}
	}
	return client
}

func ProvideRecallEmbedder(client *liveapi.Client) recall.Embedder {
	if client == nil {
		return recall.Noop{}
	}
	return client
}

func ProvideLessonEmbeddings(client *liveapi.Client) lesson.EmbeddingService {
	if client == nil {
		return recall.Noop{}
	}
	return client
}

func ProvideFeed(redisClient *redis.Client, logger *slog.Logger) *transcript.Feed {
	return transcript.NewFeed(redisClient, logger)
}

func ProvideRecallService(embedder recall.Embedder, store *recall.Store, logger *slog.Logger) *recall.Service {
	return recall.NewService(embedder, store, logger)
}

func ProvideIndexer(service *recall.Service) transcript.Indexer {
	return service
}

func ProvideQuota(redisClient *redis.Client, cfg *Config) *lesson.Quota {
	return lesson.NewQuota(redisClient, cfg.SessionsPerHour)
}

func ProvidePrompts(lessons *lesson.Store, users *user.Store) *lesson.Prompts {
	return lesson.NewPrompts(lessons, users)
}

func ProvideClassroomTokens(cfg *Config) *classroom.TokenService {
	return classroom.NewTokenService(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitURL)
}

var LiveModule = fx.Options(
	fx.Provide(
		ProvideLiveConfig,
		ProvideLiveClient,
		ProvideMinter,
		ProvideRecallEmbedder,
		ProvideLessonEmbeddings,
		ProvideFeed,
		ProvideRecallService,
		ProvideIndexer,
		ProvideQuota,
		ProvidePrompts,
		ProvideClassroomTokens,
	),
)
