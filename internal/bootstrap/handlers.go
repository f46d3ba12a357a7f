package bootstrap

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/fluentloop/voice-tutor/docs"
	"github.com/fluentloop/voice-tutor/internal/apikey"
	"github.com/fluentloop/voice-tutor/internal/auth"
	"github.com/fluentloop/voice-tutor/internal/classroom"
	"github.com/fluentloop/voice-tutor/internal/lesson"
	"github.com/fluentloop/voice-tutor/internal/liveapi"
	"github.com/fluentloop/voice-tutor/internal/metrics"
	"github.com/fluentloop/voice-tutor/internal/recall"
	"github.com/fluentloop/voice-tutor/internal/transcript"
	"github.com/fluentloop/voice-tutor/internal/user"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideMetrics(feed *transcript.Feed) *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer, feed.SubscriberCount)
}

func ProvideJWTValidator(cfg *Config) *auth.JWTValidator {
	return auth.NewJWTValidator(string(cfg.HMACKey), cfg.JWTIssuer)
}

func ProvideJWTMiddleware(validator *auth.JWTValidator, userStore *user.Store) *auth.Middleware {
	return auth.NewMiddleware(validator, userStore)
}

func ProvideAPIKeyMiddleware(store *apikey.Store, userStore *user.Store, logger *slog.Logger) *apikey.Middleware {
	return apikey.NewMiddleware(store, userStore, logger.With("middleware", "apikey"))
}

func ProvideSessionManager(cfg *Config) *user.SessionManager {
	return user.NewSessionManager(cfg.HMACKey, cfg.CookieSecure, cfg.CookieDomain)
}

func ProvideUserHandler(cfg *Config, store *user.Store, sm *user.SessionManager, validator *auth.JWTValidator, logger *slog.Logger) *user.Handler {
	google := user.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	github := user.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL)
	return user.NewHandler(store, google, github, sm, validator, cfg.AllowedSchemes, logger.With("handler", "user"))
}

func ProvideLessonHandler(store *lesson.Store, userStore *user.Store, embeddings lesson.EmbeddingService, logger *slog.Logger) *lesson.Handler {
	return lesson.NewHandler(store, userStore, embeddings, logger.With("handler", "lesson"))
}

func ProvideCatalogHandler(store *lesson.Store, embeddings lesson.EmbeddingService, logger *slog.Logger) *lesson.CatalogHandler {
	return lesson.NewCatalogHandler(store, embeddings, logger.With("handler", "catalog"))
}

func ProvideAPIKeyHandler(store *apikey.Store, userStore *user.Store, sm *user.SessionManager, logger *slog.Logger) *apikey.Handler {
	return apikey.NewHandler(store, userStore, sm, logger.With("handler", "apikey"))
}

func ProvideTranscriptHandler(store *transcript.Store, feed *transcript.Feed, indexer transcript.Indexer, m *metrics.Metrics, logger *slog.Logger) *transcript.Handler {
	return transcript.NewHandler(store, feed, indexer, m, logger.With("handler", "transcript"))
}

func ProvideRecallHandler(service *recall.Service, m *metrics.Metrics, logger *slog.Logger) *recall.Handler {
	return recall.NewHandler(service, m, logger.With("handler", "recall"))
}

func ProvideClassroomHandler(tokens *classroom.TokenService, logger *slog.Logger) *classroom.Handler {
	return classroom.NewHandler(tokens, logger.With("handler", "classroom"))
}

func ProvideLiveHandler(minter liveapi.Minter, prompts *lesson.Prompts, quota *lesson.Quota, m *metrics.Metrics, logger *slog.Logger) *liveapi.Handler {
	return liveapi.NewHandler(minter, prompts, quota, m, logger.With("handler", "live"))
}

type HandlerParams struct {
	fx.In

	UserHandler       *user.Handler
	LessonHandler     *lesson.Handler
	CatalogHandler    *lesson.CatalogHandler
	APIKeyHandler     *apikey.Handler
	TranscriptHandler *transcript.Handler
	RecallHandler     *recall.Handler
	ClassroomHandler  *classroom.Handler
	LiveHandler       *liveapi.Handler
	JWTMiddleware     *auth.Middleware
	APIKeyMiddleware  *apikey.Middleware
	Metrics           *metrics.Metrics
	Config            *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	e.Use(params.Metrics.RequestMiddleware())

	api := e.Group("/api/v1")

	// Handlers enforce authentication themselves so one surface serves
	// bearer tokens, session cookies, and API keys. A valid bearer token
	// wins; the key middleware only runs for requests without claims.
	api.Use(params.JWTMiddleware.OptionalAuthenticate)
	api.Use(params.APIKeyMiddleware.Authenticate)

	params.UserHandler.RegisterRoutes(api.Group("/auth"))
	params.LessonHandler.RegisterRoutes(api.Group("/lessons"))
	params.CatalogHandler.RegisterRoutes(api.Group("/catalog"))
	params.APIKeyHandler.RegisterRoutes(api.Group("/apikeys"))
	params.TranscriptHandler.RegisterRoutes(api.Group("/transcripts"))
	params.RecallHandler.RegisterRoutes(api.Group("/recall"))
	params.ClassroomHandler.RegisterRoutes(api.Group("/classrooms"))
	params.LiveHandler.RegisterRoutes(api)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/asyncapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", docs.AsyncAPISpec)
	})

	e.Static("/assets", params.Config.StaticDir)
	e.GET("/*", func(c echo.Context) error {
		return c.File(params.Config.IndexHTML)
	})
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideMetrics,
		ProvideJWTValidator,
		ProvideJWTMiddleware,
		ProvideAPIKeyMiddleware,
		ProvideSessionManager,
		ProvideUserHandler,
		ProvideLessonHandler,
		ProvideCatalogHandler,
		ProvideAPIKeyHandler,
		ProvideTranscriptHandler,
		ProvideRecallHandler,
		ProvideClassroomHandler,
		ProvideLiveHandler,
	),
	fx.Invoke(RegisterRoutes),
)
