package bootstrap

import (
	"github.com/fluentloop/voice-tutor/internal/health"
	"github.com/fluentloop/voice-tutor/internal/lesson"
	"github.com/fluentloop/voice-tutor/internal/liveapi"
	"github.com/fluentloop/voice-tutor/internal/transcript"
	"github.com/labstack/echo/v4"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func ProvideHealthHandler(
	db *gorm.DB,
	redis *redis.Client,
	qdrant *qdrant.Client,
	liveClient *liveapi.Client,
	feed *transcript.Feed,
	lessonStore *lesson.Store,
) *health.Handler {
	return health.NewHandler(
		db,
		redis,
		qdrant,
		liveClient,
		feed,
		lessonStore,
		version,
	)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
