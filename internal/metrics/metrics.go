package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// safe to record on, so handlers can run without a registry in tests.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TokensMinted    *prometheus.CounterVec
	TranscriptLines *prometheus.CounterVec
	RecallSearches  prometheus.Counter
	FeedObservers   prometheus.GaugeFunc
}

// New registers the collectors with reg. observers reports the current
// number of live transcript observers and is sampled on scrape.
func New(reg prometheus.Registerer, observers func() int) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fluentloop_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fluentloop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		TokensMinted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fluentloop_live_tokens_minted_total",
			Help: "Live session token mints by result",
		}, []string{"result"}),
		TranscriptLines: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fluentloop_transcript_lines_total",
			Help: "Stored transcript lines by speaker role",
		}, []string{"role"}),
		RecallSearches: factory.NewCounter(prometheus.CounterOpts{
			Name: "fluentloop_recall_searches_total",
			Help: "Total number of semantic recall searches",
		}),
		FeedObservers: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "fluentloop_feed_observers",
			Help: "Current number of live transcript observers",
		}, func() float64 { return float64(observers()) }),
	}
}

func (m *Metrics) RecordTokenMint(result string) {
	if m == nil {
		return
	}
	m.TokensMinted.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTranscriptLine(role string) {
	if m == nil {
		return
	}
	m.TranscriptLines.WithLabelValues(role).Inc()
}

func (m *Metrics) RecordRecallSearch() {
	if m == nil {
		return
	}
	m.RecallSearches.Inc()
}

// RequestMiddleware observes every request against the route template,
// deriving the status from the handler error without committing it.
func (m *Metrics) RequestMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else {
					status = 500
				}
			}

			method := c.Request().Method
			path := c.Path()
			m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
