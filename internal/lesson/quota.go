package lesson

import (
	"context"
	"fmt"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/redis/go-redis/v9"
)

// usageTTL keeps a week of hourly buckets around for usage reporting.
const usageTTL = 7 * 24 * time.Hour

// Quota caps live sessions per learner per hour. Counters live in
// redis keyed by UTC date and hour, so limits reset on the hour and
// survive restarts.
type Quota struct {
	redis   *redis.Client
	perHour int64
}

func NewQuota(redisClient *redis.Client, perHour int) *Quota {
	return &Quota{
		redis:   redisClient,
		perHour: int64(perHour),
	}
}

func usageKey(userID string, t time.Time) string {
	return fmt.Sprintf("usage:%s:%s:%d", userID, t.Format("2006-01-02"), t.Hour())
}

// Allow counts one session start and reports whether the learner is
// within their hourly cap. A non-positive cap disables limiting.
func (q *Quota) Allow(ctx context.Context, userID string) error {
	if q.perHour <= 0 {
		return nil
	}

	key := usageKey(userID, time.Now().UTC())

	pipe := q.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, usageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if incr.Val() > q.perHour {
		return shared.ErrQuotaExceeded
	}
	return nil
}

// Usage sums the learner's session starts over the last N hours.
func (q *Quota) Usage(ctx context.Context, userID string, hours int) (int64, error) {
	now := time.Now().UTC()
	var total int64

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		n, err := q.redis.Get(ctx, usageKey(userID, t)).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}
