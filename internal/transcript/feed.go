package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	sessionEventChannel = "transcript:%s:events"

	maxFeedSubs = 10000
)

// Feed fans transcript lines out to live observers over redis pub/sub,
// so a browser can follow a session the CLI is running regardless of
// which server instance each one landed on.
type Feed struct {
	redis  *redis.Client
	logger *slog.Logger

	mu   sync.Mutex
	subs int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewFeed(redisClient *redis.Client, logger *slog.Logger) *Feed {
	ctx, cancel := context.WithCancel(context.Background())

	return &Feed{
		redis:  redisClient,
		logger: logger.With("component", "transcript_feed"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (f *Feed) Publish(ctx context.Context, ev *Event) error {
	channel := fmt.Sprintf(sessionEventChannel, ev.SessionID)
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal transcript event: %w", err)
	}

	if err := f.redis.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish transcript event: %w", err)
	}

	f.logger.Debug("published transcript line",
		"session_id", ev.SessionID,
		"role", ev.Role)
	return nil
}

// Subscribe delivers one session's events until stop is called or the
// feed closes. The channel closes when delivery ends.
func (f *Feed) Subscribe(sessionID string) (<-chan *Event, func(), error) {
	f.mu.Lock()
	if f.subs >= maxFeedSubs {
		f.mu.Unlock()
		return nil, nil, fmt.Errorf("max transcript subscriptions reached (%d)", maxFeedSubs)
	}
	f.subs++
	f.mu.Unlock()

	ctx, cancel := context.WithCancel(f.ctx)
	ch := make(chan *Event, 128)

	go f.receive(ctx, sessionID, ch)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			f.mu.Lock()
			f.subs--
			f.mu.Unlock()
		})
	}

	return ch, stop, nil
}

func (f *Feed) receive(ctx context.Context, sessionID string, ch chan<- *Event) {
	channel := fmt.Sprintf(sessionEventChannel, sessionID)

	pubsub := f.redis.Subscribe(ctx, channel)
	defer pubsub.Close()
	defer close(ch)

	f.logger.Debug("subscribed to session transcript", "session_id", sessionID, "channel", channel)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				f.logger.Error("receive transcript event", "error", err, "session_id", sessionID)
				return
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				f.logger.Error("unmarshal transcript event", "error", err, "session_id", sessionID)
				continue
			}

			select {
			case ch <- &ev:
			case <-ctx.Done():
				return
			default:
				f.logger.Warn("subscriber buffer full, dropping event", "session_id", sessionID)
			}
		}
	}
}

func (f *Feed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs
}

func (f *Feed) Close() error {
	f.cancel()
	return nil
}
