package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

// RedisStreams appends each event to the stream "<prefix>.<topic>".
type RedisStreams struct {
	client *redis.Client
	prefix string
	maxLen int64
	logger *slog.Logger
}

type RedisOptions struct {
	Addr     string
	Password string
	Prefix   string
	// MaxLen caps each stream approximately; zero keeps every entry.
	MaxLen int64
}

func NewRedisStreams(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*RedisStreams, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStreamsWithClient(client, opts.Prefix, opts.MaxLen, logger), nil
}

func NewRedisStreamsWithClient(client *redis.Client, prefix string, maxLen int64, logger *slog.Logger) *RedisStreams {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStreams{
		client: client,
		prefix: strings.TrimSpace(prefix),
		maxLen: maxLen,
		logger: logger,
	}
}

// StreamName maps a topic to its stream key.
func (r *RedisStreams) StreamName(topic string) string {
	topic = strings.TrimSpace(topic)
	if r.prefix == "" {
		return topic
	}
	return r.prefix + "." + topic
}

func (r *RedisStreams) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	stream := r.StreamName(topic)
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event_id":      event.EventID,
			"event_type":    event.EventType,
			"partition_key": event.PartitionKey,
			"envelope":      string(payload),
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	entryID, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Error("redis stream publish failed",
			"event", "redis_stream_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"stream", stream,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	r.logger.Info("event published",
		"event", "redis_stream_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"stream", stream,
		"entry_id", entryID,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (r *RedisStreams) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

var _ ports.EventPublisher = (*RedisStreams)(nil)
