package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

// ErrNoSubscribers is returned by InProcessBus.Publish when nothing in the
// process listens on the topic. The outbox relay treats it like any other
// publish failure and leaves the row pending.
var ErrNoSubscribers = errors.New("no subscribers for topic")

// Handler consumes one event. A non-nil error fails the publish.
type Handler func(ctx context.Context, event ports.EventEnvelope) error

type subscription struct {
	id      uint64
	group   string
	handler Handler
}

// InProcessBus delivers events synchronously to handlers registered in the
// same process. Publish returns only after every handler ran, so a relay
// marks an outbox row published only once it was actually consumed.
type InProcessBus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string][]subscription
	logger *slog.Logger
}

func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		topics: make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for topic under a consumer group name and
// returns a function that removes it.
func (b *InProcessBus) Subscribe(topic string, group string, handler Handler) func() {
	topic = strings.TrimSpace(topic)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{
		id:      id,
		group:   strings.TrimSpace(group),
		handler: handler,
	})
	b.mu.Unlock()

	return func() { b.unsubscribe(topic, id) }
}

func (b *InProcessBus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	topic = strings.TrimSpace(topic)
	b.mu.RLock()
	subs := append([]subscription(nil), b.topics[topic]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Warn("event bus has no subscribers",
			"event", "event_bus_no_subscribers",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
		)
		return fmt.Errorf("%w: %s", ErrNoSubscribers, topic)
	}

	var failures []error
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sub.handler(ctx, event); err != nil {
			b.logger.Error("event consumer failed",
				"event", "event_bus_consume_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", sub.group,
				"event_id", event.EventID,
				"error", err.Error(),
			)
			failures = append(failures, fmt.Errorf("consumer %s: %w", sub.group, err))
		}
	}
	if len(failures) > 0 {
		return errors.Join(failures...)
	}

	b.logger.Debug("event delivered",
		"event", "event_bus_delivered",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"consumer_count", len(subs),
	)
	return nil
}

func (b *InProcessBus) unsubscribe(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	for i, sub := range subs {
		if sub.id == id {
			b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}

var _ ports.EventPublisher = (*InProcessBus)(nil)
