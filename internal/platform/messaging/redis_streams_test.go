package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

func TestRedisStreamName(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	prefixed := NewRedisStreamsWithClient(client, " governance ", 0, nil)
	if got := prefixed.StreamName("vote.cast"); got != "governance.vote.cast" {
		t.Fatalf("unexpected stream %q", got)
	}
	bare := NewRedisStreamsWithClient(client, "", 0, nil)
	if got := bare.StreamName(" proposal.tallied "); got != "proposal.tallied" {
		t.Fatalf("unexpected stream %q", got)
	}
}

func TestRedisStreamsPublishReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	streams := NewRedisStreamsWithClient(client, "governance", 1000, nil)
	defer streams.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := streams.Publish(ctx, "vote.cast", ports.EventEnvelope{EventID: "evt-1"}); err == nil {
		t.Fatalf("expected publish to fail without a server")
	}
}

func TestNewRedisStreamsRequiresAddress(t *testing.T) {
	if _, err := NewRedisStreams(context.Background(), RedisOptions{}, nil); err == nil {
		t.Fatalf("expected missing address error")
	}
}

func TestNilRedisStreamsCloseIsSafe(t *testing.T) {
	var streams *RedisStreams
	if err := streams.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
