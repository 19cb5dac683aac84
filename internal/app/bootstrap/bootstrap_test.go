package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	proposalvoting "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/config"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/messaging"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":       ":8080",
		"9090":   ":9090",
		":7070":  ":7070",
		" 8081 ": ":8081",
	}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPollLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- pollLoop(ctx, time.Millisecond, func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("poll loop did not stop")
	}
	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 steps, got %d", calls.Load())
	}
}

func TestPollLoopReturnsStepError(t *testing.T) {
	boom := errors.New("boom")
	err := pollLoop(context.Background(), time.Millisecond, func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
}

func TestWorkerLoops(t *testing.T) {
	cases := []struct {
		name      string
		cfg       config.Config
		wantRelay bool
		wantSweep bool
		wantErr   error
	}{
		{"nothing enabled", config.Config{}, false, false, ErrNoWorkerLoops},
		{"sweep only", config.Config{EnableProposalStatusSweep: true}, false, true, nil},
		{"redis relay only", config.Config{EnableRedisEventBus: true}, true, false, nil},
		{"both", config.Config{EnableRedisEventBus: true, EnableProposalStatusSweep: true}, true, true, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			relay, sweep, err := workerLoops(tc.cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if relay != tc.wantRelay || sweep != tc.wantSweep {
				t.Fatalf("expected relay=%v sweep=%v, got relay=%v sweep=%v", tc.wantRelay, tc.wantSweep, relay, sweep)
			}
		})
	}
}

func TestBuildWorkerRefusesEmptyLoopSet(t *testing.T) {
	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
	t.Setenv("ENABLE_REDIS_EVENT_BUS", "false")
	t.Setenv("ENABLE_PROPOSAL_STATUS_SWEEP", "false")
	t.Setenv("POSTGRES_DSN", "")

	if _, err := BuildWorker(context.Background()); !errors.Is(err, ErrNoWorkerLoops) {
		t.Fatalf("expected no worker loops error, got %v", err)
	}
}

func seedPendingEvent(t *testing.T, module proposalvoting.Module) {
	t.Helper()
	now := time.Now().UTC()
	err := module.Store.CreateProposal(context.Background(), entities.Proposal{
		ProposalID: "p-1",
		Title:      "Bike shed",
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     entities.ProposalStatusOpen,
	}, ports.EventEnvelope{EventID: "evt-1", EventType: "proposal.created"})
	if err != nil {
		t.Fatalf("seed proposal: %v", err)
	}
}

func TestWorkerRunWithoutRelayLeavesOutboxPending(t *testing.T) {
	module := proposalvoting.NewInMemoryModule(nil, nil, nil)
	seedPendingEvent(t, module)

	worker := &WorkerApp{
		module:       module,
		sweepEnabled: true,
		pollInterval: time.Millisecond,
		logger:       slog.Default(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := worker.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := module.Store.PendingOutboxCount(); got != 1 {
		t.Fatalf("expected the event to stay pending, got %d", got)
	}
}

func TestRelayOverInProcessBusNeedsConsumer(t *testing.T) {
	bus := messaging.NewInProcessBus(nil)
	module := proposalvoting.NewInMemoryModule(bus, nil, nil)
	seedPendingEvent(t, module)

	published, err := module.OutboxRelay.RunOnce(context.Background())
	if !errors.Is(err, messaging.ErrNoSubscribers) {
		t.Fatalf("expected no subscribers error, got %v", err)
	}
	if published != 0 || module.Store.PendingOutboxCount() != 1 {
		t.Fatalf("expected the row to stay pending, published=%d pending=%d", published, module.Store.PendingOutboxCount())
	}

	var consumed []string
	bus.Subscribe("proposal.created", "audit", func(_ context.Context, event ports.EventEnvelope) error {
		consumed = append(consumed, event.EventID)
		return nil
	})
	published, err = module.OutboxRelay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay with consumer: %v", err)
	}
	if published != 1 || module.Store.PendingOutboxCount() != 0 || len(consumed) != 1 {
		t.Fatalf("expected delivery, published=%d pending=%d consumed=%v", published, module.Store.PendingOutboxCount(), consumed)
	}
}
