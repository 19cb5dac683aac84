package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	proposalvoting "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting"
	postgresadapter "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/adapters/postgres"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/config"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/db"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/httpserver"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/messaging"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	closer       func() error
	module       proposalvoting.Module
	relayEnabled bool
	sweepEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

// ErrNoWorkerLoops is returned when the configuration enables neither the
// outbox relay nor the status sweep.
var ErrNoWorkerLoops = errors.New("worker has nothing to run: set ENABLE_REDIS_EVENT_BUS or ENABLE_PROPOSAL_STATUS_SWEEP")

// OperatorApp backs the govctl CLI.
type OperatorApp struct {
	Postgres *db.Postgres
	Module   proposalvoting.Module
	Tokens   *httpserver.TokenVerifier
	Logger   *slog.Logger
	closer   func() error
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	pg, err := connectPostgres(cfg)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	module := buildModule(cfg, pg, nil, recorder, logger)
	server := httpserver.New(
		module,
		httpserver.NewTokenVerifier(cfg.JWTSecret),
		recorder.Handler(),
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	relayEnabled, sweepEnabled, err := workerLoops(cfg)
	if err != nil {
		return nil, err
	}
	if !relayEnabled {
		logger.Warn("outbox relay disabled without an external broker; rows stay pending",
			"event", "bootstrap_worker_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	pg, err := connectPostgres(cfg)
	if err != nil {
		return nil, err
	}
	var publisher ports.EventPublisher
	closer := func() error { return nil }
	if relayEnabled {
		publisher, closer, err = buildPublisher(ctx, cfg, logger)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	module := buildModule(cfg, pg, publisher, nil, logger)
	module.OutboxRelay.BatchSize = 100
	module.StatusSweeper.BatchSize = 100
	return &WorkerApp{
		postgres:     pg,
		closer:       closer,
		module:       module,
		relayEnabled: relayEnabled,
		sweepEnabled: sweepEnabled,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func BuildOperator(ctx context.Context) (*OperatorApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "govctl")
	pg, err := connectPostgres(cfg)
	if err != nil {
		return nil, err
	}
	publisher, closer, err := buildPublisher(ctx, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	return &OperatorApp{
		Postgres: pg,
		Module:   buildModule(cfg, pg, publisher, nil, logger),
		Tokens:   httpserver.NewTokenVerifier(cfg.JWTSecret),
		Logger:   logger,
		closer:   closer,
	}, nil
}

// workerLoops decides which background loops the worker runs. The relay
// needs a broker that outlives the process, so it only runs against Redis
// Streams.
func workerLoops(cfg config.Config) (relay bool, sweep bool, err error) {
	relay = cfg.EnableRedisEventBus
	sweep = cfg.EnableProposalStatusSweep
	if !relay && !sweep {
		return false, false, ErrNoWorkerLoops
	}
	return relay, sweep, nil
}

func connectPostgres(cfg config.Config) (*db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return db.Connect(cfg.PostgresDSN)
}

func buildModule(
	cfg config.Config,
	pg *db.Postgres,
	publisher ports.EventPublisher,
	recorder ports.MetricsRecorder,
	logger *slog.Logger,
) proposalvoting.Module {
	repo := postgresadapter.NewRepository(pg.DB, logger)
	return proposalvoting.NewModule(proposalvoting.Dependencies{
		Proposals:      repo,
		Votes:          repo,
		Results:        repo,
		Sweep:          repo,
		Access:         repo,
		Ownership:      repo,
		Idempotency:    repo,
		Outbox:         repo,
		Publisher:      publisher,
		Metrics:        recorder,
		Clock:          postgresadapter.SystemClock{},
		IDGen:          postgresadapter.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger,
	})
}

// buildPublisher picks Redis Streams when enabled, otherwise the in-process
// bus. The in-process bus has no consumers in these processes, so a relay
// run against it fails and leaves rows pending. The returned closer is
// never nil.
func buildPublisher(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
) (ports.EventPublisher, func() error, error) {
	if !cfg.EnableRedisEventBus {
		return messaging.NewInProcessBus(logger), func() error { return nil }, nil
	}
	streams, err := messaging.NewRedisStreams(ctx, messaging.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Prefix:   cfg.EventStreamPrefix,
		MaxLen:   100000,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return streams, streams.Close, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Run(ctx)
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run drives the enabled loops on independent tickers. The first loop error
// cancels the other.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay_enabled", w.relayEnabled,
		"status_sweep_enabled", w.sweepEnabled,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if w.relayEnabled {
		group.Go(func() error {
			return pollLoop(groupCtx, w.pollInterval, func(ctx context.Context) error {
				_, err := w.module.OutboxRelay.RunOnce(ctx)
				return err
			})
		})
	}
	if w.sweepEnabled {
		group.Go(func() error {
			return pollLoop(groupCtx, w.pollInterval, func(ctx context.Context) error {
				_, err := w.module.StatusSweeper.RunOnce(ctx)
				return err
			})
		})
	}
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	return errors.Join(w.closer(), w.postgres.Close())
}

func (o *OperatorApp) Close() error {
	return errors.Join(o.closer(), o.Postgres.Close())
}

func pollLoop(ctx context.Context, interval time.Duration, step func(context.Context) error) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
