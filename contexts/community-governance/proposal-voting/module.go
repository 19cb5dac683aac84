package proposalvoting

import (
	"log/slog"
	"time"

	httpadapter "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/adapters/http"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/adapters/memory"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/commands"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/queries"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/workers"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	OutboxRelay   workers.OutboxRelay
	StatusSweeper workers.StatusSweeper
	Store         *memory.Store
}

type Dependencies struct {
	Proposals      ports.ProposalRepository
	Votes          ports.VoteRepository
	Results        ports.ResultRepository
	Sweep          ports.StatusSweepRepository
	Access         ports.BuildingAccess
	Ownership      ports.OwnershipSnapshot
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxRepository
	Publisher      ports.EventPublisher
	Metrics        ports.MetricsRecorder
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Create: commands.CreateProposalUseCase{
				Proposals:      deps.Proposals,
				Access:         deps.Access,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IDGen:          deps.IDGen,
				Metrics:        deps.Metrics,
				IdempotencyTTL: deps.IdempotencyTTL,
				Logger:         deps.Logger,
			},
			Cast: commands.CastVoteUseCase{
				Proposals: deps.Proposals,
				Votes:     deps.Votes,
				Ownership: deps.Ownership,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Metrics:   deps.Metrics,
				Logger:    deps.Logger,
			},
			Tally: commands.TallyProposalUseCase{
				Proposals: deps.Proposals,
				Votes:     deps.Votes,
				Results:   deps.Results,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Metrics:   deps.Metrics,
				Logger:    deps.Logger,
			},
			Queries: queries.ProposalQueries{
				Proposals: deps.Proposals,
				Votes:     deps.Votes,
				Results:   deps.Results,
				Access:    deps.Access,
			},
			Logger: deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		StatusSweeper: workers.StatusSweeper{
			Proposals: deps.Sweep,
			Clock:     deps.Clock,
			IDGen:     deps.IDGen,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one memory store. The publisher and
// metrics recorder may be nil.
func NewInMemoryModule(publisher ports.EventPublisher, metrics ports.MetricsRecorder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals:      store,
		Votes:          store,
		Results:        store,
		Sweep:          store,
		Access:         store,
		Ownership:      store,
		Idempotency:    store,
		Outbox:         store,
		Publisher:      publisher,
		Metrics:        metrics,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
