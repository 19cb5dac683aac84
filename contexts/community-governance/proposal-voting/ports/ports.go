package ports

import (
	"context"
	"time"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	contractsv1 "github.com/Na-Varte-5/house-management-sub001/contracts/gen/events/v1"
)

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// ProposalFilter narrows listings to what a caller may see.
type ProposalFilter struct {
	AllBuildings  bool
	BuildingIDs   []string
	IncludeGlobal bool
}

// ProposalRepository owns proposal rows. CreateProposal persists the
// proposal and its outbox event in one transaction.
//
// CreateProposalClaimingKey does the same and inserts claim in that
// transaction. A key whose record expired at or before proposal.CreatedAt
// is reclaimed. When a live record already holds the key nothing is written
// and that record is returned with created false.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal entities.Proposal, event EventEnvelope) error
	CreateProposalClaimingKey(ctx context.Context, proposal entities.Proposal, event EventEnvelope, claim IdempotencyRecord) (holder IdempotencyRecord, created bool, err error)
	GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error)
	ListProposals(ctx context.Context, filter ProposalFilter) ([]entities.Proposal, error)
}

// VoteRepository enforces one vote per (proposal, voter). UpsertVote is a
// single conditional write and returns the stored row; its VoteID differs
// from the supplied one when an existing vote was overwritten.
type VoteRepository interface {
	UpsertVote(ctx context.Context, vote entities.Vote, event EventEnvelope) (entities.Vote, error)
	GetVoteByVoter(ctx context.Context, proposalID string, voterID string) (entities.Vote, bool, error)
	ListVotesByProposal(ctx context.Context, proposalID string) ([]entities.Vote, error)
}

// ResultRepository writes the result, the Tallied status and the outbox
// event together or not at all.
type ResultRepository interface {
	GetResult(ctx context.Context, proposalID string) (entities.ProposalResult, bool, error)
	SaveTally(ctx context.Context, result entities.ProposalResult, event EventEnvelope) error
}

// StatusSweepRepository moves Scheduled/Open proposals along their window.
type StatusSweepRepository interface {
	ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]entities.Proposal, error)
	TransitionStatus(ctx context.Context, proposalID string, from entities.ProposalStatus, to entities.ProposalStatus, event EventEnvelope) (bool, error)
}

// BuildingScope is the set of buildings a caller can see.
type BuildingScope struct {
	All         bool
	BuildingIDs []string
}

func (s BuildingScope) Allows(buildingID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.BuildingIDs {
		if id == buildingID {
			return true
		}
	}
	return false
}

// BuildingAccess resolves building visibility from the property registry.
type BuildingAccess interface {
	AccessibleBuildings(ctx context.Context, caller entities.Caller) (BuildingScope, error)
}

// OwnershipSnapshot reads the voter's current apartment ownership. It must
// not be cached between casts.
type OwnershipSnapshot interface {
	ListOwnedApartments(ctx context.Context, voterID string) ([]entities.ApartmentHolding, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	ProposalID  string
	ExpiresAt   time.Time
}

// IdempotencyStore is the read side of idempotency keys. Keys are written
// only by ProposalRepository.CreateProposalClaimingKey.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// MetricsRecorder is optional; use cases skip it when nil.
type MetricsRecorder interface {
	ProposalCreated(method entities.VotingMethod)
	VoteCast(choice entities.VoteChoice, wasUpdate bool)
	ProposalTallied(method entities.VotingMethod, passed bool)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
