package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	application "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/services"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

type CastVoteCommand struct {
	ProposalID string
	Voter      entities.Caller
	Choice     string
}

type CastVoteResult struct {
	Accepted  bool
	Vote      entities.Vote
	Weight    decimal.Decimal
	Choice    entities.VoteChoice
	WasUpdate bool
}

// CastVoteUseCase records a voter's latest choice on an open proposal.
type CastVoteUseCase struct {
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Ownership ports.OwnershipSnapshot
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.MetricsRecorder
	Logger    *slog.Logger
}

// Execute checks, in order: proposal exists, proposal is Open, choice is
// valid, voter holds an eligible role. The weight is recomputed from the
// voter's current ownership on every cast and the vote is upserted on
// (proposal, voter), so recasting overwrites the earlier choice.
//
// A concurrent tally may or may not include this vote depending on which
// commits first. That race is accepted: a tally is a point-in-time snapshot.
func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposalID := strings.TrimSpace(cmd.ProposalID)
	voterID := strings.TrimSpace(cmd.Voter.UserID)
	logger.Info("vote cast processing started",
		"event", "governance_vote_cast_started",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", proposalID,
		"voter_id", voterID,
	)

	proposal, err := uc.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if proposal.Status != entities.ProposalStatusOpen {
		logger.Warn("vote cast rejected; proposal not open",
			"event", "governance_vote_cast_not_open",
			"module", application.ModuleName,
			"layer", "application",
			"proposal_id", proposalID,
			"voter_id", voterID,
			"status", string(proposal.Status),
		)
		return CastVoteResult{}, domainerrors.ErrProposalNotOpen
	}
	choice, ok := entities.ParseVoteChoice(cmd.Choice)
	if !ok {
		logger.Warn("vote cast validation failed",
			"event", "governance_vote_cast_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"proposal_id", proposalID,
			"voter_id", voterID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoteChoice
	}
	if voterID == "" || !services.CanVote(cmd.Voter, proposal) {
		logger.Warn("vote cast rejected; voter not eligible",
			"event", "governance_vote_cast_not_eligible",
			"module", application.ModuleName,
			"layer", "application",
			"proposal_id", proposalID,
			"voter_id", voterID,
			"roles", cmd.Voter.Roles.String(),
			"eligible_roles", proposal.EligibleRoles.String(),
		)
		return CastVoteResult{}, domainerrors.ErrNotEligible
	}

	weight, err := uc.resolveWeight(ctx, proposal.VotingMethod, voterID)
	if err != nil {
		return CastVoteResult{}, err
	}

	now := nowFrom(uc.Clock)
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, eventVoteCast, proposal.ProposalID, now, map[string]any{
		"proposal_id": proposal.ProposalID,
		"voter_id":    voterID,
		"choice":      string(choice),
		"weight":      weight.String(),
		"occurred_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return CastVoteResult{}, err
	}

	stored, err := uc.Votes.UpsertVote(ctx, entities.Vote{
		VoteID:     voteID,
		ProposalID: proposal.ProposalID,
		VoterID:    voterID,
		Choice:     choice,
		Weight:     weight,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, envelope)
	if err != nil {
		return CastVoteResult{}, err
	}
	wasUpdate := stored.VoteID != voteID
	if uc.Metrics != nil {
		uc.Metrics.VoteCast(choice, wasUpdate)
	}

	logger.Info("vote cast",
		"event", "governance_vote_cast",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"vote_id", stored.VoteID,
		"voter_id", voterID,
		"choice", string(choice),
		"weight", weight.String(),
		"was_update", wasUpdate,
	)
	return CastVoteResult{
		Accepted:  true,
		Vote:      stored,
		Weight:    stored.Weight,
		Choice:    stored.Choice,
		WasUpdate: wasUpdate,
	}, nil
}

func (uc CastVoteUseCase) resolveWeight(
	ctx context.Context,
	method entities.VotingMethod,
	voterID string,
) (decimal.Decimal, error) {
	var holdings []entities.ApartmentHolding
	if method == entities.VotingMethodWeightedArea {
		items, err := uc.Ownership.ListOwnedApartments(ctx, voterID)
		if err != nil {
			return decimal.Zero, err
		}
		holdings = items
	}
	return services.VoteWeight(method, holdings)
}
