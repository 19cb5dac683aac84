package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/services"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

type TallyProposalCommand struct {
	ProposalID string
	Caller     entities.Caller
}

type TallyProposalResult struct {
	Result entities.ProposalResult
	Votes  entities.VoteCounts
}

type TallyProposalUseCase struct {
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Results   ports.ResultRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.MetricsRecorder
	Logger    *slog.Logger
}

// Execute aggregates every vote on the proposal, whatever its status, and
// stores the result together with the Tallied status. Re-running it on an
// unchanged vote set overwrites the result with identical weights.
func (uc TallyProposalUseCase) Execute(ctx context.Context, cmd TallyProposalCommand) (TallyProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposalID := strings.TrimSpace(cmd.ProposalID)
	logger.Info("proposal tally processing started",
		"event", "governance_tally_started",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", proposalID,
		"caller_id", strings.TrimSpace(cmd.Caller.UserID),
	)

	if !cmd.Caller.CanGovern() {
		logger.Warn("proposal tally forbidden",
			"event", "governance_tally_forbidden",
			"module", application.ModuleName,
			"layer", "application",
			"proposal_id", proposalID,
			"caller_id", strings.TrimSpace(cmd.Caller.UserID),
		)
		return TallyProposalResult{}, domainerrors.ErrForbidden
	}

	proposal, err := uc.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return TallyProposalResult{}, err
	}
	votes, err := uc.Votes.ListVotesByProposal(ctx, proposal.ProposalID)
	if err != nil {
		return TallyProposalResult{}, err
	}

	now := nowFrom(uc.Clock)
	result, err := services.Tally(proposal, votes, now)
	if err != nil {
		return TallyProposalResult{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return TallyProposalResult{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, eventProposalTallied, proposal.ProposalID, now, map[string]any{
		"proposal_id":            proposal.ProposalID,
		"previous_status":        string(proposal.Status),
		"passed":                 result.Passed,
		"yes_weight":             result.YesWeight.String(),
		"no_weight":              result.NoWeight.String(),
		"abstain_weight":         result.AbstainWeight.String(),
		"total_weight":           result.TotalWeight.String(),
		"method_applied_version": result.MethodAppliedVersion,
		"tallied_by":             strings.TrimSpace(cmd.Caller.UserID),
		"occurred_at":            now.Format(time.RFC3339),
	})
	if err != nil {
		return TallyProposalResult{}, err
	}
	if err := uc.Results.SaveTally(ctx, result, envelope); err != nil {
		return TallyProposalResult{}, err
	}
	if uc.Metrics != nil {
		uc.Metrics.ProposalTallied(proposal.VotingMethod, result.Passed)
	}

	counts := entities.CountVotes(votes)
	logger.Info("proposal tallied",
		"event", "governance_tally_completed",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"previous_status", string(proposal.Status),
		"passed", result.Passed,
		"yes_weight", result.YesWeight.String(),
		"no_weight", result.NoWeight.String(),
		"abstain_weight", result.AbstainWeight.String(),
		"vote_count", counts.Total,
	)
	return TallyProposalResult{Result: result, Votes: counts}, nil
}
