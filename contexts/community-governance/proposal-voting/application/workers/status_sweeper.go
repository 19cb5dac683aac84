package workers

import (
	"context"
	"log/slog"
	"time"

	application "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
	contractsv1 "github.com/Na-Varte-5/house-management-sub001/contracts/gen/events/v1"
)

// StatusSweeper aligns Scheduled and Open proposals with the wall clock.
// Tallied proposals are never selected.
type StatusSweeper struct {
	Proposals ports.StatusSweepRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce returns how many proposals changed status. A proposal whose
// status moved concurrently (for example, tallied mid-sweep) is skipped.
func (s StatusSweeper) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(s.Logger)
	limit := s.BatchSize
	if limit <= 0 {
		limit = 100
	}
	current := now(s.Clock)

	candidates, err := s.Proposals.ListSweepCandidates(ctx, current, limit)
	if err != nil {
		logger.Error("proposal status sweep failed",
			"event", "governance_status_sweep_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	moved := 0
	for _, proposal := range candidates {
		target, ok := proposal.SweptStatus(current)
		if !ok {
			continue
		}
		event, err := s.statusEvent(ctx, proposal, target, current)
		if err != nil {
			return moved, err
		}
		changed, err := s.Proposals.TransitionStatus(ctx, proposal.ProposalID, proposal.Status, target, event)
		if err != nil {
			logger.Error("proposal status transition failed",
				"event", "governance_status_transition_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"proposal_id", proposal.ProposalID,
				"from_status", string(proposal.Status),
				"to_status", string(target),
				"error", err.Error(),
			)
			return moved, err
		}
		if changed {
			moved++
		}
	}

	if moved > 0 {
		logger.Info("proposal status sweep completed",
			"event", "governance_status_sweep_completed",
			"module", application.ModuleName,
			"layer", "worker",
			"candidate_count", len(candidates),
			"moved_count", moved,
		)
	}
	return moved, nil
}

func (s StatusSweeper) statusEvent(
	ctx context.Context,
	proposal entities.Proposal,
	target entities.ProposalStatus,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return contractsv1.NewProposalEnvelope(eventID, contractsv1.TopicProposalStatusChanged, proposal.ProposalID, occurredAt,
		map[string]any{
			"proposal_id": proposal.ProposalID,
			"from_status": string(proposal.Status),
			"to_status":   string(target),
			"occurred_at": occurredAt.Format(time.RFC3339),
		})
}
