package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

type CreateProposalCommand struct {
	Creator        entities.Caller
	IdempotencyKey string
	Title          string
	Description    string
	BuildingID     *string
	StartTime      time.Time
	EndTime        time.Time
	VotingMethod   string
	EligibleRoles  []string
}

type CreateProposalResult struct {
	Proposal entities.Proposal
	Replayed bool
}

type CreateProposalUseCase struct {
	Proposals      ports.ProposalRepository
	Access         ports.BuildingAccess
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Metrics        ports.MetricsRecorder
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute validates and persists a new proposal. The initial status is
// derived from the window once, here; only tallying and the status sweep
// change it afterwards. An idempotency key is optional; when present it is
// claimed in the same transaction that stores the proposal.
func (uc CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (CreateProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("proposal create processing started",
		"event", "governance_proposal_create_started",
		"module", application.ModuleName,
		"layer", "application",
		"creator_id", strings.TrimSpace(cmd.Creator.UserID),
	)

	if !cmd.Creator.CanGovern() {
		logger.Warn("proposal create forbidden",
			"event", "governance_proposal_create_forbidden",
			"module", application.ModuleName,
			"layer", "application",
			"creator_id", strings.TrimSpace(cmd.Creator.UserID),
			"roles", cmd.Creator.Roles.String(),
		)
		return CreateProposalResult{}, domainerrors.ErrForbidden
	}

	proposal, err := buildProposal(cmd)
	if err != nil {
		logger.Warn("proposal create validation failed",
			"event", "governance_proposal_create_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"creator_id", strings.TrimSpace(cmd.Creator.UserID),
			"error", err.Error(),
		)
		return CreateProposalResult{}, err
	}

	if !proposal.IsGlobal() {
		scope, err := uc.Access.AccessibleBuildings(ctx, cmd.Creator)
		if err != nil {
			return CreateProposalResult{}, err
		}
		if !scope.Allows(*proposal.BuildingID) {
			logger.Warn("proposal create building scope forbidden",
				"event", "governance_proposal_create_scope_forbidden",
				"module", application.ModuleName,
				"layer", "application",
				"creator_id", proposal.CreatedBy,
				"building_id", *proposal.BuildingID,
			)
			return CreateProposalResult{}, domainerrors.ErrForbidden
		}
	}

	now := nowFrom(uc.Clock)
	idempotencyKey := strings.TrimSpace(cmd.IdempotencyKey)
	requestHash := hashCreateProposalCommand(cmd)
	if idempotencyKey != "" && uc.Idempotency != nil {
		record, found, err := uc.Idempotency.Get(ctx, idempotencyKey, now)
		if err != nil {
			return CreateProposalResult{}, err
		}
		if found {
			return uc.replay(ctx, logger, record, requestHash)
		}
	}

	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateProposalResult{}, err
	}
	proposal.ProposalID = proposalID
	proposal.CreatedAt = now
	proposal.Status = entities.ScheduledStatus(proposal.StartTime, proposal.EndTime, now)

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateProposalResult{}, err
	}
	data := map[string]any{
		"proposal_id":    proposal.ProposalID,
		"title":          proposal.Title,
		"created_by":     proposal.CreatedBy,
		"voting_method":  string(proposal.VotingMethod),
		"eligible_roles": proposal.EligibleRoles.Strings(),
		"status":         string(proposal.Status),
		"start_time":     proposal.StartTime.Format(time.RFC3339),
		"end_time":       proposal.EndTime.Format(time.RFC3339),
	}
	if proposal.BuildingID != nil {
		data["building_id"] = *proposal.BuildingID
	}
	envelope, err := newGovernanceEnvelope(eventID, eventProposalCreated, proposal.ProposalID, now, data)
	if err != nil {
		return CreateProposalResult{}, err
	}
	if idempotencyKey == "" {
		if err := uc.Proposals.CreateProposal(ctx, proposal, envelope); err != nil {
			return CreateProposalResult{}, err
		}
	} else {
		holder, created, err := uc.Proposals.CreateProposalClaimingKey(ctx, proposal, envelope, ports.IdempotencyRecord{
			Key:         idempotencyKey,
			RequestHash: requestHash,
			ProposalID:  proposal.ProposalID,
			ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
		})
		if err != nil {
			return CreateProposalResult{}, err
		}
		if !created {
			return uc.replay(ctx, logger, holder, requestHash)
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.ProposalCreated(proposal.VotingMethod)
	}

	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"creator_id", proposal.CreatedBy,
		"voting_method", string(proposal.VotingMethod),
		"status", string(proposal.Status),
	)
	return CreateProposalResult{Proposal: proposal}, nil
}

// replay answers a request whose key is already held: the original proposal
// when the request matches, a conflict otherwise.
func (uc CreateProposalUseCase) replay(
	ctx context.Context,
	logger *slog.Logger,
	record ports.IdempotencyRecord,
	requestHash string,
) (CreateProposalResult, error) {
	if record.RequestHash != requestHash {
		logger.Warn("proposal create idempotency conflict",
			"event", "governance_proposal_create_idempotency_conflict",
			"module", application.ModuleName,
			"layer", "application",
			"idempotency_key", record.Key,
		)
		return CreateProposalResult{}, domainerrors.ErrIdempotencyKeyConflict
	}
	existing, err := uc.Proposals.GetProposal(ctx, record.ProposalID)
	if err != nil {
		return CreateProposalResult{}, err
	}
	logger.Info("proposal create replayed",
		"event", "governance_proposal_create_replayed",
		"module", application.ModuleName,
		"layer", "application",
		"proposal_id", existing.ProposalID,
	)
	return CreateProposalResult{Proposal: existing, Replayed: true}, nil
}

func (uc CreateProposalUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func buildProposal(cmd CreateProposalCommand) (entities.Proposal, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}
	if cmd.StartTime.IsZero() || cmd.EndTime.IsZero() || !cmd.StartTime.Before(cmd.EndTime) {
		return entities.Proposal{}, domainerrors.ErrInvalidVotingWindow
	}
	method, ok := entities.ParseVotingMethod(cmd.VotingMethod)
	if !ok {
		return entities.Proposal{}, domainerrors.ErrInvalidVotingMethod
	}
	roles, ok := entities.ParseRoleSet(cmd.EligibleRoles)
	if !ok || len(roles) == 0 {
		return entities.Proposal{}, domainerrors.ErrInvalidEligibleRoles
	}

	var buildingID *string
	if cmd.BuildingID != nil && strings.TrimSpace(*cmd.BuildingID) != "" {
		value := strings.TrimSpace(*cmd.BuildingID)
		buildingID = &value
	}
	return entities.Proposal{
		Title:         title,
		Description:   strings.TrimSpace(cmd.Description),
		CreatedBy:     strings.TrimSpace(cmd.Creator.UserID),
		BuildingID:    buildingID,
		StartTime:     cmd.StartTime.UTC(),
		EndTime:       cmd.EndTime.UTC(),
		VotingMethod:  method,
		EligibleRoles: roles,
	}, nil
}

func hashCreateProposalCommand(cmd CreateProposalCommand) string {
	buildingID := ""
	if cmd.BuildingID != nil {
		buildingID = strings.TrimSpace(*cmd.BuildingID)
	}
	roles := entities.RoleSetFromClaims(cmd.EligibleRoles)
	payload := map[string]string{
		"creator_id":     strings.TrimSpace(cmd.Creator.UserID),
		"title":          strings.TrimSpace(cmd.Title),
		"description":    strings.TrimSpace(cmd.Description),
		"building_id":    buildingID,
		"start_time":     cmd.StartTime.UTC().Format(time.RFC3339Nano),
		"end_time":       cmd.EndTime.UTC().Format(time.RFC3339Nano),
		"voting_method":  strings.TrimSpace(cmd.VotingMethod),
		"eligible_roles": roles.String(),
		"op":             "create_proposal",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
