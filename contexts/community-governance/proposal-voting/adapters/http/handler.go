package httpadapter

import (
	"context"
	"log/slog"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/commands"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/queries"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	httptransport "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/transport/http"
)

type Handler struct {
	Create  commands.CreateProposalUseCase
	Cast    commands.CastVoteUseCase
	Tally   commands.TallyProposalUseCase
	Queries queries.ProposalQueries
	Logger  *slog.Logger
}

// CallerFromClaims builds the acting identity from verified token claims.
// Unknown role names are dropped.
func CallerFromClaims(userID string, roles []string) entities.Caller {
	return entities.Caller{
		UserID: userID,
		Roles:  entities.RoleSetFromClaims(roles),
	}
}

func (h Handler) CreateProposalHandler(
	ctx context.Context,
	caller entities.Caller,
	idempotencyKey string,
	req httptransport.CreateProposalRequest,
) (httptransport.CreateProposalResponse, error) {
	result, err := h.Create.Execute(ctx, commands.CreateProposalCommand{
		Creator:        caller,
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Description:    req.Description,
		BuildingID:     req.BuildingID,
		StartTime:      req.StartTime.Time,
		EndTime:        req.EndTime.Time,
		VotingMethod:   req.VotingMethod,
		EligibleRoles:  req.EligibleRoles,
	})
	if err != nil {
		return httptransport.CreateProposalResponse{}, err
	}
	return httptransport.CreateProposalResponse{
		ProposalResponse: mapProposal(result.Proposal),
		Replayed:         result.Replayed,
	}, nil
}

func (h Handler) ListProposalsHandler(
	ctx context.Context,
	caller entities.Caller,
	buildingID string,
) (httptransport.ListProposalsResponse, error) {
	items, err := h.Queries.ListProposals(ctx, caller, buildingID)
	if err != nil {
		return httptransport.ListProposalsResponse{}, err
	}
	response := httptransport.ListProposalsResponse{
		Items: make([]httptransport.ProposalResponse, 0, len(items)),
	}
	for _, item := range items {
		response.Items = append(response.Items, mapProposal(item))
	}
	return response, nil
}

func (h Handler) GetProposalHandler(
	ctx context.Context,
	caller entities.Caller,
	proposalID string,
) (httptransport.ProposalDetailResponse, error) {
	detail, err := h.Queries.GetProposal(ctx, caller, proposalID)
	if err != nil {
		return httptransport.ProposalDetailResponse{}, err
	}
	response := httptransport.ProposalDetailResponse{
		Proposal:     mapProposal(detail.Proposal),
		Votes:        mapCounts(detail.Counts),
		UserEligible: detail.CallerEligible,
	}
	if detail.CallerChoice != nil {
		choice := string(*detail.CallerChoice)
		response.UserVote = &choice
	}
	if detail.Result != nil {
		result := mapResult(*detail.Result)
		response.Result = &result
	}
	return response, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	caller entities.Caller,
	proposalID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Cast.Execute(ctx, commands.CastVoteCommand{
		ProposalID: proposalID,
		Voter:      caller,
		Choice:     req.Choice,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Accepted:  result.Accepted,
		VoteID:    result.Vote.VoteID,
		Choice:    string(result.Choice),
		Weight:    result.Weight.String(),
		WasUpdate: result.WasUpdate,
	}, nil
}

func (h Handler) TallyProposalHandler(
	ctx context.Context,
	caller entities.Caller,
	proposalID string,
) (httptransport.TallyResponse, error) {
	result, err := h.Tally.Execute(ctx, commands.TallyProposalCommand{
		ProposalID: proposalID,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return httptransport.TallyResponse{
		ProposalID: result.Result.ProposalID,
		Passed:     result.Result.Passed,
		Summary:    mapResult(result.Result),
		Votes:      mapCounts(result.Votes),
	}, nil
}

func mapProposal(proposal entities.Proposal) httptransport.ProposalResponse {
	response := httptransport.ProposalResponse{
		ProposalID:    proposal.ProposalID,
		Title:         proposal.Title,
		Description:   proposal.Description,
		CreatedBy:     proposal.CreatedBy,
		StartTime:     proposal.StartTime,
		EndTime:       proposal.EndTime,
		VotingMethod:  string(proposal.VotingMethod),
		EligibleRoles: proposal.EligibleRoles.Strings(),
		Status:        string(proposal.Status),
		CreatedAt:     proposal.CreatedAt,
	}
	if proposal.BuildingID != nil {
		buildingID := *proposal.BuildingID
		response.BuildingID = &buildingID
	}
	return response
}

func mapCounts(counts entities.VoteCounts) httptransport.VoteCountsResponse {
	return httptransport.VoteCountsResponse{
		Yes:     counts.Yes,
		No:      counts.No,
		Abstain: counts.Abstain,
		Total:   counts.Total,
	}
}

func mapResult(result entities.ProposalResult) httptransport.ResultResponse {
	return httptransport.ResultResponse{
		Passed:               result.Passed,
		YesWeight:            result.YesWeight.String(),
		NoWeight:             result.NoWeight.String(),
		AbstainWeight:        result.AbstainWeight.String(),
		TotalWeight:          result.TotalWeight.String(),
		TalliedAt:            result.TalliedAt,
		MethodAppliedVersion: result.MethodAppliedVersion,
	}
}
