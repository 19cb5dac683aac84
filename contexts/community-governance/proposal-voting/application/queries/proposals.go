package queries

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/services"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

// ProposalDetail is the single-proposal read model.
type ProposalDetail struct {
	Proposal       entities.Proposal
	Counts         entities.VoteCounts
	CallerChoice   *entities.VoteChoice
	CallerEligible bool
	Result         *entities.ProposalResult
}

type ProposalQueries struct {
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Results   ports.ResultRepository
	Access    ports.BuildingAccess
}

// ListProposals returns what the caller can see, newest first. A building
// filter the caller has no access to yields an empty list.
func (q ProposalQueries) ListProposals(
	ctx context.Context,
	caller entities.Caller,
	buildingID string,
) ([]entities.Proposal, error) {
	scope, err := q.Access.AccessibleBuildings(ctx, caller)
	if err != nil {
		return nil, err
	}

	filter := ports.ProposalFilter{}
	buildingID = strings.TrimSpace(buildingID)
	switch {
	case buildingID != "":
		if !scope.Allows(buildingID) {
			return []entities.Proposal{}, nil
		}
		filter.BuildingIDs = []string{buildingID}
	case scope.All:
		filter.AllBuildings = true
		filter.IncludeGlobal = true
	default:
		filter.BuildingIDs = append([]string(nil), scope.BuildingIDs...)
		filter.IncludeGlobal = true
	}

	items, err := q.Proposals.ListProposals(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProposalID > items[j].ProposalID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// GetProposal hides building-scoped proposals outside the caller's scope
// behind ErrProposalNotFound.
func (q ProposalQueries) GetProposal(
	ctx context.Context,
	caller entities.Caller,
	proposalID string,
) (ProposalDetail, error) {
	proposal, err := q.Proposals.GetProposal(ctx, strings.TrimSpace(proposalID))
	if err != nil {
		return ProposalDetail{}, err
	}
	if !proposal.IsGlobal() {
		scope, err := q.Access.AccessibleBuildings(ctx, caller)
		if err != nil {
			return ProposalDetail{}, err
		}
		if !scope.Allows(*proposal.BuildingID) {
			return ProposalDetail{}, domainerrors.ErrProposalNotFound
		}
	}

	votes, err := q.Votes.ListVotesByProposal(ctx, proposal.ProposalID)
	if err != nil {
		return ProposalDetail{}, err
	}
	detail := ProposalDetail{
		Proposal:       proposal,
		Counts:         entities.CountVotes(votes),
		CallerEligible: services.CanVote(caller, proposal),
	}
	voterID := strings.TrimSpace(caller.UserID)
	for _, vote := range votes {
		if vote.VoterID == voterID {
			choice := vote.Choice
			detail.CallerChoice = &choice
			break
		}
	}

	result, found, err := q.Results.GetResult(ctx, proposal.ProposalID)
	if err != nil && !errors.Is(err, domainerrors.ErrProposalNotFound) {
		return ProposalDetail{}, err
	}
	if found {
		detail.Result = &result
	}
	return detail, nil
}
