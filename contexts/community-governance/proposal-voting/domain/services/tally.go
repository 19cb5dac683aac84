package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
)

// TallyRuleVersion tags results with the rule-set that produced them.
// Bump it whenever Passes changes meaning for any method.
const TallyRuleVersion = "v1"

// WeightSums holds per-choice weight totals.
type WeightSums struct {
	Yes     decimal.Decimal
	No      decimal.Decimal
	Abstain decimal.Decimal
}

func (s WeightSums) Total() decimal.Decimal {
	return s.Yes.Add(s.No).Add(s.Abstain)
}

func SumWeights(votes []entities.Vote) WeightSums {
	sums := WeightSums{Yes: decimal.Zero, No: decimal.Zero, Abstain: decimal.Zero}
	for _, vote := range votes {
		switch vote.Choice {
		case entities.VoteChoiceYes:
			sums.Yes = sums.Yes.Add(vote.Weight)
		case entities.VoteChoiceNo:
			sums.No = sums.No.Add(vote.Weight)
		case entities.VoteChoiceAbstain:
			sums.Abstain = sums.Abstain.Add(vote.Weight)
		}
	}
	return sums
}

// Passes applies the method's pass rule. Majority-style methods need yes
// strictly above no, so a tie fails and abstentions never count. Consensus
// fails on any dissenting weight and therefore passes with no votes at all.
func Passes(method entities.VotingMethod, sums WeightSums) (bool, error) {
	switch method {
	case entities.VotingMethodSimpleMajority,
		entities.VotingMethodWeightedArea,
		entities.VotingMethodPerSeat:
		return sums.Yes.GreaterThan(sums.No), nil
	case entities.VotingMethodConsensus:
		return sums.No.IsZero(), nil
	default:
		return false, fmt.Errorf("%w: %q", domainerrors.ErrInvalidVotingMethod, method)
	}
}

// Tally aggregates a point-in-time vote set into a result.
func Tally(proposal entities.Proposal, votes []entities.Vote, talliedAt time.Time) (entities.ProposalResult, error) {
	sums := SumWeights(votes)
	passed, err := Passes(proposal.VotingMethod, sums)
	if err != nil {
		return entities.ProposalResult{}, err
	}
	return entities.ProposalResult{
		ProposalID:           proposal.ProposalID,
		Passed:               passed,
		YesWeight:            sums.Yes,
		NoWeight:             sums.No,
		AbstainWeight:        sums.Abstain,
		TotalWeight:          sums.Total(),
		TalliedAt:            talliedAt.UTC(),
		MethodAppliedVersion: string(proposal.VotingMethod) + "/" + TallyRuleVersion,
	}, nil
}
