package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
)

// VoteWeight computes a voter's weight from a fresh ownership snapshot.
// Flat-weight methods ignore the snapshot. WeightedArea sums floor area,
// counting missing or negative areas as zero.
func VoteWeight(method entities.VotingMethod, holdings []entities.ApartmentHolding) (decimal.Decimal, error) {
	switch method {
	case entities.VotingMethodSimpleMajority,
		entities.VotingMethodPerSeat,
		entities.VotingMethodConsensus:
		return decimal.NewFromInt(1), nil
	case entities.VotingMethodWeightedArea:
		total := decimal.Zero
		for _, holding := range holdings {
			if holding.AreaSqM == nil || holding.AreaSqM.IsNegative() {
				continue
			}
			total = total.Add(*holding.AreaSqM)
		}
		return total, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", domainerrors.ErrInvalidVotingMethod, method)
	}
}
