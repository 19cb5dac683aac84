package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProposalResult struct {
	ProposalID           string
	Passed               bool
	YesWeight            decimal.Decimal
	NoWeight             decimal.Decimal
	AbstainWeight        decimal.Decimal
	TotalWeight          decimal.Decimal
	TalliedAt            time.Time
	MethodAppliedVersion string
}

// SameOutcome compares everything but the tally timestamp.
func (r ProposalResult) SameOutcome(other ProposalResult) bool {
	return r.ProposalID == other.ProposalID &&
		r.Passed == other.Passed &&
		r.YesWeight.Equal(other.YesWeight) &&
		r.NoWeight.Equal(other.NoWeight) &&
		r.AbstainWeight.Equal(other.AbstainWeight) &&
		r.TotalWeight.Equal(other.TotalWeight) &&
		r.MethodAppliedVersion == other.MethodAppliedVersion
}
