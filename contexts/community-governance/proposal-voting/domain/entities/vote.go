package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type VoteChoice string

const (
	VoteChoiceYes     VoteChoice = "Yes"
	VoteChoiceNo      VoteChoice = "No"
	VoteChoiceAbstain VoteChoice = "Abstain"
)

func ParseVoteChoice(raw string) (VoteChoice, bool) {
	switch choice := VoteChoice(strings.TrimSpace(raw)); choice {
	case VoteChoiceYes, VoteChoiceNo, VoteChoiceAbstain:
		return choice, true
	default:
		return "", false
	}
}

// Vote is unique per (ProposalID, VoterID).
type Vote struct {
	VoteID     string
	ProposalID string
	VoterID    string
	Choice     VoteChoice
	Weight     decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ApartmentHolding is one row of a voter's ownership snapshot.
// AreaSqM is nil when the registry has no floor area recorded.
type ApartmentHolding struct {
	ApartmentID string
	BuildingID  string
	AreaSqM     *decimal.Decimal
}

type VoteCounts struct {
	Yes     int
	No      int
	Abstain int
	Total   int
}

func CountVotes(votes []Vote) VoteCounts {
	var counts VoteCounts
	for _, vote := range votes {
		switch vote.Choice {
		case VoteChoiceYes:
			counts.Yes++
		case VoteChoiceNo:
			counts.No++
		case VoteChoiceAbstain:
			counts.Abstain++
		}
	}
	counts.Total = counts.Yes + counts.No + counts.Abstain
	return counts
}
