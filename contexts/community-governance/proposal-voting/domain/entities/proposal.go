package entities

import (
	"strings"
	"time"
)

type ProposalStatus string

const (
	ProposalStatusScheduled ProposalStatus = "Scheduled"
	ProposalStatusOpen      ProposalStatus = "Open"
	ProposalStatusClosed    ProposalStatus = "Closed"
	ProposalStatusTallied   ProposalStatus = "Tallied"
)

type VotingMethod string

const (
	VotingMethodSimpleMajority VotingMethod = "SimpleMajority"
	VotingMethodWeightedArea   VotingMethod = "WeightedArea"
	VotingMethodPerSeat        VotingMethod = "PerSeat"
	VotingMethodConsensus      VotingMethod = "Consensus"
)

// ParseVotingMethod accepts only the canonical method names.
func ParseVotingMethod(raw string) (VotingMethod, bool) {
	switch method := VotingMethod(strings.TrimSpace(raw)); method {
	case VotingMethodSimpleMajority,
		VotingMethodWeightedArea,
		VotingMethodPerSeat,
		VotingMethodConsensus:
		return method, true
	default:
		return "", false
	}
}

type Proposal struct {
	ProposalID    string
	Title         string
	Description   string
	CreatedBy     string
	BuildingID    *string
	StartTime     time.Time
	EndTime       time.Time
	VotingMethod  VotingMethod
	EligibleRoles RoleSet
	Status        ProposalStatus
	CreatedAt     time.Time
}

func (p Proposal) IsGlobal() bool {
	return p.BuildingID == nil || strings.TrimSpace(*p.BuildingID) == ""
}

// ScheduledStatus derives the status implied by the half-open window
// [start, end) at the given instant.
func ScheduledStatus(start time.Time, end time.Time, now time.Time) ProposalStatus {
	switch {
	case now.Before(start):
		return ProposalStatusScheduled
	case !now.Before(end):
		return ProposalStatusClosed
	default:
		return ProposalStatusOpen
	}
}

// SweptStatus returns the status a clock sweep would move the proposal to.
// Tallied proposals and backwards moves are left alone.
func (p Proposal) SweptStatus(now time.Time) (ProposalStatus, bool) {
	if p.Status == ProposalStatusTallied || p.Status == ProposalStatusClosed {
		return p.Status, false
	}
	target := ScheduledStatus(p.StartTime, p.EndTime, now)
	if target == p.Status {
		return p.Status, false
	}
	if p.Status == ProposalStatusOpen && target == ProposalStatusScheduled {
		return p.Status, false
	}
	return target, true
}
