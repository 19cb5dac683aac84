package commands

import (
	"time"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
	contractsv1 "github.com/Na-Varte-5/house-management-sub001/contracts/gen/events/v1"
)

const (
	eventProposalCreated = contractsv1.TopicProposalCreated
	eventVoteCast        = contractsv1.TopicVoteCast
	eventProposalTallied = contractsv1.TopicProposalTallied
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	proposalID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	return contractsv1.NewProposalEnvelope(eventID, eventType, proposalID, occurredAt, data)
}

func nowFrom(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
