// Package v1 is the wire contract for governance events published from the
// outbox to Redis Streams. Fields are only ever added.
package v1

import (
	"encoding/json"
	"time"
)

// Topics consumers subscribe to.
const (
	TopicProposalCreated       = "proposal.created"
	TopicProposalStatusChanged = "proposal.status_changed"
	TopicVoteCast              = "vote.cast"
	TopicProposalTallied       = "proposal.tallied"
)

const (
	SourceProposalVoting = "proposal-voting"
	SchemaVersion        = 1
)

// Envelope wraps one event. Data is the topic-specific JSON object.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// NewProposalEnvelope partitions by proposal so a consumer reading one
// partition sees a proposal's events in order.
func NewProposalEnvelope(eventID string, topic string, proposalID string, occurredAt time.Time, data any) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:          eventID,
		EventType:        topic,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    SourceProposalVoting,
		TraceID:          eventID,
		SchemaVersion:    SchemaVersion,
		PartitionKeyPath: "proposal_id",
		PartitionKey:     proposalID,
		Data:             payload,
	}, nil
}
