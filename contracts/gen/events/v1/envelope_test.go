package v1

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewProposalEnvelopePartitionsByProposal(t *testing.T) {
	occurred := time.Date(2026, time.March, 1, 14, 0, 0, 0, time.FixedZone("EET", 7200))
	env, err := NewProposalEnvelope("evt-1", TopicVoteCast, "p-1", occurred, map[string]string{"choice": "Yes"})
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	if env.PartitionKey != "p-1" || env.PartitionKeyPath != "proposal_id" {
		t.Fatalf("unexpected partitioning %q/%q", env.PartitionKeyPath, env.PartitionKey)
	}
	if env.SourceService != SourceProposalVoting || env.SchemaVersion != SchemaVersion || env.TraceID != "evt-1" {
		t.Fatalf("unexpected metadata %+v", env)
	}
	if env.OccurredAt.Location() != time.UTC || !env.OccurredAt.Equal(occurred) {
		t.Fatalf("expected UTC occurred_at, got %s", env.OccurredAt)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data, ok := wire["data"].(map[string]any)
	if !ok || data["choice"] != "Yes" {
		t.Fatalf("expected data object on the wire, got %v", wire["data"])
	}
	if wire["event_type"] != "vote.cast" {
		t.Fatalf("unexpected event_type %v", wire["event_type"])
	}
}
