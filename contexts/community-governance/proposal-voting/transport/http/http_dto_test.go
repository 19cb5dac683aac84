package http

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCreateProposalRequestAcceptsClientTimestampForms(t *testing.T) {
	cases := map[string]time.Time{
		`"2026-01-20T10:00"`:          time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC),
		`"2026-01-20T10:00:30"`:       time.Date(2026, time.January, 20, 10, 0, 30, 0, time.UTC),
		`"2026-01-20T10:00:00Z"`:      time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC),
		`"2026-01-20T12:00:00+02:00"`: time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		var req CreateProposalRequest
		if err := json.Unmarshal([]byte(`{"start_time":`+raw+`}`), &req); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if !req.StartTime.Equal(want) {
			t.Fatalf("decode %s: got %s, want %s", raw, req.StartTime.Time, want)
		}
		if req.StartTime.Location() != time.UTC {
			t.Fatalf("decode %s: expected UTC, got %s", raw, req.StartTime.Location())
		}
	}
}

func TestCreateProposalRequestRejectsUnknownTimestamp(t *testing.T) {
	for _, raw := range []string{`"20/01/2026 10:00"`, `"2026-01-20"`, `1768903200`} {
		var req CreateProposalRequest
		if err := json.Unmarshal([]byte(`{"end_time":`+raw+`}`), &req); err == nil {
			t.Fatalf("expected %s to be rejected, got %s", raw, req.EndTime.Time)
		}
	}
}

func TestTimestampEmptyAndNullStayZero(t *testing.T) {
	var req CreateProposalRequest
	if err := json.Unmarshal([]byte(`{"start_time":null,"end_time":""}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !req.StartTime.IsZero() || !req.EndTime.IsZero() {
		t.Fatalf("expected zero timestamps, got %s / %s", req.StartTime.Time, req.EndTime.Time)
	}
}
