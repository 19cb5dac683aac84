package http

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Timestamp accepts RFC 3339 and the zone-less minute form used by the
// house-management web client ("2026-01-20T10:00"). Zone-less values are UTC.
type Timestamp struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	if value, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return Timestamp{Time: value.UTC()}, nil
	}
	for _, layout := range zonelessLayouts {
		if value, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return Timestamp{Time: value}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("timestamp %q: want RFC 3339 or YYYY-MM-DDTHH:MM", raw)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

type CreateProposalRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	BuildingID    *string   `json:"building_id,omitempty"`
	StartTime     Timestamp `json:"start_time"`
	EndTime       Timestamp `json:"end_time"`
	VotingMethod  string    `json:"voting_method"`
	EligibleRoles []string  `json:"eligible_roles"`
}

type ProposalResponse struct {
	ProposalID    string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedBy     string    `json:"created_by"`
	BuildingID    *string   `json:"building_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	VotingMethod  string    `json:"voting_method"`
	EligibleRoles []string  `json:"eligible_roles"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateProposalResponse struct {
	ProposalResponse
	Replayed bool `json:"replayed"`
}

type ListProposalsResponse struct {
	Items []ProposalResponse `json:"items"`
}

type VoteCountsResponse struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Abstain int `json:"abstain"`
	Total   int `json:"total"`
}

// Weights travel as decimal strings.
type ResultResponse struct {
	Passed               bool      `json:"passed"`
	YesWeight            string    `json:"yes_weight"`
	NoWeight             string    `json:"no_weight"`
	AbstainWeight        string    `json:"abstain_weight"`
	TotalWeight          string    `json:"total_weight"`
	TalliedAt            time.Time `json:"tallied_at"`
	MethodAppliedVersion string    `json:"method_applied_version"`
}

type ProposalDetailResponse struct {
	Proposal     ProposalResponse   `json:"proposal"`
	Votes        VoteCountsResponse `json:"votes"`
	UserVote     *string            `json:"user_vote"`
	UserEligible bool               `json:"user_eligible"`
	Result       *ResultResponse    `json:"result"`
}

type CastVoteRequest struct {
	Choice string `json:"choice"`
}

type CastVoteResponse struct {
	Accepted  bool   `json:"accepted"`
	VoteID    string `json:"vote_id"`
	Choice    string `json:"choice"`
	Weight    string `json:"weight"`
	WasUpdate bool   `json:"was_update"`
}

type TallyResponse struct {
	ProposalID string             `json:"proposal_id"`
	Passed     bool               `json:"passed"`
	Summary    ResultResponse     `json:"summary"`
	Votes      VoteCountsResponse `json:"votes"`
}
