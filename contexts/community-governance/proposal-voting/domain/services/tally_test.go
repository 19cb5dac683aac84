package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
)

func TestPassRules(t *testing.T) {
	cases := []struct {
		name   string
		method entities.VotingMethod
		votes  []entities.Vote
		passed bool
	}{
		{
			name:   "simple majority two yes one no",
			method: entities.VotingMethodSimpleMajority,
			votes:  votes(1, "Yes", "Yes", "No"),
			passed: true,
		},
		{
			name:   "per seat tie fails",
			method: entities.VotingMethodPerSeat,
			votes:  votes(1, "Yes", "No"),
			passed: false,
		},
		{
			name:   "abstentions never carry a majority",
			method: entities.VotingMethodSimpleMajority,
			votes:  votes(1, "Abstain", "Abstain", "Abstain"),
			passed: false,
		},
		{
			name:   "consensus fails on one dissent",
			method: entities.VotingMethodConsensus,
			votes:  votes(1, "Yes", "Yes", "Yes", "No"),
			passed: false,
		},
		{
			name:   "consensus passes with abstentions",
			method: entities.VotingMethodConsensus,
			votes:  votes(1, "Yes", "Abstain"),
			passed: true,
		},
		{
			name:   "consensus passes with no votes",
			method: entities.VotingMethodConsensus,
			passed: true,
		},
		{
			name:   "majority fails with no votes",
			method: entities.VotingMethodWeightedArea,
			passed: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			passed, err := Passes(tc.method, SumWeights(tc.votes))
			if err != nil {
				t.Fatalf("passes: %v", err)
			}
			if passed != tc.passed {
				t.Fatalf("expected passed=%v, got %v", tc.passed, passed)
			}
		})
	}
}

func TestTallyWeightedAreaUsesStoredWeights(t *testing.T) {
	proposal := entities.Proposal{ProposalID: "p-1", VotingMethod: entities.VotingMethodWeightedArea}
	talliedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	result, err := Tally(proposal, []entities.Vote{
		{VoterID: "owner-a", Choice: entities.VoteChoiceYes, Weight: decimal.RequireFromString("70")},
		{VoterID: "owner-b", Choice: entities.VoteChoiceNo, Weight: decimal.RequireFromString("30")},
		{VoterID: "owner-c", Choice: entities.VoteChoiceAbstain, Weight: decimal.RequireFromString("12.5")},
	}, talliedAt)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected 70 vs 30 to pass")
	}
	if !result.TotalWeight.Equal(decimal.RequireFromString("112.5")) {
		t.Fatalf("expected total 112.5, got %s", result.TotalWeight)
	}
	if !result.TotalWeight.Equal(result.YesWeight.Add(result.NoWeight).Add(result.AbstainWeight)) {
		t.Fatalf("total must equal the sum of choice weights")
	}
	if result.MethodAppliedVersion != "WeightedArea/v1" {
		t.Fatalf("unexpected version tag %q", result.MethodAppliedVersion)
	}
	if result.TalliedAt.Location() != time.UTC {
		t.Fatalf("expected UTC tally time")
	}
}

func TestTallyRejectsUnknownMethod(t *testing.T) {
	_, err := Tally(entities.Proposal{VotingMethod: "Plurality"}, nil, time.Now())
	if !errors.Is(err, domainerrors.ErrInvalidVotingMethod) {
		t.Fatalf("expected invalid voting method, got %v", err)
	}
}

func TestTallyIsDeterministic(t *testing.T) {
	proposal := entities.Proposal{ProposalID: "p-2", VotingMethod: entities.VotingMethodSimpleMajority}
	set := votes(1, "Yes", "No", "Yes", "Abstain")
	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	first, err := Tally(proposal, set, at)
	if err != nil {
		t.Fatalf("first tally: %v", err)
	}
	second, err := Tally(proposal, set, at.Add(time.Hour))
	if err != nil {
		t.Fatalf("second tally: %v", err)
	}
	if !first.SameOutcome(second) {
		t.Fatalf("expected identical outcomes, got %+v and %+v", first, second)
	}
}

func votes(weight int64, choices ...string) []entities.Vote {
	items := make([]entities.Vote, 0, len(choices))
	for i, raw := range choices {
		choice, _ := entities.ParseVoteChoice(raw)
		items = append(items, entities.Vote{
			VoterID: string(rune('a' + i)),
			Choice:  choice,
			Weight:  decimal.NewFromInt(weight),
		})
	}
	return items
}
