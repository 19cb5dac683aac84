package postgresadapter

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
)

func TestProposalModelRoundTrip(t *testing.T) {
	building := " b1 "
	proposal := entities.Proposal{
		ProposalID:    "p-1",
		Title:         "Replace boiler",
		CreatedBy:     "manager-1",
		BuildingID:    &building,
		StartTime:     time.Date(2026, time.March, 1, 10, 0, 0, 0, time.FixedZone("EET", 7200)),
		EndTime:       time.Date(2026, time.March, 8, 10, 0, 0, 0, time.UTC),
		VotingMethod:  entities.VotingMethodWeightedArea,
		EligibleRoles: entities.NewRoleSet(entities.RoleHomeowner, entities.RoleHOAMember),
		Status:        entities.ProposalStatusScheduled,
		CreatedAt:     time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC),
	}

	row := proposalModelFromEntity(proposal)
	if row.EligibleRoles != "HOA Member,Homeowner" {
		t.Fatalf("unexpected stored roles %q", row.EligibleRoles)
	}
	if row.BuildingID == nil || *row.BuildingID != "b1" {
		t.Fatalf("expected trimmed building id, got %v", row.BuildingID)
	}

	back := row.toEntity()
	if back.StartTime.Location() != time.UTC || !back.StartTime.Equal(proposal.StartTime) {
		t.Fatalf("unexpected start time %s", back.StartTime)
	}
	if back.EligibleRoles.String() != proposal.EligibleRoles.String() || back.IsGlobal() {
		t.Fatalf("unexpected entity %+v", back)
	}
}

func TestGlobalProposalStoresNullBuilding(t *testing.T) {
	blank := "  "
	row := proposalModelFromEntity(entities.Proposal{ProposalID: "p-2", BuildingID: &blank})
	if row.BuildingID != nil {
		t.Fatalf("blank building must be stored as NULL")
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("expected created_at default")
	}
}

func TestVoteModelDefaultsTimestamps(t *testing.T) {
	row := voteModelFromEntity(entities.Vote{
		VoteID:     "v-1",
		ProposalID: "p-1",
		VoterID:    "owner-a",
		Choice:     entities.VoteChoiceAbstain,
		Weight:     decimal.RequireFromString("42.125"),
	})
	if row.CreatedAt.IsZero() || !row.UpdatedAt.Equal(row.CreatedAt) {
		t.Fatalf("unexpected timestamps %+v", row)
	}
	if !row.toEntity().Weight.Equal(decimal.RequireFromString("42.125")) {
		t.Fatalf("weight must survive the model")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := fmt.Errorf("insert vote: %w", &pgconn.PgError{Code: "23503"})
	if !isForeignKeyViolation(fk) {
		t.Fatalf("expected wrapped 23503 to match")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("unique violation is not a foreign key violation")
	}
}

func TestTrimAll(t *testing.T) {
	got := trimAll([]string{" b1", "", "  ", "b2 "})
	if len(got) != 2 || got[0] != "b1" || got[1] != "b2" {
		t.Fatalf("unexpected values %v", got)
	}
}
