package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/commands"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/httpserver"
)

func TestMigrateDryRunPrintsSchema(t *testing.T) {
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--dry-run"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate dry run: %v", err)
	}
	if !strings.Contains(out.String(), "CREATE TABLE IF NOT EXISTS proposals") {
		t.Fatalf("expected schema output, got %q", out.String())
	}
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "cli-secret")

	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--user", "admin-1", "--roles", "Admin,Manager"})
	if err := root.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}

	claims, err := httpserver.NewTokenVerifier("cli-secret").Verify(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "admin-1" || len(claims.Roles) != 2 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenCommandRequiresUser(t *testing.T) {
	root := RootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected missing --user to fail")
	}
}

func TestPrintTallySummarisesWeights(t *testing.T) {
	var out bytes.Buffer
	printTally(&out, commands.TallyProposalResult{
		Result: entities.ProposalResult{
			ProposalID:           "p-1",
			Passed:               true,
			YesWeight:            decimal.NewFromInt(70),
			NoWeight:             decimal.NewFromInt(30),
			AbstainWeight:        decimal.Zero,
			TotalWeight:          decimal.NewFromInt(100),
			MethodAppliedVersion: "WeightedArea/v1",
		},
		Votes: entities.VoteCounts{Yes: 1, No: 1, Total: 2},
	})
	text := out.String()
	for _, want := range []string{"p-1", "PASSED", "WeightedArea/v1", "yes:     70 (1 votes)", "total:   100"} {
		if !strings.Contains(text, want) {
			t.Fatalf("tally output missing %q: %s", want, text)
		}
	}
}
