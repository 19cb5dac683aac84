package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	proposalvoting "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting"
	governancehttp "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/transport/http"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/metrics"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testHarness struct {
	server *Server
	module proposalvoting.Module
	tokens *TokenVerifier
}

func newTestServer(t *testing.T) testHarness {
	t.Helper()
	module := proposalvoting.NewInMemoryModule(nil, nil, nil)
	module.Store.SetNow(testNow)

	seventy := decimal.NewFromInt(70)
	thirty := decimal.NewFromInt(30)
	module.Store.SetApartment("apt-1", "b1", &seventy)
	module.Store.SetApartment("apt-2", "b1", &thirty)
	module.Store.SetApartment("apt-9", "b2", &thirty)
	module.Store.SetApartmentOwners("apt-1", "owner-a")
	module.Store.SetApartmentOwners("apt-2", "owner-b")
	module.Store.SetApartmentOwners("apt-9", "owner-z")
	module.Store.SetBuildingManager("b1", "manager-1")

	tokens := NewTokenVerifier(testSecret)
	return testHarness{
		server: New(module, tokens, metrics.NewRecorder().Handler(), nil, ""),
		module: module,
		tokens: tokens,
	}
}

func (h testHarness) do(t *testing.T, method string, path string, userID string, roles []string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := h.tokens.Issue(userID, roles, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.server.mux.ServeHTTP(rr, req)
	return rr
}

func proposalBody(method string, buildingID string, start time.Time, end time.Time, roles ...string) string {
	payload := map[string]any{
		"title":          "Replace the roof",
		"description":    "Quotes attached",
		"start_time":     start.Format(time.RFC3339),
		"end_time":       end.Format(time.RFC3339),
		"voting_method":  method,
		"eligible_roles": roles,
	}
	if buildingID != "" {
		payload["building_id"] = buildingID
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func createOpenProposal(t *testing.T, h testHarness, method string, buildingID string) governancehttp.CreateProposalResponse {
	t.Helper()
	rr := h.do(t, http.MethodPost, "/api/v1/proposals", "admin-1", []string{"Admin"},
		proposalBody(method, buildingID, testNow.Add(-time.Hour), testNow.Add(time.Hour), "Homeowner"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created governancehttp.CreateProposalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created
}

func TestGovernanceRoutesRequireBearerToken(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodGet, "/api/v1/proposals", "", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceRoutesRejectForeignSignature(t *testing.T) {
	h := newTestServer(t)
	foreign, err := NewTokenVerifier("other-secret").Issue("admin-1", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/proposals", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rr := httptest.NewRecorder()
	h.server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateProposalRequiresGoverningRole(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodPost, "/api/v1/proposals", "owner-a", []string{"Homeowner"},
		proposalBody("SimpleMajority", "", testNow, testNow.Add(time.Hour), "Homeowner"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateProposalRejectsInvalidWindow(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodPost, "/api/v1/proposals", "admin-1", []string{"Admin"},
		proposalBody("SimpleMajority", "", testNow, testNow, "Homeowner"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateProposalAcceptsMinuteTimestamps(t *testing.T) {
	h := newTestServer(t)
	body := `{"title":"Spring cleanup","start_time":"2026-03-01T11:00","end_time":"2026-03-08T11:00",` +
		`"voting_method":"SimpleMajority","eligible_roles":["Homeowner"]}`
	rr := h.do(t, http.MethodPost, "/api/v1/proposals", "admin-1", []string{"Admin"}, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created governancehttp.CreateProposalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantStart := time.Date(2026, time.March, 1, 11, 0, 0, 0, time.UTC)
	if !created.StartTime.Equal(wantStart) || created.Status != "Open" {
		t.Fatalf("expected open proposal starting %s, got %+v", wantStart, created.ProposalResponse)
	}

	rr = h.do(t, http.MethodPost, "/api/v1/proposals", "admin-1", []string{"Admin"},
		`{"title":"Bad","start_time":"01.03.2026","end_time":"2026-03-08T11:00","voting_method":"SimpleMajority","eligible_roles":["Homeowner"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown timestamp form, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateProposalIdempotencyReplayAndConflict(t *testing.T) {
	h := newTestServer(t)
	body := proposalBody("PerSeat", "", testNow, testNow.Add(time.Hour), "Homeowner")

	send := func(payload string) *httptest.ResponseRecorder {
		token, _ := h.tokens.Issue("admin-1", []string{"Admin"}, time.Hour)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/proposals", strings.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "create-1")
		rr := httptest.NewRecorder()
		h.server.mux.ServeHTTP(rr, req)
		return rr
	}

	first := send(body)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", first.Code, first.Body.String())
	}
	replay := send(body)
	if replay.Code != http.StatusOK {
		t.Fatalf("expected 200 replay, got %d body=%s", replay.Code, replay.Body.String())
	}
	var a, b governancehttp.CreateProposalResponse
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(replay.Body.Bytes(), &b)
	if a.ProposalID != b.ProposalID || !b.Replayed {
		t.Fatalf("expected replay of %s, got %+v", a.ProposalID, b)
	}

	conflict := send(proposalBody("Consensus", "", testNow, testNow.Add(time.Hour), "Homeowner"))
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", conflict.Code, conflict.Body.String())
	}
}

func TestWeightedVoteAndTallyFlow(t *testing.T) {
	h := newTestServer(t)
	created := createOpenProposal(t, h, "WeightedArea", "b1")
	if created.Status != "Open" {
		t.Fatalf("expected Open, got %s", created.Status)
	}
	votePath := fmt.Sprintf("/api/v1/proposals/%s/vote", created.ProposalID)

	yes := h.do(t, http.MethodPost, votePath, "owner-a", []string{"Homeowner"}, `{"choice":"Yes"}`)
	if yes.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", yes.Code, yes.Body.String())
	}
	var cast governancehttp.CastVoteResponse
	_ = json.Unmarshal(yes.Body.Bytes(), &cast)
	if !cast.Accepted || cast.Weight != "70" || cast.Choice != "Yes" {
		t.Fatalf("unexpected vote response %+v", cast)
	}
	if no := h.do(t, http.MethodPost, votePath, "owner-b", []string{"Homeowner"}, `{"choice":"No"}`); no.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", no.Code, no.Body.String())
	}

	detailRR := h.do(t, http.MethodGet, "/api/v1/proposals/"+created.ProposalID, "owner-a", []string{"Homeowner"}, "")
	if detailRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", detailRR.Code, detailRR.Body.String())
	}
	var detail governancehttp.ProposalDetailResponse
	_ = json.Unmarshal(detailRR.Body.Bytes(), &detail)
	if detail.Votes.Total != 2 || detail.UserVote == nil || *detail.UserVote != "Yes" || !detail.UserEligible {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if detail.Result != nil {
		t.Fatalf("expected no result before tally")
	}

	tallyPath := fmt.Sprintf("/api/v1/proposals/%s/tally", created.ProposalID)
	if forbidden := h.do(t, http.MethodPost, tallyPath, "owner-a", []string{"Homeowner"}, ""); forbidden.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", forbidden.Code, forbidden.Body.String())
	}
	tallyRR := h.do(t, http.MethodPost, tallyPath, "manager-1", []string{"Manager"}, "")
	if tallyRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", tallyRR.Code, tallyRR.Body.String())
	}
	var tally governancehttp.TallyResponse
	_ = json.Unmarshal(tallyRR.Body.Bytes(), &tally)
	if !tally.Passed || tally.Summary.YesWeight != "70" || tally.Summary.NoWeight != "30" || tally.Summary.TotalWeight != "100" {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if tally.Summary.MethodAppliedVersion != "WeightedArea/v1" {
		t.Fatalf("unexpected version %q", tally.Summary.MethodAppliedVersion)
	}

	late := h.do(t, http.MethodPost, votePath, "owner-a", []string{"Homeowner"}, `{"choice":"No"}`)
	if late.Code != http.StatusConflict {
		t.Fatalf("expected 409 after tally, got %d body=%s", late.Code, late.Body.String())
	}
}

func TestCastVoteErrorMapping(t *testing.T) {
	h := newTestServer(t)
	created := createOpenProposal(t, h, "SimpleMajority", "")
	votePath := fmt.Sprintf("/api/v1/proposals/%s/vote", created.ProposalID)

	if rr := h.do(t, http.MethodPost, votePath, "owner-a", []string{"Homeowner"}, `{"choice":"Maybe"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodPost, votePath, "renter-1", []string{"Renter"}, `{"choice":"Yes"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodPost, "/api/v1/proposals/missing/vote", "owner-a", []string{"Homeowner"}, `{"choice":"Yes"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodPost, votePath, "owner-a", []string{"Homeowner"}, `{`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestBuildingScopedProposalHiddenFromOutsiders(t *testing.T) {
	h := newTestServer(t)
	created := createOpenProposal(t, h, "PerSeat", "b1")

	rr := h.do(t, http.MethodGet, "/api/v1/proposals/"+created.ProposalID, "owner-z", []string{"Homeowner"}, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for outsider, got %d body=%s", rr.Code, rr.Body.String())
	}

	listRR := h.do(t, http.MethodGet, "/api/v1/proposals?building_id=b1", "owner-z", []string{"Homeowner"}, "")
	if listRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", listRR.Code, listRR.Body.String())
	}
	var list governancehttp.ListProposalsResponse
	_ = json.Unmarshal(listRR.Body.Bytes(), &list)
	if len(list.Items) != 0 {
		t.Fatalf("expected empty list for inaccessible building, got %d", len(list.Items))
	}

	memberRR := h.do(t, http.MethodGet, "/api/v1/proposals", "owner-a", []string{"Homeowner"}, "")
	_ = json.Unmarshal(memberRR.Body.Bytes(), &list)
	if len(list.Items) != 1 || list.Items[0].ProposalID != created.ProposalID {
		t.Fatalf("expected member to see the proposal, got %+v", list.Items)
	}
}

func TestMetricsEndpointServed(t *testing.T) {
	h := newTestServer(t)
	createOpenProposal(t, h, "SimpleMajority", "")
	rr := h.do(t, http.MethodGet, "/metrics", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
