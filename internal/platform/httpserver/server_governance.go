package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	httpadapter "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/adapters/http"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	governanceerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	governancehttp "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/transport/http"
)

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req governancehttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CreateProposalHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ListProposalsHandler(r.Context(), caller, r.URL.Query().Get("building_id"))
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetProposalHandler(r.Context(), caller, r.PathValue("proposal_id"))
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req governancehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), caller, r.PathValue("proposal_id"), req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTallyProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.TallyProposalHandler(r.Context(), caller, r.PathValue("proposal_id"))
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (entities.Caller, bool) {
	claims, err := s.tokens.authenticate(r)
	if err != nil {
		s.logger.Warn("request authentication failed",
			"event", "http_auth_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		code := "invalid_token"
		if errors.Is(err, errMissingToken) {
			code = "missing_token"
		}
		writeGovernanceError(w, http.StatusUnauthorized, code, err.Error())
		return entities.Caller{}, false
	}
	return httpadapter.CallerFromClaims(claims.Subject, claims.Roles), true
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrProposalNotFound):
		writeGovernanceError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidProposalInput),
		errors.Is(err, governanceerrors.ErrInvalidVotingMethod),
		errors.Is(err, governanceerrors.ErrInvalidVotingWindow),
		errors.Is(err, governanceerrors.ErrInvalidEligibleRoles):
		writeGovernanceError(w, http.StatusUnprocessableEntity, "invalid_proposal", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidVoteChoice):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_vote_choice", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalNotOpen):
		writeGovernanceError(w, http.StatusConflict, "proposal_not_open", err.Error())
	case errors.Is(err, governanceerrors.ErrNotEligible):
		writeGovernanceError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, governanceerrors.ErrForbidden):
		writeGovernanceError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, governanceerrors.ErrIdempotencyKeyConflict):
		writeGovernanceError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
