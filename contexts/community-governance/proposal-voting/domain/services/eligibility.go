package services

import "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"

// CanVote reports whether any of the caller's roles is in the proposal's
// eligible set.
func CanVote(caller entities.Caller, proposal entities.Proposal) bool {
	return caller.Roles.Intersects(proposal.EligibleRoles)
}
