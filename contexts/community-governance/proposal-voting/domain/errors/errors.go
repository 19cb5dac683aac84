package errors

import "errors"

var (
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrInvalidProposalInput   = errors.New("invalid proposal input")
	ErrInvalidVotingMethod    = errors.New("invalid voting method")
	ErrInvalidVotingWindow    = errors.New("voting window start must be before end")
	ErrInvalidEligibleRoles   = errors.New("eligible roles must be a non-empty set of known roles")
	ErrInvalidVoteChoice      = errors.New("vote choice must be Yes, No or Abstain")
	ErrProposalNotOpen        = errors.New("proposal is not open for voting")
	ErrNotEligible            = errors.New("caller is not eligible to vote on this proposal")
	ErrForbidden              = errors.New("caller lacks the role required for this action")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
