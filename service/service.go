// Package service implements the business collaborators behind the agora
// tool and resource handlers: in-memory proposal, vote, comment, and user
// stores, plus proposal analysis. Services are plain dependencies passed to
// the toolset constructors; they hold no process-wide state.
package service

import "errors"

// Sentinel errors shared across services. Handlers inspect these with
// errors.Is to pick the caller-visible error kind.
var (
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a request the service cannot accept as given.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProposalClosed marks a write against a proposal that is no longer open.
	ErrProposalClosed = errors.New("proposal is not open")
	// ErrDuplicateVote marks a second vote by the same voter on one proposal.
	ErrDuplicateVote = errors.New("voter has already voted on this proposal")
)
