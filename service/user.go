package service

import "fmt"

// UserProfile is a participant's activity summary, derived from the
// proposal, vote, and comment stores. A user exists once they have created,
// voted, or commented at least once.
type UserProfile struct {
	ID               string `json:"user_id"`
	ProposalsCreated int    `json:"proposals_created"`
	VotesCast        int    `json:"votes_cast"`
	CommentsWritten  int    `json:"comments_written"`
}

// UserService derives participant profiles from the other stores.
type UserService struct {
	proposals *ProposalService
	votes     *VoteService
	comments  *CommentService
}

// NewUserService creates a profile service over the given stores.
func NewUserService(proposals *ProposalService, votes *VoteService, comments *CommentService) *UserService {
	return &UserService{proposals: proposals, votes: votes, comments: comments}
}

// Profile returns the activity summary for one user. A user with no
// recorded activity does not exist.
func (s *UserService) Profile(id string) (*UserProfile, error) {
	p := &UserProfile{
		ID:               id,
		ProposalsCreated: s.proposals.CountByCreator(id),
		VotesCast:        s.votes.CountByVoter(id),
		CommentsWritten:  s.comments.CountByCommenter(id),
	}
	if p.ProposalsCreated == 0 && p.VotesCast == 0 && p.CommentsWritten == 0 {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return p, nil
}
