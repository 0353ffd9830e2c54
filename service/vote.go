package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Vote types.
const (
	VoteSupport = "support"
	VoteOppose  = "oppose"
	VoteAbstain = "abstain"
)

// Vote is one ballot cast against a proposal.
type Vote struct {
	ID         string    `json:"vote_id"`
	ProposalID string    `json:"proposal_id"`
	VoterID    string    `json:"voter_id"`
	VoteType   string    `json:"vote_type"`
	Reason     string    `json:"reason,omitempty"`
	Weight     float64   `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
}

// Results summarizes the ballots for one proposal.
type Results struct {
	ProposalID        string    `json:"proposal_id"`
	Title             string    `json:"title"`
	Status            string    `json:"status"`
	Votes             VoteTally `json:"votes"`
	TotalVotes        int       `json:"total_votes"`
	SupportPercentage float64   `json:"support_percentage"`
	OpposePercentage  float64   `json:"oppose_percentage"`
}

// VoteService is the in-memory ballot store. It keeps the proposal store's
// tallies in sync and enforces one vote per voter per proposal.
type VoteService struct {
	mu         sync.RWMutex
	proposals  *ProposalService
	byProposal map[string][]*Vote
	voters     map[string]map[string]bool // proposal ID -> voter ID -> voted
	now        func() time.Time
}

// NewVoteService creates a ballot store backed by the given proposal store.
func NewVoteService(proposals *ProposalService) *VoteService {
	return &VoteService{
		proposals:  proposals,
		byProposal: make(map[string][]*Vote),
		voters:     make(map[string]map[string]bool),
		now:        time.Now,
	}
}

// NormalizeVoteType maps common spellings onto the three vote types.
func NormalizeVoteType(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case VoteSupport, "yes", "approve", "for":
		return VoteSupport, nil
	case VoteOppose, "no", "reject", "against":
		return VoteOppose, nil
	case VoteAbstain, "neutral":
		return VoteAbstain, nil
	default:
		return "", fmt.Errorf("%q is not a valid vote type: %w", v, ErrInvalidInput)
	}
}

// Cast records one ballot. The proposal must exist and be open, the voter
// must not have voted on it before, and a weight of 0 defaults to 1.
func (s *VoteService) Cast(proposalID, voterID, voteType, reason string, weight float64) (*Vote, error) {
	if voterID == "" {
		return nil, fmt.Errorf("voter_id must not be empty: %w", ErrInvalidInput)
	}
	normalized, err := NormalizeVoteType(voteType)
	if err != nil {
		return nil, err
	}
	if weight == 0 {
		weight = 1
	}
	if weight < 0 {
		return nil, fmt.Errorf("weight must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.voters[proposalID][voterID] {
		return nil, fmt.Errorf("voter %s on proposal %s: %w", voterID, proposalID, ErrDuplicateVote)
	}

	// recordVote also verifies the proposal exists and is open.
	if err := s.proposals.recordVote(proposalID, normalized); err != nil {
		return nil, err
	}

	v := &Vote{
		ID:         uuid.NewString(),
		ProposalID: proposalID,
		VoterID:    voterID,
		VoteType:   normalized,
		Reason:     reason,
		Weight:     weight,
		CreatedAt:  s.now(),
	}
	s.byProposal[proposalID] = append(s.byProposal[proposalID], v)
	if s.voters[proposalID] == nil {
		s.voters[proposalID] = make(map[string]bool)
	}
	s.voters[proposalID][voterID] = true
	return v, nil
}

// List returns the ballots for one proposal in casting order.
func (s *VoteService) List(proposalID string) ([]*Vote, error) {
	if _, err := s.proposals.Get(proposalID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := s.byProposal[proposalID]
	out := make([]*Vote, len(votes))
	for i, v := range votes {
		c := *v
		out[i] = &c
	}
	return out, nil
}

// ResultsFor computes the tally and percentages for one proposal.
func (s *VoteService) ResultsFor(proposalID string) (*Results, error) {
	p, err := s.proposals.Get(proposalID)
	if err != nil {
		return nil, err
	}

	r := &Results{
		ProposalID: p.ID,
		Title:      p.Title,
		Status:     p.Status,
		Votes:      p.VoteCount,
		TotalVotes: p.VoteCount.Total(),
	}
	if r.TotalVotes > 0 {
		r.SupportPercentage = 100 * float64(p.VoteCount.Support) / float64(r.TotalVotes)
		r.OpposePercentage = 100 * float64(p.VoteCount.Oppose) / float64(r.TotalVotes)
	}
	return r, nil
}

// CountByVoter returns the number of ballots cast by one user.
func (s *VoteService) CountByVoter(voterID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, votes := range s.byProposal {
		for _, v := range votes {
			if v.VoterID == voterID {
				count++
			}
		}
	}
	return count
}
