package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Proposal statuses. A proposal starts open and is closed exactly once into
// one of the terminal statuses.
const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// VoteTally counts votes by type for one proposal.
type VoteTally struct {
	Support int `json:"support"`
	Oppose  int `json:"oppose"`
	Abstain int `json:"abstain"`
}

// Total returns the number of votes cast.
func (t VoteTally) Total() int { return t.Support + t.Oppose + t.Abstain }

// Proposal is one community governance proposal.
type Proposal struct {
	ID           string     `json:"proposal_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CreatorID    string     `json:"creator_id"`
	Status       string     `json:"status"`
	Tags         []string   `json:"tags,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	VoteCount    VoteTally  `json:"vote_count"`
	CommentCount int        `json:"comment_count"`
}

// IsOpen reports whether the proposal accepts votes and comments.
func (p *Proposal) IsOpen() bool { return p.Status == StatusOpen }

func (p *Proposal) clone() *Proposal {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	if p.UpdatedAt != nil {
		u := *p.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}

// ProposalService is the in-memory proposal store. Listing order is creation
// order.
type ProposalService struct {
	mu        sync.RWMutex
	order     []string
	proposals map[string]*Proposal
	now       func() time.Time
}

// NewProposalService creates an empty proposal store.
func NewProposalService() *ProposalService {
	return &ProposalService{
		proposals: make(map[string]*Proposal),
		now:       time.Now,
	}
}

// Create registers a new open proposal.
func (s *ProposalService) Create(title, content, creatorID string, tags []string) (*Proposal, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content must not be empty: %w", ErrInvalidInput)
	}
	if creatorID == "" {
		return nil, fmt.Errorf("creator_id must not be empty: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Proposal{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatorID: creatorID,
		Status:    StatusOpen,
		Tags:      append([]string(nil), tags...),
		CreatedAt: s.now(),
	}
	s.proposals[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.clone(), nil
}

// Get returns the proposal with the given ID.
func (s *ProposalService) Get(id string) (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return p.clone(), nil
}

// List returns proposals in creation order, optionally filtered by status.
// A limit of 0 means no limit.
func (s *ProposalService) List(status string, limit int) []*Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Proposal
	for _, id := range s.order {
		p := s.proposals[id]
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p.clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Search returns proposals whose title, content, or tags contain the query,
// case-insensitively, in creation order. A limit of 0 means no limit.
func (s *ProposalService) Search(query string, limit int) []*Proposal {
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Proposal
	for _, id := range s.order {
		p := s.proposals[id]
		if !proposalMatches(p, needle) {
			continue
		}
		out = append(out, p.clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func proposalMatches(p *Proposal, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Content), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Close moves an open proposal into a terminal status. Valid final statuses
// are closed, approved, and rejected; anything else falls back to closed.
func (s *ProposalService) Close(id, finalStatus string) (*Proposal, error) {
	switch finalStatus {
	case StatusClosed, StatusApproved, StatusRejected:
	case "":
		finalStatus = StatusClosed
	default:
		return nil, fmt.Errorf("status %q is not a valid final status: %w", finalStatus, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	if !p.IsOpen() {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrProposalClosed)
	}
	p.Status = finalStatus
	now := s.now()
	p.UpdatedAt = &now
	return p.clone(), nil
}

// Latest returns the most recently created open proposal.
func (s *ProposalService) Latest() (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.proposals[s.order[i]]
		if p.IsOpen() {
			return p.clone(), nil
		}
	}
	return nil, fmt.Errorf("no open proposals: %w", ErrNotFound)
}

// CountByCreator returns the number of proposals created by one user.
func (s *ProposalService) CountByCreator(creatorID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.proposals {
		if p.CreatorID == creatorID {
			count++
		}
	}
	return count
}

// recordVote increments the proposal's tally. Called by the vote service
// with the vote already validated.
func (s *ProposalService) recordVote(id, voteType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	if !p.IsOpen() {
		return fmt.Errorf("proposal %s: %w", id, ErrProposalClosed)
	}
	switch voteType {
	case VoteSupport:
		p.VoteCount.Support++
	case VoteOppose:
		p.VoteCount.Oppose++
	case VoteAbstain:
		p.VoteCount.Abstain++
	}
	return nil
}

// recordComment increments the proposal's comment counter.
func (s *ProposalService) recordComment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	p.CommentCount++
	return nil
}
