package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Comment sentiments.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Comment is one remark on a proposal, optionally replying to another
// comment.
type Comment struct {
	ID          string    `json:"comment_id"`
	ProposalID  string    `json:"proposal_id"`
	CommenterID string    `json:"commenter_id"`
	Content     string    `json:"content"`
	Sentiment   string    `json:"sentiment"`
	ParentID    string    `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsReply reports whether the comment replies to another comment.
func (c *Comment) IsReply() bool { return c.ParentID != "" }

// CommentService is the in-memory comment store.
type CommentService struct {
	mu         sync.RWMutex
	proposals  *ProposalService
	byProposal map[string][]*Comment
	byID       map[string]*Comment
	now        func() time.Time
}

// NewCommentService creates a comment store backed by the given proposal
// store.
func NewCommentService(proposals *ProposalService) *CommentService {
	return &CommentService{
		proposals:  proposals,
		byProposal: make(map[string][]*Comment),
		byID:       make(map[string]*Comment),
		now:        time.Now,
	}
}

// Add records a comment on an open proposal. When parentID is set it must
// name an existing comment on the same proposal.
func (s *CommentService) Add(proposalID, commenterID, content, parentID string) (*Comment, error) {
	if commenterID == "" || content == "" {
		return nil, fmt.Errorf("commenter_id and content must not be empty: %w", ErrInvalidInput)
	}

	p, err := s.proposals.Get(proposalID)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen() {
		return nil, fmt.Errorf("proposal %s: %w", proposalID, ErrProposalClosed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		parent, ok := s.byID[parentID]
		if !ok || parent.ProposalID != proposalID {
			return nil, fmt.Errorf("parent comment %s: %w", parentID, ErrNotFound)
		}
	}

	c := &Comment{
		ID:          uuid.NewString(),
		ProposalID:  proposalID,
		CommenterID: commenterID,
		Content:     content,
		Sentiment:   classifySentiment(content),
		ParentID:    parentID,
		CreatedAt:   s.now(),
	}
	if err := s.proposals.recordComment(proposalID); err != nil {
		return nil, err
	}
	s.byProposal[proposalID] = append(s.byProposal[proposalID], c)
	s.byID[c.ID] = c

	out := *c
	return &out, nil
}

// List returns the comments on one proposal in posting order.
func (s *CommentService) List(proposalID string) ([]*Comment, error) {
	if _, err := s.proposals.Get(proposalID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := s.byProposal[proposalID]
	out := make([]*Comment, len(comments))
	for i, c := range comments {
		copy := *c
		out[i] = &copy
	}
	return out, nil
}

// CountByCommenter returns the number of comments written by one user.
func (s *CommentService) CountByCommenter(commenterID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.byID {
		if c.CommenterID == commenterID {
			count++
		}
	}
	return count
}

var (
	positiveMarkers = []string{"support", "agree", "great", "good", "excellent", "love", "benefit", "improve", "yes"}
	negativeMarkers = []string{"oppose", "disagree", "bad", "terrible", "against", "harm", "risk", "problem", "no"}
)

// classifySentiment scores a comment with a marker-word heuristic.
func classifySentiment(content string) string {
	lowered := strings.ToLower(content)
	score := 0
	for _, marker := range positiveMarkers {
		if strings.Contains(lowered, marker) {
			score++
		}
	}
	for _, marker := range negativeMarkers {
		if strings.Contains(lowered, marker) {
			score--
		}
	}
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
