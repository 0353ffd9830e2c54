package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Analysis recommendation values.
const (
	RecommendSupport = "support"
	RecommendOppose  = "oppose"
	RecommendNeutral = "neutral"
)

// Analysis sources.
const (
	AnalysisSourceLLM       = "llm"
	AnalysisSourceHeuristic = "heuristic"
)

// Analysis is an evaluation of one proposal.
type Analysis struct {
	ProposalID     string    `json:"proposal_id"`
	Summary        string    `json:"summary"`
	Strengths      []string  `json:"strengths,omitempty"`
	Concerns       []string  `json:"concerns,omitempty"`
	Recommendation string    `json:"recommendation"`
	Source         string    `json:"source"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// ChatCompleter produces a completion for a prompt. The analysis service
// accepts any implementation so tests can substitute a stub.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAICompleter is a ChatCompleter backed by the OpenAI chat API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer for the given API key and model.
// An empty model defaults to gpt-4o-mini.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClient(apiKey), model: model}
}

// Complete sends one user prompt and returns the first choice.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const analysisPrompt = `You are evaluating a community governance proposal. Stay objective and
weigh both community benefit and individual rights.

Proposal title: %s
Proposal content: %s

Analyze the proposal's purpose, potential impact, strengths, and weaknesses,
then state your recommendation (support or oppose) with reasons.`

// AnalysisService evaluates proposals. When a ChatCompleter is configured it
// is tried first; on any failure, or when no completer is set, a
// deterministic heuristic built from the vote tally and comment sentiment is
// used instead, so analysis never fails merely because no model is
// reachable.
type AnalysisService struct {
	mu        sync.RWMutex
	proposals *ProposalService
	votes     *VoteService
	comments  *CommentService
	completer ChatCompleter
	cache     map[string]*Analysis
	now       func() time.Time
}

// NewAnalysisService creates an analysis service. completer may be nil.
func NewAnalysisService(proposals *ProposalService, votes *VoteService, comments *CommentService, completer ChatCompleter) *AnalysisService {
	return &AnalysisService{
		proposals: proposals,
		votes:     votes,
		comments:  comments,
		completer: completer,
		cache:     make(map[string]*Analysis),
		now:       time.Now,
	}
}

// Analyze evaluates one proposal and caches the result.
func (s *AnalysisService) Analyze(ctx context.Context, proposalID string) (*Analysis, error) {
	p, err := s.proposals.Get(proposalID)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		ProposalID:  p.ID,
		GeneratedAt: s.now(),
	}

	if s.completer != nil {
		prompt := fmt.Sprintf(analysisPrompt, p.Title, p.Content)
		if summary, err := s.completer.Complete(ctx, prompt); err == nil && summary != "" {
			a.Summary = summary
			a.Source = AnalysisSourceLLM
			a.Recommendation = recommendationFromText(summary)
		}
	}
	if a.Source == "" {
		s.heuristic(p, a)
	}

	s.mu.Lock()
	s.cache[proposalID] = a
	s.mu.Unlock()

	out := *a
	return &out, nil
}

// Cached returns a previously computed analysis, if any.
func (s *AnalysisService) Cached(proposalID string) (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.cache[proposalID]
	if !ok {
		return nil, false
	}
	out := *a
	return &out, true
}

// heuristic fills an analysis from the vote tally and comment sentiment.
func (s *AnalysisService) heuristic(p *Proposal, a *Analysis) {
	a.Source = AnalysisSourceHeuristic

	tally := p.VoteCount
	comments, _ := s.comments.List(p.ID)
	positive, negative := 0, 0
	for _, c := range comments {
		switch c.Sentiment {
		case SentimentPositive:
			positive++
		case SentimentNegative:
			negative++
		}
	}

	if tally.Support > tally.Oppose {
		a.Strengths = append(a.Strengths, fmt.Sprintf("majority support (%d of %d votes)", tally.Support, tally.Total()))
	}
	if tally.Oppose > 0 {
		a.Concerns = append(a.Concerns, fmt.Sprintf("%d opposing vote(s)", tally.Oppose))
	}
	if positive > 0 {
		a.Strengths = append(a.Strengths, fmt.Sprintf("%d positive comment(s)", positive))
	}
	if negative > 0 {
		a.Concerns = append(a.Concerns, fmt.Sprintf("%d negative comment(s)", negative))
	}

	score := tally.Support - tally.Oppose + positive - negative
	switch {
	case score > 0:
		a.Recommendation = RecommendSupport
	case score < 0:
		a.Recommendation = RecommendOppose
	default:
		a.Recommendation = RecommendNeutral
	}

	a.Summary = fmt.Sprintf("%q has %d vote(s) (%d support, %d oppose, %d abstain) and %d comment(s); sentiment leans %s.",
		p.Title, tally.Total(), tally.Support, tally.Oppose, tally.Abstain, len(comments), a.Recommendation)
}

// recommendationFromText derives a coarse recommendation from free-form
// model output.
func recommendationFromText(text string) string {
	lowered := strings.ToLower(text)
	supportIdx := strings.LastIndex(lowered, "support")
	opposeIdx := strings.LastIndex(lowered, "oppose")
	switch {
	case supportIdx > opposeIdx:
		return RecommendSupport
	case opposeIdx > supportIdx:
		return RecommendOppose
	default:
		return RecommendNeutral
	}
}
