package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newAnalysisFixture(t *testing.T, completer ChatCompleter) (*AnalysisService, *VoteService, *CommentService, *Proposal) {
	t.Helper()
	proposals := NewProposalService()
	votes := NewVoteService(proposals)
	comments := NewCommentService(proposals)
	analyses := NewAnalysisService(proposals, votes, comments, completer)
	p, err := proposals.Create("Park cleanup", "Organize a monthly cleanup.", "alice", nil)
	require.NoError(t, err)
	return analyses, votes, comments, p
}

func TestAnalyzeWithCompleter(t *testing.T) {
	stub := &stubCompleter{reply: "A solid plan. I recommend you support it."}
	analyses, _, _, p := newAnalysisFixture(t, stub)

	a, err := analyses.Analyze(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSourceLLM, a.Source)
	assert.Equal(t, stub.reply, a.Summary)
	assert.Equal(t, RecommendSupport, a.Recommendation)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeFallsBackOnCompleterFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("model unavailable")}
	analyses, votes, _, p := newAnalysisFixture(t, stub)

	_, err := votes.Cast(p.ID, "bob", "support", "", 0)
	require.NoError(t, err)

	a, err := analyses.Analyze(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSourceHeuristic, a.Source)
	assert.Equal(t, RecommendSupport, a.Recommendation)
	assert.NotEmpty(t, a.Summary)
}

func TestAnalyzeHeuristic(t *testing.T) {
	analyses, votes, comments, p := newAnalysisFixture(t, nil)

	votes.Cast(p.ID, "bob", "oppose", "", 0)
	votes.Cast(p.ID, "carol", "oppose", "", 0)
	comments.Add(p.ID, "dave", "This would harm local business.", "")

	a, err := analyses.Analyze(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSourceHeuristic, a.Source)
	assert.Equal(t, RecommendOppose, a.Recommendation)
	assert.NotEmpty(t, a.Concerns)
	assert.Empty(t, a.Strengths)
}

func TestAnalyzeHeuristicNeutralWithNoActivity(t *testing.T) {
	analyses, _, _, p := newAnalysisFixture(t, nil)

	a, err := analyses.Analyze(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, RecommendNeutral, a.Recommendation)
}

func TestAnalyzeUnknownProposal(t *testing.T) {
	analyses, _, _, _ := newAnalysisFixture(t, nil)

	_, err := analyses.Analyze(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeCaches(t *testing.T) {
	analyses, _, _, p := newAnalysisFixture(t, nil)

	_, ok := analyses.Cached(p.ID)
	assert.False(t, ok)

	a, err := analyses.Analyze(context.Background(), p.ID)
	require.NoError(t, err)

	cached, ok := analyses.Cached(p.ID)
	require.True(t, ok)
	assert.Equal(t, a.Summary, cached.Summary)
}

func TestRecommendationFromText(t *testing.T) {
	assert.Equal(t, RecommendSupport, recommendationFromText("Overall I support this."))
	assert.Equal(t, RecommendOppose, recommendationFromText("Strengths exist but I must oppose."))
	assert.Equal(t, RecommendNeutral, recommendationFromText("Hard to say either way."))
}
