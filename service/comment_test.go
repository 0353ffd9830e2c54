package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*ProposalService, *CommentService, *Proposal) {
	t.Helper()
	proposals := NewProposalService()
	comments := NewCommentService(proposals)
	p, err := proposals.Create("t", "c", "alice", nil)
	require.NoError(t, err)
	return proposals, comments, p
}

func TestCommentAdd(t *testing.T) {
	proposals, comments, p := newCommentFixture(t)

	c, err := comments.Add(p.ID, "bob", "I support this, great idea.", "")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, SentimentPositive, c.Sentiment)
	assert.False(t, c.IsReply())

	got, err := proposals.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
}

func TestCommentAddValidation(t *testing.T) {
	proposals, comments, p := newCommentFixture(t)

	_, err := comments.Add(p.ID, "", "content", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = comments.Add(p.ID, "bob", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = comments.Add("nope", "bob", "content", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = proposals.Close(p.ID, "")
	require.NoError(t, err)
	_, err = comments.Add(p.ID, "bob", "content", "")
	assert.ErrorIs(t, err, ErrProposalClosed)
}

func TestCommentReplies(t *testing.T) {
	proposals, comments, p := newCommentFixture(t)

	parent, err := comments.Add(p.ID, "bob", "thoughts?", "")
	require.NoError(t, err)

	reply, err := comments.Add(p.ID, "carol", "replying", parent.ID)
	require.NoError(t, err)
	assert.True(t, reply.IsReply())
	assert.Equal(t, parent.ID, reply.ParentID)

	_, err = comments.Add(p.ID, "carol", "replying", "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	// A reply must target a comment on the same proposal.
	other, err := proposals.Create("t2", "c2", "alice", nil)
	require.NoError(t, err)
	_, err = comments.Add(other.ID, "carol", "replying", parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentListOrder(t *testing.T) {
	_, comments, p := newCommentFixture(t)

	comments.Add(p.ID, "bob", "first", "")
	comments.Add(p.ID, "carol", "second", "")

	list, err := comments.List(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"I agree, this is a great improvement.", SentimentPositive},
		{"This would harm the neighborhood, I disagree.", SentimentNegative},
		{"When does voting close?", SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifySentiment(tt.content), tt.content)
	}
}
