package toolset

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
)

// newGovernanceServer wires every group the way cmd/agora does.
func newGovernanceServer(t *testing.T) (*server.Server, *service.ProposalService) {
	t.Helper()

	proposals := service.NewProposalService()
	votes := service.NewVoteService(proposals)
	comments := service.NewCommentService(proposals)
	users := service.NewUserService(proposals, votes, comments)
	analyses := service.NewAnalysisService(proposals, votes, comments, nil)

	srv := server.NewServer("test")

	for _, build := range []func() (*server.ToolGroup, error){
		func() (*server.ToolGroup, error) { return ProposalTools(proposals) },
		func() (*server.ToolGroup, error) { return VoteTools(votes) },
		func() (*server.ToolGroup, error) { return CommentTools(comments) },
		func() (*server.ToolGroup, error) { return AnalysisTools(analyses) },
	} {
		g, err := build()
		require.NoError(t, err)
		require.NoError(t, srv.AddToolGroup(g))
	}

	for _, build := range []func() (*server.ResourceGroup, error){
		func() (*server.ResourceGroup, error) { return ProposalResources(proposals) },
		func() (*server.ResourceGroup, error) { return UserResources(users) },
		func() (*server.ResourceGroup, error) { return AnalysisResources(analyses) },
	} {
		g, err := build()
		require.NoError(t, err)
		require.NoError(t, srv.AddResourceGroup(g))
	}

	return srv, proposals
}

// structuredData extracts the structured-data block of a tool result and
// round-trips it through JSON for map-shaped assertions.
func structuredData(t *testing.T, result *protocol.CallToolResult) map[string]interface{} {
	t.Helper()
	for _, block := range result.Content {
		if block.Type != protocol.ContentTypeStructured {
			continue
		}
		raw, err := json.Marshal(block.Data)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &out))
		return out
	}
	t.Fatal("no structured-data block in result")
	return nil
}

func TestProposalLifecycleThroughDispatcher(t *testing.T) {
	srv, _ := newGovernanceServer(t)
	ctx := context.Background()

	created, err := srv.CallTool(ctx, "proposal_create", map[string]interface{}{
		"title":      "Park cleanup",
		"content":    "Organize a monthly cleanup.",
		"creator_id": "alice",
		"tags":       []interface{}{"environment"},
	})
	require.NoError(t, err)
	id := structuredData(t, created)["proposal_id"].(string)
	require.NotEmpty(t, id)

	_, err = srv.CallTool(ctx, "vote_cast", map[string]interface{}{
		"proposal_id": id,
		"voter_id":    "bob",
		"vote_type":   "yes",
	})
	require.NoError(t, err)

	_, err = srv.CallTool(ctx, "comment_add", map[string]interface{}{
		"proposal_id":  id,
		"commenter_id": "carol",
		"content":      "Great idea, I support it.",
	})
	require.NoError(t, err)

	results, err := srv.CallTool(ctx, "vote_results", map[string]interface{}{
		"proposal_id": id,
	})
	require.NoError(t, err)
	data := structuredData(t, results)
	assert.Equal(t, float64(1), data["total_votes"])
	assert.Equal(t, float64(100), data["support_percentage"])

	closed, err := srv.CallTool(ctx, "proposal_close", map[string]interface{}{
		"proposal_id": id,
		"status":      "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", structuredData(t, closed)["status"])
}

func TestToolErrorsMapToErrorKinds(t *testing.T) {
	srv, proposals := newGovernanceServer(t)
	ctx := context.Background()

	_, err := srv.CallTool(ctx, "proposal_get", map[string]interface{}{
		"proposal_id": "missing",
	})
	require.Error(t, err)
	assert.Equal(t, protocol.ErrorKindNotFound, protocol.AsError(err).Code)

	p, err := proposals.Create("t", "c", "alice", nil)
	require.NoError(t, err)

	cast := func() error {
		_, err := srv.CallTool(ctx, "vote_cast", map[string]interface{}{
			"proposal_id": p.ID,
			"voter_id":    "bob",
			"vote_type":   "yes",
		})
		return err
	}
	require.NoError(t, cast())
	err = cast()
	require.Error(t, err)
	assert.Equal(t, protocol.ErrorKindInvalidParams, protocol.AsError(err).Code)

	_, err = srv.CallTool(ctx, "vote_cast", map[string]interface{}{
		"proposal_id": p.ID,
		"voter_id":    "carol",
		"vote_type":   "maybe",
	})
	require.Error(t, err)
	assert.Equal(t, protocol.ErrorKindInvalidParams, protocol.AsError(err).Code)
}

func TestAnalysisTool(t *testing.T) {
	srv, proposals := newGovernanceServer(t)
	ctx := context.Background()

	p, err := proposals.Create("t", "c", "alice", nil)
	require.NoError(t, err)

	result, err := srv.CallTool(ctx, "analysis_analyze", map[string]interface{}{
		"proposal_id": p.ID,
	})
	require.NoError(t, err)
	data := structuredData(t, result)
	assert.Equal(t, "heuristic", data["source"])
	assert.NotEmpty(t, data["recommendation"])
}

func TestResourceReads(t *testing.T) {
	srv, proposals := newGovernanceServer(t)
	ctx := context.Background()

	_, err := srv.ReadResource(ctx, "proposal://featured/latest")
	require.Error(t, err)
	assert.Equal(t, protocol.ErrorKindNotFound, protocol.AsError(err).Code)

	p, err := proposals.Create("t", "c", "alice", nil)
	require.NoError(t, err)

	featured, err := srv.ReadResource(ctx, "proposal://featured/latest")
	require.NoError(t, err)
	require.Len(t, featured.Contents, 1)
	assert.Equal(t, "proposal://featured/latest", featured.Contents[0].URI)

	byID, err := srv.ReadResource(ctx, "proposal://"+p.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/json", byID.Contents[0].MimeType)

	_, err = srv.ReadResource(ctx, "user://ghost")
	require.Error(t, err)
	pe := protocol.AsError(err)
	assert.Equal(t, protocol.ErrorKindNotFound, pe.Code)

	profile, err := srv.ReadResource(ctx, "user://alice")
	require.NoError(t, err)
	require.Len(t, profile.Contents, 1)

	analysis, err := srv.ReadResource(ctx, "analysis://"+p.ID)
	require.NoError(t, err)
	require.Len(t, analysis.Contents, 1)
}

func TestDiscoveryListings(t *testing.T) {
	srv, _ := newGovernanceServer(t)

	tools := srv.ListTools()
	var names []string
	for _, def := range tools.Tools {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{
		"proposal_create", "proposal_get", "proposal_list", "proposal_search", "proposal_close",
		"vote_cast", "vote_results", "vote_list",
		"comment_add", "comment_list",
		"analysis_analyze",
	}, names)

	resources := srv.ListResources()
	require.Len(t, resources.Resources, 1)
	assert.Equal(t, "proposal://featured/latest", resources.Resources[0].URI)

	templates := srv.ListResourceTemplates()
	require.Len(t, templates.ResourceTemplates, 3)
	assert.Equal(t, "proposal://{id}", templates.ResourceTemplates[0].URITemplate)
}
