package toolset

import (
	"context"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
)

// ProposalResources registers the proposal:// scheme: the featured document
// plus the per-proposal template. The static URI is registered first so it
// wins over the template for the same path.
func ProposalResources(proposals *service.ProposalService) (*server.ResourceGroup, error) {
	g := server.NewResourceGroup("proposals", "proposal", "Proposal")

	err := g.Registry().RegisterStatic(protocol.Resource{
		URI:         "proposal://featured/latest",
		Name:        "Latest open proposal",
		MimeType:    "application/json",
		Description: "The most recently created proposal still accepting votes",
	}, func(ctx context.Context, _ map[string]string) (interface{}, error) {
		p, err := proposals.Latest()
		if err != nil {
			return nil, mapServiceError(err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	err = g.Registry().RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "proposal://{id}",
		Name:        "Proposal by ID",
		MimeType:    "application/json",
		Description: "One proposal with its tally and comment count",
	}, func(ctx context.Context, params map[string]string) (interface{}, error) {
		p, err := proposals.Get(params["id"])
		if err != nil {
			return nil, mapServiceError(err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// UserResources registers the user:// scheme serving activity profiles.
func UserResources(users *service.UserService) (*server.ResourceGroup, error) {
	g := server.NewResourceGroup("users", "user", "User")

	err := g.Registry().RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "user://{id}",
		Name:        "User profile",
		MimeType:    "application/json",
		Description: "A participant's proposal, vote, and comment activity",
	}, func(ctx context.Context, params map[string]string) (interface{}, error) {
		p, err := users.Profile(params["id"])
		if err != nil {
			return nil, mapServiceError(err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// AnalysisResources registers the analysis:// scheme. Reading an analysis
// URI evaluates the proposal on demand, reusing a cached evaluation when one
// exists.
func AnalysisResources(analyses *service.AnalysisService) (*server.ResourceGroup, error) {
	g := server.NewResourceGroup("analyses", "analysis", "Analysis")

	err := g.Registry().RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "analysis://{proposal_id}",
		Name:        "Proposal analysis",
		MimeType:    "application/json",
		Description: "An evaluation of one proposal with a recommendation",
	}, func(ctx context.Context, params map[string]string) (interface{}, error) {
		if a, ok := analyses.Cached(params["proposal_id"]); ok {
			return a, nil
		}
		a, err := analyses.Analyze(ctx, params["proposal_id"])
		if err != nil {
			return nil, mapServiceError(err)
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}
