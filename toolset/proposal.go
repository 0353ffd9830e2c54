package toolset

import (
	"context"
	"strings"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
	"github.com/agoralabs/agora/util/schema"
)

type proposalCreateArgs struct {
	Title     string    `json:"title" description:"Short title of the proposal"`
	Content   string    `json:"content" description:"Full text of the proposal"`
	CreatorID string    `json:"creator_id" description:"ID of the user creating the proposal"`
	Tags      *[]string `json:"tags" description:"Optional topic tags"`
}

type proposalGetArgs struct {
	ProposalID string `json:"proposal_id" description:"ID of the proposal to fetch"`
}

type proposalListArgs struct {
	Status *string  `json:"status" description:"Filter by status" enum:"open,closed,approved,rejected"`
	Limit  *float64 `json:"limit" description:"Maximum number of proposals to return"`
}

type proposalSearchArgs struct {
	Query string   `json:"query" description:"Text to match against titles, content, and tags"`
	Limit *float64 `json:"limit" description:"Maximum number of proposals to return"`
}

type proposalCloseArgs struct {
	ProposalID string  `json:"proposal_id" description:"ID of the proposal to close"`
	Status     *string `json:"status" description:"Terminal status to record" enum:"closed,approved,rejected"`
}

// ProposalTools registers the proposal_ tool family on a new group backed by
// the given store.
func ProposalTools(proposals *service.ProposalService) (*server.ToolGroup, error) {
	g := server.NewToolGroup("proposals", "proposal_")

	register := func(name, desc string, args interface{}, handler server.ToolHandler) error {
		return g.Register(protocol.Tool{
			Name:        name,
			Description: desc,
			InputSchema: schema.FromStruct(args),
		}, handler)
	}

	if err := register("proposal_create", "Create a new community proposal", proposalCreateArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args proposalCreateArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			var tags []string
			if args.Tags != nil {
				tags = *args.Tags
			}
			p, err := proposals.Create(args.Title, args.Content, args.CreatorID, tags)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("Created proposal %s: %s", p.ID, p.Title),
				server.StructuredContent(p),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("proposal_get", "Fetch one proposal by ID", proposalGetArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args proposalGetArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			p, err := proposals.Get(args.ProposalID)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{server.StructuredContent(p)}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("proposal_list", "List proposals in creation order", proposalListArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args proposalListArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			status := ""
			if args.Status != nil {
				status = *args.Status
			}
			limit := 0
			if args.Limit != nil {
				limit = int(*args.Limit)
			}
			list := proposals.List(status, limit)
			return []protocol.Content{
				server.TextContentf("%d proposal(s)", len(list)),
				server.StructuredContent(list),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("proposal_search", "Search proposals by title, content, or tags", proposalSearchArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args proposalSearchArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			limit := 0
			if args.Limit != nil {
				limit = int(*args.Limit)
			}
			list := proposals.Search(args.Query, limit)
			return []protocol.Content{
				server.TextContentf("%d proposal(s) matching %q", len(list), strings.TrimSpace(args.Query)),
				server.StructuredContent(list),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("proposal_close", "Close an open proposal with a terminal status", proposalCloseArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args proposalCloseArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			finalStatus := ""
			if args.Status != nil {
				finalStatus = *args.Status
			}
			p, err := proposals.Close(args.ProposalID, finalStatus)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("Proposal %s is now %s", p.ID, p.Status),
				server.StructuredContent(p),
			}, nil
		}); err != nil {
		return nil, err
	}

	return g, nil
}
