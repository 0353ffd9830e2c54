package toolset

import (
	"context"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
	"github.com/agoralabs/agora/util/schema"
)

type commentAddArgs struct {
	ProposalID  string  `json:"proposal_id" description:"ID of the proposal being commented on"`
	CommenterID string  `json:"commenter_id" description:"ID of the commenting user"`
	Content     string  `json:"content" description:"Text of the comment"`
	ParentID    *string `json:"parent_id" description:"Optional ID of the comment being replied to"`
}

type commentListArgs struct {
	ProposalID string `json:"proposal_id" description:"ID of the proposal whose comments to list"`
}

// CommentTools registers the comment_ tool family on a new group backed by
// the given store.
func CommentTools(comments *service.CommentService) (*server.ToolGroup, error) {
	g := server.NewToolGroup("comments", "comment_")

	register := func(name, desc string, args interface{}, handler server.ToolHandler) error {
		return g.Register(protocol.Tool{
			Name:        name,
			Description: desc,
			InputSchema: schema.FromStruct(args),
		}, handler)
	}

	if err := register("comment_add", "Comment on an open proposal", commentAddArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args commentAddArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			parentID := ""
			if args.ParentID != nil {
				parentID = *args.ParentID
			}
			c, err := comments.Add(args.ProposalID, args.CommenterID, args.Content, parentID)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("Added %s comment %s on proposal %s", c.Sentiment, c.ID, c.ProposalID),
				server.StructuredContent(c),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("comment_list", "List the comments on one proposal", commentListArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args commentListArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			list, err := comments.List(args.ProposalID)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("%d comment(s)", len(list)),
				server.StructuredContent(list),
			}, nil
		}); err != nil {
		return nil, err
	}

	return g, nil
}
