package toolset

import (
	"context"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
	"github.com/agoralabs/agora/util/schema"
)

type voteCastArgs struct {
	ProposalID string   `json:"proposal_id" description:"ID of the proposal being voted on"`
	VoterID    string   `json:"voter_id" description:"ID of the voting user"`
	VoteType   string   `json:"vote_type" description:"The ballot" enum:"support,oppose,abstain"`
	Reason     *string  `json:"reason" description:"Optional rationale for the vote"`
	Weight     *float64 `json:"weight" description:"Vote weight, defaults to 1"`
}

type voteResultsArgs struct {
	ProposalID string `json:"proposal_id" description:"ID of the proposal to tally"`
}

type voteListArgs struct {
	ProposalID string `json:"proposal_id" description:"ID of the proposal whose ballots to list"`
}

// VoteTools registers the vote_ tool family on a new group backed by the
// given store.
func VoteTools(votes *service.VoteService) (*server.ToolGroup, error) {
	g := server.NewToolGroup("votes", "vote_")

	register := func(name, desc string, args interface{}, handler server.ToolHandler) error {
		return g.Register(protocol.Tool{
			Name:        name,
			Description: desc,
			InputSchema: schema.FromStruct(args),
		}, handler)
	}

	if err := register("vote_cast", "Cast a ballot on an open proposal", voteCastArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args voteCastArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			reason := ""
			if args.Reason != nil {
				reason = *args.Reason
			}
			weight := 0.0
			if args.Weight != nil {
				weight = *args.Weight
			}
			v, err := votes.Cast(args.ProposalID, args.VoterID, args.VoteType, reason, weight)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("Recorded %s vote by %s on proposal %s", v.VoteType, v.VoterID, v.ProposalID),
				server.StructuredContent(v),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("vote_results", "Tally the ballots for one proposal", voteResultsArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args voteResultsArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			r, err := votes.ResultsFor(args.ProposalID)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("%s: %d vote(s), %.0f%% support", r.Title, r.TotalVotes, r.SupportPercentage),
				server.StructuredContent(r),
			}, nil
		}); err != nil {
		return nil, err
	}

	if err := register("vote_list", "List the ballots cast on one proposal", voteListArgs{},
		func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
			var args voteListArgs
			if err := schema.DecodeArguments(raw, &args); err != nil {
				return nil, err
			}
			list, err := votes.List(args.ProposalID)
			if err != nil {
				return nil, mapServiceError(err)
			}
			return []protocol.Content{
				server.TextContentf("%d vote(s)", len(list)),
				server.StructuredContent(list),
			}, nil
		}); err != nil {
		return nil, err
	}

	return g, nil
}
