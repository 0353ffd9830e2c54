package toolset

import (
	"context"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
	"github.com/agoralabs/agora/util/schema"
)

type analysisAnalyzeArgs struct {
	ProposalID string `json:"proposal_id" description:"ID of the proposal to analyze"`
}

// AnalysisTools registers the analysis_ tool family on a new group backed by
// the given service.
func AnalysisTools(analyses *service.AnalysisService) (*server.ToolGroup, error) {
	g := server.NewToolGroup("analysis", "analysis_")

	err := g.Register(protocol.Tool{
		Name:        "analysis_analyze",
		Description: "Evaluate a proposal and recommend a position",
		InputSchema: schema.FromStruct(analysisAnalyzeArgs{}),
	}, func(ctx context.Context, raw map[string]interface{}) ([]protocol.Content, error) {
		var args analysisAnalyzeArgs
		if err := schema.DecodeArguments(raw, &args); err != nil {
			return nil, err
		}
		a, err := analyses.Analyze(ctx, args.ProposalID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return []protocol.Content{
			server.TextContent(a.Summary),
			server.StructuredContent(a),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}
