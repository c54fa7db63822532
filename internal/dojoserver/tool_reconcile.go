package dojoserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine/transcripts"
)

func registerMissingTranscripts(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "missing_transcripts",
		Description: "List every catalog video (roadmap and library) that has no stored transcript yet. Roadmap entries come first; id_list is the flattened comma-separated form for piping into batch_run.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ transcripts.MissingInput) (*mcp.CallToolResult, *transcripts.MissingResult, error) {
		items, err := transcripts.MissingTranscripts(ctx)
		if err != nil {
			return nil, nil, err
		}
		if items == nil {
			items = []transcripts.WorkItem{}
		}
		return nil, &transcripts.MissingResult{
			Count:  len(items),
			Videos: items,
			IDList: transcripts.FlattenIDs(items),
		}, nil
	})
}
