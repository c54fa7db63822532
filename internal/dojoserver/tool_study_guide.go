package dojoserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine/transcripts"
)

func registerStudyGuideGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_guide_get",
		Description: "Get study guides for a video in up to 3 explanation languages (default: Japanese), resolved in parallel and merged into aligned rows. The first requested language that resolves becomes the master; per-language sections are keyed by language. subject is the video's own language (default: English).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input transcripts.StudyGuideInput) (*mcp.CallToolResult, *transcripts.StudyGuideSet, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		set, err := transcripts.GetStudyGuides(ctx, input.VideoID, input.Languages, input.Subject)
		if err != nil {
			return nil, nil, err
		}
		return nil, set, nil
	})
}
