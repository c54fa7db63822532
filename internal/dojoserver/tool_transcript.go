package dojoserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
	"github.com/naki0227/my-language-dojo-sub000/internal/engine/sources"
	"github.com/naki0227/my-language-dojo-sub000/internal/engine/transcripts"
	"github.com/naki0227/my-language-dojo-sub000/internal/toolutil"
)

func registerTranscriptGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_get",
		Description: "Get the optimized transcript for a YouTube video. Resolution order: cache, database, full build (caption fetch + LLM normalization + persist). Set force=true to rebuild from source, ignoring cached and stored copies.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input transcripts.TranscriptGetInput) (*mcp.CallToolResult, *transcripts.TranscriptGetResult, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		lang := toolutil.NormLang(input.Lang)

		lines, err := transcripts.GetOrBuildTranscript(ctx, input.VideoID, lang, input.Force)
		result := &transcripts.TranscriptGetResult{
			VideoID: input.VideoID,
			Lang:    lang,
			Count:   len(lines),
			Lines:   lines,
		}
		if err != nil {
			var perr *engine.PersistenceError
			if errors.As(err, &perr) && len(lines) > 0 {
				// Built but not saved: return the lines with a warning
				// instead of discarding the work.
				result.Warning = "transcript was built but could not be saved: " + perr.Error()
				return nil, result, nil
			}
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerTranscriptFetchRaw(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_fetch_raw",
		Description: "Fetch the raw fragmented caption lines for a YouTube video without normalization or persistence. Operator preview of what the pipeline would consume.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input transcripts.RawFetchInput) (*mcp.CallToolResult, *transcripts.RawFetchResult, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		lines, err := sources.FetchCaptionLines(ctx, input.VideoID, engine.Cfg.CaptionLangs)
		if err != nil {
			return nil, nil, err
		}
		return nil, &transcripts.RawFetchResult{
			VideoID: input.VideoID,
			Count:   len(lines),
			Lines:   lines,
		}, nil
	})
}
