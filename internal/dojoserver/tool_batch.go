package dojoserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine/transcripts"
)

func registerBatchRun(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_run",
		Description: "Start a background batch run that builds transcripts strictly one video at a time. With video_ids the given videos are processed in order; without it the queue comes from missing_transcripts. Only one run may be active. Poll progress with batch_status.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input transcripts.BatchRunInput) (*mcp.CallToolResult, *transcripts.BatchRunResult, error) {
		var items []transcripts.WorkItem
		if len(input.VideoIDs) > 0 {
			for _, id := range input.VideoIDs {
				if id == "" {
					continue
				}
				items = append(items, transcripts.WorkItem{VideoID: id, Origin: "Manual"})
			}
		} else {
			var err error
			items, err = transcripts.MissingTranscripts(ctx)
			if err != nil {
				return nil, nil, err
			}
		}

		if len(items) == 0 {
			return nil, &transcripts.BatchRunResult{
				Started: false,
				Total:   0,
				Message: "nothing to process: all catalog videos already have transcripts",
			}, nil
		}

		if err := transcripts.DefaultRunner().Start(items); err != nil {
			return nil, nil, err
		}
		return nil, &transcripts.BatchRunResult{
			Started: true,
			Total:   len(items),
			Message: fmt.Sprintf("batch run started with %d videos", len(items)),
		}, nil
	})
}

func registerBatchStatus(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_status",
		Description: "Snapshot of the batch runner: state (idle/running/completed/cancelled), items processed, success count, and the run log (newest first, one entry per item plus a terminal summary).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *transcripts.BatchStatus, error) {
		status := transcripts.DefaultRunner().Status()
		return nil, &status, nil
	})
}

func registerBatchCancel(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_cancel",
		Description: "Request cancellation of the active batch run. The in-flight video finishes and is saved; the run stops before the next one. No-op when nothing is running. Observe the effect via batch_status.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ transcripts.BatchCancelInput) (*mcp.CallToolResult, *transcripts.BatchCancelResult, error) {
		transcripts.DefaultRunner().Cancel()
		return nil, &transcripts.BatchCancelResult{
			Message: "cancellation requested; the current video will finish first",
		}, nil
	})
}

func registerBatchHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_history",
		Description: "List past batch runs from the local history (SQLite), newest first. Each record has start/finish times, item counts, and the run outcome.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input transcripts.BatchHistoryInput) (*mcp.CallToolResult, *transcripts.BatchHistoryResult, error) {
		runs, total, err := transcripts.ListRuns(input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, &transcripts.BatchHistoryResult{Runs: runs, Total: total}, nil
	})
}
