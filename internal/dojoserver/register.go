// Package dojoserver registers the transcript pipeline's MCP tools.
package dojoserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all transcript tools on the given MCP server:
// transcript_get, transcript_fetch_raw, missing_transcripts, batch_run,
// batch_status, batch_cancel, batch_history, study_guide_get.
func RegisterTools(server *mcp.Server) {
	registerTranscriptGet(server)
	registerTranscriptFetchRaw(server)
	registerMissingTranscripts(server)
	registerBatchRun(server)
	registerBatchStatus(server)
	registerBatchCancel(server)
	registerBatchHistory(server)
	registerStudyGuideGet(server)
}
