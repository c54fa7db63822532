package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ProviderPageScrape atomic.Int64
	ProviderPlayer     atomic.Int64
	TranscriptBuilds   atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	LLMFallbacks       atomic.Int64
	BatchRuns          atomic.Int64
	StudyGuideBuilds   atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"provider_page_scrape_requests": metrics.ProviderPageScrape.Load(),
		"provider_player_requests":      metrics.ProviderPlayer.Load(),
		"transcript_builds":             metrics.TranscriptBuilds.Load(),
		"llm_calls":                     metrics.LLMCalls.Load(),
		"llm_errors":                    metrics.LLMErrors.Load(),
		"llm_fallbacks":                 metrics.LLMFallbacks.Load(),
		"batch_runs":                    metrics.BatchRuns.Load(),
		"study_guide_builds":            metrics.StudyGuideBuilds.Load(),
		"cache_hits":                    hits,
		"cache_misses":                  misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"provider_page_scrape_requests", "provider_player_requests",
		"transcript_builds",
		"llm_calls", "llm_errors", "llm_fallbacks",
		"batch_runs", "study_guide_builds",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrProviderPageScrape() { metrics.ProviderPageScrape.Add(1) }
func IncrProviderPlayer()     { metrics.ProviderPlayer.Add(1) }

// Incrementors for transcripts/ sub-package.
func IncrTranscriptBuilds() { metrics.TranscriptBuilds.Add(1) }
func IncrBatchRuns()        { metrics.BatchRuns.Add(1) }
func IncrStudyGuideBuilds() { metrics.StudyGuideBuilds.Add(1) }

func IncrLLMCalls()     { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()    { metrics.LLMErrors.Add(1) }
func IncrLLMFallbacks() { metrics.LLMFallbacks.Add(1) }
