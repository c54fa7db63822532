// dojo_transcripts — YouTube transcript pipeline MCP server.
//
// Fetches captions, normalizes them into readable transcripts with an LLM,
// stores the artifacts in Postgres behind a tiered cache, and exposes
// batch/admin tools over MCP: transcript_get, transcript_fetch_raw,
// missing_transcripts, batch_run, batch_status, batch_cancel,
// batch_history, study_guide_get.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naki0227/my-language-dojo-sub000/internal/dojoserver"
	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
	"github.com/naki0227/my-language-dojo-sub000/internal/engine/transcripts"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8895")
)

func main() {
	initEngine()

	slog.Info("starting dojo_transcripts",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dojo_transcripts",
		Version: version,
	}, nil)

	dojoserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 8))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "dojo_transcripts",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMFallbackModel:     env.Str("LLM_FALLBACK_MODEL", "gemini-2.5-flash-lite"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 16384),
		DatabaseURL:          env.Str("DATABASE_URL", ""),
		RedisURL:             env.Str("REDIS_URL", ""),
		CaptionLangs:         env.List("CAPTION_LANGS", "en"),
		BatchDelay:           env.Duration("BATCH_DELAY", 1500*time.Millisecond),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	llmHTTP := &http.Client{Timeout: 60 * time.Second}
	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(llmHTTP),
	)
	if c.LLMFallbackModel != "" {
		c.LLMFallbackClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMFallbackModel,
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(llmHTTP),
		)
	}

	engine.Init(c)

	if c.DatabaseURL != "" {
		store, err := transcripts.Connect(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Warn("transcript store init failed, running without persistence", slog.Any("error", err))
		} else {
			transcripts.SetStore(store)
			slog.Info("transcript store initialized")
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(c.RedisURL, cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
