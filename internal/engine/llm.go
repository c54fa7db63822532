package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Generate sends a prompt through the model fallback gate.
//
// The primary tier is invoked first. If it fails with a rate/quota
// rejection, the secondary tier is tried exactly once and its result —
// success or failure — is final. Any other error class is returned
// immediately. No backoff, no repeated retries.
func Generate(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", errors.New("llm client not configured")
	}

	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err == nil {
		return stripFences(resp), nil
	}
	if !IsRateLimited(err) || cfg.LLMFallbackClient == nil {
		IncrLLMErrors()
		return "", err
	}

	slog.Warn("llm: primary tier rate-limited, trying fallback tier",
		slog.String("model", cfg.LLMFallbackModel), slog.Any("error", err))
	IncrLLMFallbacks()
	resp, err = cfg.LLMFallbackClient.Complete(ctx, "", prompt)
	if err != nil {
		IncrLLMErrors()
		return "", err
	}
	return stripFences(resp), nil
}
