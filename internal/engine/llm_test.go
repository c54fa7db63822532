package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/anatolykoptev/go-kit/llm"
)

type fakeCompleter struct {
	resp  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string, _ ...llm.ChatOption) (string, error) {
	f.calls++
	return f.resp, f.err
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "```json\n[{\"text\":\"hi\"}]\n```",
			want: "[{\"text\":\"hi\"}]",
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\":1}\n```",
			want: "{\"a\":1}",
		},
		{
			name: "no fence",
			in:   "  [1,2,3]  ",
			want: "[1,2,3]",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripFences(tt.in)
			if got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 status", errors.New("llm: HTTP 429 Too Many Requests"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: try later"), true},
		{"quota", errors.New("quota exceeded for model"), true},
		{"rate limit text", errors.New("rate limit reached"), true},
		{"plain failure", errors.New("connection refused"), false},
		{"bad json", errors.New("invalid character 'x'"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGenerate_PrimarySuccess(t *testing.T) {
	primary := &fakeCompleter{resp: "```json\n[]\n```"}
	fallback := &fakeCompleter{resp: "[]"}
	Init(Config{LLMClient: primary, LLMFallbackClient: fallback})

	got, err := Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "[]" {
		t.Errorf("Generate() = %q, want %q (fences stripped)", got, "[]")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback calls = %d, want 0", fallback.calls)
	}
}

func TestGenerate_NonRateLimitErrorSkipsFallback(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("connection refused")}
	fallback := &fakeCompleter{resp: "[]"}
	Init(Config{LLMClient: primary, LLMFallbackClient: fallback})

	_, err := Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback calls = %d, want 0 (no fallback on non-quota errors)", fallback.calls)
	}
}

func TestGenerate_RateLimitTriesFallbackOnce(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("HTTP 429")}
	fallback := &fakeCompleter{resp: "fallback answer"}
	Init(Config{LLMClient: primary, LLMFallbackClient: fallback})

	got, err := Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "fallback answer" {
		t.Errorf("Generate() = %q, want fallback response", got)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, fallback.calls)
	}
}

func TestGenerate_FallbackFailureIsFinal(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("HTTP 429")}
	fallback := &fakeCompleter{err: errors.New("HTTP 429")}
	Init(Config{LLMClient: primary, LLMFallbackClient: fallback})

	_, err := Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error when both tiers are rate-limited")
	}
	// Exactly one attempt per tier — no loop back to the primary.
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, fallback.calls)
	}
}

func TestGenerate_NoFallbackConfigured(t *testing.T) {
	primary := &fakeCompleter{err: errors.New("quota exceeded")}
	Init(Config{LLMClient: primary})

	_, err := Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}
