package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Completer is the slice of the llm client the engine calls through.
// Satisfied by *llm.Client; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, opts ...llm.ChatOption) (string, error)
}

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey        string
	LLMAPIBase       string
	LLMModel         string // primary tier
	LLMFallbackModel string // secondary tier, tried once on quota rejections
	LLMTemperature   float64
	LLMMaxTokens     int

	DatabaseURL string
	RedisURL    string

	CaptionLangs []string      // preferred caption track languages, priority order
	BatchDelay   time.Duration // courtesy delay between batch items

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client

	LLMClient         Completer // primary tier client
	LLMFallbackClient Completer // nil disables the fallback tier
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, transcripts).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
