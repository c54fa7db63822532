package transcripts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
	"github.com/naki0227/my-language-dojo-sub000/internal/engine/sources"
)

// transcriptCacheKey derives the cache key for a (video, lang) transcript.
func transcriptCacheKey(videoID, lang string) string {
	return engine.CacheKey("transcript", videoID, lang)
}

// GetOrBuildTranscript is the single entry point for transcript reads.
// Resolution order: cache, database, full build (fetch + normalize + persist).
// force skips and invalidates the cache and rebuilds from source.
//
// A degraded artifact (raw lines, no normalization) is persisted when the
// LLM pass fails, so one bad model response does not leave the video without
// a transcript. When persistence itself fails the built lines are still
// returned alongside a *engine.PersistenceError so callers can surface a
// warning instead of losing the build.
func GetOrBuildTranscript(ctx context.Context, videoID, lang string, force bool) ([]engine.NormalizedLine, error) {
	key := transcriptCacheKey(videoID, lang)

	if force {
		engine.CacheDelete(ctx, key)
	} else {
		if lines, ok := engine.CacheLoadJSON[[]engine.NormalizedLine](ctx, key); ok {
			return lines, nil
		}
		if s := GetStore(); s != nil {
			lines, found, err := s.GetTranscript(ctx, videoID, lang)
			if err != nil {
				slog.Warn("transcript db read failed, rebuilding", slog.String("video_id", videoID), slog.Any("error", err))
			} else if found {
				engine.CacheStoreJSON(ctx, key, lines)
				return lines, nil
			}
		}
	}

	lines, err := buildTranscript(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}

	if s := GetStore(); s != nil {
		if err := s.PutTranscript(ctx, videoID, lang, lines); err != nil {
			// Keep the cache consistent with the database: skip caching and
			// let the caller decide how to surface the build.
			return lines, err
		}
	}
	engine.CacheStoreJSON(ctx, key, lines)
	return lines, nil
}

// buildTranscript fetches captions and produces the normalized artifact.
func buildTranscript(ctx context.Context, videoID, lang string) ([]engine.NormalizedLine, error) {
	raw, err := sources.FetchCaptionLines(ctx, videoID, engine.Cfg.CaptionLangs)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", engine.ErrNoCaptions, videoID)
	}

	engine.IncrTranscriptBuilds()

	// Very long videos skip the LLM pass entirely; raw lines are stored as-is.
	if len(raw) > rawBypassThreshold {
		slog.Info("transcript too long for normalization, storing raw",
			slog.String("video_id", videoID), slog.Int("lines", len(raw)))
		return RawArtifactLines(raw), nil
	}

	lines, err := NormalizeLines(ctx, raw)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("normalization failed, storing raw transcript",
			slog.String("video_id", videoID), slog.Any("error", err))
		return RawArtifactLines(raw), nil
	}
	return lines, nil
}
