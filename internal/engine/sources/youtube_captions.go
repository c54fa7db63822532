package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

// YouTube caption fetching.
// Provider A: scrape watch page ytInitialPlayerResponse → caption track XML (works from any IP)
// Provider B: ANDROID Innertube /player → captionTracks (works from non-blocked IPs)
//
// Providers are tried in fixed priority order, never in parallel: caption
// endpoints are rate-limited, and a serial trial avoids burning quota on a
// provider likely to also fail. There is no retry within a provider.

// fetchTimedTextLines fetches and parses a YouTube timedtext XML caption URL
// into time-coded lines. Fractional-second timings are floored to integer
// milliseconds.
func fetchTimedTextLines(ctx context.Context, baseURL string) ([]engine.CaptionLine, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentChrome)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, err
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	lines := make([]engine.CaptionLine, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		text := engine.CleanCaptionText(l.Text)
		if text == "" {
			continue
		}
		lines = append(lines, engine.CaptionLine{
			Text:     text,
			Offset:   int(l.Start * 1000), // floor, not round
			Duration: int(l.Dur * 1000),
		})
	}
	return lines, nil
}

// linesFromTracks picks the best caption track and downloads its lines.
func linesFromTracks(ctx context.Context, tracks []captionTrack, langs []string) ([]engine.CaptionLine, error) {
	if len(tracks) == 0 {
		return nil, errors.New("no caption tracks")
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, errors.New("all caption tracks require PoToken")
	}
	return fetchTimedTextLines(ctx, track.BaseURL)
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchCaptionsViaPageScrape scrapes the YouTube watch page HTML and extracts
// the caption track XML URL from ytInitialPlayerResponse. Works from any IP.
func fetchCaptionsViaPageScrape(ctx context.Context, videoID string, langs []string) ([]engine.CaptionLine, error) {
	engine.IncrProviderPageScrape()
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentChrome)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if playerResp.Captions == nil {
		return nil, errors.New("no captions in ytInitialPlayerResponse")
	}
	return linesFromTracks(ctx, playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, langs)
}

// fetchCaptionsViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchCaptionsViaPlayer(ctx context.Context, videoID string, langs []string) ([]engine.CaptionLine, error) {
	engine.IncrProviderPlayer()
	data, err := postInnerTubeAndroid(ctx, innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(data, &playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	if playerResp.Captions == nil {
		reason := ""
		if playerResp.PlayabilityStatus != nil {
			reason = playerResp.PlayabilityStatus.Reason
		}
		if reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", reason)
		}
		return nil, errors.New("no captions in player response")
	}
	return linesFromTracks(ctx, playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, langs)
}

// FetchCaptionLines fetches the raw, fragmented caption lines for a video.
// Tries the watch-page scrape first, then the ANDROID player. Returns
// engine.ErrNoCaptions when both providers fail or yield zero lines.
func FetchCaptionLines(ctx context.Context, videoID string, langs []string) ([]engine.CaptionLine, error) {
	lines, errA := fetchCaptionsViaPageScrape(ctx, videoID, langs)
	if errA == nil && len(lines) > 0 {
		return lines, nil
	}
	if errA == nil {
		errA = errors.New("page scrape returned zero lines")
	}
	slog.Warn("youtube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", errA))

	lines, errB := fetchCaptionsViaPlayer(ctx, videoID, langs)
	if errB == nil && len(lines) > 0 {
		return lines, nil
	}
	if errB == nil {
		errB = errors.New("player returned zero lines")
	}
	slog.Warn("youtube: player failed",
		slog.String("id", videoID), slog.Any("err", errB))

	return nil, fmt.Errorf("%w: %s", engine.ErrNoCaptions, videoID)
}
