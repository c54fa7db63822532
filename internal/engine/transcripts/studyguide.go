package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

const (
	// maxGuideLanguages caps the per-request fan-out.
	maxGuideLanguages = 3

	// maxGuideTranscriptChars caps the transcript text fed to the prompt.
	maxGuideTranscriptChars = 30000
)

// guideCacheKey derives the cache key for a (video, explanation lang) guide.
func guideCacheKey(videoID, lang string) string {
	return engine.CacheKey("studyguide", videoID, lang)
}

// GetStudyGuides resolves study guides for up to maxGuideLanguages
// explanation languages in parallel and merges them into one set. A
// language that fails is logged and dropped; the call errors only when
// every requested language fails. The master language is the first
// requested language that resolved.
func GetStudyGuides(ctx context.Context, videoID string, languages []string, subject string) (*StudyGuideSet, error) {
	if videoID == "" {
		return nil, errors.New("video_id is required")
	}
	if len(languages) == 0 {
		languages = []string{"Japanese"}
	}
	if len(languages) > maxGuideLanguages {
		return nil, fmt.Errorf("at most %d languages per request (got %d)", maxGuideLanguages, len(languages))
	}
	if subject == "" {
		subject = "English"
	}

	guides := make([]*StudyGuide, len(languages))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range languages {
		g.Go(func() error {
			guide, err := getOrBuildStudyGuide(gctx, videoID, lang, subject)
			if err != nil {
				slog.Warn("study guide failed for language",
					slog.String("video_id", videoID), slog.String("lang", lang), slog.Any("error", err))
				return nil
			}
			guides[i] = guide
			return nil
		})
	}
	_ = g.Wait()

	set := &StudyGuideSet{VideoID: videoID, Guides: make(map[string]*StudyGuide)}
	for i, lang := range languages {
		if guides[i] == nil {
			continue
		}
		if set.Master == "" {
			set.Master = lang
		}
		set.Guides[lang] = guides[i]
	}
	if set.Master == "" {
		return nil, fmt.Errorf("study guide generation failed for all languages: %s", strings.Join(languages, ", "))
	}

	mergeGuides(set)
	return set, nil
}

// getOrBuildStudyGuide resolves one (video, explanation lang) guide:
// cache, database, then LLM build.
func getOrBuildStudyGuide(ctx context.Context, videoID, lang, subject string) (*StudyGuide, error) {
	key := guideCacheKey(videoID, lang)
	if guide, ok := engine.CacheLoadJSON[*StudyGuide](ctx, key); ok {
		return guide, nil
	}

	if s := GetStore(); s != nil {
		guide, found, err := s.GetStudyGuide(ctx, videoID, lang)
		if err != nil {
			slog.Warn("study guide db read failed, rebuilding",
				slog.String("video_id", videoID), slog.String("lang", lang), slog.Any("error", err))
		} else if found {
			engine.CacheStoreJSON(ctx, key, guide)
			return guide, nil
		}
	}

	guide, err := buildStudyGuide(ctx, videoID, lang, subject)
	if err != nil {
		return nil, err
	}

	if s := GetStore(); s != nil {
		if err := s.PutStudyGuide(ctx, guide); err != nil {
			return guide, err
		}
	}
	engine.CacheStoreJSON(ctx, key, guide)
	return guide, nil
}

func buildStudyGuide(ctx context.Context, videoID, lang, subject string) (*StudyGuide, error) {
	lines, err := GetOrBuildTranscript(ctx, videoID, "en", false)
	if err != nil {
		var perr *engine.PersistenceError
		// Unsaved transcript lines are still usable as prompt input.
		if !errors.As(err, &perr) {
			return nil, fmt.Errorf("resolve transcript: %w", err)
		}
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	transcript := engine.Truncate(strings.Join(texts, " "), maxGuideTranscriptChars)

	prompt := fmt.Sprintf(studyGuidePrompt, subject, lang, transcript, lang, lang, lang, lang, lang)
	raw, err := engine.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate study guide: %w", err)
	}

	var guide StudyGuide
	if err := json.Unmarshal([]byte(raw), &guide); err != nil {
		return nil, &engine.DecodeError{Stage: "study guide", Raw: engine.Truncate(raw, 200), Err: err}
	}
	guide.VideoID = videoID
	guide.Language = lang

	engine.IncrStudyGuideBuilds()
	return &guide, nil
}

// --- Cross-language merge ---

// mergeGuides aligns the master guide's lists against every other resolved
// language. Alignment is by index first; when a list has drifted (different
// lengths or reordered entries) a content-equality pass matches entries by
// their language-invariant key (the sentence, word, or grammar point, which
// stay in the video's language across explanation languages).
func mergeGuides(set *StudyGuideSet) {
	master := set.Guides[set.Master]

	for i, ms := range master.KeySentences {
		row := MergedSentence{Index: i, ByLang: map[string]KeySentence{set.Master: ms}}
		for lang, g := range set.Guides {
			if lang == set.Master {
				continue
			}
			if s, ok := alignEntry(g.KeySentences, i, ms.Sentence, func(e KeySentence) string { return e.Sentence }); ok {
				row.ByLang[lang] = s
			}
		}
		set.Sentences = append(set.Sentences, row)
	}

	for i, mv := range master.Vocabulary {
		row := MergedVocab{Index: i, ByLang: map[string]VocabEntry{set.Master: mv}}
		for lang, g := range set.Guides {
			if lang == set.Master {
				continue
			}
			if v, ok := alignEntry(g.Vocabulary, i, mv.Word, func(e VocabEntry) string { return e.Word }); ok {
				row.ByLang[lang] = v
			}
		}
		set.Vocab = append(set.Vocab, row)
	}

	for i, mg := range master.Grammar {
		row := MergedGrammar{Index: i, ByLang: map[string]GrammarPoint{set.Master: mg}}
		for lang, g := range set.Guides {
			if lang == set.Master {
				continue
			}
			if p, ok := alignEntry(g.Grammar, i, mg.Point, func(e GrammarPoint) string { return e.Point }); ok {
				row.ByLang[lang] = p
			}
		}
		set.Grammar = append(set.Grammar, row)
	}
}

// alignEntry finds the entry matching the master's entry at index i: same
// index when its key matches (or as a plain positional fallback when no
// key matches anywhere), otherwise the first entry with an equal key.
func alignEntry[T any](entries []T, i int, key string, keyOf func(T) string) (T, bool) {
	if i < len(entries) && keyOf(entries[i]) == key {
		return entries[i], true
	}
	for _, e := range entries {
		if keyOf(e) == key {
			return e, true
		}
	}
	if i < len(entries) {
		return entries[i], true
	}
	var zero T
	return zero, false
}
