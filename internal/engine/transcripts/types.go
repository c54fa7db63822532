package transcripts

import (
	"time"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

// Work item origins. Roadmap (the curated sequence) wins the origin label
// when a video appears in both catalogs.
const (
	OriginRoadmap = "Roadmap"
	OriginLibrary = "Library"
)

// CatalogVideo is one row from a catalog source (roadmap or library).
type CatalogVideo struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Subject string `json:"subject,omitempty"`
}

// WorkItem is one video queued for pipeline processing in a batch run.
// Transient — produced by reconciliation, consumed by one run.
type WorkItem struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Origin  string `json:"origin"` // e.g. "Roadmap (english)", "Library"
}

// Outcome classifies one batch log entry.
type Outcome string

const (
	OutcomeSuccess   Outcome = "Success"
	OutcomeFailure   Outcome = "Failure"
	OutcomeFatal     Outcome = "Fatal"
	OutcomeCancelled Outcome = "Cancelled"
)

// BatchLogEntry is one line of a batch run's log. Held in memory for the
// duration of the run only; the durable trace is the run summary row.
type BatchLogEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
}

// --- Study guide shapes (persisted as jsonb columns) ---

// KeySentence: Sentence stays in the video's language, so it is identical
// across explanation languages and usable as an alignment key.
type KeySentence struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
	Explanation string `json:"explanation"`
}

type VocabEntry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Context string `json:"context"`
}

type GrammarPoint struct {
	Point       string `json:"point"`
	Explanation string `json:"explanation"`
}

type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// StudyGuide is one generated lesson artifact, keyed by (video, language).
type StudyGuide struct {
	VideoID      string         `json:"video_id"`
	Language     string         `json:"language"` // explanation language
	Title        string         `json:"title"`
	Summary      string         `json:"summary"`
	KeySentences []KeySentence  `json:"key_sentences"`
	Vocabulary   []VocabEntry   `json:"vocabulary"`
	Grammar      []GrammarPoint `json:"grammar"`
	Quiz         []QuizItem     `json:"quiz"`
}

// --- Merged study guide display shapes ---

// MergedSentence is one key sentence aligned across languages.
type MergedSentence struct {
	Index  int                    `json:"index"`
	ByLang map[string]KeySentence `json:"by_lang"`
}

type MergedVocab struct {
	Index  int                   `json:"index"`
	ByLang map[string]VocabEntry `json:"by_lang"`
}

type MergedGrammar struct {
	Index  int                     `json:"index"`
	ByLang map[string]GrammarPoint `json:"by_lang"`
}

// StudyGuideSet is the per-video merge of all requested languages. Master
// is the first requested language that resolved; its lists anchor the
// index alignment.
type StudyGuideSet struct {
	VideoID   string                 `json:"video_id"`
	Master    string                 `json:"master"`
	Guides    map[string]*StudyGuide `json:"guides"`
	Sentences []MergedSentence       `json:"sentences"`
	Vocab     []MergedVocab          `json:"vocab"`
	Grammar   []MergedGrammar        `json:"grammar"`
}

// --- Tool I/O types ---

// TranscriptGetInput is the input for transcript_get.
type TranscriptGetInput struct {
	VideoID string `json:"video_id"`
	Lang    string `json:"lang,omitempty"`
	Force   bool   `json:"force,omitempty"`
}

// TranscriptGetResult is the output for transcript_get.
type TranscriptGetResult struct {
	VideoID string                  `json:"video_id"`
	Lang    string                  `json:"lang"`
	Count   int                     `json:"count"`
	Lines   []engine.NormalizedLine `json:"lines"`
	Warning string                  `json:"warning,omitempty"`
}

// RawFetchInput is the input for transcript_fetch_raw.
type RawFetchInput struct {
	VideoID string `json:"video_id"`
}

// RawFetchResult is the output for transcript_fetch_raw. Nothing is
// persisted — this is an operator preview of the fragmented source lines.
type RawFetchResult struct {
	VideoID string               `json:"video_id"`
	Count   int                  `json:"count"`
	Lines   []engine.CaptionLine `json:"lines"`
}

// MissingInput is the input for missing_transcripts.
type MissingInput struct{}

// MissingResult is the output for missing_transcripts. IDList is the
// flattened, comma-separated ID string for external tooling.
type MissingResult struct {
	Count  int        `json:"count"`
	Videos []WorkItem `json:"videos"`
	IDList string     `json:"id_list"`
}

// BatchRunInput is the input for batch_run. With VideoIDs empty, the
// reconciler's work queue is used.
type BatchRunInput struct {
	VideoIDs []string `json:"video_ids,omitempty"`
}

// BatchRunResult is the output for batch_run.
type BatchRunResult struct {
	Started bool   `json:"started"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// BatchStatus is a snapshot of the runner, returned by batch_status.
// Log is newest-first.
type BatchStatus struct {
	State   RunState        `json:"state"`
	Index   int             `json:"index"` // items processed so far
	Total   int             `json:"total"`
	Success int             `json:"success"`
	Log     []BatchLogEntry `json:"log"`
}

// BatchCancelInput is the input for batch_cancel.
type BatchCancelInput struct{}

// BatchCancelResult is the output for batch_cancel. Fire-and-forget: the
// caller observes the effect in the next batch_status poll.
type BatchCancelResult struct {
	Message string `json:"message"`
}

// BatchHistoryInput is the input for batch_history.
type BatchHistoryInput struct {
	Limit int `json:"limit,omitempty"`
}

// BatchHistoryResult is the output for batch_history.
type BatchHistoryResult struct {
	Runs  []BatchRunRecord `json:"runs"`
	Total int              `json:"total"`
}

// StudyGuideInput is the input for study_guide_get.
type StudyGuideInput struct {
	VideoID   string   `json:"video_id"`
	Languages []string `json:"languages,omitempty"`
	Subject   string   `json:"subject,omitempty"` // video's language, default English
}
