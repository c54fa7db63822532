package engine

// CaptionLine is one raw, fragmented, time-coded caption line as supplied
// by a video's caption track. Offset and Duration are integer milliseconds,
// floored from the provider's native units. Lines arrive ordered by Offset
// and are never re-sorted.
type CaptionLine struct {
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
	Duration int    `json:"duration"`
}

// NormalizedLine is one complete sentence merged from one or more caption
// lines. Offset keeps the first timestamp of the merged span. Translation
// is empty on the English master and on degraded (raw) artifacts.
type NormalizedLine struct {
	Text        string `json:"text"`
	Offset      int    `json:"offset"`
	Duration    int    `json:"duration"`
	Translation string `json:"translation,omitempty"`
}
