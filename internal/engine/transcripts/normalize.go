package transcripts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

const (
	// chunkSize is the number of caption lines per generation call.
	chunkSize = 50

	// rawBypassThreshold caps normalization cost: above this many raw
	// lines the pipeline persists them unmerged. Cost/latency control,
	// not a correctness requirement.
	rawBypassThreshold = 2000
)

// chunkLines partitions lines into contiguous chunks of at most size,
// preserving order. The final chunk may be smaller.
func chunkLines(lines []engine.CaptionLine, size int) [][]engine.CaptionLine {
	var chunks [][]engine.CaptionLine
	for i := 0; i < len(lines); i += size {
		end := min(i+size, len(lines))
		chunks = append(chunks, lines[i:end])
	}
	return chunks
}

// NormalizeLines merges fragmented caption lines into complete sentences,
// one generation call per chunk of 50, concatenating chunk results in
// chunk order. Chunks run in a strict sequential loop — completion order
// can never reorder lines.
//
// A single unparseable chunk response fails the whole video with a
// DecodeError; callers fall back to persisting the raw lines.
func NormalizeLines(ctx context.Context, lines []engine.CaptionLine) ([]engine.NormalizedLine, error) {
	var out []engine.NormalizedLine
	for i, chunk := range chunkLines(lines, chunkSize) {
		payload, err := json.Marshal(chunk)
		if err != nil {
			return nil, fmt.Errorf("marshal chunk %d: %w", i, err)
		}

		raw, err := engine.Generate(ctx, fmt.Sprintf(normalizePrompt, payload))
		if err != nil {
			return nil, fmt.Errorf("normalize chunk %d: %w", i, err)
		}

		var merged []engine.NormalizedLine
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			return nil, &engine.DecodeError{
				Stage: "normalize",
				Raw:   engine.Truncate(raw, 200),
				Err:   err,
			}
		}
		out = append(out, merged...)
	}
	return out, nil
}

// RawArtifactLines converts raw caption lines into the degraded artifact
// shape: same schema, translation absent, text/offset/duration unchanged.
func RawArtifactLines(lines []engine.CaptionLine) []engine.NormalizedLine {
	out := make([]engine.NormalizedLine, len(lines))
	for i, l := range lines {
		out[i] = engine.NormalizedLine{Text: l.Text, Offset: l.Offset, Duration: l.Duration}
	}
	return out
}
