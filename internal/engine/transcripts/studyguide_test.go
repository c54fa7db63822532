package transcripts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guideWithSentences(lang string, sentences ...KeySentence) *StudyGuide {
	return &StudyGuide{Language: lang, KeySentences: sentences}
}

func TestMergeGuides_IndexAlignment(t *testing.T) {
	set := &StudyGuideSet{
		VideoID: "v1",
		Master:  "Japanese",
		Guides: map[string]*StudyGuide{
			"Japanese": guideWithSentences("Japanese",
				KeySentence{Sentence: "Hello there.", Translation: "こんにちは。"},
				KeySentence{Sentence: "See you soon.", Translation: "またね。"},
			),
			"Spanish": guideWithSentences("Spanish",
				KeySentence{Sentence: "Hello there.", Translation: "Hola."},
				KeySentence{Sentence: "See you soon.", Translation: "Hasta pronto."},
			),
		},
	}

	mergeGuides(set)

	require.Len(t, set.Sentences, 2)
	assert.Equal(t, "こんにちは。", set.Sentences[0].ByLang["Japanese"].Translation)
	assert.Equal(t, "Hola.", set.Sentences[0].ByLang["Spanish"].Translation)
	assert.Equal(t, 1, set.Sentences[1].Index)
	assert.Equal(t, "Hasta pronto.", set.Sentences[1].ByLang["Spanish"].Translation)
}

func TestMergeGuides_ContentFallbackOnDrift(t *testing.T) {
	// The Spanish guide picked the same sentences in a different order;
	// alignment must match by sentence content, not position.
	set := &StudyGuideSet{
		VideoID: "v1",
		Master:  "Japanese",
		Guides: map[string]*StudyGuide{
			"Japanese": guideWithSentences("Japanese",
				KeySentence{Sentence: "First sentence.", Translation: "一つ目。"},
				KeySentence{Sentence: "Second sentence.", Translation: "二つ目。"},
			),
			"Spanish": guideWithSentences("Spanish",
				KeySentence{Sentence: "Second sentence.", Translation: "Segunda."},
				KeySentence{Sentence: "First sentence.", Translation: "Primera."},
			),
		},
	}

	mergeGuides(set)

	require.Len(t, set.Sentences, 2)
	assert.Equal(t, "Primera.", set.Sentences[0].ByLang["Spanish"].Translation)
	assert.Equal(t, "Segunda.", set.Sentences[1].ByLang["Spanish"].Translation)
}

func TestMergeGuides_MasterOnlyRowWhenShorter(t *testing.T) {
	set := &StudyGuideSet{
		VideoID: "v1",
		Master:  "Japanese",
		Guides: map[string]*StudyGuide{
			"Japanese": guideWithSentences("Japanese",
				KeySentence{Sentence: "Alpha."},
				KeySentence{Sentence: "Beta."},
				KeySentence{Sentence: "Gamma."},
			),
			"French": guideWithSentences("French",
				KeySentence{Sentence: "Alpha.", Translation: "Alpha fr."},
				KeySentence{Sentence: "Beta.", Translation: "Beta fr."},
			),
		},
	}

	mergeGuides(set)

	require.Len(t, set.Sentences, 3)
	_, hasFrench := set.Sentences[2].ByLang["French"]
	assert.False(t, hasFrench, "row beyond the shorter guide should be master-only")
	assert.Contains(t, set.Sentences[2].ByLang, "Japanese")
}

func TestMergeGuides_VocabularyAndGrammar(t *testing.T) {
	set := &StudyGuideSet{
		VideoID: "v1",
		Master:  "Japanese",
		Guides: map[string]*StudyGuide{
			"Japanese": {
				Language:   "Japanese",
				Vocabulary: []VocabEntry{{Word: "run", Meaning: "走る"}},
				Grammar:    []GrammarPoint{{Point: "past tense", Explanation: "過去形"}},
			},
			"Korean": {
				Language:   "Korean",
				Vocabulary: []VocabEntry{{Word: "run", Meaning: "달리다"}},
				Grammar:    []GrammarPoint{{Point: "past tense", Explanation: "과거형"}},
			},
		},
	}

	mergeGuides(set)

	require.Len(t, set.Vocab, 1)
	assert.Equal(t, "달리다", set.Vocab[0].ByLang["Korean"].Meaning)
	require.Len(t, set.Grammar, 1)
	assert.Equal(t, "과거형", set.Grammar[0].ByLang["Korean"].Explanation)
}

func TestAlignEntry_PositionalFallback(t *testing.T) {
	entries := []KeySentence{
		{Sentence: "Completely different.", Translation: "x"},
	}
	// No content match anywhere, but the index exists: positional wins
	// over dropping the language entirely.
	got, ok := alignEntry(entries, 0, "Master sentence.", func(e KeySentence) string { return e.Sentence })
	require.True(t, ok)
	assert.Equal(t, "x", got.Translation)

	_, ok = alignEntry(entries, 5, "Master sentence.", func(e KeySentence) string { return e.Sentence })
	assert.False(t, ok)
}

func TestGetStudyGuides_InputValidation(t *testing.T) {
	_, err := GetStudyGuides(context.Background(), "", nil, "")
	assert.Error(t, err)

	_, err = GetStudyGuides(context.Background(), "v1",
		[]string{"Japanese", "Spanish", "French", "Korean"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 3 languages")
}
