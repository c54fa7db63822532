package transcripts

// LLM prompt templates — data only, no logic.

// normalizePrompt merges fragmented caption lines into complete sentences.
// Args: JSON array of raw caption lines.
const normalizePrompt = `You are a professional subtitle editor.
1. Combine fragmented words into natural, complete sentences. You MUST keep the exact sentence order.
2. Do NOT translate.
3. Keep the approximate timestamp (offset) of the start of each merged span.
4. Respond with valid JSON only (no markdown, no code fences).

Raw Input: %s

Output Format (JSON Array): [ { "text": "Corrected sentence.", "offset": 1234, "duration": 5000 } ]`

// studyGuidePrompt builds a full lesson artifact from a transcript.
// Args: target (video) language, explanation language, transcript text,
// then the explanation language five more times inside the output format.
const studyGuidePrompt = `You are a language teacher creating a study guide for a video.
Target Language (Video Language): %s
Explanation Language: %s

Analyze the following transcript and create a comprehensive study guide.

Transcript:
%s

Output JSON format:
{
    "title": "A catchy title for this lesson",
    "summary": "A 3-sentence summary of the video content in %s.",
    "key_sentences": [
        { "sentence": "Original sentence in Target Language", "translation": "Translation in %s", "explanation": "Explanation in %s" }
    ],
    "vocabulary": [
        { "word": "Word in Target Language", "meaning": "Meaning in %s", "context": "Example usage" }
    ],
    "grammar": [
        { "point": "Grammar point", "explanation": "Explanation in %s" }
    ],
    "quiz": [
        { "question": "Question about the video content (in Target Language)", "options": ["A", "B", "C", "D"], "answer": "Correct Option (e.g. A)" }
    ]
}

Requirements:
1. "key_sentences": Pick 3-5 most useful sentences. The "sentence" MUST be in the Target Language.
2. "vocabulary": Pick 5-10 difficult/useful words.
3. "grammar": Pick 2-3 grammar points used in the video.
4. "quiz": Create 3 comprehension questions.
5. Output ONLY the JSON.`
