package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

func TestPickBestTrack(t *testing.T) {
	manual := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang, LanguageCode: lang}
	}
	asr := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&kind=asr", LanguageCode: lang, Kind: "asr"}
	}
	poToken := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&exp=xpe", LanguageCode: lang}
	}

	tests := []struct {
		name     string
		tracks   []captionTrack
		langs    []string
		wantURL  string
		wantOK  bool
	}{
		{
			name:    "manual preferred beats asr preferred",
			tracks:  []captionTrack{asr("en"), manual("en")},
			langs:   []string{"en"},
			wantURL: manual("en").BaseURL,
			wantOK: true,
		},
		{
			name:    "asr preferred when no manual",
			tracks:  []captionTrack{manual("fr"), asr("en")},
			langs:   []string{"en"},
			wantURL: asr("en").BaseURL,
			wantOK: true,
		},
		{
			name:    "lang priority order respected",
			tracks:  []captionTrack{manual("ja"), manual("en")},
			langs:   []string{"en", "ja"},
			wantURL: manual("en").BaseURL,
			wantOK: true,
		},
		{
			name:    "falls back to any english variant",
			tracks:  []captionTrack{manual("fr"), manual("en-GB")},
			langs:   []string{"ja"},
			wantURL: manual("en-GB").BaseURL,
			wantOK: true,
		},
		{
			name:    "first usable when nothing matches",
			tracks:  []captionTrack{manual("fr"), manual("de")},
			langs:   []string{"ja"},
			wantURL: manual("fr").BaseURL,
			wantOK: true,
		},
		{
			name:    "potoken tracks skipped",
			tracks:  []captionTrack{poToken("en"), manual("fr")},
			langs:   []string{"en"},
			wantURL: manual("fr").BaseURL,
			wantOK: true,
		},
		{
			name:    "all tracks need potoken",
			tracks:  []captionTrack{poToken("en"), poToken("ja")},
			langs:   []string{"en"},
			wantURL: poToken("en").BaseURL,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBestTrack(tt.tracks, tt.langs)
			if ok != tt.wantOK {
				t.Fatalf("pickBestTrack() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.BaseURL != tt.wantURL {
				t.Errorf("pickBestTrack() = %q, want %q", got.BaseURL, tt.wantURL)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple object",
			in:   `{"a":1};var next = 2`,
			want: `{"a":1}`,
		},
		{
			name: "nested braces",
			in:   `{"a":{"b":{"c":3}}} trailing`,
			want: `{"a":{"b":{"c":3}}}`,
		},
		{
			name: "braces inside strings ignored",
			in:   `{"text":"a } b { c"} rest`,
			want: `{"text":"a } b { c"}`,
		},
		{
			name: "escaped quotes inside strings",
			in:   `{"text":"say \"}\" now"} rest`,
			want: `{"text":"say \"}\" now"}`,
		},
		{
			name: "not an object",
			in:   `[1,2,3]`,
			want: "",
		},
		{
			name: "unterminated object",
			in:   `{"a": {"b": 1}`,
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFetchTimedTextLines(t *testing.T) {
	const timedText = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.25" dur="1.9995">hello &amp;#39;world&amp;#39;</text>
  <text start="2.9999" dur="2.5"><b>bold</b> fragment</text>
  <text start="6.0" dur="1.0">   </text>
</transcript>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(timedText)) //nolint:errcheck
	}))
	defer srv.Close()

	engine.Init(engine.Config{HTTPClient: srv.Client()})

	lines, err := fetchTimedTextLines(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchTimedTextLines error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (blank line dropped)", len(lines))
	}

	// Fractional seconds floor to integer milliseconds.
	if lines[0].Offset != 250 || lines[0].Duration != 1999 {
		t.Errorf("line 0 timing = (%d, %d), want (250, 1999)", lines[0].Offset, lines[0].Duration)
	}
	if lines[1].Offset != 2999 {
		t.Errorf("line 1 offset = %d, want 2999 (floored)", lines[1].Offset)
	}

	if lines[0].Text != "hello 'world'" {
		t.Errorf("line 0 text = %q, want entities unescaped", lines[0].Text)
	}
	if lines[1].Text != "bold fragment" {
		t.Errorf("line 1 text = %q, want tags stripped", lines[1].Text)
	}
}
