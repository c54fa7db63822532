package transcripts

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Package-level singleton, set from main.go.
var store *Store

// SetStore sets the package-level transcript store instance.
func SetStore(s *Store) { store = s }

// GetStore returns the package-level transcript store instance (may be nil).
func GetStore() *Store { return store }

// Store holds the pgx connection pool for transcript and study guide storage.
type Store struct {
	pool *pgxpool.Pool
}

// Connect creates a pgx pool and runs schema migrations. The initial ping is
// retried with exponential backoff so the server survives a database that is
// still starting up.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	ping := func() (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	if _, err := backoff.Retry(ctx, ping, backoff.WithBackOff(bo), backoff.WithMaxTries(5), backoff.WithMaxElapsedTime(30*time.Second)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("transcript postgres connected", slog.String("addr", config.ConnConfig.Host))
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) runMigrations(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
		slog.Info("migration applied", slog.String("file", entry.Name()))
	}
	return nil
}

// --- Transcripts ---

// GetTranscript returns the stored transcript lines for (videoID, lang).
// The second return is false when no row exists.
func (s *Store) GetTranscript(ctx context.Context, videoID, lang string) ([]engine.NormalizedLine, bool, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM optimized_transcripts WHERE video_id = $1 AND lang = $2`,
		videoID, lang,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &engine.PersistenceError{Op: "get transcript", Err: err}
	}

	var lines []engine.NormalizedLine
	if err := json.Unmarshal(content, &lines); err != nil {
		return nil, false, &engine.PersistenceError{Op: "decode transcript", Err: err}
	}
	return lines, true, nil
}

// PutTranscript upserts the transcript for (videoID, lang). Last write wins.
func (s *Store) PutTranscript(ctx context.Context, videoID, lang string, lines []engine.NormalizedLine) error {
	content, err := json.Marshal(lines)
	if err != nil {
		return &engine.PersistenceError{Op: "encode transcript", Err: err}
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO optimized_transcripts (video_id, lang, content, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (video_id, lang) DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		videoID, lang, content,
	)
	if err != nil {
		return &engine.PersistenceError{Op: "save transcript", Err: err}
	}
	return nil
}

// ExistingTranscriptIDs returns the set of video IDs that have at least one
// stored transcript in any language.
func (s *Store) ExistingTranscriptIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT video_id FROM optimized_transcripts`)
	if err != nil {
		return nil, &engine.PersistenceError{Op: "list transcripts", Err: err}
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// --- Catalog sources ---

// RoadmapVideos returns all roadmap catalog entries in insertion order.
func (s *Store) RoadmapVideos(ctx context.Context) ([]CatalogVideo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT video_id, COALESCE(title, ''), COALESCE(subject, '') FROM roadmap_items ORDER BY id`)
	if err != nil {
		return nil, &engine.PersistenceError{Op: "list roadmap items", Err: err}
	}
	defer rows.Close()

	var videos []CatalogVideo
	for rows.Next() {
		var v CatalogVideo
		if err := rows.Scan(&v.VideoID, &v.Title, &v.Subject); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// LibraryVideos returns all library catalog entries in insertion order.
func (s *Store) LibraryVideos(ctx context.Context) ([]CatalogVideo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT video_id, COALESCE(title, '') FROM library_videos ORDER BY id`)
	if err != nil {
		return nil, &engine.PersistenceError{Op: "list library videos", Err: err}
	}
	defer rows.Close()

	var videos []CatalogVideo
	for rows.Next() {
		var v CatalogVideo
		if err := rows.Scan(&v.VideoID, &v.Title); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// --- Study guides ---

// GetStudyGuide returns the stored study guide for (videoID, explanationLang).
// The second return is false when no row exists.
func (s *Store) GetStudyGuide(ctx context.Context, videoID, explanationLang string) (*StudyGuide, bool, error) {
	var (
		g         StudyGuide
		sentences []byte
		vocab     []byte
		grammar   []byte
		quiz      []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT title, summary, key_sentences, vocabulary, grammar, quiz
		 FROM video_study_guides WHERE video_id = $1 AND explanation_lang = $2`,
		videoID, explanationLang,
	).Scan(&g.Title, &g.Summary, &sentences, &vocab, &grammar, &quiz)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &engine.PersistenceError{Op: "get study guide", Err: err}
	}

	g.VideoID = videoID
	g.Language = explanationLang
	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{sentences, &g.KeySentences},
		{vocab, &g.Vocabulary},
		{grammar, &g.Grammar},
		{quiz, &g.Quiz},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, false, &engine.PersistenceError{Op: "decode study guide", Err: err}
		}
	}
	return &g, true, nil
}

// PutStudyGuide upserts the study guide for (videoID, explanationLang).
func (s *Store) PutStudyGuide(ctx context.Context, g *StudyGuide) error {
	sentences, _ := json.Marshal(g.KeySentences)
	vocab, _ := json.Marshal(g.Vocabulary)
	grammar, _ := json.Marshal(g.Grammar)
	quiz, _ := json.Marshal(g.Quiz)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO video_study_guides
		   (video_id, explanation_lang, title, summary, key_sentences, vocabulary, grammar, quiz, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (video_id, explanation_lang) DO UPDATE SET
		   title = EXCLUDED.title,
		   summary = EXCLUDED.summary,
		   key_sentences = EXCLUDED.key_sentences,
		   vocabulary = EXCLUDED.vocabulary,
		   grammar = EXCLUDED.grammar,
		   quiz = EXCLUDED.quiz,
		   updated_at = now()`,
		g.VideoID, g.Language, g.Title, g.Summary, sentences, vocab, grammar, quiz,
	)
	if err != nil {
		return &engine.PersistenceError{Op: "save study guide", Err: err}
	}
	return nil
}
