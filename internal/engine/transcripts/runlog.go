package transcripts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// BatchRunRecord is one finished batch run in the local history database.
type BatchRunRecord struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Success    int       `json:"success"`
	Outcome    string    `json:"outcome"` // completed | cancelled
}

var (
	runDB     *sql.DB
	runDBOnce sync.Once
	runDBErr  error
)

// openRunDB opens (or creates) the SQLite run history database.
func openRunDB() (*sql.DB, error) {
	runDBOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".dojo")
		if err := os.MkdirAll(dir, 0750); err != nil {
			runDBErr = fmt.Errorf("runlog: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "runs.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			runDBErr = fmt.Errorf("runlog: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initRunSchema(db); err != nil {
			runDBErr = fmt.Errorf("runlog: init schema: %w", err)
			return
		}
		runDB = db
	})
	return runDB, runDBErr
}

func initRunSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS batch_runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total       INTEGER NOT NULL,
		success     INTEGER NOT NULL,
		outcome     TEXT NOT NULL
	)`)
	return err
}

// recordRun appends one finished run to the history.
func recordRun(rec BatchRunRecord) error {
	db, err := openRunDB()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO batch_runs (started_at, finished_at, total, success, outcome)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.Total, rec.Success, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("runlog: insert: %w", err)
	}
	return nil
}

// ListRuns returns the most recent batch runs, newest first.
func ListRuns(limit int) ([]BatchRunRecord, int, error) {
	db, err := openRunDB()
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := db.Query(
		`SELECT id, started_at, finished_at, total, success, outcome
		 FROM batch_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("runlog: query: %w", err)
	}
	defer rows.Close()

	var runs []BatchRunRecord
	for rows.Next() {
		var r BatchRunRecord
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Total, &r.Success, &r.Outcome); err != nil {
			continue
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}

	var total int
	db.QueryRow(`SELECT COUNT(*) FROM batch_runs`).Scan(&total) //nolint:errcheck

	if runs == nil {
		runs = []BatchRunRecord{}
	}
	return runs, total, nil
}
