package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ZuidVolt/trim-streams/internal/processor"
)

// Store persists processing outcomes, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL,
    source_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    status      TEXT NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT '',
    verified    INTEGER,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_created_at ON outcomes(created_at);
CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id);
`

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Entry is one persisted outcome row.
type Entry struct {
	ID         int64
	RunID      string
	SourcePath string
	OutputPath string
	Status     string
	Note       string
	Error      string
	Verified   *bool
	CreatedAt  time.Time
}

// Record inserts one outcome under the given run identifier.
func (s *Store) Record(ctx context.Context, runID string, outcome processor.Outcome) error {
	var verified any
	if outcome.Verified != nil {
		if *outcome.Verified {
			verified = 1
		} else {
			verified = 0
		}
	}
	var errText string
	if outcome.Err != nil {
		errText = outcome.Err.Error()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (run_id, source_path, output_path, status, note, error, verified, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		outcome.SourcePath,
		outcome.OutputPath,
		string(outcome.Status),
		outcome.Note,
		errText,
		verified,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, source_path, output_path, status, note, error, verified, created_at
         FROM outcomes ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			verified  sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.SourcePath, &entry.OutputPath,
			&entry.Status, &entry.Note, &entry.Error, &verified, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if verified.Valid {
			value := verified.Int64 != 0
			entry.Verified = &value
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			entry.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RunRecorder binds a Store to a single run so it satisfies
// processor.Recorder.
type RunRecorder struct {
	store *Store
	runID string
}

// NewRunRecorder returns a Recorder that stamps every outcome with runID.
func NewRunRecorder(store *Store, runID string) *RunRecorder {
	return &RunRecorder{store: store, runID: runID}
}

// Record implements processor.Recorder.
func (r *RunRecorder) Record(ctx context.Context, outcome processor.Outcome) error {
	return r.store.Record(ctx, r.runID, outcome)
}
