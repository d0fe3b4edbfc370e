// Package checkpoint persists finished translation chunks in SQLite so an
// interrupted run resumes where it stopped.
package checkpoint

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/engine"
)

// JobInfo describes a job with saved chunks.
type JobInfo struct {
	JobID      string
	InputPath  string
	SourceLang string
	TargetLang string
	CreatedAt  time.Time
	Chunks     int
}

// Store provides checkpoint persistence.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the checkpoint database at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		job_id      TEXT PRIMARY KEY,
		input_path  TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chunks (
		job_id      TEXT NOT NULL,
		first_index INTEGER NOT NULL,
		last_index  INTEGER NOT NULL,
		lines_json  TEXT NOT NULL,
		saved_at    INTEGER NOT NULL,
		PRIMARY KEY (job_id, first_index, last_index),
		FOREIGN KEY (job_id) REFERENCES jobs(job_id) ON DELETE CASCADE
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// JobID derives a stable job identifier from the input content and language pair.
// Editing the input or changing languages starts a fresh job.
func JobID(content []byte, sourceLang, targetLang string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(sourceLang))
	h.Write([]byte{0})
	h.Write([]byte(targetLang))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Job registers a job and returns a checkpointer scoped to it.
func (s *Store) Job(ctx context.Context, jobID, inputPath, sourceLang, targetLang string) (*Job, error) {
	query := `
		INSERT INTO jobs (job_id, input_path, source_lang, target_lang, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET input_path = excluded.input_path
	`
	if _, err := s.db.ExecContext(ctx, query, jobID, inputPath, sourceLang, targetLang, time.Now().Unix()); err != nil {
		return nil, fmt.Errorf("failed to register job: %w", err)
	}
	return &Job{store: s, id: jobID}, nil
}

// Jobs lists every job with its saved chunk count, newest first.
func (s *Store) Jobs(ctx context.Context) ([]JobInfo, error) {
	query := `
		SELECT j.job_id, j.input_path, j.source_lang, j.target_lang, j.created_at, COUNT(c.job_id)
		FROM jobs j LEFT JOIN chunks c ON c.job_id = j.job_id
		GROUP BY j.job_id
		ORDER BY j.created_at DESC, j.job_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobInfo
	for rows.Next() {
		var info JobInfo
		var created int64
		if err := rows.Scan(&info.JobID, &info.InputPath, &info.SourceLang, &info.TargetLang, &created, &info.Chunks); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		info.CreatedAt = time.Unix(created, 0)
		jobs = append(jobs, info)
	}
	return jobs, rows.Err()
}

// ClearAll deletes every job and chunk. It returns the number of jobs removed.
func (s *Store) ClearAll(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return 0, fmt.Errorf("failed to clear chunks: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear jobs: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, tx.Commit()
}

// Job is the checkpointer of one translation job.
type Job struct {
	store *Store
	id    string
}

var _ engine.Checkpointer = (*Job)(nil)

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Load implements engine.Checkpointer.
func (j *Job) Load(ctx context.Context, key engine.ChunkKey) ([]codec.IndexedLine, bool, error) {
	query := `SELECT lines_json FROM chunks WHERE job_id = ? AND first_index = ? AND last_index = ?`

	var data string
	err := j.store.db.QueryRowContext(ctx, query, j.id, key.First, key.Last).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var lines []codec.IndexedLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, false, fmt.Errorf("failed to decode checkpoint %d-%d: %w", key.First, key.Last, err)
	}
	return lines, true, nil
}

// Save implements engine.Checkpointer.
func (j *Job) Save(ctx context.Context, key engine.ChunkKey, lines []codec.IndexedLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	query := `
		INSERT INTO chunks (job_id, first_index, last_index, lines_json, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_id, first_index, last_index) DO UPDATE SET
			lines_json = excluded.lines_json,
			saved_at = excluded.saved_at
	`
	if _, err := j.store.db.ExecContext(ctx, query, j.id, key.First, key.Last, string(data), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Count returns the number of saved chunks.
func (j *Job) Count(ctx context.Context) (int, error) {
	var n int
	err := j.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE job_id = ?`, j.id).Scan(&n)
	return n, err
}

// Clear deletes the job and its chunks. Call it once the output has been written.
func (j *Job) Clear(ctx context.Context) error {
	if _, err := j.store.db.ExecContext(ctx, `DELETE FROM chunks WHERE job_id = ?`, j.id); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := j.store.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = ?`, j.id); err != nil {
		return fmt.Errorf("failed to clear job: %w", err)
	}
	return nil
}
