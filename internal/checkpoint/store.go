package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gavel/internal/config"
)

// Store manages checkpoint persistence backed by SQLite.
type Store struct {
	db              *sql.DB
	path            string
	recoveredBackup string
}

// Open initializes or connects to the checkpoint database and applies
// migrations. An unreadable or mismatched database is not fatal: it is moved
// aside and the run starts from an empty checkpoint, which only costs redone
// work thanks to the pipeline's artifact-level idempotence.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "checkpoint.db")
	db, err := openAt(dbPath)
	if err == nil {
		return &Store{db: db, path: dbPath}, nil
	}

	backup := fmt.Sprintf("%s.corrupt-%s", dbPath, time.Now().UTC().Format("20060102T150405"))
	if renameErr := os.Rename(dbPath, backup); renameErr != nil {
		return nil, fmt.Errorf("open checkpoint db: %w", err)
	}

	db, retryErr := openAt(dbPath)
	if retryErr != nil {
		return nil, fmt.Errorf("reinitialize checkpoint db after salvage: %w", retryErr)
	}
	return &Store{db: db, path: dbPath, recoveredBackup: backup}, nil
}

func openAt(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
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

// RecoveredBackup returns the path the prior database was moved to when Open
// had to salvage a corrupt file, or empty when no salvage happened.
func (s *Store) RecoveredBackup() string {
	return s.recoveredBackup
}

// MarkInProgress records that a clip is mid-pipeline. At most one clip is
// ever in progress; any stale in_progress rows are dropped first.
func (s *Store) MarkInProgress(ctx context.Context, clipID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clip_records WHERE state = ?`, StateInProgress); err != nil {
		return fmt.Errorf("clear stale in-progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertRecordSQL, clipID, StateInProgress, nil, timestamp()); err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark: %w", err)
	}
	return nil
}

// ClearInProgress drops any in-progress marker. A clip left in progress has
// no known outcome, so its row is removed entirely and the clip becomes
// outstanding again on resume.
func (s *Store) ClearInProgress(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clip_records WHERE state = ?`, StateInProgress); err != nil {
		return fmt.Errorf("clear in progress: %w", err)
	}
	return nil
}

// RecordCompleted marks a clip completed. A prior failed record for the same
// clip is replaced, honoring the completed/failed exclusivity invariant.
func (s *Store) RecordCompleted(ctx context.Context, clipID string) error {
	if _, err := s.db.ExecContext(ctx, upsertRecordSQL, clipID, StateCompleted, nil, timestamp()); err != nil {
		return fmt.Errorf("record completed: %w", err)
	}
	return nil
}

// RecordFailed marks a clip failed with a diagnostic message.
func (s *Store) RecordFailed(ctx context.Context, clipID, message string) error {
	if _, err := s.db.ExecContext(ctx, upsertRecordSQL, clipID, StateFailed, nullableString(message), timestamp()); err != nil {
		return fmt.Errorf("record failed: %w", err)
	}
	return nil
}

const upsertRecordSQL = `INSERT INTO clip_records (clip_id, state, message, updated_at)
    VALUES (?, ?, ?, ?)
    ON CONFLICT(clip_id) DO UPDATE SET
        state = excluded.state,
        message = excluded.message,
        updated_at = excluded.updated_at`

// Snapshot loads the full checkpoint state.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT clip_id, state, message, updated_at FROM clip_records ORDER BY updated_at, clip_id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	snapshot := &Snapshot{}
	for rows.Next() {
		var (
			clipID     string
			state      string
			message    sql.NullString
			updatedRaw string
		)
		if err := rows.Scan(&clipID, &state, &message, &updatedRaw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := Record{ClipID: clipID, State: State(state), Message: message.String}
		if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
			rec.UpdatedAt = updated
			if updated.After(snapshot.LastUpdated) {
				snapshot.LastUpdated = updated
			}
		}
		switch rec.State {
		case StateCompleted:
			snapshot.Completed = append(snapshot.Completed, rec.ClipID)
		case StateFailed:
			snapshot.Failed = append(snapshot.Failed, rec)
		case StateInProgress:
			snapshot.InProgress = rec.ClipID
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return snapshot, nil
}

// ReplaceWorklist stores the full identifier list for this invocation,
// replacing any previous one. Resume diffs this list against completed.
func (s *Store) ReplaceWorklist(ctx context.Context, clipIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin worklist tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM worklist`); err != nil {
		return fmt.Errorf("clear worklist: %w", err)
	}
	for _, clipID := range clipIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO worklist (clip_id) VALUES (?)`, clipID); err != nil {
			return fmt.Errorf("insert worklist entry %q: %w", clipID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit worklist: %w", err)
	}
	return nil
}

// Worklist returns the stored full identifier list in insertion order.
func (s *Store) Worklist(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT clip_id FROM worklist ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query worklist: %w", err)
	}
	defer rows.Close()

	var clipIDs []string
	for rows.Next() {
		var clipID string
		if err := rows.Scan(&clipID); err != nil {
			return nil, fmt.Errorf("scan worklist entry: %w", err)
		}
		clipIDs = append(clipIDs, clipID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worklist: %w", err)
	}
	return clipIDs, nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
