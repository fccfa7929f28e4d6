package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qex/internal/database"
)

// ErrNotFound is returned when a run ID does not exist in the store.
var ErrNotFound = errors.New("run not found")

// Store handles persistence of run records.
//
// Records are stored in a single runs table; params, artifacts and
// metadata mappings are JSON TEXT columns. The store serializes its own
// writes through the database connection; it performs no coordination
// with the Runner, which only ever touches the filesystem.
type Store struct {
	db    *sql.DB
	owned *database.DB // set when the store opened its own connection
	log   zerolog.Logger
}

// New creates a store over an existing database connection and ensures
// the schema exists.
func New(db *sql.DB, log zerolog.Logger) (*Store, error) {
	s := &Store{
		db:  db,
		log: log.With().Str("repository", "runs").Logger(),
	}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates a store backed by a sqlite database at the given path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := database.New(database.Config{Path: path, Name: "runs"})
	if err != nil {
		return nil, err
	}
	s, err := New(db.Conn(), log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = db
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			experiment_name TEXT NOT NULL,
			backend_name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			base_dir TEXT NOT NULL,
			density_matrix_path TEXT NOT NULL,
			params TEXT NOT NULL,
			artifacts TEXT NOT NULL,
			metadata TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_experiment_name ON runs(experiment_name);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}
	return nil
}

// SaveRun persists a run record.
func (s *Store) SaveRun(rec *RunRecord) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	artifacts, err := json.Marshal(rec.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to encode artifacts: %w", err)
	}
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs
		(run_id, experiment_name, backend_name, created_at, base_dir,
		 density_matrix_path, params, artifacts, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.ExperimentName,
		rec.BackendName,
		rec.CreatedAt.Unix(),
		rec.BaseDir,
		rec.DensityMatrixPath,
		string(params),
		string(artifacts),
		string(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.RunID, err)
	}

	s.log.Debug().
		Str("run_id", rec.RunID).
		Str("experiment", rec.ExperimentName).
		Msg("Saved run record")
	return nil
}

// ListRuns returns stored runs, newest first. An empty experimentName
// returns all runs; a non-empty one filters by experiment name.
func (s *Store) ListRuns(experimentName string) ([]*RunRecord, error) {
	query := `
		SELECT run_id, experiment_name, backend_name, created_at, base_dir,
		       density_matrix_path, params, artifacts, metadata
		FROM runs
	`
	args := []any{}
	if experimentName != "" {
		query += ` WHERE experiment_name = ?`
		args = append(args, experimentName)
	}
	query += ` ORDER BY created_at DESC, run_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

// GetRun returns the run with the given ID, or ErrNotFound.
func (s *Store) GetRun(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT run_id, experiment_name, backend_name, created_at, base_dir,
		       density_matrix_path, params, artifacts, metadata
		FROM runs
		WHERE run_id = ?
	`, runID)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Close releases the store's database connection when the store owns it.
// A store created over an externally managed connection leaves that
// connection open.
func (s *Store) Close() error {
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var (
		rec       RunRecord
		createdAt int64
		params    string
		artifacts string
		metadata  string
	)
	err := row.Scan(
		&rec.RunID,
		&rec.ExperimentName,
		&rec.BackendName,
		&createdAt,
		&rec.BaseDir,
		&rec.DensityMatrixPath,
		&params,
		&artifacts,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
		return nil, fmt.Errorf("failed to decode params for run %s: %w", rec.RunID, err)
	}
	if err := json.Unmarshal([]byte(artifacts), &rec.Artifacts); err != nil {
		return nil, fmt.Errorf("failed to decode artifacts for run %s: %w", rec.RunID, err)
	}
	if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for run %s: %w", rec.RunID, err)
	}
	return &rec, nil
}
