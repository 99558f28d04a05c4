package store

import (
	"context"
	"database/sql"
	"time"

	"catalog-export/internal/model"

	"github.com/go-faster/errors"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Store keeps the export run history in sqlite
type Store struct {
	db *sql.DB
}

// Open connects to the sqlite database at dbPath and creates the tables.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one connection: a :memory: database only lives on the connection that created it
	db.SetMaxOpenConns(1)

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		category TEXT,
		store_id INTEGER,
		status TEXT,
		total INTEGER DEFAULT 0,
		fetched INTEGER DEFAULT 0,
		exported INTEGER DEFAULT 0,
		output_file TEXT,
		started_at DATETIME,
		finished_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "create tables")
		}
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun stores a new run
func (s *Store) StartRun(ctx context.Context, run model.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, category, store_id, status, output_file, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Category, run.StoreID, string(run.Status), run.OutputFile, run.StartedAt.UTC())
	if err != nil {
		return errors.Wrap(err, "insert run")
	}
	return nil
}

// FinishRun updates the counters and final status of a run
func (s *Store) FinishRun(ctx context.Context, run model.Run) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, total = ?, fetched = ?, exported = ?, finished_at = ? WHERE id = ?`,
		string(run.Status), run.Total, run.Fetched, run.Exported, finished, run.ID)
	if err != nil {
		return errors.Wrap(err, "update run")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrap(ErrNotFound, run.ID)
	}
	return nil
}

// SaveRunError records an error for a run
func (s *Store) SaveRunError(ctx context.Context, runID, stage string, err error) error {
	if err == nil {
		return nil
	}
	_, e := s.db.ExecContext(ctx,
		`INSERT INTO run_errors (run_id, stage, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, err.Error(), time.Now().UTC())
	if e != nil {
		return errors.Wrap(e, "insert run error")
	}
	return nil
}

const runColumns = `id, category, store_id, status, total, fetched, exported, output_file, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.Run, error) {
	var (
		run      model.Run
		status   string
		finished sql.NullTime
	)
	err := row.Scan(&run.ID, &run.Category, &run.StoreID, &status, &run.Total, &run.Fetched,
		&run.Exported, &run.OutputFile, &run.StartedAt, &finished)
	if err != nil {
		return model.Run{}, err
	}
	run.Status = model.RunStatus(status)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

// ListRuns returns all runs, newest first
func (s *Store) ListRuns(ctx context.Context) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run
func (s *Store) GetRun(ctx context.Context, runID string) (model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, ErrNotFound
	}
	if err != nil {
		return model.Run{}, errors.Wrap(err, "scan run")
	}
	return run, nil
}

// GetRunErrors returns the errors recorded for a run in insertion order
func (s *Store) GetRunErrors(ctx context.Context, runID string) ([]model.RunError, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, stage, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query run errors")
	}
	defer rows.Close()

	out := []model.RunError{}
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.ID, &e.RunID, &e.Stage, &e.Message, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run error")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
