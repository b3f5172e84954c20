// ════════════════════════════════════════════════════════════════════════════════════════════════
// WAIT TRIAL STORE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: SQLite persistence for waitprobe
//
// Description:
//   A run is one batch of timed waits of a single instruction, control value
//   and budget on one host. Samples record how many TSC cycles each wait
//   actually took and whether the OS limit ended it.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package trialdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSamples is returned when summarizing a run without samples.
var ErrNoSamples = errors.New("trialdb: run has no samples")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	op          TEXT NOT NULL,
	ctrl        INTEGER NOT NULL,
	budget      INTEGER NOT NULL,
	started_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	seq        INTEGER NOT NULL,
	cycles     INTEGER NOT NULL,
	os_timeout INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS runs_fingerprint ON runs(fingerprint);
`

// Run describes a batch of waits.
type Run struct {
	ID          string
	Fingerprint string
	Op          string
	Ctrl        uint32
	Budget      uint64 // requested cycles per wait
	StartedAt   time.Time
}

// Sample is one measured wait.
type Sample struct {
	Cycles    uint64
	OSTimeout bool
}

// Stats summarizes a run.
type Stats struct {
	Count      int
	MinCycles  uint64
	MaxCycles  uint64
	MeanCycles float64
	OSTimeouts int
}

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("trialdb: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("trialdb: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun stores r with a fresh ID and start time and returns the completed Run.
func (s *Store) BeginRun(r Run) (Run, error) {
	r.ID = uuid.NewString()
	r.StartedAt = time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, fingerprint, op, ctrl, budget, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Fingerprint, r.Op, int64(r.Ctrl), int64(r.Budget), r.StartedAt.UnixNano(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("trialdb: begin run: %w", err)
	}
	return r, nil
}

// Record appends samples to run in one transaction, numbering them after any
// already stored.
func (s *Store) Record(runID string, samples ...Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("trialdb: begin: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq) + 1, 0) FROM samples WHERE run_id = ?`, runID).Scan(&next); err != nil {
		return fmt.Errorf("trialdb: next seq: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (run_id, seq, cycles, os_timeout) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("trialdb: prepare: %w", err)
	}
	defer stmt.Close()

	for i, smp := range samples {
		if _, err := stmt.Exec(runID, next+int64(i), int64(smp.Cycles), smp.OSTimeout); err != nil {
			return fmt.Errorf("trialdb: insert sample: %w", err)
		}
	}
	return tx.Commit()
}

// Summary aggregates the samples of a run.
func (s *Store) Summary(runID string) (Stats, error) {
	var (
		st         Stats
		minC, maxC sql.NullInt64
		mean       sql.NullFloat64
		timeouts   sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), MIN(cycles), MAX(cycles), AVG(cycles), SUM(os_timeout) FROM samples WHERE run_id = ?`,
		runID,
	).Scan(&st.Count, &minC, &maxC, &mean, &timeouts)
	if err != nil {
		return Stats{}, fmt.Errorf("trialdb: summary: %w", err)
	}
	if st.Count == 0 {
		return Stats{}, ErrNoSamples
	}
	st.MinCycles = uint64(minC.Int64)
	st.MaxCycles = uint64(maxC.Int64)
	st.MeanCycles = mean.Float64
	st.OSTimeouts = int(timeouts.Int64)
	return st, nil
}

// Runs lists the runs recorded for a host, newest first.
func (s *Store) Runs(fingerprint string) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, fingerprint, op, ctrl, budget, started_at FROM runs WHERE fingerprint = ? ORDER BY started_at DESC, rowid DESC`,
		fingerprint,
	)
	if err != nil {
		return nil, fmt.Errorf("trialdb: runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			ctrl    int64
			budget  int64
			started int64
		)
		if err := rows.Scan(&r.ID, &r.Fingerprint, &r.Op, &ctrl, &budget, &started); err != nil {
			return nil, fmt.Errorf("trialdb: scan run: %w", err)
		}
		r.Ctrl = uint32(ctrl)
		r.Budget = uint64(budget)
		r.StartedAt = time.Unix(0, started).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
