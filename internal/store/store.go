// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists rampart-moat results in a SQLite database: one row
// per profile, one named column per result array, NaN stored as NULL so the
// container stays self-describing for downstream readers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cryolab/shelf-engine/pkg/types"
)

const (
	resultsDir = "results"
	dbFile     = "rampart-moat.db"
)

// Store manages the result database under dataDir/results/.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the result database and bootstraps the schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, resultsDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rm_results (
			granule TEXT NOT NULL,
			beam TEXT NOT NULL,
			profile_idx INTEGER NOT NULL,
			rm_flag INTEGER NOT NULL,
			moat_h REAL,
			moat_index INTEGER,
			moat_x REAL,
			moat_y REAL,
			moat_x_dist REAL,
			moat_x_atc REAL,
			moat_delta_time REAL,
			rampart_h REAL,
			rampart_index INTEGER,
			rampart_x REAL,
			rampart_y REAL,
			rampart_x_dist REAL,
			rampart_x_atc REAL,
			rampart_delta_time REAL,
			track_node INTEGER NOT NULL,
			cycle_number INTEGER NOT NULL,
			PRIMARY KEY (granule, beam, profile_idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rm_results_cycle ON rm_results(cycle_number)`,
		`CREATE INDEX IF NOT EXISTS idx_rm_results_flag ON rm_results(rm_flag)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveBatch writes one detection run's results in a single transaction.
// results[i] corresponds to profiles[i]; profile_idx records that position
// so the stored table reproduces the input ordering. Re-running a detection
// replaces the rows for the same granule, beam, and position.
func (s *Store) SaveBatch(ctx context.Context, profiles []*types.Profile, results []types.Result) error {
	if len(profiles) != len(results) {
		return fmt.Errorf("profile/result length mismatch: %d vs %d", len(profiles), len(results))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO rm_results (
			granule, beam, profile_idx, rm_flag,
			moat_h, moat_index, moat_x, moat_y, moat_x_dist, moat_x_atc, moat_delta_time,
			rampart_h, rampart_index, rampart_x, rampart_y, rampart_x_dist, rampart_x_atc, rampart_delta_time,
			track_node, cycle_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		p := profiles[i]
		_, err := stmt.ExecContext(ctx,
			p.Granule, p.Beam, i, r.RMFlag,
			nullFloat(r.Moat.Height), nullIndex(r.Moat.Index),
			nullFloat(r.Moat.X), nullFloat(r.Moat.Y),
			nullFloat(r.Moat.XDist), nullFloat(r.Moat.XAtc), nullFloat(r.Moat.DeltaTime),
			nullFloat(r.Rampart.Height), nullIndex(r.Rampart.Index),
			nullFloat(r.Rampart.X), nullFloat(r.Rampart.Y),
			nullFloat(r.Rampart.XDist), nullFloat(r.Rampart.XAtc), nullFloat(r.Rampart.DeltaTime),
			r.TrackNode, r.CycleNumber,
		)
		if err != nil {
			return fmt.Errorf("inserting result %s/%s[%d]: %w", p.Granule, p.Beam, i, err)
		}
	}

	return tx.Commit()
}

// nullFloat maps NaN to NULL; SQLite has no NaN and downstream readers
// treat NULL as the undefined value.
func nullFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// nullIndex maps the -1 undefined sentinel to NULL.
func nullIndex(i int) any {
	if i < 0 {
		return nil
	}
	return i
}
