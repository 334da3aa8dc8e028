// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/cryolab/shelf-engine/pkg/types"
)

// QueryOptions holds filters for result queries.
type QueryOptions struct {
	// Granule filters by source granule.
	Granule string

	// Cycle filters by acquisition cycle; zero means any.
	Cycle int

	// DetectionsOnly restricts to rows with rm_flag set.
	DetectionsOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// StoredResult is a persisted Result together with its row keys.
type StoredResult struct {
	Granule    string `json:"granule" yaml:"granule"`
	Beam       string `json:"beam" yaml:"beam"`
	ProfileIdx int    `json:"profile_idx" yaml:"profile_idx"`
	types.Result
}

// Query retrieves stored results with optional filters, ordered by granule,
// beam, and profile position so output is stable across runs.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]StoredResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT granule, beam, profile_idx, rm_flag,
			moat_h, moat_index, moat_x, moat_y, moat_x_dist, moat_x_atc, moat_delta_time,
			rampart_h, rampart_index, rampart_x, rampart_y, rampart_x_dist, rampart_x_atc, rampart_delta_time,
			track_node, cycle_number
		FROM rm_results
		WHERE 1=1`)

	if opts.Granule != "" {
		qb.WriteString(` AND granule = ?`)
		args = append(args, opts.Granule)
	}
	if opts.Cycle != 0 {
		qb.WriteString(` AND cycle_number = ?`)
		args = append(args, opts.Cycle)
	}
	if opts.DetectionsOnly {
		qb.WriteString(` AND rm_flag = 1`)
	}

	qb.WriteString(` ORDER BY granule, beam, profile_idx LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		var (
			sr      StoredResult
			moat    [6]sql.NullFloat64
			rampart [6]sql.NullFloat64
			moatIdx sql.NullInt64
			rampIdx sql.NullInt64
		)
		if err := rows.Scan(
			&sr.Granule, &sr.Beam, &sr.ProfileIdx, &sr.RMFlag,
			&moat[0], &moatIdx, &moat[1], &moat[2], &moat[3], &moat[4], &moat[5],
			&rampart[0], &rampIdx, &rampart[1], &rampart[2], &rampart[3], &rampart[4], &rampart[5],
			&sr.TrackNode, &sr.CycleNumber,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		sr.Moat = scanFeature(moat, moatIdx)
		sr.Rampart = scanFeature(rampart, rampIdx)
		results = append(results, sr)
	}

	return results, rows.Err()
}

// scanFeature rebuilds a Feature from nullable columns, mapping NULL back
// to NaN and the missing index back to -1.
func scanFeature(f [6]sql.NullFloat64, idx sql.NullInt64) types.Feature {
	feat := types.UndefinedFeature()
	if idx.Valid {
		feat.Index = int(idx.Int64)
	}
	fields := []*float64{
		&feat.Height, &feat.X, &feat.Y, &feat.XDist, &feat.XAtc, &feat.DeltaTime,
	}
	for i, dst := range fields {
		if f[i].Valid {
			*dst = f[i].Float64
		} else {
			*dst = math.NaN()
		}
	}
	return feat
}

// Count returns the number of stored rows matching the filters, ignoring
// the result limit.
func (s *Store) Count(ctx context.Context, opts QueryOptions) (int, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT count(*) FROM rm_results WHERE 1=1`)
	if opts.Granule != "" {
		qb.WriteString(` AND granule = ?`)
		args = append(args, opts.Granule)
	}
	if opts.Cycle != 0 {
		qb.WriteString(` AND cycle_number = ?`)
		args = append(args, opts.Cycle)
	}
	if opts.DetectionsOnly {
		qb.WriteString(` AND rm_flag = 1`)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, qb.String(), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting results: %w", err)
	}
	return n, nil
}
