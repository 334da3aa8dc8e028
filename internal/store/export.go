// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 1000000

// csvHeader lists the export columns in table order.
var csvHeader = []string{
	"granule", "beam", "profile_idx", "rm_flag",
	"moat_h", "moat_index", "moat_x", "moat_y", "moat_x_dist", "moat_x_atc", "moat_delta_time",
	"rampart_h", "rampart_index", "rampart_x", "rampart_y", "rampart_x_dist", "rampart_x_atc", "rampart_delta_time",
	"track_node", "cycle_number",
}

// ExportYAML writes matching results to dataDir/results/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, dataDir string, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(dataDir, resultsDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes matching results to dataDir/results/export.json.
// Undefined values export as null; JSON has no NaN literal.
func (s *Store) ExportJSON(ctx context.Context, dataDir string, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, len(entries))
	for i, e := range entries {
		rows[i] = map[string]any{
			"granule":     e.Granule,
			"beam":        e.Beam,
			"profile_idx": e.ProfileIdx,
			"rm_flag":     e.RMFlag,

			"moat_h":          jsonFloat(e.Moat.Height),
			"moat_index":      jsonIndex(e.Moat.Index),
			"moat_x":          jsonFloat(e.Moat.X),
			"moat_y":          jsonFloat(e.Moat.Y),
			"moat_x_dist":     jsonFloat(e.Moat.XDist),
			"moat_x_atc":      jsonFloat(e.Moat.XAtc),
			"moat_delta_time": jsonFloat(e.Moat.DeltaTime),

			"rampart_h":          jsonFloat(e.Rampart.Height),
			"rampart_index":      jsonIndex(e.Rampart.Index),
			"rampart_x":          jsonFloat(e.Rampart.X),
			"rampart_y":          jsonFloat(e.Rampart.Y),
			"rampart_x_dist":     jsonFloat(e.Rampart.XDist),
			"rampart_x_atc":      jsonFloat(e.Rampart.XAtc),
			"rampart_delta_time": jsonFloat(e.Rampart.DeltaTime),

			"track_node":   e.TrackNode,
			"cycle_number": e.CycleNumber,
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(dataDir, resultsDir, "export.json"), data, 0o644)
}

// ExportCSV writes matching results to dataDir/results/export.csv with
// empty cells for undefined values.
func (s *Store) ExportCSV(ctx context.Context, dataDir string, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dataDir, resultsDir, "export.csv"))
	if err != nil {
		return fmt.Errorf("creating export.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.Granule, e.Beam, strconv.Itoa(e.ProfileIdx), strconv.FormatBool(e.RMFlag),
			csvFloat(e.Moat.Height), csvIndex(e.Moat.Index),
			csvFloat(e.Moat.X), csvFloat(e.Moat.Y),
			csvFloat(e.Moat.XDist), csvFloat(e.Moat.XAtc), csvFloat(e.Moat.DeltaTime),
			csvFloat(e.Rampart.Height), csvIndex(e.Rampart.Index),
			csvFloat(e.Rampart.X), csvFloat(e.Rampart.Y),
			csvFloat(e.Rampart.XDist), csvFloat(e.Rampart.XAtc), csvFloat(e.Rampart.DeltaTime),
			strconv.Itoa(e.TrackNode), strconv.Itoa(e.CycleNumber),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]StoredResult, error) {
	opts.MaxResults = exportLimit
	results, err := s.Query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return results, nil
}

func jsonFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func jsonIndex(i int) any {
	if i < 0 {
		return nil
	}
	return i
}

func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func csvIndex(i int) string {
	if i < 0 {
		return ""
	}
	return strconv.Itoa(i)
}
