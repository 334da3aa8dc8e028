// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontrun runs the upstream ice-front detector over downloaded
// granules. Each granule file is piped through the detector, which emits a
// crossing YAML record; the record is validated and written to the fronts
// directory for the detection stage to pick up.
package frontrun

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cryolab/shelf-engine/internal/profile"
)

const (
	granulesDir = "granules"
	frontsDir   = "fronts"
)

// Detector produces a crossing YAML record for one granule file. The
// container-backed FrontFinder is the production implementation.
type Detector interface {
	Detect(granulePath string) ([]byte, error)
}

// BatchResult holds the outcome of a batch detector run.
type BatchResult struct {
	Detected int
	Skipped  int
	Failed   int
}

// Total returns the total number of granules processed.
func (r BatchResult) Total() int {
	return r.Detected + r.Skipped + r.Failed
}

// HasFailures reports whether any granules failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunGranule runs the detector on a single granule and writes the crossing
// file to dataDir/fronts. If the crossing file already exists the run is
// skipped. The detector output must parse as a valid crossing record; bad
// output is discarded rather than written.
func RunGranule(d Detector, granulePath, dataDir string, w io.Writer) (skipped bool, err error) {
	base := strings.TrimSuffix(filepath.Base(granulePath), filepath.Ext(granulePath))
	destPath := filepath.Join(dataDir, frontsDir, base+".yaml")

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
		return true, nil
	}

	data, err := d.Detect(granulePath)
	if err != nil {
		return false, fmt.Errorf("detecting fronts in %s: %w", base, err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, fmt.Errorf("creating fronts directory: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return false, fmt.Errorf("writing crossings for %s: %w", base, err)
	}

	// Validate what the detector produced; a file that won't load is worse
	// than no file.
	if _, err := profile.LoadFile(destPath); err != nil {
		os.Remove(destPath)
		return false, fmt.Errorf("detector output for %s is invalid: %w", base, err)
	}

	fmt.Fprintf(w, "detected: %s\n", base)
	return false, nil
}

// RunBatch runs the detector over every granule under dataDir/granules, in
// lexical order, printing per-granule status and returning a summary. It
// continues after individual failures.
func RunBatch(d Detector, dataDir string, w io.Writer) (BatchResult, error) {
	dir := filepath.Join(dataDir, granulesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("reading granules directory %s: %w", dir, err)
	}

	var result BatchResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".h5") {
			continue
		}

		wasSkipped, err := RunGranule(d, filepath.Join(dir, name), dataDir, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Detected++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d detected, %d skipped, %d failed (total: %d)\n",
		result.Detected, result.Skipped, result.Failed, result.Total())
	return result, nil
}
