// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders summary statistics over stored detection results.
// The report aggregates moat and rampart height distributions and the
// rampart relief (rampart height minus moat height) across all profiles,
// and writes a Markdown file for inclusion in analysis notes.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cryolab/shelf-engine/internal/store"
)

// reportFile is the output filename under the report directory.
const reportFile = "rampart-moat-report.md"

// Stats describes the distribution of one metric.
type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Summary holds everything the rendered report needs.
type Summary struct {
	Profiles   int
	Detections int

	MoatHeight    Stats
	RampartHeight Stats
	Relief        Stats
	MoatDistance  Stats

	// CycleCounts maps cycle number to profile count.
	CycleCounts map[int]int
}

// DetectionRate returns the fraction of profiles with a detected feature.
func (s Summary) DetectionRate() float64 {
	if s.Profiles == 0 {
		return 0
	}
	return float64(s.Detections) / float64(s.Profiles)
}

// Summarize computes distribution statistics over stored results. Profiles
// without a detection contribute to the totals but not to the metric
// distributions; relief is computed only where both features are defined.
func Summarize(results []store.StoredResult) Summary {
	s := Summary{
		Profiles:    len(results),
		CycleCounts: make(map[int]int),
	}

	var moatH, rampartH, relief, moatDist []float64
	for _, r := range results {
		s.CycleCounts[r.CycleNumber]++
		if !r.RMFlag {
			continue
		}
		s.Detections++

		if r.Moat.Defined() {
			moatH = append(moatH, r.Moat.Height)
			moatDist = append(moatDist, r.Moat.XDist)
		}
		if r.Rampart.Defined() {
			rampartH = append(rampartH, r.Rampart.Height)
		}
		if r.Moat.Defined() && r.Rampart.Defined() {
			relief = append(relief, r.Rampart.Height-r.Moat.Height)
		}
	}

	s.MoatHeight = describe(moatH)
	s.RampartHeight = describe(rampartH)
	s.Relief = describe(relief)
	s.MoatDistance = describe(moatDist)
	return s
}

// describe computes distribution statistics for one metric. Quantile needs
// sorted input, so the slice is sorted in place.
func describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	sort.Float64s(xs)
	return Stats{
		N:      len(xs),
		Mean:   stat.Mean(xs, nil),
		StdDev: stat.StdDev(xs, nil),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
	}
}

// Render produces the Markdown report body.
func Render(s Summary, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Rampart-Moat Detection Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Profiles analyzed: %d\n", s.Profiles)
	fmt.Fprintf(&b, "- Detections: %d (%.1f%%)\n\n", s.Detections, 100*s.DetectionRate())

	b.WriteString("## Feature distributions\n\n")
	b.WriteString("| Metric | N | Mean | StdDev | Min | Median | Max |\n")
	b.WriteString("|--------|---|------|--------|-----|--------|-----|\n")
	writeStatsRow(&b, "Moat height (m)", s.MoatHeight)
	writeStatsRow(&b, "Rampart height (m)", s.RampartHeight)
	writeStatsRow(&b, "Rampart relief (m)", s.Relief)
	writeStatsRow(&b, "Moat distance from front (m)", s.MoatDistance)
	b.WriteString("\n")

	b.WriteString("## Profiles by cycle\n\n")
	b.WriteString("| Cycle | Profiles |\n")
	b.WriteString("|-------|----------|\n")
	for _, cycle := range sortedCycles(s.CycleCounts) {
		fmt.Fprintf(&b, "| %d | %d |\n", cycle, s.CycleCounts[cycle])
	}
	return b.String()
}

func writeStatsRow(b *strings.Builder, label string, st Stats) {
	if st.N == 0 {
		fmt.Fprintf(b, "| %s | 0 | - | - | - | - | - |\n", label)
		return
	}
	fmt.Fprintf(b, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
		label, st.N, st.Mean, st.StdDev, st.Min, st.Median, st.Max)
}

func sortedCycles(counts map[int]int) []int {
	cycles := make([]int, 0, len(counts))
	for c := range counts {
		cycles = append(cycles, c)
	}
	sort.Ints(cycles)
	return cycles
}

// Write renders the summary and writes it under outputDir, returning the
// path of the written report.
func Write(s Summary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(outputDir, reportFile)
	if err := os.WriteFile(path, []byte(Render(s, time.Now())), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
