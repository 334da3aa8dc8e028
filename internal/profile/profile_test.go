// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cryolab/shelf-engine/pkg/types"
)

const sampleCrossingYAML = `granule: ATL06_20200314T031245
profiles:
  - beam: gt1l
    direction: descending
    cycle: 6
    h_b: 5.25
    index_b: 0
    x_dist_b: 0
    h_ss: [5.25, 4.1, 3.0]
    x: [100, 120, 140]
    y: [-200, -220, -240]
    x_dist: [0, 20, 40]
    x_atc: [5000000, 5000020, 5000040]
    delta_time: [68211000.5, 68211000.6, 68211000.7]
  - beam: gt2l
    direction: ascending
    cycle: 6
    h_b: .nan
    index_b: 0
    x_dist_b: 0
    h_ss: [.nan, .nan]
    x: [0, 1]
    y: [0, 1]
    x_dist: [0, 20]
    x_atc: [0, 20]
    delta_time: [0, 1]
`

func writeFronts(t *testing.T, dataDir, name, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, "fronts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFile(t *testing.T) {
	dataDir := t.TempDir()
	writeFronts(t, dataDir, "a.yaml", sampleCrossingYAML)

	profiles, err := LoadFile(filepath.Join(dataDir, "fronts", "a.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("len(profiles) = %d, want 2", len(profiles))
	}

	p := profiles[0]
	if p.Granule != "ATL06_20200314T031245" {
		t.Errorf("granule = %q, want file-level granule stamped on", p.Granule)
	}
	if p.Direction != types.DirectionDescending || p.Beam != "gt1l" || p.Cycle != 6 {
		t.Errorf("metadata = (%q, %q, %d)", p.Direction, p.Beam, p.Cycle)
	}
	if p.FrontHeight != 5.25 || p.Len() != 3 {
		t.Errorf("front height %v, len %d", p.FrontHeight, p.Len())
	}

	// .nan round-trips to a real NaN, marking the missing front.
	if !math.IsNaN(profiles[1].FrontHeight) {
		t.Errorf("h_b = %v, want NaN", profiles[1].FrontHeight)
	}
	if profiles[1].HasFront() {
		t.Error("HasFront() = true for .nan front height")
	}
}

func TestLoadFileMisalignedSequences(t *testing.T) {
	dataDir := t.TempDir()
	bad := strings.Replace(sampleCrossingYAML, "x: [100, 120, 140]", "x: [100, 120]", 1)
	writeFronts(t, dataDir, "bad.yaml", bad)

	_, err := LoadFile(filepath.Join(dataDir, "fronts", "bad.yaml"))
	if err == nil {
		t.Fatal("expected alignment error, got nil")
	}
	if !strings.Contains(err.Error(), "samples") {
		t.Errorf("error = %v, want alignment message", err)
	}
}

func TestLoadFileFrontIndexOutOfRange(t *testing.T) {
	dataDir := t.TempDir()
	bad := strings.Replace(sampleCrossingYAML, "index_b: 0\n    x_dist_b: 0\n    h_ss: [5.25", "index_b: 9\n    x_dist_b: 0\n    h_ss: [5.25", 1)
	writeFronts(t, dataDir, "bad.yaml", bad)

	_, err := LoadFile(filepath.Join(dataDir, "fronts", "bad.yaml"))
	if err == nil {
		t.Fatal("expected front index error, got nil")
	}
}

func TestLoadDirSkipsBrokenFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeFronts(t, dataDir, "a.yaml", sampleCrossingYAML)
	writeFronts(t, dataDir, "broken.yaml", "granule: [not\nvalid yaml")
	writeFronts(t, dataDir, "notes.txt", "ignored")

	var buf bytes.Buffer
	profiles, summary, err := LoadDir(dataDir, &buf)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if summary.Files != 1 || summary.Failed != 1 || summary.Profiles != 2 {
		t.Errorf("summary = %+v, want 1 file, 1 failed, 2 profiles", summary)
	}
	if len(profiles) != 2 {
		t.Errorf("len(profiles) = %d, want 2", len(profiles))
	}
	if !strings.Contains(buf.String(), "failed") {
		t.Errorf("output missing failure line: %q", buf.String())
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "nope"), new(bytes.Buffer))
	if err == nil {
		t.Fatal("expected error for missing fronts directory")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	nan := math.NaN()
	in := []*types.Profile{{
		Beam:        "gt3r",
		Direction:   types.DirectionAscending,
		Cycle:       11,
		FrontHeight: nan,
		FrontIndex:  0,
		Height:      []float64{nan, 4},
		X:           []float64{0, 1},
		Y:           []float64{0, 1},
		XDist:       []float64{0, 20},
		XAtc:        []float64{0, 20},
		DeltaTime:   []float64{0, 1},
	}}

	path := filepath.Join(dataDir, "fronts", "g.yaml")
	if err := WriteFile(path, "G1", in); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(out) != 1 || out[0].Granule != "G1" {
		t.Fatalf("round trip lost granule: %+v", out)
	}
	if !math.IsNaN(out[0].FrontHeight) || !math.IsNaN(out[0].Height[0]) {
		t.Error("NaN did not survive the YAML round trip")
	}
}
