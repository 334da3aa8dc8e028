// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cryolab/shelf-engine/pkg/types"
)

const sampleCMRFeed = `{
  "feed": {
    "entry": [
      {
        "id": "G1234-NSIDC",
        "title": "ATL06_20230117_granule_A.h5",
        "granule_size": "42.5",
        "time_start": "2023-01-17T18:58:28.000Z",
        "links": [
          {"rel": "http://esipfed.org/ns/fedsearch/1.1/metadata#", "href": "https://example.com/meta.xml"},
          {"rel": "http://esipfed.org/ns/fedsearch/1.1/data#", "href": "DATA_BASE/data/ATL06_20230117_granule_A.h5"}
        ]
      },
      {
        "id": "G5678-NSIDC",
        "title": "ATL06_20230118_granule_B.h5",
        "granule_size": "not-a-number",
        "time_start": "2023-01-18T04:12:00.000Z",
        "links": []
      }
    ]
  }
}`

const fakeGranuleContent = "\x89HDF fake granule bytes"

// newTestServer serves a CMR search feed and fake granule downloads based on
// URL path. The feed's data link is rewritten to point back at the server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/granules.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, strings.ReplaceAll(sampleCMRFeed, "DATA_BASE", ts.URL))
		case strings.HasPrefix(r.URL.Path, "/data/"):
			fmt.Fprint(w, fakeGranuleContent)
		default:
			http.NotFound(w, r)
		}
	}))
	return ts
}

func testConfig(dir string) types.ArchiveConfig {
	return types.ArchiveConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "shelf-engine-test/0.1",
		},
		ShortName:  "ATL06",
		Version:    "006",
		Token:      "test-token",
		DataDir:    dir,
		MaxResults: 10,
	}
}

func TestSearchGranules(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	orig := cmrGranuleBase
	cmrGranuleBase = ts.URL + "/search/granules.json"
	defer func() { cmrGranuleBase = orig }()

	granules, err := SearchGranules(context.Background(), ts.Client(), "", testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("SearchGranules: %v", err)
	}
	if len(granules) != 2 {
		t.Fatalf("len(granules) = %d, want 2", len(granules))
	}

	first := granules[0]
	if first.ID != "G1234-NSIDC" || first.Title != "ATL06_20230117_granule_A.h5" {
		t.Errorf("granule = (%q, %q)", first.ID, first.Title)
	}
	if first.SizeMB != 42.5 {
		t.Errorf("SizeMB = %v, want 42.5", first.SizeMB)
	}
	if !strings.HasSuffix(first.DownloadURL, "/data/ATL06_20230117_granule_A.h5") {
		t.Errorf("DownloadURL = %q, want data link", first.DownloadURL)
	}

	// Unparseable size and no data link degrade gracefully.
	second := granules[1]
	if second.SizeMB != 0 {
		t.Errorf("SizeMB = %v, want 0 for unparseable size", second.SizeMB)
	}
	if second.DownloadURL != "" {
		t.Errorf("DownloadURL = %q, want empty for granule without data link", second.DownloadURL)
	}
}

func TestSearchGranulesHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()
	orig := cmrGranuleBase
	cmrGranuleBase = ts.URL + "/search/granules.json"
	defer func() { cmrGranuleBase = orig }()

	_, err := SearchGranules(context.Background(), ts.Client(), "", testConfig(t.TempDir()))
	if err == nil || !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("err = %v, want HTTP 400 error", err)
	}
}

func TestFetchGranule(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	cfg := testConfig(dir)
	g := Granule{
		Title:       "ATL06_20230117_granule_A.h5",
		DownloadURL: ts.URL + "/data/ATL06_20230117_granule_A.h5",
		SizeMB:      42.5,
	}
	var buf bytes.Buffer

	skipped, err := FetchGranule(context.Background(), ts.Client(), g, cfg, &buf)
	if err != nil {
		t.Fatalf("FetchGranule: %v", err)
	}
	if skipped {
		t.Error("expected download, got skipped")
	}

	data, err := os.ReadFile(filepath.Join(dir, "granules", g.Title))
	if err != nil {
		t.Fatalf("reading granule: %v", err)
	}
	if string(data) != fakeGranuleContent {
		t.Errorf("granule content = %q, want %q", string(data), fakeGranuleContent)
	}
	if !strings.Contains(buf.String(), "downloading:") {
		t.Error("output should contain 'downloading:'")
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "granules"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("granules dir has %d entries, want 1", len(entries))
	}
}

func TestFetchGranuleSkipsExisting(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	cfg := testConfig(dir)
	g := Granule{
		Title:       "ATL06_existing.h5",
		DownloadURL: ts.URL + "/data/ATL06_existing.h5",
	}
	if err := os.MkdirAll(filepath.Join(dir, "granules"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "granules", g.Title), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	skipped, err := FetchGranule(context.Background(), ts.Client(), g, cfg, &buf)
	if err != nil {
		t.Fatalf("FetchGranule: %v", err)
	}
	if !skipped {
		t.Error("expected skip for existing file")
	}

	// The existing file is untouched.
	data, _ := os.ReadFile(filepath.Join(dir, "granules", g.Title))
	if string(data) != "old" {
		t.Errorf("existing file was overwritten: %q", string(data))
	}
	if !strings.Contains(buf.String(), "skipped:") {
		t.Error("output should contain 'skipped:'")
	}
}

func TestFetchGranuleNoDataLink(t *testing.T) {
	var buf bytes.Buffer
	_, err := FetchGranule(context.Background(), http.DefaultClient,
		Granule{Title: "no-link.h5"}, testConfig(t.TempDir()), &buf)
	if err == nil || !strings.Contains(err.Error(), "no data link") {
		t.Errorf("err = %v, want no data link error", err)
	}
}

func TestFetchBatch(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	cfg := testConfig(dir)
	granules := []Granule{
		{Title: "ATL06_a.h5", DownloadURL: ts.URL + "/data/ATL06_a.h5"},
		{Title: "ATL06_b.h5"}, // no data link: fails
		{Title: "ATL06_c.h5", DownloadURL: ts.URL + "/data/ATL06_c.h5"},
	}

	var buf bytes.Buffer
	result := FetchBatch(context.Background(), ts.Client(), granules, cfg, &buf)

	if result.Downloaded != 2 || result.Failed != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 2 downloaded, 1 failed", result)
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if !strings.Contains(buf.String(), "Batch summary: 2 downloaded, 0 skipped, 1 failed (total: 3)") {
		t.Errorf("missing batch summary in output:\n%s", buf.String())
	}
}

func TestFetchBatchCancelled(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	cfg := testConfig(t.TempDir())
	cfg.DownloadDelay = 10 * time.Millisecond
	granules := []Granule{
		{Title: "ATL06_a.h5", DownloadURL: ts.URL + "/data/ATL06_a.h5"},
		{Title: "ATL06_b.h5", DownloadURL: ts.URL + "/data/ATL06_b.h5"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	result := FetchBatch(ctx, ts.Client(), granules, cfg, &buf)

	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (cancelled before any download)", result.Failed)
	}
}
