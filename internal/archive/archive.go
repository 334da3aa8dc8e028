// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive fetches surface-height granules from the Earthdata archive.
// It searches the CMR catalog for the configured product and downloads the
// matching data files into the granules directory.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cryolab/shelf-engine/internal/httputil"
	"github.com/cryolab/shelf-engine/pkg/types"
)

const granulesDir = "granules"

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of granules processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchGranule downloads a single granule into DataDir/granules. If the file
// already exists on disk the download is skipped. The skipped return value
// indicates whether the download was skipped.
func FetchGranule(ctx context.Context, client *http.Client, g Granule, cfg types.ArchiveConfig, w io.Writer) (skipped bool, err error) {
	if g.DownloadURL == "" {
		return false, fmt.Errorf("granule %s has no data link", g.Title)
	}

	dir := filepath.Join(cfg.DataDir, granulesDir)
	destPath := filepath.Join(dir, g.Title)

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", g.Title)
		return true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fmt.Fprintf(w, "downloading: %s (%.1f MB)\n", g.Title, g.SizeMB)

	if err := downloadFile(ctx, client, g.DownloadURL, destPath, cfg); err != nil {
		return false, fmt.Errorf("downloading %s: %w", g.Title, err)
	}
	return false, nil
}

// FetchBatch downloads multiple granules, printing per-item status and
// returning a summary. It continues after individual failures and applies a
// delay between consecutive downloads.
func FetchBatch(ctx context.Context, client *http.Client, granules []Granule, cfg types.ArchiveConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, g := range granules {
		if i > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.DownloadDelay):
			}
		}
		if ctx.Err() != nil {
			result.Failed += len(granules) - i
			fmt.Fprintf(w, "aborted: %v\n", ctx.Err())
			break
		}
		wasSkipped, err := FetchGranule(ctx, client, g, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", g.Title, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath using a temporary file so a partial
// download never lands under the final name. The bearer token is attached
// when configured; the archive rate-limits, so the request goes through the
// retrying client.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.ArchiveConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
