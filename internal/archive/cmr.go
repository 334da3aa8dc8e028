// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cryolab/shelf-engine/internal/httputil"
	"github.com/cryolab/shelf-engine/pkg/types"
)

// cmrGranuleBase is the CMR granule search endpoint. Declared as a var so
// tests can substitute an httptest server.
var cmrGranuleBase = "https://cmr.earthdata.nasa.gov/search/granules.json"

const defaultPageSize = 100

// Granule is one archive granule returned by a search.
type Granule struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	DownloadURL string  `yaml:"download_url"`
	SizeMB      float64 `yaml:"size_mb"`
	TimeStart   string  `yaml:"time_start"`
}

// cmrFeed captures the fields we need from a CMR granule search response.
type cmrFeed struct {
	Feed struct {
		Entry []cmrEntry `json:"entry"`
	} `json:"feed"`
}

type cmrEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GranuleSize string    `json:"granule_size"`
	TimeStart   string    `json:"time_start"`
	Links       []cmrLink `json:"links"`
}

type cmrLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// dataRel marks the link pointing at the granule data file.
const dataRel = "http://esipfed.org/ns/fedsearch/1.1/data#"

// SearchGranules queries the archive for granules of the configured product,
// optionally restricted to producerID (a granule name pattern). Results are
// capped at cfg.MaxResults.
func SearchGranules(ctx context.Context, client *http.Client, producerID string, cfg types.ArchiveConfig) ([]Granule, error) {
	pageSize := cfg.MaxResults
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	params := url.Values{}
	params.Set("short_name", cfg.ShortName)
	if cfg.Version != "" {
		params.Set("version", cfg.Version)
	}
	if producerID != "" {
		params.Set("producer_granule_id", producerID)
		params.Set("options[producer_granule_id][pattern]", "true")
	}
	params.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cmrGranuleBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating granule search request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("granule search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("granule search returned HTTP %d", resp.StatusCode)
	}

	var feed cmrFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing granule search response: %w", err)
	}

	granules := make([]Granule, 0, len(feed.Feed.Entry))
	for _, e := range feed.Feed.Entry {
		g := Granule{
			ID:        e.ID,
			Title:     e.Title,
			TimeStart: e.TimeStart,
		}
		if size, err := strconv.ParseFloat(e.GranuleSize, 64); err == nil {
			g.SizeMB = size
		}
		for _, l := range e.Links {
			if l.Rel == dataRel && strings.HasPrefix(l.Href, "http") {
				g.DownloadURL = l.Href
				break
			}
		}
		granules = append(granules, g)
	}
	return granules, nil
}
