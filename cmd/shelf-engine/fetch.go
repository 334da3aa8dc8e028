package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cryolab/shelf-engine/internal/archive"
	"github.com/cryolab/shelf-engine/internal/secrets"
	"github.com/cryolab/shelf-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "shelf-engine/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [granule-pattern]",
	Short: "Download surface-height granules from the Earthdata archive",
	Long: `Fetch searches the archive catalog for granules of the configured
product, optionally restricted to a granule name pattern, and downloads the
data files into the granules directory. Existing granules are skipped.

A bearer token is read from .secrets/earthdata-token unless --token is set.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("short-name", "ATL06", "archive product short name")
	fetchCmd.Flags().String("product-version", "006", "archive product version")
	fetchCmd.Flags().String("token", "", "Earthdata bearer token (default: .secrets/earthdata-token)")
	fetchCmd.Flags().Int("max-results", 100, "maximum granules returned by the search")
	fetchCmd.Flags().Bool("search-only", false, "list matching granules without downloading")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	var pattern string
	if len(args) > 1 {
		return fmt.Errorf("at most one granule name pattern may be given")
	}
	if len(args) == 1 {
		pattern = args[0]
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	shortName, _ := cmd.Flags().GetString("short-name")
	productVersion, _ := cmd.Flags().GetString("product-version")
	token, _ := cmd.Flags().GetString("token")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	searchOnly, _ := cmd.Flags().GetBool("search-only")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg := types.ArchiveConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		ShortName:     shortName,
		Version:       productVersion,
		Token:         secretDefault(secrets.KeyEarthdataToken, token),
		DownloadDelay: delay,
		DataDir:       dataDir,
		MaxResults:    maxResults,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	ctx := context.Background()

	granules, err := archive.SearchGranules(ctx, client, pattern, cfg)
	if err != nil {
		return err
	}
	if len(granules) == 0 {
		fmt.Println("No granules matched the search.")
		return nil
	}

	if searchOnly {
		for _, g := range granules {
			fmt.Printf("%s  %.1f MB  %s\n", g.Title, g.SizeMB, g.TimeStart)
		}
		fmt.Printf("\n%d granules\n", len(granules))
		return nil
	}

	result := archive.FetchBatch(ctx, client, granules, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d granule(s) failed to download", result.Failed)
	}
	return nil
}
