package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryolab/shelf-engine/internal/report"
	"github.com/cryolab/shelf-engine/internal/store"
	"github.com/cryolab/shelf-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a summary report over stored detection results",
	Long: `Report aggregates all stored results into distribution statistics
(detection rate, moat and rampart heights, rampart relief) and writes a
Markdown report to the output directory.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("output-dir", "reports", "directory for rendered reports")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	s, err := store.Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer s.Close()

	// The report covers the full table, not the default query page.
	results, err := s.Query(context.Background(), store.QueryOptions{MaxResults: 1000000})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no stored results: run 'shelf-engine detect' first")
	}

	summary := report.Summarize(results)
	path, err := report.Write(summary, outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s (%d profiles, %.1f%% detection rate)\n",
		path, summary.Profiles, 100*summary.DetectionRate())
	return nil
}
