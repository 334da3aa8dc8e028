// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryolab/shelf-engine/internal/store"
	"github.com/cryolab/shelf-engine/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query and export stored detection results",
	Long: `Results reads the result database written by detect. Use subcommands
to query rows with filters or export the table to YAML, JSON, or CSV.`,
}

// --- query subcommand ---

var resultsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List stored results with optional filters",
	Long: `Query lists result rows ordered by granule, beam, and profile
position. Undefined heights print as a dash; they are stored as NULL.`,
	RunE: runResultsQuery,
}

func runResultsQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd)
	results, err := s.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-5s  %-4s  %-5s  %-9s  %-9s  %-6s  %-5s\n",
		"Granule", "Beam", "Idx", "R-M", "Moat h", "Rampart h", "Node", "Cycle")
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-24s  %-5s  %-4d  %-5t  %-9s  %-9s  %-6d  %-5d\n",
			truncate(r.Granule, 24), r.Beam, r.ProfileIdx, r.RMFlag,
			formatHeight(r.Moat.Height), formatHeight(r.Rampart.Height),
			r.TrackNode, r.CycleNumber)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func formatHeight(h float64) string {
	if math.IsNaN(h) {
		return "-"
	}
	return fmt.Sprintf("%.2f", h)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// --- export subcommand ---

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results to YAML, JSON, or CSV",
	Long: `Export writes the result table (or a filtered subset) to
results/export.yaml, export.json, or export.csv under the data directory.
Undefined values export as null in YAML and JSON and as empty CSV cells.`,
	RunE: runResultsExport,
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd)
	ctx := context.Background()

	switch format {
	case "yaml", "":
		if err := s.ExportYAML(ctx, dataDir, opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/results/export.yaml\n", dataDir)
	case "json":
		if err := s.ExportJSON(ctx, dataDir, opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/results/export.json\n", dataDir)
	case "csv":
		if err := s.ExportCSV(ctx, dataDir, opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/results/export.csv\n", dataDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, or csv", format)
	}

	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return store.Open(types.StoreConfig{DataDir: dataDir, MaxResults: maxResults})
}

func queryOptsFromFlags(cmd *cobra.Command) store.QueryOptions {
	granule, _ := cmd.Flags().GetString("granule")
	cycle, _ := cmd.Flags().GetInt("cycle")
	detectionsOnly, _ := cmd.Flags().GetBool("detections-only")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Granule:        granule,
		Cycle:          cycle,
		DetectionsOnly: detectionsOnly,
		MaxResults:     limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	resultsCmd.PersistentFlags().String("granule", "", "filter by granule name")
	resultsCmd.PersistentFlags().Int("cycle", 0, "filter by cycle number")
	resultsCmd.PersistentFlags().Bool("detections-only", false, "only rows with a detected rampart-moat")
	resultsCmd.PersistentFlags().Int("limit", 0, "maximum rows (0 = use default)")
	resultsCmd.PersistentFlags().Int("max-results", 50, "default maximum query results")

	// Query flags.
	resultsQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	resultsExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or csv")

	// Wire subcommands.
	resultsCmd.AddCommand(resultsQueryCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
