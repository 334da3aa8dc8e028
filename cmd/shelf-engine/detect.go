package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/cryolab/shelf-engine/internal/detect"
	"github.com/cryolab/shelf-engine/internal/profile"
	"github.com/cryolab/shelf-engine/internal/store"
	"github.com/cryolab/shelf-engine/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect rampart-moat features in front crossings",
	Long: `Detect loads every crossing record under the fronts directory, walks
each profile from its front point to locate the moat and rampart, and saves
the per-profile results to the result database. Profiles without a detected
front produce an undefined result row. Re-running replaces stored rows for
the same profiles.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().Float64("moat-limit", 0, "height floor a moat must stay above (default 2)")
	detectCmd.Flags().Float64("moat-dist", 0, "maximum moat search distance from the front (default 2000)")
	detectCmd.Flags().Float64("rampart-dist", 0, "maximum rampart search distance (default 100)")
	detectCmd.Flags().Int("workers", 0, "profiles processed concurrently (default 4)")
	detectCmd.Flags().Bool("columns", false, "also write a columnar snapshot to results/columns.yaml")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	moatLimit, _ := cmd.Flags().GetFloat64("moat-limit")
	moatDist, _ := cmd.Flags().GetFloat64("moat-dist")
	rampartDist, _ := cmd.Flags().GetFloat64("rampart-dist")
	workers, _ := cmd.Flags().GetInt("workers")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg := types.DetectionConfig{
		MoatLowerLimit:    moatLimit,
		MoatSearchDist:    moatDist,
		RampartSearchDist: rampartDist,
		Workers:           workers,
		DataDir:           dataDir,
	}.WithDefaults()

	profiles, loadSummary, err := profile.LoadDir(dataDir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d profiles from %d crossing files (%d files skipped)\n\n",
		loadSummary.Profiles, loadSummary.Files, loadSummary.Failed)
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to process: run 'shelf-engine fronts' first")
	}

	ctx := context.Background()
	results, summary, err := detect.DetectBatch(ctx, profiles, cfg, os.Stdout)
	if err != nil {
		return err
	}

	s, err := store.Open(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveBatch(ctx, profiles, results); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	fmt.Printf("Saved %d results to the result database.\n", summary.Total())

	writeColumns, _ := cmd.Flags().GetBool("columns")
	if writeColumns {
		path := filepath.Join(dataDir, "results", "columns.yaml")
		data, err := yaml.Marshal(detect.BuildColumns(results))
		if err != nil {
			return fmt.Errorf("marshaling columns: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing columns snapshot: %w", err)
		}
		fmt.Printf("Columnar snapshot written to %s\n", path)
	}
	return nil
}
