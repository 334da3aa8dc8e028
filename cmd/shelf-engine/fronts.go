package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryolab/shelf-engine/internal/container"
	"github.com/cryolab/shelf-engine/internal/frontrun"
)

const defaultFrontImage = "frontfinder:latest"

var frontsCmd = &cobra.Command{
	Use:   "fronts",
	Short: "Run the ice-front detector over downloaded granules",
	Long: `Fronts pipes each granule in the granules directory through the
upstream ice-front detector container and writes the resulting crossing
records to the fronts directory. Granules that already have a crossing file
are skipped.

The detector image must be present locally in docker or podman.`,
	RunE: runFronts,
}

func init() {
	frontsCmd.Flags().String("image", defaultFrontImage, "ice-front detector container image")

	rootCmd.AddCommand(frontsCmd)
}

func runFronts(cmd *cobra.Command, args []string) error {
	image, _ := cmd.Flags().GetString("image")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Using container runtime: %s\n", rt.Name())

	detector, err := frontrun.NewFrontFinder(rt, image)
	if err != nil {
		return err
	}

	result, err := frontrun.RunBatch(detector, dataDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d granule(s) failed front detection", result.Failed)
	}
	return nil
}
