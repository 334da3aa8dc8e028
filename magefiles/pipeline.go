//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given subcommand and arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Fetch builds the CLI and downloads granules from the archive.
func Fetch() error {
	mg.Deps(Build)
	return run("fetch")
}

// Fronts builds the CLI and runs the ice-front detector over granules.
func Fronts() error {
	mg.Deps(Build)
	return run("fronts")
}

// Detect builds the CLI and runs rampart-moat detection over crossings.
func Detect() error {
	mg.Deps(Build)
	return run("detect")
}

// Report builds the CLI and renders the summary report.
func Report() error {
	mg.Deps(Build)
	return run("report")
}

// Pipeline runs the full fetch, fronts, detect, report sequence.
func Pipeline() error {
	mg.Deps(Build)
	for _, stage := range []string{"fetch", "fronts", "detect", "report"} {
		if err := run(stage); err != nil {
			return err
		}
	}
	return nil
}
