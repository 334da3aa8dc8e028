// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the shelf-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cryolab/shelf-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds archive credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the shelf-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "shelf-engine",
	Short: "Rampart-moat detection over ice-shelf front crossings",
	Long: `shelf-engine detects rampart-moat micro-topography in satellite surface
height profiles that cross an ice-shelf front. The pipeline downloads height
granules from the Earthdata archive, runs the upstream ice-front detector to
locate front crossings, walks each profile to find the moat and rampart, and
stores per-profile results for querying, export, and reporting.

Each pipeline stage is a subcommand: fetch, fronts, detect, results, and
report. Stages are idempotent; re-running a stage skips work that is already
on disk and replaces stored results for re-detected profiles.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./shelf-engine.yaml or ~/.config/shelf-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base data directory (contains granules/, fronts/, results/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("shelf-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "shelf-engine"))
		}
	}

	viper.SetEnvPrefix("SHELF_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
