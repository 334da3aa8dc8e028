// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile loads front-crossing records produced by the upstream
// ice-front detector. Each YAML file under the fronts directory holds the
// crossings for one granule; heights with no detected front carry .nan.
package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/cryolab/shelf-engine/pkg/types"
)

// frontsDir is the subdirectory under the data base for crossing files.
const frontsDir = "fronts"

// crossingFile is the on-disk layout written by the fronts stage.
type crossingFile struct {
	Granule  string           `yaml:"granule"`
	Profiles []*types.Profile `yaml:"profiles"`
}

// LoadSummary holds counts from a directory load.
type LoadSummary struct {
	Files    int // crossing files read successfully
	Failed   int // files skipped due to parse or validation errors
	Profiles int // profiles loaded
}

// LoadFile reads one crossing file and validates every profile in it. The
// granule recorded at file level is stamped onto profiles that omit it.
func LoadFile(path string) ([]*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf crossingFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, p := range cf.Profiles {
		if p.Granule == "" {
			p.Granule = cf.Granule
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cf.Profiles, nil
}

// LoadDir reads all crossing files under dataDir/fronts/, in lexical order
// so batch output is reproducible. A file that fails to parse or validate
// is reported to w and skipped; the rest of the directory still loads.
func LoadDir(dataDir string, w io.Writer) ([]*types.Profile, LoadSummary, error) {
	dir := filepath.Join(dataDir, frontsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, LoadSummary{}, fmt.Errorf("reading fronts directory %s: %w", dir, err)
	}

	var (
		profiles []*types.Profile
		summary  LoadSummary
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		ps, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		profiles = append(profiles, ps...)
		summary.Files++
		summary.Profiles += len(ps)
	}

	return profiles, summary, nil
}

// WriteFile writes a crossing file for one granule. Used by the fronts
// stage and by tests building fixtures.
func WriteFile(path, granule string, profiles []*types.Profile) error {
	data, err := yaml.Marshal(crossingFile{Granule: granule, Profiles: profiles})
	if err != nil {
		return fmt.Errorf("marshaling crossings for %s: %w", granule, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating fronts directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
