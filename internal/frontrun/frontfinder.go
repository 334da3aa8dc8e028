// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontrun

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cryolab/shelf-engine/internal/container"
)

// FrontFinder runs the ice-front detector container image over granule
// files. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type FrontFinder struct {
	runtime container.Runtime
	image   string
}

// NewFrontFinder creates a detector that pipes granules through the given
// container image. It verifies that the image exists locally before
// returning.
func NewFrontFinder(rt container.Runtime, image string) (*FrontFinder, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("front detector image not available in %s: %w", rt.Name(), err)
	}
	return &FrontFinder{runtime: rt, image: image}, nil
}

// Detect reads the granule at granulePath, pipes it through the detector
// container, and returns the crossing YAML it emits. The granule filename is
// passed so the detector can stamp it into the record.
func (f *FrontFinder) Detect(granulePath string) ([]byte, error) {
	file, err := os.Open(granulePath)
	if err != nil {
		return nil, fmt.Errorf("opening granule %s: %w", granulePath, err)
	}
	defer file.Close()

	args := []string{"--granule-name", filepath.Base(granulePath)}
	var out bytes.Buffer
	if err := f.runtime.Run(f.image, args, file, &out); err != nil {
		return nil, fmt.Errorf("running front detector on %s: %w", granulePath, err)
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("front detector produced empty output for %s", granulePath)
	}
	return out.Bytes(), nil
}
