// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// Direction is the acquisition direction of a ground-track profile.
type Direction string

const (
	DirectionAscending  Direction = "ascending"
	DirectionDescending Direction = "descending"
	DirectionUnknown    Direction = "unknown"
)

// Profile holds one ground-track crossing of an ice-shelf front as produced
// by the upstream front detector. All per-sample sequences are aligned by
// sample index. A profile with no detected front carries NaN in FrontHeight.
type Profile struct {
	// Granule identifies the source granule file.
	Granule string `json:"granule" yaml:"granule"`

	// Beam is the ground-track beam within the granule (e.g. "gt2l").
	Beam string `json:"beam" yaml:"beam"`

	// Direction is the acquisition direction of the pass.
	Direction Direction `json:"direction" yaml:"direction"`

	// Cycle is the data-acquisition cycle number.
	Cycle int `json:"cycle" yaml:"cycle"`

	// FrontHeight is the surface height at the ice-shelf-side front point
	// (Point B). NaN when no front was detected for this profile.
	FrontHeight float64 `json:"h_b" yaml:"h_b"`

	// FrontIndex is the sample index of Point B.
	FrontIndex int `json:"index_b" yaml:"index_b"`

	// FrontXDist is the along-track cumulative distance at Point B.
	FrontXDist float64 `json:"x_dist_b" yaml:"x_dist_b"`

	// Height is the surface height series.
	Height []float64 `json:"h_ss" yaml:"h_ss"`

	// X and Y are planar (polar stereographic) coordinates.
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`

	// XDist is the cumulative along-track distance.
	XDist []float64 `json:"x_dist" yaml:"x_dist"`

	// XAtc is the along-track coordinate in the reference-track frame.
	XAtc []float64 `json:"x_atc" yaml:"x_atc"`

	// DeltaTime is the acquisition time of each sample.
	DeltaTime []float64 `json:"delta_time" yaml:"delta_time"`
}

// Len returns the number of samples in the profile.
func (p *Profile) Len() int { return len(p.Height) }

// HasFront reports whether the upstream step detected a front on this profile.
func (p *Profile) HasFront() bool { return !math.IsNaN(p.FrontHeight) }

// Validate checks the alignment invariant: every per-sample sequence has the
// same length, and FrontIndex addresses a valid sample whenever a front is
// defined.
func (p *Profile) Validate() error {
	n := p.Len()
	for name, s := range map[string][]float64{
		"x":          p.X,
		"y":          p.Y,
		"x_dist":     p.XDist,
		"x_atc":      p.XAtc,
		"delta_time": p.DeltaTime,
	} {
		if len(s) != n {
			return fmt.Errorf("profile %s/%s: %s has %d samples, h_ss has %d",
				p.Granule, p.Beam, name, len(s), n)
		}
	}
	if p.HasFront() && (p.FrontIndex < 0 || p.FrontIndex >= n) {
		return fmt.Errorf("profile %s/%s: front index %d out of range [0,%d)",
			p.Granule, p.Beam, p.FrontIndex, n)
	}
	return nil
}
