// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// Track node codes derived from the acquisition direction.
const (
	TrackNodeUnknown    = 0
	TrackNodeAscending  = 1
	TrackNodeDescending = 2
)

// Feature locates one detected topographic feature (a moat or a rampart)
// within a profile. An undefined feature carries NaN in every float field
// and -1 in Index.
type Feature struct {
	Height    float64 `json:"h" yaml:"h"`
	Index     int     `json:"index" yaml:"index"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	XDist     float64 `json:"x_dist" yaml:"x_dist"`
	XAtc      float64 `json:"x_atc" yaml:"x_atc"`
	DeltaTime float64 `json:"delta_time" yaml:"delta_time"`
}

// UndefinedFeature returns the all-undefined feature value.
func UndefinedFeature() Feature {
	nan := math.NaN()
	return Feature{Height: nan, Index: -1, X: nan, Y: nan, XDist: nan, XAtc: nan, DeltaTime: nan}
}

// Defined reports whether the feature was located.
func (f Feature) Defined() bool { return f.Index >= 0 }

// Result is the rampart-moat detection outcome for one profile. It is
// created once per profile and never mutated afterwards; result i of a
// batch corresponds to profile i of the input.
type Result struct {
	// RMFlag is true iff a qualifying moat was found.
	RMFlag bool `json:"rm_flag" yaml:"rm_flag"`

	// Moat is the deepest qualifying depression inshore of the front.
	// Undefined unless RMFlag is true.
	Moat Feature `json:"moat" yaml:"moat"`

	// Rampart is the local high point at or near the front. Undefined
	// unless RMFlag is true; may equal Point B itself.
	Rampart Feature `json:"rampart" yaml:"rampart"`

	// TrackNode encodes the pass direction: 1 ascending, 2 descending,
	// 0 unknown.
	TrackNode int `json:"track_node" yaml:"track_node"`

	// CycleNumber copies the profile's acquisition cycle.
	CycleNumber int `json:"cycle_number" yaml:"cycle_number"`
}
