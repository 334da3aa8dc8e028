// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import "github.com/cryolab/shelf-engine/pkg/types"

// Columns holds the per-profile result arrays in persistence layout: one
// named array per result field, all of length equal to the profile count,
// indexed identically to the input profile sequence. Undefined floats are
// NaN and undefined indices -1.
type Columns struct {
	MoatH         []float64 `json:"moat_h" yaml:"moat_h"`
	MoatIndex     []int     `json:"moat_index" yaml:"moat_index"`
	MoatX         []float64 `json:"moat_x" yaml:"moat_x"`
	MoatY         []float64 `json:"moat_y" yaml:"moat_y"`
	MoatXDist     []float64 `json:"moat_x_dist" yaml:"moat_x_dist"`
	MoatXAtc      []float64 `json:"moat_x_atc" yaml:"moat_x_atc"`
	MoatDeltaTime []float64 `json:"moat_delta_time" yaml:"moat_delta_time"`

	RMFlag []bool `json:"rm_flag" yaml:"rm_flag"`

	RampartH         []float64 `json:"rampart_h" yaml:"rampart_h"`
	RampartIndex     []int     `json:"rampart_index" yaml:"rampart_index"`
	RampartX         []float64 `json:"rampart_x" yaml:"rampart_x"`
	RampartY         []float64 `json:"rampart_y" yaml:"rampart_y"`
	RampartXDist     []float64 `json:"rampart_x_dist" yaml:"rampart_x_dist"`
	RampartXAtc      []float64 `json:"rampart_x_atc" yaml:"rampart_x_atc"`
	RampartDeltaTime []float64 `json:"rampart_delta_time" yaml:"rampart_delta_time"`

	TrackNode   []int `json:"track_node" yaml:"track_node"`
	CycleNumber []int `json:"cycle_number" yaml:"cycle_number"`
}

// BuildColumns assembles the column arrays from per-profile results. Pure
// structural work; no recomputation.
func BuildColumns(results []types.Result) Columns {
	n := len(results)
	c := Columns{
		MoatH:         make([]float64, n),
		MoatIndex:     make([]int, n),
		MoatX:         make([]float64, n),
		MoatY:         make([]float64, n),
		MoatXDist:     make([]float64, n),
		MoatXAtc:      make([]float64, n),
		MoatDeltaTime: make([]float64, n),

		RMFlag: make([]bool, n),

		RampartH:         make([]float64, n),
		RampartIndex:     make([]int, n),
		RampartX:         make([]float64, n),
		RampartY:         make([]float64, n),
		RampartXDist:     make([]float64, n),
		RampartXAtc:      make([]float64, n),
		RampartDeltaTime: make([]float64, n),

		TrackNode:   make([]int, n),
		CycleNumber: make([]int, n),
	}

	for i, r := range results {
		c.MoatH[i] = r.Moat.Height
		c.MoatIndex[i] = r.Moat.Index
		c.MoatX[i] = r.Moat.X
		c.MoatY[i] = r.Moat.Y
		c.MoatXDist[i] = r.Moat.XDist
		c.MoatXAtc[i] = r.Moat.XAtc
		c.MoatDeltaTime[i] = r.Moat.DeltaTime

		c.RMFlag[i] = r.RMFlag

		c.RampartH[i] = r.Rampart.Height
		c.RampartIndex[i] = r.Rampart.Index
		c.RampartX[i] = r.Rampart.X
		c.RampartY[i] = r.Rampart.Y
		c.RampartXDist[i] = r.Rampart.XDist
		c.RampartXAtc[i] = r.Rampart.XAtc
		c.RampartDeltaTime[i] = r.Rampart.DeltaTime

		c.TrackNode[i] = r.TrackNode
		c.CycleNumber[i] = r.CycleNumber
	}

	return c
}

// Len returns the number of profiles the columns cover.
func (c Columns) Len() int { return len(c.RMFlag) }
