// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"math"

	"github.com/cryolab/shelf-engine/pkg/types"
)

// walkPolicy configures one outward walk from the front point. The moat and
// rampart searches share the stepping machinery and differ only in these
// fields.
type walkPolicy struct {
	// maxDist gates qualification: a sample at or beyond this along-track
	// distance from Point B is skipped, but the walk continues.
	maxDist float64

	// accept reports whether h replaces the current best candidate.
	accept func(h, best float64) bool

	// stopOnReject ends the walk at the first in-gate sample that fails
	// accept. The moat search sets this (strictly decreasing depression);
	// the rampart search walks its full budget.
	stopOnReject bool
}

// candidate is the running best sample of a walk.
type candidate struct {
	height float64
	index  int
}

// walk steps outward from Point B in the given direction, one sample at a
// time, for at most steps samples, applying pol at each in-range, in-gate
// sample. It starts from the front sample itself, so an unproductive walk
// returns Point B unchanged.
//
// Walking past either end of the profile is the short-beam condition: the
// walk ends there, keeping the best candidate found so far, and the second
// return value reports that it happened. NaN heights never satisfy accept
// and NaN distances never pass the gate, so missing samples propagate
// without special cases.
func walk(p *types.Profile, sign, steps int, pol walkPolicy) (candidate, bool) {
	best := candidate{height: p.FrontHeight, index: p.FrontIndex}

	for i := 1; i <= steps; i++ {
		idx := p.FrontIndex + sign*i
		if idx < 0 || idx >= p.Len() {
			return best, true
		}

		if !(math.Abs(p.XDist[idx]-p.FrontXDist) < pol.maxDist) {
			continue
		}

		if pol.accept(p.Height[idx], best.height) {
			best = candidate{height: p.Height[idx], index: idx}
		} else if pol.stopOnReject {
			break
		}
	}
	return best, false
}

// stepBudget derives the walk step count from a distance budget and the
// nominal sample spacing.
func stepBudget(dist, spacing float64) int {
	return int(dist/spacing) + 1
}
