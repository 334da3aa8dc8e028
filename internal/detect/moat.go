// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import "github.com/cryolab/shelf-engine/pkg/types"

// locateMoat walks inshore from Point B looking for the deepest strictly
// decreasing depression. A sample qualifies only while it is lower than the
// running candidate and still above the height floor; the first in-gate
// sample that breaks the descent ends the search. The returned candidate is
// Point B itself when no depression qualified.
func locateMoat(p *types.Profile, sign int, cfg types.DetectionConfig) (candidate, bool) {
	return walk(p, sign, stepBudget(cfg.MoatSearchDist, cfg.SampleSpacing), walkPolicy{
		maxDist: cfg.MoatSearchDist,
		accept: func(h, best float64) bool {
			return h < best && h > cfg.MoatLowerLimit
		},
		stopOnReject: true,
	})
}
