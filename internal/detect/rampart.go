// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import "github.com/cryolab/shelf-engine/pkg/types"

// locateRampart verifies that Point B is the local high point near the
// front by walking a short distance inshore for a strictly higher sample.
// Unlike the moat search the walk always runs its full budget: a low sample
// does not disqualify a higher one further on. The returned candidate is
// never lower than Point B.
func locateRampart(p *types.Profile, sign int, cfg types.DetectionConfig) (candidate, bool) {
	return walk(p, sign, stepBudget(cfg.RampartSearchDist, cfg.SampleSpacing), walkPolicy{
		maxDist: cfg.RampartSearchDist,
		accept: func(h, best float64) bool {
			return h > best
		},
	})
}
