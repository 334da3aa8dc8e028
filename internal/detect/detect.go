// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect implements rampart-moat detection on front-crossing
// profiles: a direction-aware, two-phase greedy walk inshore from the
// detected front point, finding first the deepest qualifying depression
// (the moat) and then the local high point guarding it (the rampart).
package detect

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/cryolab/shelf-engine/pkg/types"
)

// BatchSummary holds counts from a batch detection run.
type BatchSummary struct {
	Detected     int // profiles with a qualifying moat
	NoMoat       int // profiles with a front but no moat
	MissingFront int // profiles the upstream step found no front on
	ShortBeams   int // walks that ran off the end of a profile
}

// Total returns the number of profiles processed.
func (s BatchSummary) Total() int {
	return s.Detected + s.NoMoat + s.MissingFront
}

// DetectProfile runs the rampart-moat search on a single profile. It is a
// pure function of the profile and the search constants; profiles are never
// mutated. The second return value counts short-beam terminations (0-2).
//
// A profile with no detected front short-circuits to an all-undefined
// result with RMFlag false. A moat is detected when the moat walk moved off
// the front height; only then does the rampart walk run.
func DetectProfile(p *types.Profile, cfg types.DetectionConfig) (types.Result, int) {
	res := types.Result{
		Moat:        types.UndefinedFeature(),
		Rampart:     types.UndefinedFeature(),
		TrackNode:   TrackNode(p.Direction),
		CycleNumber: p.Cycle,
	}

	if !p.HasFront() {
		return res, 0
	}

	sign := TraversalSign(p.Direction)
	shortBeams := 0

	moat, short := locateMoat(p, sign, cfg)
	if short {
		shortBeams++
	}
	if moat.height == p.FrontHeight {
		return res, shortBeams
	}

	res.RMFlag = true
	res.Moat = featureAt(p, moat.index)

	rampart, short := locateRampart(p, sign, cfg)
	if short {
		shortBeams++
	}
	res.Rampart = featureAt(p, rampart.index)

	return res, shortBeams
}

// featureAt assembles a Feature from the profile's aligned sequences.
func featureAt(p *types.Profile, idx int) types.Feature {
	return types.Feature{
		Height:    p.Height[idx],
		Index:     idx,
		X:         p.X[idx],
		Y:         p.Y[idx],
		XDist:     p.XDist[idx],
		XAtc:      p.XAtc[idx],
		DeltaTime: p.DeltaTime[idx],
	}
}

// DetectBatch runs the search over all profiles with a bounded worker pool.
// Profiles are independent, so the only synchronization is index-assigned
// result slots; results[i] always corresponds to profiles[i]. Per-profile
// status lines and a trailing summary are written to w after all workers
// finish, in input order.
//
// No per-profile condition is fatal: a malformed profile degrades to an
// all-undefined result. The only error returned is context cancellation.
func DetectBatch(ctx context.Context, profiles []*types.Profile, cfg types.DetectionConfig, w io.Writer) ([]types.Result, BatchSummary, error) {
	cfg = cfg.WithDefaults()

	results := make([]types.Result, len(profiles))
	shorts := make([]int, len(profiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, p := range profiles {
		i, p := i, p
		select {
		case <-ctx.Done():
			return nil, BatchSummary{}, ctx.Err()
		default:
		}
		g.Go(func() error {
			results[i], shorts[i] = DetectProfile(p, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BatchSummary{}, err
	}

	var summary BatchSummary
	for i, r := range results {
		p := profiles[i]
		switch {
		case !p.HasFront():
			fmt.Fprintf(w, "no front %s/%s cycle %d\n", p.Granule, p.Beam, p.Cycle)
			summary.MissingFront++
		case r.RMFlag:
			fmt.Fprintf(w, "detected %s/%s cycle %d: moat h=%.2f at %d, rampart h=%.2f at %d\n",
				p.Granule, p.Beam, p.Cycle,
				r.Moat.Height, r.Moat.Index, r.Rampart.Height, r.Rampart.Index)
			summary.Detected++
		default:
			fmt.Fprintf(w, "no moat  %s/%s cycle %d\n", p.Granule, p.Beam, p.Cycle)
			summary.NoMoat++
		}
		summary.ShortBeams += shorts[i]
	}

	fmt.Fprintf(w, "\nBatch summary: %d detected, %d no moat, %d no front, %d short beams (total: %d)\n",
		summary.Detected, summary.NoMoat, summary.MissingFront, summary.ShortBeams, summary.Total())

	return results, summary, nil
}
