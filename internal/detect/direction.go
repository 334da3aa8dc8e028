// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import "github.com/cryolab/shelf-engine/pkg/types"

// TraversalSign maps the acquisition direction to the index step used when
// walking inshore from the front point: +1 for descending passes (toward
// increasing index), -1 for ascending passes (toward decreasing index).
//
// An unrecognized direction falls through to the ascending walk while the
// stored track node stays 0, so such profiles are still processed and
// downstream readers can tell them apart.
func TraversalSign(d types.Direction) int {
	if d == types.DirectionDescending {
		return 1
	}
	return -1
}

// TrackNode encodes the direction for persistence: 1 ascending,
// 2 descending, 0 anything else.
func TrackNode(d types.Direction) int {
	switch d {
	case types.DirectionAscending:
		return types.TrackNodeAscending
	case types.DirectionDescending:
		return types.TrackNodeDescending
	default:
		return types.TrackNodeUnknown
	}
}
