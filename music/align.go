// Copyright (C) 2020 The Shelf Authors.
//
// This file is part of Shelf.
//
// Shelf is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Shelf is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Shelf.  If not, see <https://www.gnu.org/licenses/>.

package music

import (
	"math"

	"github.com/defsub/shelf/lib/hungarian"
	"github.com/defsub/shelf/lib/musicbrainz"
)

const (
	perfectLengthMillis = 3000
	goodLengthMillis    = 10000
)

func lengthSimilarity(seconds float64, millis *int) float64 {
	if millis == nil {
		return 0.5
	}
	diff := math.Abs(seconds*1000 - float64(*millis))
	switch {
	case diff < perfectLengthMillis:
		return 1.0
	case diff < goodLengthMillis:
		return 0.7
	}
	return 0.3
}

func alignCost(item Item, track musicbrainz.Track) int64 {
	sim := similarity(item.Title, track.Title) + lengthSimilarity(item.Length, track.Length)
	return int64(math.Round(10000 - 5000*sim))
}

// costMatrix is square with size max(len(items), len(tracks)). Cells beyond
// either list are dummies with zero cost.
func costMatrix(items []Item, tracks []musicbrainz.Track) [][]int64 {
	k := len(items)
	if len(tracks) > k {
		k = len(tracks)
	}
	cost := make([][]int64, k)
	for i := range cost {
		cost[i] = make([]int64, k)
		if i >= len(items) {
			continue
		}
		for j := range tracks {
			cost[i][j] = alignCost(items[i], tracks[j])
		}
	}
	return cost
}

// AlignTracks assigns items to canonical tracks with minimum total cost,
// copying the canonical title and recording id into each matched item. It
// returns the updated items and the number of matched pairs.
func AlignTracks(items []Item, tracks []musicbrainz.Track) ([]Item, int) {
	if len(tracks) == 0 || len(items) == 0 {
		return items, 0
	}
	assign, err := hungarian.Solve(costMatrix(items, tracks))
	if err != nil {
		return items, 0
	}
	result := make([]Item, len(items))
	copy(result, items)
	aligned := 0
	for i := range result {
		j := assign[i]
		if j >= len(tracks) {
			continue
		}
		result[i].Title = tracks[j].Title
		result[i].MBTrackID = tracks[j].RecordingID()
		aligned++
	}
	return result, aligned
}
