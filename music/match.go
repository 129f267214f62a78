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
	"github.com/defsub/shelf/lib/musicbrainz"
)

const trackCountBonus = 0.2

// Score rates how well release matches the candidate, scaled by 100.
func Score(c Candidate, release musicbrainz.Release) int {
	score := similarity(c.Artist, release.ArtistName()) +
		similarity(c.Album, release.Title)
	if len(release.Tracks()) == len(c.Items) {
		score += trackCountBonus
	}
	return int(score * 100)
}

// PickRelease returns the highest scoring release, preferring the earliest
// on ties, or false when there are none.
func PickRelease(c Candidate, releases []musicbrainz.Release) (musicbrainz.Release, bool) {
	best, bestScore := -1, 0
	for i, r := range releases {
		score := Score(c, r)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return musicbrainz.Release{}, false
	}
	return releases[best], true
}
