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
	"sort"

	"golang.org/x/text/cases"
)

func candidateKey(item Item) CandidateKey {
	fold := cases.Fold()
	return CandidateKey{
		Artist: fold.String(item.EffectiveAlbumArtist()),
		Album:  fold.String(item.Album),
	}
}

// Group partitions items into album candidates keyed by case folded album
// artist and album. Candidates are sorted by key and items keep their input
// order. Display names come from the first item of each group.
func Group(items []Item) []Candidate {
	index := make(map[CandidateKey]int)
	var candidates []Candidate
	for _, item := range items {
		key := candidateKey(item)
		i, ok := index[key]
		if !ok {
			i = len(candidates)
			index[key] = i
			candidates = append(candidates, Candidate{
				Key:    key,
				Artist: item.EffectiveAlbumArtist(),
				Album:  item.Album,
			})
		}
		candidates[i].Items = append(candidates[i].Items, item)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].Key, candidates[j].Key
		if a.Artist != b.Artist {
			return a.Artist < b.Artist
		}
		return a.Album < b.Album
	})
	return candidates
}
