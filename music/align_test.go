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
	"math/rand"
	"testing"

	"github.com/defsub/shelf/lib/hungarian"
	"github.com/defsub/shelf/lib/musicbrainz"
)

func millis(ms int) *int {
	return &ms
}

func canonical() []musicbrainz.Track {
	return []musicbrainz.Track{
		{ID: "t1", Title: "Help!", Length: millis(138000), Recording: musicbrainz.Recording{ID: "rec1"}},
		{ID: "t2", Title: "The Night Before", Length: millis(154000), Recording: musicbrainz.Recording{ID: "rec2"}},
		{ID: "t3", Title: "Yesterday", Length: millis(125000)},
	}
}

func TestLengthSimilarity(t *testing.T) {
	tests := []struct {
		seconds float64
		millis  *int
		expect  float64
	}{
		{100, nil, 0.5},
		{100, millis(100000), 1.0},
		{100, millis(102999), 1.0},
		{100, millis(103000), 0.7},
		{100, millis(91000), 0.7},
		{100, millis(110000), 0.3},
		{0, millis(200000), 0.3},
	}
	for _, tc := range tests {
		if got := lengthSimilarity(tc.seconds, tc.millis); got != tc.expect {
			t.Errorf("lengthSimilarity(%v, %v) = %v, want %v", tc.seconds, tc.millis, got, tc.expect)
		}
	}
}

func TestAlignCost(t *testing.T) {
	track := canonical()[0]
	if c := alignCost(Item{Title: "Help!", Length: 138}, track); c != 0 {
		t.Errorf("perfect cost %d", c)
	}
	if c := alignCost(Item{Title: "Help!", Length: 138}, musicbrainz.Track{Title: "Help!"}); c != 2500 {
		t.Errorf("unknown length cost %d", c)
	}
}

func TestAlignEmptyCanonical(t *testing.T) {
	items := []Item{{Title: "a"}, {Title: "b"}}
	result, n := AlignTracks(items, nil)
	if n != 0 || len(result) != 2 || result[0].Title != "a" || result[0].MBTrackID != "" {
		t.Errorf("expected unchanged items, got %+v", result)
	}
}

func TestAlignShuffled(t *testing.T) {
	items := []Item{
		{Path: "c", Title: "yesterday", Length: 125},
		{Path: "a", Title: "help", Length: 139},
		{Path: "b", Title: "night before", Length: 150},
	}
	result, n := AlignTracks(items, canonical())
	if n != 3 {
		t.Fatalf("aligned %d", n)
	}
	expect := map[string][2]string{
		"a": {"Help!", "rec1"},
		"b": {"The Night Before", "rec2"},
		"c": {"Yesterday", "t3"},
	}
	for _, item := range result {
		e := expect[item.Path]
		if item.Title != e[0] || item.MBTrackID != e[1] {
			t.Errorf("%s aligned to %s/%s, want %s/%s", item.Path, item.Title, item.MBTrackID, e[0], e[1])
		}
	}
	// input is not modified
	if items[0].Title != "yesterday" || items[0].MBTrackID != "" {
		t.Errorf("input changed %+v", items[0])
	}
}

func TestAlignMoreItems(t *testing.T) {
	items := []Item{
		{Path: "a", Title: "Help!", Length: 138},
		{Path: "x", Title: "zq", Length: 999},
		{Path: "c", Title: "Yesterday", Length: 125},
	}
	tracks := []musicbrainz.Track{canonical()[0], canonical()[2]}
	result, n := AlignTracks(items, tracks)
	if n != 2 {
		t.Fatalf("aligned %d", n)
	}
	if result[1].Title != "zq" || result[1].MBTrackID != "" {
		t.Errorf("extra item was aligned: %+v", result[1])
	}
	if result[0].MBTrackID != "rec1" || result[2].MBTrackID != "t3" {
		t.Errorf("got %s %s", result[0].MBTrackID, result[2].MBTrackID)
	}
}

func TestAlignMoreTracks(t *testing.T) {
	items := []Item{{Path: "b", Title: "The Night Before", Length: 154}}
	result, n := AlignTracks(items, canonical())
	if n != 1 || result[0].MBTrackID != "rec2" {
		t.Errorf("aligned %d %+v", n, result[0])
	}
}

// Aligned items use each canonical track at most once.
func TestAlignBijection(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	words := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for round := 0; round < 50; round++ {
		var items []Item
		var tracks []musicbrainz.Track
		for i := 0; i < 1+r.Intn(6); i++ {
			items = append(items, Item{Title: words[r.Intn(len(words))], Length: float64(r.Intn(300))})
		}
		for j := 0; j < 1+r.Intn(6); j++ {
			tracks = append(tracks, musicbrainz.Track{
				ID:     string(rune('a' + j)),
				Title:  words[r.Intn(len(words))],
				Length: millis(r.Intn(300000)),
			})
		}
		result, n := AlignTracks(items, tracks)
		expect := len(items)
		if len(tracks) < expect {
			expect = len(tracks)
		}
		if n != expect {
			t.Fatalf("round %d aligned %d want %d", round, n, expect)
		}
		used := make(map[string]bool)
		for _, item := range result {
			if item.MBTrackID == "" {
				continue
			}
			if used[item.MBTrackID] {
				t.Fatalf("round %d track %s used twice", round, item.MBTrackID)
			}
			used[item.MBTrackID] = true
		}

		// the chosen assignment is optimal
		cost := costMatrix(items, tracks)
		assign, err := hungarian.Solve(cost)
		if err != nil {
			t.Fatal(err)
		}
		if got, best := total(cost, assign), bruteForce(cost); got != best {
			t.Fatalf("round %d cost %d, best %d", round, got, best)
		}
	}
}

func total(cost [][]int64, assign []int) int64 {
	var sum int64
	for i, j := range assign {
		sum += cost[i][j]
	}
	return sum
}

func bruteForce(cost [][]int64) int64 {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := int64(-1)
	var permute func(k int)
	permute = func(k int) {
		if k == n {
			if c := total(cost, perm); best < 0 || c < best {
				best = c
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(0)
	return best
}
