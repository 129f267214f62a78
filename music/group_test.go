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
	"fmt"
	"math/rand"
	"testing"

	"golang.org/x/text/cases"
)

func TestGroupEmpty(t *testing.T) {
	if c := Group(nil); len(c) != 0 {
		t.Errorf("expected no candidates, got %d", len(c))
	}
}

func TestGroup(t *testing.T) {
	items := []Item{
		{Path: "1", Artist: "The Beatles", Album: "Help!"},
		{Path: "2", Artist: "Miles Davis", Album: "Kind of Blue"},
		{Path: "3", Artist: "the beatles", Album: "HELP!"},
		{Path: "4", Artist: "Various", AlbumArtist: "The Beatles", Album: "help!"},
		{Path: "5", Artist: "The Beatles", Album: "Abbey Road"},
		{Path: "6", Artist: "Miles Davis", AlbumArtist: "Miles Davis Quintet", Album: "Kind of Blue"},
	}
	candidates := Group(items)
	if len(candidates) != 4 {
		t.Fatalf("got %d candidates", len(candidates))
	}

	// every item lands in exactly one candidate
	seen := make(map[string]int)
	for _, c := range candidates {
		for _, item := range c.Items {
			seen[item.Path]++
		}
	}
	for _, item := range items {
		if seen[item.Path] != 1 {
			t.Errorf("item %s seen %d times", item.Path, seen[item.Path])
		}
	}

	for n := 1; n < len(candidates); n++ {
		a, b := candidates[n-1].Key, candidates[n].Key
		if a.Artist > b.Artist || (a.Artist == b.Artist && a.Album >= b.Album) {
			t.Errorf("candidates not sorted: %+v before %+v", a, b)
		}
	}

	expect := []struct {
		artist string
		album  string
		paths  []string
	}{
		{"Miles Davis", "Kind of Blue", []string{"2"}},
		{"Miles Davis Quintet", "Kind of Blue", []string{"6"}},
		{"The Beatles", "Abbey Road", []string{"5"}},
		{"The Beatles", "Help!", []string{"1", "3", "4"}},
	}
	for n, e := range expect {
		c := candidates[n]
		if c.Artist != e.artist || c.Album != e.album {
			t.Errorf("candidate %d is %s - %s", n, c.Artist, c.Album)
		}
		if len(c.Items) != len(e.paths) {
			t.Fatalf("candidate %d has %d items", n, len(c.Items))
		}
		for i, p := range e.paths {
			if c.Items[i].Path != p {
				t.Errorf("candidate %d item %d is %s, want %s", n, i, c.Items[i].Path, p)
			}
		}
	}
}

func TestGroupUnicodeFold(t *testing.T) {
	items := []Item{
		{Path: "1", Artist: "Straße", Album: "Ölbild"},
		{Path: "2", Artist: "STRASSE", Album: "ölbild"},
	}
	candidates := Group(items)
	if len(candidates) != 1 || len(candidates[0].Items) != 2 {
		t.Fatalf("expected one group, got %+v", candidates)
	}
	if candidates[0].Artist != "Straße" {
		t.Errorf("display artist %q", candidates[0].Artist)
	}
}

func TestEffectiveAlbumArtist(t *testing.T) {
	if a := (Item{Artist: "A"}).EffectiveAlbumArtist(); a != "A" {
		t.Errorf("got %s", a)
	}
	if a := (Item{Artist: "A", AlbumArtist: "B"}).EffectiveAlbumArtist(); a != "B" {
		t.Errorf("got %s", a)
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := map[string]AudioFormat{
		"mp3":   MP3,
		".MP3":  MP3,
		"flac":  FLAC,
		"ogg":   OggVorbis,
		"oga":   OggVorbis,
		"opus":  Opus,
		"m4a":   AAC,
		"aac":   AAC,
		"alac":  ALAC,
		"wav":   WAV,
		"aiff":  AIFF,
		"aif":   AIFF,
		"txt":   UnknownFormat,
		"":      UnknownFormat,
		".flac": FLAC,
	}
	for ext, f := range tests {
		if got := FormatFromExtension(ext); got != f {
			t.Errorf("%q: got %s want %s", ext, got, f)
		}
	}
	if FormatOf("/music/A/B/01 - song.Flac") != FLAC {
		t.Errorf("FormatOf")
	}
}

// Random libraries split into disjoint candidates covering every item once.
func TestGroupPartition(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	artists := []string{"The Beatles", "the beatles", "THE BEATLES", "Björk", "BJÖRK", "Miles Davis", ""}
	albums := []string{"Help!", "help!", "Post", "POST", "Kind of Blue", ""}
	fold := cases.Fold()
	for round := 0; round < 100; round++ {
		var items []Item
		n := r.Intn(40)
		for i := 0; i < n; i++ {
			item := Item{
				Path:   fmt.Sprintf("%d/%d", round, i),
				Artist: artists[r.Intn(len(artists))],
				Album:  albums[r.Intn(len(albums))],
			}
			if r.Intn(3) == 0 {
				item.AlbumArtist = artists[r.Intn(len(artists))]
			}
			items = append(items, item)
		}

		candidates := Group(items)
		order := make(map[string]int)
		for i, item := range items {
			order[item.Path] = i
		}
		seen := make(map[string]bool)
		keys := make(map[CandidateKey]bool)
		count := 0
		for _, c := range candidates {
			if keys[c.Key] {
				t.Fatalf("round %d key %+v repeated", round, c.Key)
			}
			keys[c.Key] = true
			if len(c.Items) == 0 {
				t.Fatalf("round %d empty candidate %+v", round, c.Key)
			}
			last := -1
			for _, item := range c.Items {
				expect := CandidateKey{
					Artist: fold.String(item.EffectiveAlbumArtist()),
					Album:  fold.String(item.Album),
				}
				if c.Key != expect {
					t.Fatalf("round %d item %s in %+v, want %+v", round, item.Path, c.Key, expect)
				}
				if seen[item.Path] {
					t.Fatalf("round %d item %s grouped twice", round, item.Path)
				}
				seen[item.Path] = true
				if order[item.Path] < last {
					t.Fatalf("round %d item %s out of order", round, item.Path)
				}
				last = order[item.Path]
				count++
			}
		}
		if count != len(items) {
			t.Fatalf("round %d grouped %d of %d items", round, count, len(items))
		}
	}
}
