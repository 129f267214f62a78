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

package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/client"
)

const searchJSON = `{
  "count": 2, "offset": 0,
  "releases": [
    {"id": "r1", "score": 100, "title": "Help!", "date": "1965-08-06",
     "artist-credit": [{"name": "The Beatles", "joinphrase": "", "artist": {"id": "a1", "name": "The Beatles"}}],
     "media": [{"position": 1, "track-count": 14}]},
    {"id": "r2", "score": 90, "title": "Help!", "date": "1965",
     "artist-credit": [{"name": "", "joinphrase": "", "artist": {"id": "a1", "name": "The Beatles"}}]}
  ]
}`

const releaseJSON = `{
  "id": "r1", "title": "Help!", "date": "1965-08-06",
  "artist-credit": [
    {"name": "Simon", "joinphrase": " & ", "artist": {"id": "a2", "name": "Paul Simon"}},
    {"name": "Garfunkel", "joinphrase": "", "artist": {"id": "a3", "name": "Art Garfunkel"}}
  ],
  "media": [
    {"position": 1, "tracks": [
      {"id": "t1", "number": "1", "title": "Help!", "length": 138000, "recording": {"id": "rec1", "title": "Help!"}},
      {"id": "t2", "number": "2", "title": "The Night Before", "recording": {"id": "rec2"}}
    ]},
    {"position": 2, "tracks": [
      {"id": "t3", "number": "1", "title": "Yesterday", "length": 125000, "recording": {"id": ""}}
    ]}
  ]
}`

func testMusicBrainz(t *testing.T, handler http.HandlerFunc) *MusicBrainz {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := client.NewClient(&config.ClientConfig{UserAgent: "shelf-test", Timeout: 5 * time.Second},
		client.NewRateLimiter(time.Millisecond))
	return NewWithClient(c, server.URL+"/ws/2", server.URL)
}

func TestSearchReleases(t *testing.T) {
	m := testMusicBrainz(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/release" {
			t.Errorf("path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "artist:The Beatles AND release:Help!" {
			t.Errorf("query %q", q.Get("query"))
		}
		if q.Get("limit") != "5" || q.Get("fmt") != "json" {
			t.Errorf("params %v", q)
		}
		w.Write([]byte(searchJSON))
	})

	releases, err := m.SearchReleases(context.Background(), "The Beatles", "Help!", 5)
	if err != nil {
		t.Fatalf("SearchReleases %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("got %d releases", len(releases))
	}
	if releases[0].Year() != 1965 || releases[1].Year() != 1965 {
		t.Errorf("years %d %d", releases[0].Year(), releases[1].Year())
	}
	if releases[1].ArtistName() != "The Beatles" {
		t.Errorf("artist fallback %q", releases[1].ArtistName())
	}
}

func TestLookupRelease(t *testing.T) {
	m := testMusicBrainz(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/release/r1" {
			t.Errorf("path %s", r.URL.Path)
		}
		if r.URL.Query().Get("inc") != "recordings artist-credits" &&
			r.URL.RawQuery != "inc=recordings+artist-credits&fmt=json" {
			t.Errorf("query %s", r.URL.RawQuery)
		}
		w.Write([]byte(releaseJSON))
	})

	release, err := m.LookupRelease(context.Background(), "r1")
	if err != nil {
		t.Fatalf("LookupRelease %v", err)
	}
	if release.ArtistName() != "Simon & Garfunkel" {
		t.Errorf("artist %q", release.ArtistName())
	}
	tracks := release.Tracks()
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks", len(tracks))
	}
	if tracks[0].Length == nil || *tracks[0].Length != 138000 {
		t.Errorf("length %v", tracks[0].Length)
	}
	if tracks[1].Length != nil {
		t.Errorf("expected unknown length")
	}
	if tracks[2].Title != "Yesterday" || tracks[2].RecordingID() != "t3" {
		t.Errorf("track %+v", tracks[2])
	}
}

func TestYear(t *testing.T) {
	tests := map[string]int{
		"":           0,
		"1965":       1965,
		"1965-08":    1965,
		"1965-08-06": 1965,
		"????":       0,
	}
	for date, want := range tests {
		if got := (Release{Date: date}).Year(); got != want {
			t.Errorf("Year(%q) = %d, want %d", date, got, want)
		}
	}
}

func TestCoverArt(t *testing.T) {
	m := testMusicBrainz(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/release/r1/front":
			w.Write([]byte("\xff\xd8\xff\xe0jpeg"))
		default:
			http.NotFound(w, r)
		}
	})

	art, err := m.CoverArt(context.Background(), "r1")
	if err != nil || len(art) == 0 {
		t.Errorf("CoverArt r1 %v %d", err, len(art))
	}
	art, err = m.CoverArt(context.Background(), "r2")
	if err != nil || art != nil {
		t.Errorf("CoverArt r2 should be empty, got %v %d", err, len(art))
	}
}

func TestOffline(t *testing.T) {
	m := testMusicBrainz(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("offline request reached %s", r.URL.Path)
	})
	m.UseOnlyIfCached(true)
	_, err := m.SearchReleases(context.Background(), "The Beatles", "Help!", 5)
	if !errors.Is(err, client.ErrCacheMiss) {
		t.Errorf("search got %v", err)
	}
	_, err = m.LookupRelease(context.Background(), "r1")
	if !errors.Is(err, client.ErrCacheMiss) {
		t.Errorf("lookup got %v", err)
	}
}
