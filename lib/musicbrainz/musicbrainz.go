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
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/client"
	"github.com/defsub/shelf/lib/date"
)

const (
	DefaultBaseURL     = "https://musicbrainz.org/ws/2"
	DefaultCoverArtURL = "https://coverartarchive.org"
)

type MusicBrainz struct {
	client      *client.Client
	baseURL     string
	coverArtURL string
}

// NewMusicBrainz creates a client sharing one rate limiter across release
// searches, lookups and cover art requests.
func NewMusicBrainz(config *config.Config) *MusicBrainz {
	interval := config.MusicBrainz.RateLimit
	if interval <= 0 {
		interval = time.Second
	}
	limiter := client.NewRateLimiter(interval)
	return NewWithClient(client.NewClient(&config.Client, limiter),
		config.MusicBrainz.BaseURL, config.MusicBrainz.CoverArtURL)
}

func NewWithClient(c *client.Client, baseURL, coverArtURL string) *MusicBrainz {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coverArtURL == "" {
		coverArtURL = DefaultCoverArtURL
	}
	return &MusicBrainz{
		client:      c,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		coverArtURL: strings.TrimSuffix(coverArtURL, "/"),
	}
}

// UseOnlyIfCached answers only from the http cache; anything else fails
// with client.ErrCacheMiss.
func (m *MusicBrainz) UseOnlyIfCached(enabled bool) {
	m.client.UseOnlyIfCached(enabled)
}

type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Disambiguation string `json:"disambiguation"`
}

type ArtistCredit struct {
	Name   string `json:"name"`
	Join   string `json:"joinphrase"`
	Artist Artist `json:"artist"`
}

func (ac ArtistCredit) name() string {
	if ac.Name != "" {
		return ac.Name
	}
	return ac.Artist.Name
}

type Recording struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Length *int   `json:"length"`
}

type Track struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Length    *int      `json:"length"` // milliseconds
	Recording Recording `json:"recording"`
}

// RecordingID falls back to the track id when no recording is attached.
func (t Track) RecordingID() string {
	if t.Recording.ID != "" {
		return t.Recording.ID
	}
	return t.ID
}

type Media struct {
	Title      string  `json:"title"`
	Format     string  `json:"format"`
	Position   int     `json:"position"`
	TrackCount int     `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

type CoverArtArchive struct {
	Count   int  `json:"count"`
	Artwork bool `json:"artwork"`
	Front   bool `json:"front"`
}

type ReleaseGroup struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	PrimaryType string `json:"primary-type"`
}

type Release struct {
	ID              string          `json:"id"`
	Score           int             `json:"score"`
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Disambiguation  string          `json:"disambiguation"`
	Country         string          `json:"country"`
	Status          string          `json:"status"`
	Media           []Media         `json:"media"`
	ReleaseGroup    ReleaseGroup    `json:"release-group"`
	CoverArtArchive CoverArtArchive `json:"cover-art-archive"`
	ArtistCredit    []ArtistCredit  `json:"artist-credit"`
}

// ArtistName joins the credited names with their join phrases.
func (r Release) ArtistName() string {
	var sb strings.Builder
	for _, ac := range r.ArtistCredit {
		sb.WriteString(ac.name())
		sb.WriteString(ac.Join)
	}
	return sb.String()
}

// Year of the release date, or 0.
func (r Release) Year() int {
	return date.Year(r.Date)
}

// Tracks flattens all media in order.
func (r Release) Tracks() []Track {
	var tracks []Track
	for _, m := range r.Media {
		tracks = append(tracks, m.Tracks...)
	}
	return tracks
}

type ReleasesPage struct {
	Releases []Release `json:"releases"`
	Offset   int       `json:"offset"`
	Count    int       `json:"count"`
}

// SearchReleases finds up to limit releases by artist and release title.
func (m *MusicBrainz) SearchReleases(ctx context.Context, artist, album string, limit int) ([]Release, error) {
	query := fmt.Sprintf("artist:%s AND release:%s", artist, album)
	url := fmt.Sprintf("%s/release?query=%s&limit=%d&fmt=json",
		m.baseURL, url.QueryEscape(query), limit)
	var result ReleasesPage
	err := m.client.GetJson(ctx, url, &result)
	if err != nil {
		return nil, err
	}
	return result.Releases, nil
}

// LookupRelease fetches a release with recordings and artist credits.
func (m *MusicBrainz) LookupRelease(ctx context.Context, reid string) (*Release, error) {
	inc := []string{"recordings", "artist-credits"}
	url := fmt.Sprintf("%s/release/%s?inc=%s&fmt=json",
		m.baseURL, url.PathEscape(reid), strings.Join(inc, "+"))
	var result Release
	err := m.client.GetJson(ctx, url, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CoverArt returns the front cover image, or nil when the archive has none.
func (m *MusicBrainz) CoverArt(ctx context.Context, reid string) ([]byte, error) {
	url := fmt.Sprintf("%s/release/%s/front", m.coverArtURL, url.PathEscape(reid))
	_, body, err := m.client.Get(ctx, url)
	if client.IsNotFound(err) {
		return nil, nil
	}
	return body, err
}
