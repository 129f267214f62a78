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
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/log"
	"github.com/defsub/shelf/lib/musicbrainz"
	"github.com/google/uuid"
)

// Catalog is the release database used to reconcile candidates.
type Catalog interface {
	SearchReleases(ctx context.Context, artist, album string, limit int) ([]musicbrainz.Release, error)
	LookupRelease(ctx context.Context, id string) (*musicbrainz.Release, error)
	CoverArt(ctx context.Context, id string) ([]byte, error)
}

type Report struct {
	ID      string
	Albums  int
	Items   int
	Matched int
	Aligned int
	Skipped int
}

type Importer struct {
	music   *Music
	catalog Catalog
	config  *config.Config
	// Action overrides Import.Action when set.
	Action string

	readItem  func(path string) (Item, error)
	writeTags func(item Item) error
	embedArt  func(path string, art []byte) error
	now       func() time.Time
}

func NewImporter(m *Music, catalog Catalog) *Importer {
	return &Importer{
		music:     m,
		catalog:   catalog,
		config:    m.config,
		readItem:  m.readItem,
		writeTags: WriteItemTags,
		embedArt:  EmbedArt,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (i *Importer) action() string {
	if i.Action != "" {
		return i.Action
	}
	return i.config.Import.Action
}

// Import scans each path and imports what it finds as one session.
func (i *Importer) Import(ctx context.Context, paths ...string) (Report, error) {
	var items []Item
	for _, p := range paths {
		scanned, err := i.Scan(ctx, p)
		if err != nil {
			return Report{}, err
		}
		items = append(items, scanned...)
	}
	if len(items) == 0 {
		log.Printf("no audio files found in %v\n", paths)
	}
	return i.importItems(ctx, items, true)
}

func (i *Importer) importItems(ctx context.Context, items []Item, local bool) (Report, error) {
	report := Report{ID: uuid.New().String()}
	log.Printf("import %s: %d items\n", report.ID, len(items))
	for _, c := range Group(items) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := i.importCandidate(ctx, c, local, &report)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// match finds the catalog release for c, or nil. Catalog failures leave
// the candidate unmatched.
func (i *Importer) match(ctx context.Context, c Candidate) *musicbrainz.Release {
	releases, err := i.catalog.SearchReleases(ctx, c.Artist, c.Album,
		i.config.MusicBrainz.SearchLimit)
	if err != nil {
		log.Printf("search %s - %s: %s\n", c.Artist, c.Album, err)
		return nil
	}
	pick, ok := PickRelease(c, releases)
	if !ok {
		log.Printf("no match for %s - %s\n", c.Artist, c.Album)
		return nil
	}
	release, err := i.catalog.LookupRelease(ctx, pick.ID)
	if err != nil {
		log.Printf("lookup %s: %s\n", pick.ID, err)
		return nil
	}
	log.Printf("matched %s - %s to %s - %s (%d)\n", c.Artist, c.Album,
		release.ArtistName(), release.Title, release.Year())
	return release
}

func (i *Importer) importCandidate(ctx context.Context, c Candidate, local bool, report *Report) error {
	var pending []Item
	for _, item := range c.Items {
		exists, err := i.music.ItemExists(item.Path)
		if err != nil {
			return err
		}
		if exists {
			report.Skipped++
			continue
		}
		pending = append(pending, item)
	}
	if len(pending) == 0 {
		return nil
	}
	c.Items = pending

	log.Printf("importing %s - %s (%d tracks)\n", c.Artist, c.Album, len(c.Items))
	album := Album{
		Album:       c.Album,
		AlbumArtist: c.Artist,
		Year:        c.Items[0].Year,
		ImportID:    report.ID,
		Added:       i.now(),
	}
	items := c.Items
	release := i.match(ctx, c)
	if release != nil {
		report.Matched++
		album.Album = release.Title
		album.AlbumArtist = release.ArtistName()
		if year := release.Year(); year > 0 {
			album.Year = year
		}
		album.MBAlbumID = release.ID
		var aligned int
		items, aligned = AlignTracks(items, release.Tracks())
		report.Aligned += aligned
		for n := range items {
			items[n].Album = album.Album
			items[n].AlbumArtist = album.AlbumArtist
			items[n].MBAlbumID = album.MBAlbumID
			if release.Year() > 0 {
				items[n].Year = album.Year
			}
		}
	}

	var art []byte
	if release != nil && i.config.Import.FetchArt {
		art = i.fetchArt(ctx, &album)
	}

	for _, item := range items {
		inserted, err := i.importItem(item, &album, art, local)
		if err != nil {
			return err
		}
		if inserted {
			report.Items++
		} else {
			report.Skipped++
		}
	}
	if album.ID != 0 {
		report.Albums++
	}
	return nil
}

func (i *Importer) fetchArt(ctx context.Context, album *Album) []byte {
	art, err := i.catalog.CoverArt(ctx, album.MBAlbumID)
	if err != nil {
		log.Printf("cover art %s: %s\n", album.MBAlbumID, err)
		return nil
	}
	if art == nil {
		return nil
	}
	_, ext, err := sniffImage(art)
	if err != nil {
		log.Printf("cover art %s: %s\n", album.MBAlbumID, err)
		return nil
	}
	path := i.music.coverPath(*album, ext)
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err == nil {
		err = os.WriteFile(path, art, 0644)
	}
	if err != nil {
		log.Printf("cover art %s: %s\n", path, err)
		return art
	}
	album.ArtPath = path
	return art
}

// importItem returns false when the item's destination is already in the
// library. The album row is created along with its first item.
func (i *Importer) importItem(item Item, album *Album, art []byte, local bool) (bool, error) {
	dst := item.Path
	if local {
		var err error
		dst, err = i.music.Destination(item)
		if err != nil {
			return false, err
		}
		exists, err := i.music.ItemExists(dst)
		if err != nil || exists {
			return false, err
		}
	}

	if album.ID == 0 {
		if err := i.music.InsertAlbum(album); err != nil {
			return false, err
		}
	}
	item.AlbumID = album.ID
	item.ImportID = album.ImportID
	item.Added = album.Added

	if local {
		action := i.action()
		err := transfer(action, item.Path, dst)
		if err != nil {
			return false, err
		}
		item.Path = dst
		// links point at the originals, which stay untouched
		if action != config.ActionLink {
			i.updateFile(item, art)
		}
	}

	return true, i.music.InsertItem(&item)
}

func (i *Importer) updateFile(item Item, art []byte) {
	if i.config.Import.WriteTags {
		if err := i.writeTags(item); err != nil {
			log.Println(err)
		}
	}
	if i.config.Import.EmbedArt && len(art) > 0 {
		if err := i.embedArt(item.Path, art); err != nil {
			log.Printf("embed art %s: %s\n", item.Path, err)
		}
	}
}
