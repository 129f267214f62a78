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
	"os"
	"path/filepath"
	"strings"

	"github.com/defsub/shelf/lib/date"
	"github.com/defsub/shelf/lib/str"
	"go.senan.xyz/taglib"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"

	tagMusicBrainzAlbumID = "MUSICBRAINZ_ALBUMID"
)

func firstTag(tags map[string][]string, key string) string {
	if v := tags[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// ReadItem reads tags and audio properties from the file at path.
func ReadItem(path string) (Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Item{}, err
	}
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return Item{}, fmt.Errorf("read tags %s: %w", path, err)
	}
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Item{}, fmt.Errorf("read properties %s: %w", path, err)
	}
	item := itemFromTags(path, tags)
	item.Length = props.Length.Seconds()
	item.Bitrate = int(props.Bitrate)
	item.Mtime = info.ModTime().UTC()
	return item, nil
}

func itemFromTags(path string, tags map[string][]string) Item {
	track, _ := str.AtoiPair(firstTag(tags, taglib.TrackNumber))
	disc, _ := str.AtoiPair(firstTag(tags, taglib.DiscNumber))
	item := Item{
		Path:        path,
		Title:       firstTag(tags, taglib.Title),
		Artist:      firstTag(tags, taglib.Artist),
		Album:       firstTag(tags, taglib.Album),
		AlbumArtist: firstTag(tags, taglib.AlbumArtist),
		Genre:       firstTag(tags, taglib.Genre),
		Year:        date.Year(firstTag(tags, taglib.Date)),
		Track:       track,
		Disc:        disc,
		Format:      FormatOf(path).String(),
		MBTrackID:   firstTag(tags, taglib.MusicBrainzTrackID),
		MBAlbumID:   firstTag(tags, tagMusicBrainzAlbumID),
	}
	applyDefaults(&item)
	return item
}

// applyDefaults fills in a missing title, artist or album.
func applyDefaults(item *Item) {
	if item.Title == "" {
		base := filepath.Base(item.Path)
		item.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if item.Artist == "" {
		item.Artist = UnknownArtist
	}
	if item.Album == "" {
		item.Album = UnknownAlbum
	}
}

func itemTags(item Item) map[string][]string {
	tags := map[string][]string{
		taglib.Title:              {item.Title},
		taglib.Artist:             {item.Artist},
		taglib.Album:              {item.Album},
		taglib.AlbumArtist:        {item.AlbumArtist},
		taglib.Genre:              {item.Genre},
		taglib.MusicBrainzTrackID: {item.MBTrackID},
		tagMusicBrainzAlbumID:     {item.MBAlbumID},
		taglib.Date:               nil,
		taglib.TrackNumber:        nil,
		taglib.DiscNumber:         nil,
	}
	if item.Year > 0 {
		tags[taglib.Date] = []string{str.Itoa(item.Year)}
	}
	if item.Track > 0 {
		tags[taglib.TrackNumber] = []string{str.Itoa(item.Track)}
	}
	if item.Disc > 0 {
		tags[taglib.DiscNumber] = []string{str.Itoa(item.Disc)}
	}
	for k, v := range tags {
		if len(v) == 1 && v[0] == "" {
			tags[k] = nil
		}
	}
	return tags
}

// WriteItemTags writes the item's metadata back to its file. Empty values
// remove the tag.
func WriteItemTags(item Item) error {
	err := taglib.WriteTags(item.Path, itemTags(item), 0)
	if err != nil {
		return fmt.Errorf("write tags %s: %w", item.Path, err)
	}
	return nil
}
