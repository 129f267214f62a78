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
	"path/filepath"
	"strings"

	"github.com/defsub/shelf/lib/pathfmt"
	"github.com/defsub/shelf/lib/str"
)

func pathValues(item Item) pathfmt.Values {
	year, disc := "", ""
	if item.Year > 0 {
		year = str.Itoa(item.Year)
	}
	if item.Disc > 0 {
		disc = str.Itoa(item.Disc)
	}
	return pathfmt.Values{
		"albumartist": item.EffectiveAlbumArtist(),
		"artist":      item.Artist,
		"album":       item.Album,
		"year":        year,
		"track":       fmt.Sprintf("%02d", item.Track),
		"title":       item.Title,
		"disc":        disc,
		"genre":       item.Genre,
	}
}

// cleanElements keeps a formatted path inside the library.
func cleanElements(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case ".", "..":
			p = "_"
		}
		result = append(result, p)
	}
	return filepath.Join(result...)
}

// Destination is where item belongs in the library.
func (m *Music) Destination(item Item) (string, error) {
	rel, err := pathfmt.Format(m.config.Paths.Format, pathValues(item))
	if err != nil {
		return "", err
	}
	rel = cleanElements(rel)
	if rel == "" {
		return "", fmt.Errorf("empty path for %s", item.Path)
	}
	ext := strings.ToLower(filepath.Ext(item.Path))
	return filepath.Join(m.config.Library.Directory, rel+ext), nil
}

func (m *Music) coverPath(album Album, ext string) string {
	return filepath.Join(m.config.Library.Directory,
		cleanElements(pathfmt.Sanitize(album.AlbumArtist)),
		cleanElements(pathfmt.Sanitize(album.Album)),
		"cover."+ext)
}
