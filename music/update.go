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
	"errors"
	"os"
	"strings"
)

func isRemote(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// Refresh re-reads the tags of a local item and saves the changes. Library
// fields such as the album, import and path are kept, as are MusicBrainz
// ids missing from the file.
func (m *Music) Refresh(item Item) (Item, error) {
	if isRemote(item.Path) {
		return item, nil
	}
	fresh, err := m.readItem(item.Path)
	if err != nil {
		return item, err
	}
	fresh.Model = item.Model
	fresh.Path = item.Path
	fresh.AlbumID = item.AlbumID
	fresh.ImportID = item.ImportID
	fresh.Added = item.Added
	if fresh.MBTrackID == "" {
		fresh.MBTrackID = item.MBTrackID
	}
	if fresh.MBAlbumID == "" {
		fresh.MBAlbumID = item.MBAlbumID
	}
	err = m.UpdateItem(&fresh)
	return fresh, err
}

// Remove drops item from the library, deleting its file when asked.
func (m *Music) Remove(item Item, deleteFile bool) error {
	err := m.RemoveItem(item)
	if err != nil {
		return err
	}
	if deleteFile && !isRemote(item.Path) {
		err = os.Remove(item.Path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return err
}
