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
	"strconv"

	"github.com/defsub/shelf/lib/log"
	"github.com/defsub/shelf/lib/search"
)

const indexName = "library"

var indexFields = []string{"title", "artist", "album", "albumartist", "genre"}

func (m *Music) openIndex() error {
	m.search = search.NewSearch(m.config)
	m.search.Fields = indexFields
	err := m.search.Open(indexName)
	if err != nil {
		return err
	}
	return m.syncIndex()
}

func (m *Music) closeIndex() {
	if m.search != nil {
		m.search.Close()
	}
}

// syncIndex rebuilds the index when its size disagrees with the database.
func (m *Music) syncIndex() error {
	count, err := m.search.Count()
	if err != nil {
		return err
	}
	var items int64
	err = m.db.Model(&Item{}).Count(&items).Error
	if err != nil {
		return err
	}
	if uint64(items) == count {
		return nil
	}
	log.Printf("rebuilding search index (%d items, %d indexed)\n", items, count)
	return m.Reindex()
}

// Reindex replaces the full text index with the current items.
func (m *Music) Reindex() error {
	err := m.search.Reset()
	if err != nil {
		return err
	}
	items, err := m.allItems()
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := m.indexItem(item); err != nil {
			return err
		}
	}
	return nil
}

func itemFields(item Item) search.FieldMap {
	return search.FieldMap{
		"title":       item.Title,
		"artist":      item.Artist,
		"album":       item.Album,
		"albumartist": item.AlbumArtist,
		"genre":       item.Genre,
	}
}

func (m *Music) indexItem(item Item) error {
	return m.search.Index(itemKey(item.ID), itemFields(item))
}

func (m *Music) unindexItem(id uint) error {
	return m.search.Delete(itemKey(id))
}

func (m *Music) fullTextIDs(text string) ([]uint, error) {
	keys, err := m.search.SearchAll(text)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
