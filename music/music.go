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
	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/search"
	"gorm.io/gorm"
)

// Music is the library: a database of albums and items plus a full text
// index over the items.
type Music struct {
	config *config.Config
	db     *gorm.DB
	search *search.Search

	readItem func(path string) (Item, error)
}

func NewMusic(config *config.Config) *Music {
	return &Music{config: config, readItem: ReadItem}
}

func (m *Music) Open() (err error) {
	err = m.openDB()
	if err == nil {
		err = m.openIndex()
	}
	return
}

func (m *Music) Close() {
	m.closeIndex()
	m.closeDB()
}
