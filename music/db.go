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
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrDriverNotSupported = errors.New("driver not supported")

func (m *Music) openDB() (err error) {
	var glog logger.Interface
	if !m.config.Library.Database.LogMode {
		glog = logger.Discard
	} else {
		glog = logger.Default
	}
	cfg := &gorm.Config{
		Logger: glog,
	}

	source := m.config.Library.Database.Source
	switch m.config.Library.Database.Driver {
	case "sqlite3":
		m.db, err = gorm.Open(sqlite.Open(source), cfg)
	case "mysql":
		m.db, err = gorm.Open(mysql.Open(source), cfg)
	case "postgres":
		m.db, err = gorm.Open(postgres.Open(source), cfg)
	default:
		err = fmt.Errorf("%w: %s", ErrDriverNotSupported, m.config.Library.Database.Driver)
	}

	if err != nil {
		return
	}

	return m.migrate()
}

func (m *Music) closeDB() {
	if m.db == nil {
		return
	}
	conn, err := m.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

func (m *Music) isSqlite() bool {
	return m.db.Dialector.Name() == "sqlite"
}

type migration struct {
	version int
	apply   func(tx *gorm.DB) error
}

var migrations = []migration{
	{1, func(tx *gorm.DB) error {
		return tx.AutoMigrate(&Album{}, &Item{})
	}},
}

// migrate applies each migration newer than the recorded version.
func (m *Music) migrate() error {
	err := m.db.AutoMigrate(&Migration{})
	if err != nil {
		return err
	}
	current, err := m.schemaVersion()
	if err != nil {
		return err
	}
	for _, mg := range migrations {
		if mg.version <= current {
			continue
		}
		err = m.db.Transaction(func(tx *gorm.DB) error {
			if err := mg.apply(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{
				Version:   mg.version,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", mg.version, err)
		}
	}
	return nil
}

func (m *Music) schemaVersion() (int, error) {
	var version int
	err := m.db.Model(&Migration{}).
		Select("coalesce(max(version), 0)").Row().Scan(&version)
	return version, err
}

func (m *Music) InsertAlbum(album *Album) error {
	return m.db.Create(album).Error
}

func (m *Music) InsertItem(item *Item) error {
	err := m.db.Create(item).Error
	if err != nil {
		return err
	}
	return m.indexItem(*item)
}

func (m *Music) UpdateItem(item *Item) error {
	err := m.db.Save(item).Error
	if err != nil {
		return err
	}
	return m.indexItem(*item)
}

func (m *Music) RemoveItem(item Item) error {
	err := m.db.Delete(&Item{}, item.ID).Error
	if err != nil {
		return err
	}
	return m.unindexItem(item.ID)
}

// ModifyItem applies field=value assignments to one item.
func (m *Music) ModifyItem(id uint, assignments []string) error {
	updates := make(map[string]interface{})
	for _, a := range assignments {
		field, value, ok := cutAssignment(a)
		if !ok {
			return fmt.Errorf("assignment %q must be field=value", a)
		}
		column, err := fieldColumn(field)
		if err != nil {
			return err
		}
		v, err := bindValue(field, value)
		if err != nil {
			return err
		}
		updates[column] = v
	}
	if len(updates) == 0 {
		return nil
	}
	err := m.db.Model(&Item{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return err
	}
	item, err := m.lookupItem(id)
	if err != nil {
		return err
	}
	return m.indexItem(*item)
}

func (m *Music) lookupItem(id uint) (*Item, error) {
	var item Item
	err := m.db.First(&item, id).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %d not found", id)
	}
	return &item, err
}

func (m *Music) Album(id uint) (*Album, error) {
	var album Album
	err := m.db.First(&album, id).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("album %d not found", id)
	}
	return &album, err
}

func (m *Music) ItemExists(path string) (bool, error) {
	var count int64
	err := m.db.Model(&Item{}).Where("path = ?", path).Count(&count).Error
	return count > 0, err
}

// Albums lists albums whose name or album artist contains text.
func (m *Music) Albums(text string) ([]Album, error) {
	var albums []Album
	tx := m.db.Order("albumartist, year, album")
	if text != "" {
		like := "%" + text + "%"
		tx = tx.Where("album LIKE ? OR albumartist LIKE ?", like, like)
	}
	err := tx.Find(&albums).Error
	return albums, err
}

func (m *Music) allItems() ([]Item, error) {
	var items []Item
	err := m.db.Order("id").Find(&items).Error
	return items, err
}

func (m *Music) Stats() (Stats, error) {
	var s Stats
	err := m.db.Model(&Item{}).Count(&s.Tracks).Error
	if err != nil {
		return s, err
	}
	err = m.db.Model(&Album{}).Count(&s.Albums).Error
	if err != nil {
		return s, err
	}
	err = m.db.Model(&Item{}).Distinct("artist").Count(&s.Artists).Error
	if err != nil {
		return s, err
	}
	var size float64
	err = m.db.Model(&Item{}).
		Select("coalesce(sum(length), 0), coalesce(sum(bitrate * 1000 * length / 8), 0)").
		Row().Scan(&s.TotalLength, &size)
	if err != nil {
		return s, err
	}
	if size > 0 {
		s.TotalSize = int64(size)
	}
	return s, nil
}

func itemKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
