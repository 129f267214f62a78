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
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrLocked = errors.New("library is locked by another process")

func (m *Music) lockPath() string {
	db := m.config.Library.Database
	if db.Driver == "sqlite3" {
		return db.Source + ".lock"
	}
	return filepath.Join(m.config.Library.Directory, ".shelf.lock")
}

// Lock takes the exclusive write lock, failing if another process holds it.
// Only the configuration is needed, so it can be taken before Open.
func (m *Music) Lock() (*flock.Flock, error) {
	path := m.lockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

// OpenLocked takes the write lock and then opens the library, so
// migrations and index rebuilds only run under the lock.
func (m *Music) OpenLocked() (*flock.Flock, error) {
	lock, err := m.Lock()
	if err != nil {
		return nil, err
	}
	if err := m.Open(); err != nil {
		m.Close()
		lock.Unlock()
		return nil, err
	}
	return lock, nil
}
