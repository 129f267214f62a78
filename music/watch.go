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
	"errors"
	"sync"
	"time"

	"github.com/defsub/shelf/lib/log"
	"github.com/go-co-op/gocron"
)

var ErrNoWatchDirs = errors.New("no watch directories configured")

// Watch imports Import.WatchDirs every Import.WatchInterval until ctx is
// done. Paths already in the library are skipped by each run.
func (i *Importer) Watch(ctx context.Context) error {
	dirs := i.config.Import.WatchDirs
	if len(dirs) == 0 {
		return ErrNoWatchDirs
	}
	interval := i.config.Import.WatchInterval
	if interval <= 0 {
		interval = time.Hour
	}

	var running sync.Mutex
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(interval).Do(func() {
		if !running.TryLock() {
			log.Println("previous import still running")
			return
		}
		defer running.Unlock()
		report, err := i.Import(ctx, dirs...)
		if err != nil {
			log.Println(err)
			return
		}
		log.Printf("import %s: %d albums, %d items, %d skipped\n",
			report.ID, report.Albums, report.Items, report.Skipped)
	})
	if err != nil {
		return err
	}
	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
	// wait out a run in progress
	running.Lock()
	running.Unlock()
	return nil
}
