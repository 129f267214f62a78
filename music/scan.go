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
	"io/fs"
	"path/filepath"

	"github.com/defsub/shelf/lib/log"
	"golang.org/x/sync/errgroup"
)

// Scan finds audio files under root in walk order and reads their tags
// using up to Import.Workers goroutines. Unreadable files are skipped.
func (i *Importer) Scan(ctx context.Context, root string) ([]Item, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if FormatOf(path) != UnknownFormat {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(paths))
	ok := make([]bool, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.config.Import.Workers)
	for n, path := range paths {
		n, path := n, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := i.readItem(path)
			if err != nil {
				log.Printf("skipping %s: %s\n", path, err)
				return nil
			}
			items[n] = item
			ok[n] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]Item, 0, len(items))
	for n := range items {
		if ok[n] {
			result = append(result, items[n])
		}
	}
	return result, nil
}
