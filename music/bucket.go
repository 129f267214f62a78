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
	"regexp"
	"strconv"

	"github.com/defsub/shelf/lib/bucket"
	"github.com/defsub/shelf/lib/log"
)

// Examples:
// The Raconteurs / Help Us Stranger (2019) / 01-Bored and Razed.flac
// Tubeway Army / Replicas - The First Recordings (2019) / 1-01-You Are in My Vision (early version).flac
// Tubeway Army / Replicas - The First Recordings (2019) / 2-01-Replicas (early version 2).flac
var pathRegexp = regexp.MustCompile(`([^\/]+)\/([^\/]+)\/([^\/]+)$`)

var releaseRegexp = regexp.MustCompile(`(.+)\s+\(([\d]+)\)\s*$`)

var trackRegexp = regexp.MustCompile(`(?:([\d]+)-)?([\d]+)-(.*)\.([A-Za-z0-9]+)$`)

// itemFromKey parses an Artist/Album (Year)/[D-]NN-Title.ext object key.
func itemFromKey(key string) (Item, bool) {
	matches := pathRegexp.FindStringSubmatch(key)
	if matches == nil {
		return Item{}, false
	}
	item := Item{Artist: matches[1], Album: matches[2]}
	if m := releaseRegexp.FindStringSubmatch(matches[2]); m != nil {
		item.Album = m[1]
		item.Year, _ = strconv.Atoi(m[2])
	}
	m := trackRegexp.FindStringSubmatch(matches[3])
	if m == nil {
		return Item{}, false
	}
	format := FormatFromExtension(m[4])
	if format == UnknownFormat {
		return Item{}, false
	}
	item.Disc, _ = strconv.Atoi(m[1])
	item.Track, _ = strconv.Atoi(m[2])
	item.Title = m[3]
	item.Format = format.String()
	if item.Disc == 0 {
		item.Disc = 1
	}
	return item, true
}

// BucketItems lists the audio objects in b as items with s3 url paths.
func BucketItems(ctx context.Context, b *bucket.Bucket) ([]Item, error) {
	objects, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, o := range objects {
		item, ok := itemFromKey(o.Key)
		if !ok {
			log.Printf("skipping %s\n", o.Key)
			continue
		}
		item.Path = b.URL(o.Key)
		item.Mtime = o.LastModified
		applyDefaults(&item)
		items = append(items, item)
	}
	return items, nil
}

// ImportBucket catalogs the bucket's objects in place. Nothing is
// transferred and no tags are written.
func (i *Importer) ImportBucket(ctx context.Context, b *bucket.Bucket) (Report, error) {
	items, err := BucketItems(ctx, b)
	if err != nil {
		return Report{}, err
	}
	return i.importItems(ctx, items, false)
}
