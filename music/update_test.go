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
	"path/filepath"
	"testing"

	"github.com/defsub/shelf/lib/query"
)

func TestRefresh(t *testing.T) {
	m := testLibrary(t)
	items, _ := m.Items(query.CompileString("title:=Help!"))
	if len(items) != 1 {
		t.Fatalf("items %d", len(items))
	}
	item := items[0]
	item.MBTrackID = "rec-help"
	m.UpdateItem(&item)

	m.readItem = func(path string) (Item, error) {
		return Item{Path: "/elsewhere.flac", Title: "Help! (Remastered)", Artist: "The Beatles",
			Album: "Help!", Genre: "Rock", Year: 2009, Track: 1, Disc: 1}, nil
	}
	fresh, err := m.Refresh(item)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.ID != item.ID || fresh.Path != item.Path || fresh.AlbumID != item.AlbumID ||
		!fresh.Added.Equal(item.Added) {
		t.Errorf("library fields changed %+v", fresh)
	}
	if fresh.Title != "Help! (Remastered)" || fresh.Year != 2009 || fresh.MBTrackID != "rec-help" {
		t.Errorf("refreshed %+v", fresh)
	}
	saved, _ := m.lookupItem(item.ID)
	if saved.Title != fresh.Title {
		t.Errorf("saved %+v", saved)
	}
	found, _ := m.Items(query.CompileString("remastered"))
	if len(found) != 1 {
		t.Errorf("index not updated")
	}

	m.readItem = func(path string) (Item, error) {
		return Item{}, errors.New("unreadable")
	}
	if _, err := m.Refresh(item); err == nil {
		t.Errorf("expected error")
	}
}

func TestRefreshRemote(t *testing.T) {
	m := testMusic(t)
	m.readItem = func(path string) (Item, error) {
		t.Errorf("read %s", path)
		return Item{}, nil
	}
	item := Item{Path: "s3://media/a/b/01-c.flac", Title: "c"}
	got, err := m.Refresh(item)
	if err != nil || got != item {
		t.Errorf("got %+v %v", got, err)
	}
}

func TestRemove(t *testing.T) {
	m := testMusic(t)
	path := filepath.Join(t.TempDir(), "a.flac")
	writeFile(t, path, "audio")
	keep := Item{Path: path, Title: "keep"}
	drop := Item{Path: filepath.Join(t.TempDir(), "gone.flac"), Title: "drop"}
	for _, item := range []*Item{&keep, &drop} {
		if err := m.InsertItem(item); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.Remove(keep, false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file deleted")
	}
	if err := m.Remove(drop, true); err != nil {
		t.Errorf("missing file %v", err)
	}
	if ok, _ := m.ItemExists(keep.Path); ok {
		t.Errorf("item still in library")
	}

	again := Item{Path: path, Title: "again"}
	m.InsertItem(&again)
	if err := m.Remove(again, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file kept")
	}
}
