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

package search

import (
	"sort"
	"testing"

	"github.com/defsub/shelf/config"
)

func testSearch(t *testing.T) *Search {
	config, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearch(config)
	s.Fields = []string{"title", "artist", "album"}
	if err := s.OpenMem(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	docs := map[string]FieldMap{
		"1": {"title": "Help!", "artist": "The Beatles", "album": "Help!"},
		"2": {"title": "Yesterday", "artist": "The Beatles", "album": "Help!"},
		"3": {"title": "So What", "artist": "Miles Davis", "album": "Kind of Blue"},
	}
	for id, fields := range docs {
		if err := s.Index(id, fields); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestSearch(t *testing.T) {
	s := testSearch(t)
	tests := []struct {
		text   string
		expect []string
	}{
		{"beatles", []string{"1", "2"}},
		{"Beatles", []string{"1", "2"}},
		{"beat", []string{"1", "2"}},
		{"yesterday", []string{"2"}},
		{"miles", []string{"3"}},
		{"blue", []string{"3"}},
		{"zeppelin", nil},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			keys, err := s.SearchAll(tc.text)
			if err != nil {
				t.Fatal(err)
			}
			sort.Strings(keys)
			if len(keys) != len(tc.expect) {
				t.Fatalf("got %v want %v", keys, tc.expect)
			}
			for i := range keys {
				if keys[i] != tc.expect[i] {
					t.Errorf("got %v want %v", keys, tc.expect)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s := testSearch(t)
	if err := s.Delete("2"); err != nil {
		t.Fatal(err)
	}
	keys, err := s.SearchAll("yesterday")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("deleted doc still found %v", keys)
	}
	count, _ := s.Count()
	if count != 2 {
		t.Errorf("count %d", count)
	}
}

func TestNotOpen(t *testing.T) {
	s := &Search{}
	if _, err := s.Search("x", 1); err != ErrNotOpen {
		t.Errorf("got %v", err)
	}
}

func TestOpenDisk(t *testing.T) {
	config, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearch(config)
	if err := s.Open("library"); err != nil {
		t.Fatal(err)
	}
	s.Index("a", FieldMap{"title": "Films"})
	s.Close()

	// reopen existing
	if err := s.Open("library"); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	keys, err := s.SearchAll("films")
	if err != nil || len(keys) != 1 {
		t.Errorf("reopen %v %v", keys, err)
	}
}

func TestReset(t *testing.T) {
	s := testSearch(t)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	count, err := s.Count()
	if err != nil || count != 0 {
		t.Errorf("count %d %v", count, err)
	}

	config, _ := config.TestConfig(t.TempDir())
	disk := NewSearch(config)
	if err := disk.Open("library"); err != nil {
		t.Fatal(err)
	}
	defer disk.Close()
	disk.Index("a", FieldMap{"title": "Films"})
	if err := disk.Reset(); err != nil {
		t.Fatal(err)
	}
	if count, _ := disk.Count(); count != 0 {
		t.Errorf("disk count %d", count)
	}
}
