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
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/defsub/shelf/config"
)

type FieldMap map[string]interface{}

var ErrNotOpen = errors.New("search index not open")

type Search struct {
	config config.SearchConfig
	index  bleve.Index
	path   string
	// Fields are also matched by prefix.
	Fields []string
}

func NewSearch(config *config.Config) *Search {
	return &Search{config: config.Search}
}

// Open creates or opens the named index under the configured bleve dir.
func (s *Search) Open(name string) error {
	return s.open(filepath.Join(s.config.BleveDir, name+".bleve"))
}

func (s *Search) open(path string) error {
	index, err := bleve.New(path, bleve.NewIndexMapping())
	if err == bleve.ErrorIndexPathExists {
		index, err = bleve.Open(path)
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	s.index = index
	s.path = path
	return nil
}

// OpenMem creates an index that lives only in memory.
func (s *Search) OpenMem() error {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return err
	}
	s.index = index
	return nil
}

// Reset empties the index, removing it from disk if it was opened there.
func (s *Search) Reset() error {
	if err := s.Close(); err != nil {
		return err
	}
	if s.path == "" {
		return s.OpenMem()
	}
	if err := os.RemoveAll(s.path); err != nil {
		return err
	}
	return s.open(s.path)
}

func (s *Search) Close() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func (s *Search) Index(id string, fields FieldMap) error {
	if s.index == nil {
		return ErrNotOpen
	}
	return s.index.Index(id, fields)
}

func (s *Search) Delete(id string) error {
	if s.index == nil {
		return ErrNotOpen
	}
	return s.index.Delete(id)
}

func (s *Search) Count() (uint64, error) {
	if s.index == nil {
		return 0, ErrNotOpen
	}
	return s.index.DocCount()
}

// Search matches text as analyzed words in any field, or as a word prefix of
// one of Fields, returning up to limit document ids.
func (s *Search) Search(text string, limit int) ([]string, error) {
	if s.index == nil {
		return nil, ErrNotOpen
	}
	queries := []query.Query{bleve.NewMatchQuery(text)}
	prefix := strings.ToLower(text)
	for _, f := range s.Fields {
		q := bleve.NewPrefixQuery(prefix)
		q.SetField(f)
		queries = append(queries, q)
	}
	searchRequest := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	searchRequest.Size = limit
	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, hit := range searchResult.Hits {
		keys = append(keys, hit.ID)
	}
	return keys, nil
}

// SearchAll returns every matching document id.
func (s *Search) SearchAll(text string) ([]string, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return s.Search(text, int(count))
}
