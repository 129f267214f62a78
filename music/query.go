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
	"strings"

	"github.com/defsub/shelf/lib/date"
	"github.com/defsub/shelf/lib/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownField = errors.New("unknown field")

// field name to column
var fieldColumns = map[string]string{
	"title":       "title",
	"artist":      "artist",
	"album":       "album",
	"albumartist": "albumartist",
	"genre":       "genre",
	"year":        "year",
	"track":       "track",
	"disc":        "disc",
	"format":      "format",
	"bitrate":     "bitrate",
	"length":      "length",
	"mb_trackid":  "mb_trackid",
	"mb_albumid":  "mb_albumid",
	"added":       "added",
	"path":        "path",
}

var numericFields = map[string]bool{
	"year":    true,
	"track":   true,
	"disc":    true,
	"bitrate": true,
	"length":  true,
}

func fieldColumn(field string) (string, error) {
	column, ok := fieldColumns[strings.ToLower(field)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return column, nil
}

func cutAssignment(s string) (string, string, bool) {
	field, value, ok := strings.Cut(s, "=")
	if !ok || field == "" {
		return "", "", false
	}
	return field, value, true
}

// bindValue converts a query or assignment value to the column type.
func bindValue(field, value string) (interface{}, error) {
	field = strings.ToLower(field)
	switch {
	case field == "length":
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", field, value)
		}
		return v, nil
	case numericFields[field]:
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", field, value)
		}
		return v, nil
	case field == "added":
		v := date.ParseDate(value)
		if v.IsZero() {
			return nil, fmt.Errorf("%s: %q is not a date", field, value)
		}
		return v, nil
	}
	return value, nil
}

var likeReplacer = strings.NewReplacer("*", "%", "?", "_")

// textColumn is column as text, for LIKE on numbers and dates.
func (m *Music) textColumn(column string) string {
	if !numericFields[column] && column != "added" {
		return column
	}
	switch m.db.Dialector.Name() {
	case "mysql":
		return "CAST(" + column + " AS CHAR)"
	}
	return "CAST(" + column + " AS TEXT)"
}

func (m *Music) substring(column, value string) (string, []interface{}) {
	return m.textColumn(column) + " LIKE ?", []interface{}{"%" + value + "%"}
}

// condition builds the sql for a field clause with ? placeholders. Values
// that don't fit the column type fall back to a substring match. Only
// unknown fields are an error.
func (m *Music) condition(c query.Clause) (string, []interface{}, error) {
	column, err := fieldColumn(c.Field)
	if err != nil {
		return "", nil, err
	}
	value := ""
	if len(c.Values) > 0 {
		value = c.Values[0]
	}

	switch c.Op {
	case query.Exact, query.RelativeDate:
		v, err := bindValue(column, value)
		if err != nil {
			cond, args := m.substring(column, value)
			return cond, args, nil
		}
		if c.Op == query.RelativeDate {
			return column + " >= ?", []interface{}{v}, nil
		}
		return column + " = ?", []interface{}{v}, nil
	case query.Pattern:
		if m.isSqlite() {
			return m.textColumn(column) + " GLOB ?", []interface{}{value}, nil
		}
		return m.textColumn(column) + " LIKE ?", []interface{}{likeReplacer.Replace(value)}, nil
	case query.Range:
		if len(c.Values) == 2 {
			cond, args, err := rangeCondition(column, c.Values[0], c.Values[1])
			if err == nil {
				return cond, args, nil
			}
		}
		cond, args := m.substring(column, strings.Join(c.Values, ".."))
		return cond, args, nil
	}
	cond, args := m.substring(column, value)
	return cond, args, nil
}

func rangeCondition(column, start, end string) (string, []interface{}, error) {
	var lo, hi interface{}
	var err error
	if start != "" {
		if lo, err = bindValue(column, start); err != nil {
			return "", nil, err
		}
	}
	if end != "" {
		if hi, err = bindValue(column, end); err != nil {
			return "", nil, err
		}
	}
	switch {
	case lo != nil && hi != nil:
		return column + " BETWEEN ? AND ?", []interface{}{lo, hi}, nil
	case lo != nil:
		return column + " >= ?", []interface{}{lo}, nil
	case hi != nil:
		return column + " <= ?", []interface{}{hi}, nil
	}
	return column + " IS NOT NULL", nil, nil
}

// idList inlines ids so large full text matches don't run into the bound
// parameter limit.
func idList(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = itemKey(id)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func (m *Music) bind(tx *gorm.DB, q query.Query) (*gorm.DB, bool, error) {
	for _, c := range q.Clauses {
		switch c.Kind {
		case query.FullTextClause:
			ids, err := m.fullTextIDs(c.Values[0])
			if err != nil {
				return nil, false, err
			}
			if c.Negated {
				if len(ids) > 0 {
					tx = tx.Where("id NOT IN " + idList(ids))
				}
			} else if len(ids) == 0 {
				return tx, true, nil
			} else {
				tx = tx.Where("id IN " + idList(ids))
			}
		case query.FieldClause:
			cond, args, err := m.condition(c)
			if err != nil {
				return nil, false, err
			}
			if c.Negated {
				cond = "NOT (" + cond + ")"
			}
			tx = tx.Where(cond, args...)
		}
	}
	for _, s := range q.Sort {
		column, err := fieldColumn(s.Field)
		if err != nil {
			return nil, false, err
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   !s.Ascending,
		})
	}
	return tx, false, nil
}

// Items returns the items matching q in its sort order.
func (m *Music) Items(q query.Query) ([]Item, error) {
	tx, empty, err := m.bind(m.db.Model(&Item{}), q)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	var items []Item
	err = tx.Find(&items).Error
	return items, err
}

// Search compiles text and returns the matching items.
func (m *Music) Search(text string) ([]Item, error) {
	return m.Items(query.CompileString(text))
}
