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

package query

import "time"

type ClauseKind int

const (
	FullTextClause ClauseKind = iota
	FieldClause
)

// Clause is one AND-combined filter condition. Values hold the operands:
// one value for most operations, start and end for ranges.
type Clause struct {
	Kind    ClauseKind
	Field   string
	Op      Op
	Negated bool
	Values  []string
}

type Sort struct {
	Field     string
	Ascending bool
}

type Query struct {
	Clauses []Clause
	Sort    []Sort
}

// DefaultSort applies when a query has no sort terms.
var DefaultSort = []Sort{
	{Field: "artist", Ascending: true},
	{Field: "album", Ascending: true},
	{Field: "disc", Ascending: true},
	{Field: "track", Ascending: true},
}

// Compile lowers terms into clauses and sort directives, keeping their order.
func Compile(terms []Term) Query {
	var q Query
	for _, t := range terms {
		switch t.Kind {
		case FullTextTerm:
			q.Clauses = append(q.Clauses, Clause{
				Kind:    FullTextClause,
				Negated: t.Negated,
				Values:  []string{t.Text},
			})
		case FieldTerm:
			c := Clause{
				Kind:    FieldClause,
				Field:   t.Name,
				Op:      t.Op.Op,
				Negated: t.Negated,
			}
			if t.Op.Op == Range {
				c.Values = []string{t.Op.Start, t.Op.End}
			} else {
				c.Values = []string{t.Op.Value}
			}
			q.Clauses = append(q.Clauses, c)
		case SortTerm:
			q.Sort = append(q.Sort, Sort{Field: t.Name, Ascending: t.Ascending})
		}
	}
	if len(q.Sort) == 0 {
		q.Sort = append(q.Sort, DefaultSort...)
	}
	return q
}

func CompileString(text string) Query {
	return Compile(Parse(text))
}

func CompileStringAt(text string, now time.Time) Query {
	return Compile(ParseAt(text, now))
}

// FullText returns the full text clauses.
func (q Query) FullText() []Clause {
	var result []Clause
	for _, c := range q.Clauses {
		if c.Kind == FullTextClause {
			result = append(result, c)
		}
	}
	return result
}
