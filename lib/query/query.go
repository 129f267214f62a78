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

// Package query parses the library query language.
//
//	beatles              full text
//	artist:beatles       field substring
//	title:=Help!         exact match
//	genre::^rock.*       glob pattern (from a small regex subset)
//	year:1960..1969      range, either side optional
//	added:-2w            added within the last 2 weeks (d, w, m, y)
//	^genre:jazz          negation
//	year+ / year-        sort ascending / descending
//
// Parsing never fails. Values that don't fit an operation fall back to a
// substring match. Field names are not checked here.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/defsub/shelf/lib/date"
)

type TermKind int

const (
	FullTextTerm TermKind = iota
	FieldTerm
	SortTerm
)

type Op int

const (
	Substring Op = iota
	Exact
	Pattern
	Range
	RelativeDate
)

func (op Op) String() string {
	switch op {
	case Substring:
		return "substring"
	case Exact:
		return "exact"
	case Pattern:
		return "pattern"
	case Range:
		return "range"
	case RelativeDate:
		return "relative-date"
	}
	return "unknown"
}

// Operation is the value side of a field term. Range uses Start and End,
// where an empty string leaves that side open. The others use Value.
type Operation struct {
	Op    Op
	Value string
	Start string
	End   string
}

type Term struct {
	Kind      TermKind
	Text      string
	Negated   bool
	Name      string
	Op        Operation
	Ascending bool
}

const (
	FieldAdded   = "added"
	rangeDivider = ".."
)

// Parse splits text into terms, resolving relative dates against now.
func Parse(text string) []Term {
	return ParseAt(text, time.Now())
}

func ParseAt(text string, now time.Time) []Term {
	var terms []Term
	for _, t := range strings.Fields(text) {
		if rest := strings.TrimSuffix(t, "+"); rest != t {
			terms = append(terms, Term{Kind: SortTerm, Name: rest, Ascending: true})
			continue
		}
		if rest := strings.TrimSuffix(t, "-"); rest != t {
			terms = append(terms, Term{Kind: SortTerm, Name: rest, Ascending: false})
			continue
		}

		negated := false
		if rest := strings.TrimPrefix(t, "^"); rest != t {
			negated = true
			t = rest
		}

		if name, value, ok := strings.Cut(t, ":"); ok {
			terms = append(terms, Term{
				Kind:    FieldTerm,
				Negated: negated,
				Name:    name,
				Op:      parseOperation(name, value, now),
			})
		} else {
			terms = append(terms, Term{Kind: FullTextTerm, Text: t, Negated: negated})
		}
	}
	return terms
}

func parseOperation(field, value string, now time.Time) Operation {
	if exact := strings.TrimPrefix(value, "="); exact != value {
		return Operation{Op: Exact, Value: exact}
	}

	if pattern := strings.TrimPrefix(value, ":"); pattern != value {
		return Operation{Op: Pattern, Value: regexToGlob(pattern)}
	}

	if strings.Contains(value, rangeDivider) {
		parts := strings.Split(value, rangeDivider)
		if len(parts) == 2 {
			return Operation{Op: Range, Start: parts[0], End: parts[1]}
		}
	}

	if field == FieldAdded && strings.HasPrefix(value, "-") {
		if date, ok := relativeDate(value, now); ok {
			return Operation{Op: RelativeDate, Value: date}
		}
	}

	return Operation{Op: Substring, Value: value}
}

var globReplacer = strings.NewReplacer("^", "", "$", "")

// regexToGlob is lossy; only .* . ^ and $ are understood.
func regexToGlob(pattern string) string {
	glob := strings.ReplaceAll(pattern, ".*", "*")
	glob = strings.ReplaceAll(glob, ".", "?")
	return globReplacer.Replace(glob)
}

var unitDays = map[byte]int{
	'd': 1,
	'w': 7,
	'm': 30,
	'y': 365,
}

func relativeDate(value string, now time.Time) (string, bool) {
	value = strings.TrimLeft(value, "-")
	if value == "" {
		return "", false
	}
	days, ok := unitDays[value[len(value)-1]]
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(value[:len(value)-1])
	if err != nil {
		return "", false
	}
	return date.Format(now.UTC().AddDate(0, 0, -n*days)), true
}
