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

// Package date parses the partial dates found in tags and release data.
package date

import (
	"strings"
	"time"
)

// Layout is the day precision layout used for stored and compared dates.
const Layout = "2006-01-02"

var layouts = []string{"2006-1-2", "2006-1", "2006"}

// Parse a date string to time in format yyyy-mm-dd, yyyy-mm, yyyy. A time
// of day after T or a space is ignored. The zero time is returned for
// anything else.
func ParseDate(date string) (t time.Time) {
	date = strings.TrimSpace(date)
	if i := strings.IndexAny(date, "T "); i > 0 {
		date = date[:i]
	}
	if date == "" {
		return t
	}
	for _, layout := range layouts {
		if v, err := time.Parse(layout, date); err == nil {
			return v
		}
	}
	return t
}

// Year of the date, 0 when it can't be parsed.
func Year(date string) int {
	t := ParseDate(date)
	if t.IsZero() {
		return 0
	}
	return t.Year()
}

func Format(t time.Time) string {
	return t.Format(Layout)
}
