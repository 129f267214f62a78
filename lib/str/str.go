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

package str

import (
	"strconv"
	"strings"
)

// Split splits a comma separated list, trimming spaces.
func Split(s string) []string {
	if len(s) == 0 {
		return []string{}
	}
	a := strings.Split(s, ",")
	for i := range a {
		a[i] = strings.Trim(a[i], " ")
	}
	return a
}

// Atoi returns 0 for anything that isn't an integer.
func Atoi(a string) int {
	i, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		i = 0
	}
	return i
}

func Itoa(i int) string {
	return strconv.Itoa(i)
}

// AtoiPair parses "n/m" or "n" into its numbers, 0 when missing.
func AtoiPair(a string) (int, int) {
	n, m, _ := strings.Cut(a, "/")
	return Atoi(n), Atoi(m)
}
