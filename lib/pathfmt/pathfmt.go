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

// Package pathfmt expands library path templates.
//
//	$albumartist/$album/$track - $title
//	%upper{$artist}/%if{$year,$album ($year),$album}/%left{2,$track} $title
//
// Variables are replaced by their sanitized values. Functions take comma
// separated arguments which are templates themselves. Use $$ and %% for a
// literal dollar or percent sign.
package pathfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrSyntax          = errors.New("syntax error")
)

// Values maps variable names to their raw values.
type Values map[string]string

type function func(args []string) (string, error)

var functions = map[string]function{
	"upper": unary(strings.ToUpper),
	"lower": unary(strings.ToLower),
	"title": unary(titleCase),
	"left":  slice(func(r []rune, n int) []rune { return r[:n] }),
	"right": slice(func(r []rune, n int) []rune { return r[len(r)-n:] }),
	"if":    ifFunc,
}

// Format expands format with values.
func Format(format string, values Values) (string, error) {
	return eval(format, values)
}

func eval(s string, values Values) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' && c != '%' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == c {
			sb.WriteByte(c)
			i += 2
			continue
		}
		name := identifier(s[i+1:])
		if name == "" {
			sb.WriteByte(c)
			i++
			continue
		}
		i += 1 + len(name)

		if c == '$' {
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w: $%s", ErrUnknownVariable, name)
			}
			sb.WriteString(Sanitize(v))
			continue
		}

		fn, ok := functions[name]
		if !ok {
			return "", fmt.Errorf("%w: %%%s", ErrUnknownFunction, name)
		}
		if i >= len(s) || s[i] != '{' {
			return "", fmt.Errorf("%w: %%%s without {", ErrSyntax, name)
		}
		end := closing(s, i)
		if end < 0 {
			return "", fmt.Errorf("%w: %%%s missing }", ErrSyntax, name)
		}
		var args []string
		for _, a := range splitArgs(s[i+1 : end]) {
			v, err := eval(a, values)
			if err != nil {
				return "", err
			}
			args = append(args, v)
		}
		result, err := fn(args)
		if err != nil {
			return "", fmt.Errorf("%%%s: %w", name, err)
		}
		sb.WriteString(result)
		i = end + 1
	}
	return sb.String(), nil
}

func identifier(s string) string {
	n := 0
	for n < len(s) && (s[n] >= 'a' && s[n] <= 'z' || s[n] == '_') {
		n++
	}
	return s[:n]
}

// closing returns the index of the brace matching the one at open, or -1.
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

func unary(f func(string) string) function {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%w: want 1 argument, got %d", ErrSyntax, len(args))
		}
		return f(args[0]), nil
	}
}

// Casers keep state, so one per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func slice(f func(r []rune, n int) []rune) function {
	return func(args []string) (string, error) {
		if len(args) != 2 {
			return "", fmt.Errorf("%w: want 2 arguments, got %d", ErrSyntax, len(args))
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: bad length %q", ErrSyntax, args[0])
		}
		r := []rune(args[1])
		if n > len(r) {
			n = len(r)
		}
		return string(f(r, n)), nil
	}
}

func ifFunc(args []string) (string, error) {
	switch len(args) {
	case 2:
		args = append(args, "")
	case 3:
	default:
		return "", fmt.Errorf("%w: want 2 or 3 arguments, got %d", ErrSyntax, len(args))
	}
	if strings.TrimSpace(args[0]) != "" {
		return args[1], nil
	}
	return args[2], nil
}

var sanitizer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "_")

// Sanitize makes value safe for use as part of a single path element.
func Sanitize(value string) string {
	return strings.TrimSpace(sanitizer.Replace(value))
}
