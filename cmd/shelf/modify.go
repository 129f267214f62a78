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

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var modifyCmd = &cobra.Command{
	Use:   "modify QUERY field=value...",
	Short: "change fields of matching items",
	Long: `Change fields of the items matching QUERY. Quote a query with
more than one term.

  shelf modify 'artist:beatles album:help' genre=Rock year=1965`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return modify(args[0], args[1:])
	},
}

func modify(text string, assignments []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	m, lock, err := openLocked(cfg)
	if err != nil {
		return err
	}
	defer closeLocked(m, lock)

	items, err := m.Search(text)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no matching items")
	}
	for _, item := range items {
		err := m.ModifyItem(item.ID, assignments)
		if err != nil {
			return err
		}
	}
	fmt.Printf("modified %d items\n", len(items))
	return nil
}

func init() {
	rootCmd.AddCommand(modifyCmd)
}
