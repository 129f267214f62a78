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
	"fmt"
	"strings"

	"github.com/defsub/shelf/lib/log"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [QUERY]",
	Short: "re-read tags of matching items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return update(strings.Join(args, " "))
	},
}

func update(text string) error {
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
	updated := 0
	for _, item := range items {
		_, err := m.Refresh(item)
		if err != nil {
			log.Printf("update %s: %s\n", item.Path, err)
			continue
		}
		updated++
	}
	fmt.Printf("updated %d of %d items\n", updated, len(items))
	return nil
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
