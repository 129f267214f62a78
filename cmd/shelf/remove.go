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
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "rm QUERY",
	Aliases: []string{"remove"},
	Short:   "remove matching items from the library",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return remove(strings.Join(args, " "))
	},
}

var removeDelete, removeYes bool

func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func remove(text string) error {
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
	if removeDelete && !removeYes {
		if !confirm(fmt.Sprintf("Delete %d files", len(items))) {
			return errors.New("canceled")
		}
	}
	for _, item := range items {
		err := m.Remove(item, removeDelete)
		if err != nil {
			return err
		}
	}
	fmt.Printf("removed %d items\n", len(items))
	return nil
}

func init() {
	removeCmd.Flags().BoolVarP(&removeDelete, "delete", "d", false, "also delete the files")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "don't ask for confirmation")
	rootCmd.AddCommand(removeCmd)
}
