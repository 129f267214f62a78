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

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "library statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stats()
	},
}

func stats() error {
	m, err := openMusic()
	if err != nil {
		return err
	}
	defer m.Close()
	s, err := m.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Tracks: %d\n", s.Tracks)
	fmt.Printf("Albums: %d\n", s.Albums)
	fmt.Printf("Artists: %d\n", s.Artists)
	fmt.Printf("Total time: %s\n", formatLength(s.TotalLength))
	fmt.Printf("Total size: %s\n", formatSize(s.TotalSize))
	return nil
}

// formatLength renders seconds as m:ss, or h:mm:ss from an hour up.
func formatLength(seconds float64) string {
	total := int64(seconds + 0.5)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

var sizeUnits = []string{"KB", "MB", "GB"}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	size := float64(bytes) / 1024
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
