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
	"os"
	"strings"

	"github.com/defsub/shelf/music"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "ls [QUERY]",
	Aliases: []string{"list"},
	Short:   "list items or albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(strings.Join(args, " "))
	},
}

var listAlbums bool

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func list(text string) error {
	m, err := openMusic()
	if err != nil {
		return err
	}
	defer m.Close()

	if listAlbums {
		albums, err := m.Albums(text)
		if err != nil {
			return err
		}
		if isTerminal() {
			fmt.Println(renderTable(albumHeaders, albumRows(albums), albumAligns))
			return nil
		}
		for _, a := range albums {
			fmt.Println(albumLine(a))
		}
		return nil
	}

	items, err := m.Search(text)
	if err != nil {
		return err
	}
	if isTerminal() {
		fmt.Println(renderTable(itemHeaders, itemRows(items), itemAligns))
		return nil
	}
	for _, i := range items {
		fmt.Println(itemLine(i))
	}
	return nil
}

func itemLine(i music.Item) string {
	return fmt.Sprintf("%s - %s - %s [%s]", i.Artist, i.Album, i.Title, formatLength(i.Length))
}

func albumLine(a music.Album) string {
	if a.Year > 0 {
		return fmt.Sprintf("%s - %s (%d)", a.AlbumArtist, a.Album, a.Year)
	}
	return fmt.Sprintf("%s - %s", a.AlbumArtist, a.Album)
}

var itemHeaders = []string{"Artist", "Album", "#", "Title", "Length"}
var itemAligns = []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight}

func itemRows(items []music.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, i := range items {
		rows = append(rows, []string{i.Artist, i.Album, fmt.Sprint(i.Track), i.Title,
			formatLength(i.Length)})
	}
	return rows
}

var albumHeaders = []string{"Album Artist", "Album", "Year"}
var albumAligns = []columnAlignment{alignLeft, alignLeft, alignRight}

func albumRows(albums []music.Album) [][]string {
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		year := ""
		if a.Year > 0 {
			year = fmt.Sprint(a.Year)
		}
		rows = append(rows, []string{a.AlbumArtist, a.Album, year})
	}
	return rows
}

func init() {
	listCmd.Flags().BoolVarP(&listAlbums, "albums", "a", false, "list albums")
	rootCmd.AddCommand(listCmd)
}
