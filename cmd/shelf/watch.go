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
	"context"

	"github.com/defsub/shelf/lib/log"
	"github.com/defsub/shelf/lib/musicbrainz"
	"github.com/defsub/shelf/music"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "periodically import the watch directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(cmd.Context())
	},
}

var watchDirs string

func watch(ctx context.Context) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	if watchDirs != "" {
		cfg.Import.WatchDirs = []string{watchDirs}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	m, lock, err := openLocked(cfg)
	if err != nil {
		return err
	}
	defer closeLocked(m, lock)

	log.Printf("watching %v every %s\n", cfg.Import.WatchDirs, cfg.Import.WatchInterval)
	importer := music.NewImporter(m, musicbrainz.NewMusicBrainz(cfg))
	return importer.Watch(ctx)
}

func init() {
	watchCmd.Flags().StringVar(&watchDirs, "dirs", "", "comma separated directories, replacing import.watchdirs")
	rootCmd.AddCommand(watchCmd)
}
