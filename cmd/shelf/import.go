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
	"errors"
	"fmt"

	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/bucket"
	"github.com/defsub/shelf/lib/musicbrainz"
	"github.com/defsub/shelf/music"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [PATH...]",
	Short: "import music into the library",
	Long: `Import audio files, matching each album against MusicBrainz.
Files are copied, moved or linked into the library directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doImport(cmd.Context(), args)
	},
}

var importCopy, importMove bool
var importBucket string
var importOffline bool

func doImport(ctx context.Context, paths []string) error {
	if importCopy && importMove {
		return errors.New("use only one of --copy and --move")
	}
	if importBucket == "" && len(paths) == 0 {
		return errors.New("nothing to import")
	}
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	m, lock, err := openLocked(cfg)
	if err != nil {
		return err
	}
	defer closeLocked(m, lock)

	catalog := musicbrainz.NewMusicBrainz(cfg)
	catalog.UseOnlyIfCached(importOffline)
	importer := music.NewImporter(m, catalog)
	if importCopy {
		importer.Action = config.ActionCopy
	} else if importMove {
		importer.Action = config.ActionMove
	}

	var report music.Report
	if importBucket != "" {
		bc, ok := cfg.Bucket(importBucket)
		if !ok {
			return fmt.Errorf("bucket %q not configured", importBucket)
		}
		b, err := bucket.Open(bc)
		if err != nil {
			return err
		}
		report, err = importer.ImportBucket(ctx, b)
		if err != nil {
			return err
		}
	} else {
		report, err = importer.Import(ctx, paths...)
		if err != nil {
			return err
		}
	}
	printReport(report)
	return nil
}

func printReport(r music.Report) {
	fmt.Printf("import %s\n", r.ID)
	fmt.Printf("albums %d (%d matched)\n", r.Albums, r.Matched)
	fmt.Printf("items %d (%d aligned)\n", r.Items, r.Aligned)
	if r.Skipped > 0 {
		fmt.Printf("skipped %d\n", r.Skipped)
	}
}

func init() {
	importCmd.Flags().BoolVarP(&importCopy, "copy", "C", false, "copy files into the library")
	importCmd.Flags().BoolVarP(&importMove, "move", "M", false, "move files into the library")
	importCmd.Flags().StringVarP(&importBucket, "bucket", "b", "", "catalog a configured bucket")
	importCmd.Flags().BoolVar(&importOffline, "offline", false, "match only against cached musicbrainz responses")
	rootCmd.AddCommand(importCmd)
}
