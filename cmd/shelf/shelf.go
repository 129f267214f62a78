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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/defsub/shelf"
	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/music"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "shelf",
	Short:         "shelf organizes a music library",
	Long:          shelf.Contact,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configFile string
var configPath string
var configName string

func getConfig() (*config.Config, error) {
	if configPath == "" {
		configPath = os.Getenv("SHELF_HOME")
	}
	if configName == "" {
		configName = os.Getenv("SHELF_CONFIG")
	}
	if configFile != "" {
		config.SetConfigFile(configFile)
	} else {
		if configPath == "" {
			configPath = "."
		}
		if configName == "" {
			configName = shelf.AppName
		}
		config.AddConfigPath(configPath)
		config.SetConfigName(configName)
	}
	return config.GetConfig()
}

func openMusic() (*music.Music, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	return openLibrary(cfg)
}

func openLibrary(cfg *config.Config) (*music.Music, error) {
	m := music.NewMusic(cfg)
	err := m.Open()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// openLocked opens the library for writing. Release with closeLocked.
func openLocked(cfg *config.Config) (*music.Music, *flock.Flock, error) {
	m := music.NewMusic(cfg)
	lock, err := m.OpenLocked()
	if err != nil {
		return nil, nil, err
	}
	return m, lock, nil
}

func closeLocked(m *music.Music, lock *flock.Flock) {
	m.Close()
	lock.Unlock()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
}
