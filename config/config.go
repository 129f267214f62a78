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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/defsub/shelf"
	"github.com/defsub/shelf/lib/str"
	"github.com/spf13/viper"
)

const (
	ActionCopy = "copy"
	ActionMove = "move"
	ActionLink = "link"
)

type DatabaseConfig struct {
	Driver  string
	Source  string
	LogMode bool
}

type LibraryConfig struct {
	Directory string
	Database  DatabaseConfig
}

type PathsConfig struct {
	Format string
}

type ImportConfig struct {
	Action        string
	WriteTags     bool
	FetchArt      bool
	EmbedArt      bool
	Workers       int
	WatchDirs     []string
	WatchInterval time.Duration
}

type MusicBrainzConfig struct {
	BaseURL     string
	CoverArtURL string
	SearchLimit int
	RateLimit   time.Duration
}

type SearchConfig struct {
	BleveDir string
}

type BucketConfig struct {
	Name            string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	ObjectPrefix    string
}

type ClientConfig struct {
	CacheDir  string
	MaxAge    time.Duration
	UseCache  bool
	UserAgent string
	Timeout   time.Duration
}

func (c *ClientConfig) Merge(o ClientConfig) {
	if o.CacheDir != "" {
		c.CacheDir = o.CacheDir
	}
	c.MaxAge = o.MaxAge
	c.UseCache = o.UseCache
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
}

type Config struct {
	Buckets     []BucketConfig
	Client      ClientConfig
	Import      ImportConfig
	Library     LibraryConfig
	MusicBrainz MusicBrainzConfig
	Paths       PathsConfig
	Search      SearchConfig
}

// Bucket finds a configured bucket by name.
func (c *Config) Bucket(name string) (BucketConfig, bool) {
	for _, b := range c.Buckets {
		if b.Name == name {
			return b, true
		}
	}
	return BucketConfig{}, false
}

func configDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("Client.CacheDir", ".httpcache")
	v.SetDefault("Client.MaxAge", "720h") // 30 days in hours
	v.SetDefault("Client.UseCache", "false")
	v.SetDefault("Client.UserAgent", userAgent())
	v.SetDefault("Client.Timeout", "30s")

	v.SetDefault("Import.Action", ActionCopy)
	v.SetDefault("Import.WriteTags", "true")
	v.SetDefault("Import.FetchArt", "true")
	v.SetDefault("Import.EmbedArt", "false")
	v.SetDefault("Import.Workers", "4")
	v.SetDefault("Import.WatchInterval", "1h")

	v.SetDefault("Library.Directory", filepath.Join(home, "Music"))
	v.SetDefault("Library.Database.Driver", "sqlite3")
	v.SetDefault("Library.Database.Source", "library.db")
	v.SetDefault("Library.Database.LogMode", "false")

	v.SetDefault("MusicBrainz.BaseURL", "https://musicbrainz.org/ws/2")
	v.SetDefault("MusicBrainz.CoverArtURL", "https://coverartarchive.org")
	v.SetDefault("MusicBrainz.SearchLimit", "5")
	v.SetDefault("MusicBrainz.RateLimit", "1s")

	v.SetDefault("Paths.Format", "$albumartist/$album/$track - $title")

	v.SetDefault("Search.BleveDir", ".")
}

func userAgent() string {
	return shelf.AppName + "/" + shelf.Version + " ( " + shelf.Contact + " ) "
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Import.Action {
	case ActionCopy, ActionMove, ActionLink:
	default:
		return fmt.Errorf("import action %q must be copy, move or link", c.Import.Action)
	}
	if c.Library.Directory == "" {
		return errors.New("library directory must be set")
	}
	if c.Paths.Format == "" {
		return errors.New("paths format must be set")
	}
	if c.MusicBrainz.SearchLimit <= 0 {
		return errors.New("musicbrainz search limit must be positive")
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = 1
	}
	c.Import.WatchDirs = splitDirs(c.Import.WatchDirs)
	return nil
}

// splitDirs flattens comma separated entries and drops empty ones.
func splitDirs(dirs []string) []string {
	var result []string
	for _, d := range dirs {
		for _, s := range str.Split(d) {
			if s != "" {
				result = append(result, s)
			}
		}
	}
	return result
}

var pathRegexp = regexp.MustCompile(`(file|dir|source|directory)$`)

func readConfig(v *viper.Viper) (*Config, error) {
	var config Config
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// no config file, defaults only
	}
	dir := filepath.Dir(v.ConfigFileUsed())
	for _, k := range v.AllKeys() {
		if !pathRegexp.MatchString(k) {
			continue
		}
		val, ok := v.Get(k).(string)
		if !ok || val == "" || strings.HasPrefix(val, ":") || strings.HasPrefix(val, "file:") {
			continue
		}
		if strings.HasSuffix(k, "database.source") &&
			v.GetString("library.database.driver") != "sqlite3" {
			// dsn, not a path
			continue
		}
		if strings.HasPrefix(val, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				val = filepath.Join(home, val[2:])
			}
		}
		if !filepath.IsAbs(val) {
			val = filepath.Join(dir, val)
		}
		v.Set(k, val)
	}
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	err = config.Validate()
	return &config, err
}

// TestConfig builds a configuration rooted in dir, ignoring any config file.
func TestConfig(dir string) (*Config, error) {
	v := viper.New()
	configDefaults(v)
	v.SetDefault("Library.Directory", filepath.Join(dir, "library"))
	v.SetDefault("Library.Database.Source", filepath.Join(dir, "library.db"))
	v.SetDefault("Search.BleveDir", dir)
	v.SetDefault("Client.CacheDir", filepath.Join(dir, ".httpcache"))
	return readConfig(v)
}

var configFile, configPath, configName string

func SetConfigFile(path string) {
	configFile = path
}

func AddConfigPath(path string) {
	configPath = path
}

func SetConfigName(name string) {
	configName = name
}

func GetConfig() (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if configName != "" {
		v.SetConfigName(configName)
	}
	configDefaults(v)
	return readConfig(v)
}

func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(shelf.AppName)
	configDefaults(v)
	return readConfig(v)
}
