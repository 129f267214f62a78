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

package music

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/defsub/shelf/lib/gorm"
)

type AudioFormat int

const (
	UnknownFormat AudioFormat = iota
	MP3
	FLAC
	OggVorbis
	Opus
	AAC
	ALAC
	WAV
	AIFF
)

func (f AudioFormat) String() string {
	switch f {
	case MP3:
		return "MP3"
	case FLAC:
		return "FLAC"
	case OggVorbis:
		return "Ogg Vorbis"
	case Opus:
		return "Opus"
	case AAC:
		return "AAC"
	case ALAC:
		return "ALAC"
	case WAV:
		return "WAV"
	case AIFF:
		return "AIFF"
	}
	return "Unknown"
}

var extensionFormats = map[string]AudioFormat{
	"mp3":  MP3,
	"flac": FLAC,
	"ogg":  OggVorbis,
	"oga":  OggVorbis,
	"opus": Opus,
	"m4a":  AAC,
	"aac":  AAC,
	"alac": ALAC,
	"wav":  WAV,
	"aiff": AIFF,
	"aif":  AIFF,
}

// FormatFromExtension accepts an extension with or without the leading dot.
func FormatFromExtension(ext string) AudioFormat {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return UnknownFormat
}

func FormatOf(path string) AudioFormat {
	return FormatFromExtension(filepath.Ext(path))
}

// Item is one audio file in the library. Bitrate is kbps and Length is
// seconds.
type Item struct {
	gorm.Model
	AlbumID     uint      `gorm:"index"`
	Path        string    `gorm:"uniqueIndex;size:768;not null"`
	Title       string    `gorm:"size:255"`
	Artist      string    `gorm:"index;size:255"`
	Album       string    `gorm:"index;size:255"`
	AlbumArtist string    `gorm:"column:albumartist;size:255"`
	Genre       string    `gorm:"index;size:255"`
	Year        int       `gorm:"index"`
	Track       int       `gorm:"default:0"`
	Disc        int       `gorm:"default:0"`
	Format      string    `gorm:"size:32"`
	Bitrate     int       `gorm:"default:0"`
	Length      float64   `gorm:"default:0"`
	MBTrackID   string    `gorm:"column:mb_trackid;size:64"`
	MBAlbumID   string    `gorm:"column:mb_albumid;size:64"`
	ImportID    string    `gorm:"size:64"`
	Added       time.Time `gorm:"index"`
	Mtime       time.Time
}

func (i Item) EffectiveAlbumArtist() string {
	if i.AlbumArtist != "" {
		return i.AlbumArtist
	}
	return i.Artist
}

func (i Item) AudioFormat() AudioFormat {
	return FormatOf(i.Path)
}

type Album struct {
	gorm.Model
	Album       string `gorm:"index;size:255"`
	AlbumArtist string `gorm:"column:albumartist;index;size:255"`
	Year        int
	ArtPath     string `gorm:"size:1024"`
	MBAlbumID   string `gorm:"column:mb_albumid;size:64"`
	ImportID    string `gorm:"size:64"`
	Added       time.Time
}

// CandidateKey holds the case folded album artist and album.
type CandidateKey struct {
	Artist string
	Album  string
}

// Candidate is a group of items believed to be one album.
type Candidate struct {
	Key    CandidateKey
	Artist string
	Album  string
	Items  []Item
}

// Migration records an applied schema version.
type Migration struct {
	Version   int `gorm:"primarykey;autoIncrement:false"`
	AppliedAt time.Time
}

type Stats struct {
	Tracks      int64
	Albums      int64
	Artists     int64
	TotalLength float64 // seconds
	TotalSize   int64   // bytes
}
