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
	"errors"
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"
	"github.com/h2non/filetype"
)

var ErrNotImage = errors.New("not an image")

const pictureDescription = "Front cover"

// sniffImage returns the mime type and file extension of image data.
func sniffImage(data []byte) (string, string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", "", err
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return "", "", ErrNotImage
	}
	return kind.MIME.Value, kind.Extension, nil
}

func hasPicture(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil {
		return false
	}
	return m.Picture() != nil
}

// EmbedArt adds art as the front cover of an mp3 or flac file. Files that
// already have a picture and other formats are left unchanged.
func EmbedArt(path string, art []byte) error {
	format := FormatOf(path)
	if format != MP3 && format != FLAC {
		return nil
	}
	if hasPicture(path) {
		return nil
	}
	mime, _, err := sniffImage(art)
	if err != nil {
		return err
	}
	if format == MP3 {
		return embedMP3(path, art, mime)
	}
	return embedFLAC(path, art, mime)
}

func embedMP3(path string, art []byte, mime string) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer t.Close()
	t.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: pictureDescription,
		Picture:     art,
	})
	return t.Save()
}

func embedFLAC(path string, art []byte, mime string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return err
	}
	picture, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		pictureDescription,
		art,
		mime,
	)
	if err != nil {
		return err
	}
	block := picture.Marshal()
	f.Meta = append(f.Meta, &block)
	return f.Save(path)
}
