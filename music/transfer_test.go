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
	"path/filepath"
	"testing"
	"time"

	"github.com/defsub/shelf/config"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestTransferCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.flac")
	dst := filepath.Join(dir, "lib", "a", "b", "dst.flac")
	writeFile(t, src, "audio")
	mtime := time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)
	os.Chtimes(src, mtime, mtime)

	if err := transfer(config.ActionCopy, src, dst); err != nil {
		t.Fatal(err)
	}
	if readFile(t, dst) != "audio" || readFile(t, src) != "audio" {
		t.Errorf("copy contents")
	}
	info, _ := os.Stat(dst)
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime %v", info.ModTime())
	}
}

func TestTransferNoOverwrite(t *testing.T) {
	for _, action := range []string{config.ActionCopy, config.ActionMove, config.ActionLink} {
		t.Run(action, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src.flac")
			dst := filepath.Join(dir, "dst.flac")
			writeFile(t, src, "new")
			writeFile(t, dst, "old")
			if err := transfer(action, src, dst); !errors.Is(err, os.ErrExist) {
				t.Errorf("got %v", err)
			}
			if readFile(t, dst) != "old" || readFile(t, src) != "new" {
				t.Errorf("files changed")
			}
		})
	}
}

func TestTransferMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.flac")
	dst := filepath.Join(dir, "lib", "dst.flac")
	writeFile(t, src, "audio")
	if err := transfer(config.ActionMove, src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists")
	}
	if readFile(t, dst) != "audio" {
		t.Errorf("moved contents")
	}
}

func TestTransferLink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.flac")
	dst := filepath.Join(dir, "lib", "dst.flac")
	writeFile(t, src, "audio")
	if err := transfer(config.ActionLink, src, dst); err != nil {
		t.Fatal(err)
	}
	target, err := os.Readlink(dst)
	if err != nil || target != src {
		t.Errorf("link %s %v", target, err)
	}
	if readFile(t, dst) != "audio" {
		t.Errorf("link contents")
	}
}

func TestTransferSamePath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.flac")
	writeFile(t, src, "audio")
	for _, action := range []string{config.ActionCopy, config.ActionMove, config.ActionLink} {
		if err := transfer(action, src, src); err != nil {
			t.Errorf("%s: %v", action, err)
		}
	}
	if readFile(t, src) != "audio" {
		t.Errorf("contents changed")
	}
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.flac")
	if err := copyFile(filepath.Join(dir, "nope.flac"), dst); err == nil {
		t.Errorf("expected error")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("partial destination left behind")
	}
}
