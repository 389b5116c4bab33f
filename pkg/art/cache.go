// Bazzite Sunshine Manager
// Copyright (c) 2026 The Bazzite Sunshine Manager Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Bazzite Sunshine Manager.
//
// Bazzite Sunshine Manager is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Bazzite Sunshine Manager is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Bazzite Sunshine Manager.  If not, see <http://www.gnu.org/licenses/>.

package art

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// Cache stores normalised covers at <dir>/<source>/<key>.png. Keys are
// content identities, so concurrent writers of one key write the same
// bytes and the last rename wins.
type Cache struct {
	fs  afero.Fs
	dir string
}

func NewCache(fs afero.Fs, dir string) *Cache {
	return &Cache{fs: fs, dir: dir}
}

// Path returns where the cover for key is stored.
func (c *Cache) Path(source library.Source, key string) string {
	return filepath.Join(c.dir, string(source), key+".png")
}

// Lookup returns the cached cover path when a valid cover is stored.
func (c *Cache) Lookup(source library.Source, key string) (string, bool) {
	path := c.Path(source, key)
	f, err := c.fs.Open(path)
	if err != nil {
		return "", false
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing cached cover")
		}
	}()

	if !isCover(f) {
		log.Debug().Str("path", path).Msg("ignoring invalid cached cover")
		return "", false
	}
	return path, true
}

// Store writes a normalised cover through a temp file and rename.
func (c *Cache) Store(source library.Source, key string, png []byte) (string, error) {
	path := c.Path(source, key)
	dir := filepath.Dir(path)
	if err := c.fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create art cache dir: %w", err)
	}

	tmp, err := afero.TempFile(c.fs, dir, "."+key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp cover: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := c.fs.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", tmpName).Msg("error removing temp cover")
		}
	}

	if _, err := tmp.Write(png); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("failed to write temp cover: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to close temp cover: %w", err)
	}
	if err := c.fs.Rename(tmpName, path); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to move cover into place: %w", err)
	}
	return path, nil
}
