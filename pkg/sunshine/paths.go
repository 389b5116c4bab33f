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

// Package sunshine reads and rewrites Sunshine's apps.json: a pure merge of
// library entries into the document plus a store that backs the document
// up and replaces it atomically.
package sunshine

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// AppsFile is the name of Sunshine's application list.
const AppsFile = "apps.json"

// FlatpakIDs are the Sunshine Flatpak app IDs, newest first.
var FlatpakIDs = []string{
	"dev.lizardbyte.app.Sunshine",
	"dev.lizardbyte.Sunshine",
}

// DetectConfigDir returns the Sunshine config directory: the first Flatpak
// config dir that exists, otherwise <configHome>/sunshine.
func DetectConfigDir(fs afero.Fs, home, configHome string) string {
	for _, id := range FlatpakIDs {
		dir := filepath.Join(home, ".var", "app", id, "config", "sunshine")
		if ok, err := afero.DirExists(fs, dir); err == nil && ok {
			return dir
		}
	}
	return filepath.Join(configHome, "sunshine")
}

// AppsPath returns the apps.json path inside a Sunshine config dir.
func AppsPath(configDir string) string {
	return filepath.Join(configDir, AppsFile)
}
