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

package heroic

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FlatpakHeroicID is the Flatpak app ID for Heroic Games Launcher.
const FlatpakHeroicID = "com.heroicgameslauncher.hgl"

// CandidateRoots returns the Heroic config directories to try, in order: a
// non-empty override, the Flatpak install, then the native config dir.
func CandidateRoots(home, configHome, override string) []string {
	var roots []string
	if override != "" {
		roots = append(roots, override)
	}
	return append(roots,
		filepath.Join(home, ".var", "app", FlatpakHeroicID, "config", "heroic"),
		filepath.Join(configHome, "heroic"),
	)
}

// IsFlatpakRoot reports whether root is the Flatpak Heroic config dir.
func IsFlatpakRoot(root string) bool {
	marker := string(filepath.Separator) + filepath.Join(".var", "app", FlatpakHeroicID) + string(filepath.Separator)
	return strings.Contains(filepath.Clean(root)+string(filepath.Separator), marker)
}

// LaunchURI builds the heroic:// protocol link for a game.
func LaunchURI(runner, appName string) string {
	return fmt.Sprintf("heroic://launch/%s/%s", runner, appName)
}

// LaunchCommand returns the Sunshine command that starts a game through the
// Heroic install owning root.
func LaunchCommand(root, runner, appName string) string {
	uri := `"` + LaunchURI(runner, appName) + `"`
	if IsFlatpakRoot(root) {
		return "flatpak run " + FlatpakHeroicID + " --no-gui --no-sandbox " + uri
	}
	return "heroic --no-gui --no-sandbox " + uri
}
