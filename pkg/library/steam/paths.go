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

package steam

import (
	"os"
	"path/filepath"
	"strings"
)

// FlatpakSteamID is the Flatpak app ID for Steam.
const FlatpakSteamID = "com.valvesoftware.Steam"

// CandidateRoots returns the Steam root directories to try, in order. A
// non-empty override always comes first.
func CandidateRoots(home, override string) []string {
	var roots []string
	if override != "" {
		roots = append(roots, override)
	}
	flatpak := filepath.Join(home, ".var", "app", FlatpakSteamID)
	return append(roots,
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(flatpak, ".local", "share", "Steam"),
		filepath.Join(flatpak, ".steam", "steam"),
	)
}

// IsFlatpakRoot reports whether root belongs to the Flatpak Steam install,
// which needs a different launch command.
func IsFlatpakRoot(root string) bool {
	marker := string(filepath.Separator) + filepath.Join(".var", "app", FlatpakSteamID) + string(filepath.Separator)
	return strings.Contains(filepath.Clean(root)+string(filepath.Separator), marker)
}

// FindSteamAppsDir finds the steamapps directory under a Steam root. It
// checks both the lowercase and the legacy mixed-case spelling.
func FindSteamAppsDir(steamDir string) (string, bool) {
	for _, candidate := range []string{"steamapps", "SteamApps"} {
		path := filepath.Join(steamDir, candidate)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, true
		}
	}
	return filepath.Join(steamDir, "steamapps"), false
}

// LaunchCommand returns the Sunshine command and working directory that
// start appID through the Steam install at root.
func LaunchCommand(root, appID string) (cmd, workDir string) {
	if IsFlatpakRoot(root) {
		return "flatpak-spawn --host flatpak run " + FlatpakSteamID + " steam -applaunch " + appID, root
	}
	return "steam -applaunch " + appID, root
}

// LibraryCacheArt lists the portrait covers the Steam client keeps in its
// own library cache for appID. Newer clients use a per-app directory.
func LibraryCacheArt(root, appID string) []string {
	cache := filepath.Join(root, "appcache", "librarycache")
	return []string{
		filepath.Join(cache, appID+"_library_600x900.jpg"),
		filepath.Join(cache, appID, "library_600x900.jpg"),
	}
}
