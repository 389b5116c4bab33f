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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
)

// stateUninstalled is the StateFlags bit of an app whose files are gone.
// Apps downloading an update (UpdateRequired, UpdateRunning, UpdateStarted)
// stay playable and are kept.
const stateUninstalled = 1

// AppInfo contains the parts of an appmanifest_*.acf the importer needs.
type AppInfo struct {
	AppID      string
	Name       string
	InstallDir string
}

// normalizeVDFKeys recursively lowercases all keys in a map[string]any tree.
// Valve's VDF format is case-insensitive, but Go maps use exact string matching.
func normalizeVDFKeys(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeVDFKeys(nested)
		}
		result[strings.ToLower(k)] = v
	}
	return result
}

func parseVDFFile(path string) (map[string]any, error) {
	//nolint:gosec // Safe: reads Steam config files for game library scanning
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing vdf file")
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return normalizeVDFKeys(m), nil
}

// ReadAppManifest parses a single app manifest. The app id always comes
// from the manifest body, never from the file name.
func ReadAppManifest(path string) (AppInfo, error) {
	m, err := parseVDFFile(path)
	if err != nil {
		return AppInfo{}, err
	}

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return AppInfo{}, errors.New("appstate not found in manifest")
	}

	appID, ok := appState["appid"].(string)
	if !ok || appID == "" {
		return AppInfo{}, errors.New("appid not found in manifest")
	}
	if _, err := strconv.ParseUint(appID, 10, 32); err != nil {
		return AppInfo{}, fmt.Errorf("invalid appid %q in manifest", appID)
	}

	name, ok := appState["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return AppInfo{}, errors.New("name not found in manifest")
	}

	if flags, ok := appState["stateflags"].(string); ok {
		n, err := strconv.Atoi(flags)
		if err == nil && (n == 0 || n&stateUninstalled != 0) {
			return AppInfo{}, fmt.Errorf("app %s is not installed (StateFlags %d)", appID, n)
		}
	}

	installDir, _ := appState["installdir"].(string) //nolint:revive // installdir is optional
	return AppInfo{
		AppID:      appID,
		Name:       strings.TrimSpace(name),
		InstallDir: installDir,
	}, nil
}

// LibraryDirs returns every steamapps directory known to the Steam install
// whose main steamapps directory is mainSteamApps. The main directory comes
// first, then libraryfolders.vdf entries in key order; duplicates and
// missing directories are dropped.
func LibraryDirs(mainSteamApps string) []string {
	dirs := []string{filepath.Clean(mainSteamApps)}
	seen := map[string]struct{}{dirs[0]: {}}

	m, err := parseVDFFile(filepath.Join(mainSteamApps, "libraryfolders.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("no usable libraryfolders.vdf, scanning main library only")
		return dirs
	}

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		log.Warn().Msg("libraryfolders is not a map")
		return dirs
	}

	keys := make([]string, 0, len(lfs))
	for k := range lfs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		if errI == nil && errJ == nil {
			return ni < nj
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		ls, ok := lfs[k].(map[string]any)
		if !ok {
			// old format: "1" "/path/to/library"
			if p, isStr := lfs[k].(string); isStr && isLibraryIndex(k) {
				ls = map[string]any{"path": p}
			} else {
				continue
			}
		}
		libraryPath, ok := ls["path"].(string)
		if !ok || libraryPath == "" {
			log.Warn().Str("library", k).Msg("library path is not a string")
			continue
		}
		dir, found := FindSteamAppsDir(libraryPath)
		if !found {
			log.Warn().Str("path", libraryPath).Msg("steam library folder missing, skipping")
			continue
		}
		dir = filepath.Clean(dir)
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	return dirs
}

func isLibraryIndex(k string) bool {
	_, err := strconv.Atoi(k)
	return err == nil
}

// ManifestFiles lists appmanifest_*.acf files in a steamapps directory,
// sorted by name.
func ManifestFiles(steamAppsDir string) ([]string, error) {
	entries, err := os.ReadDir(steamAppsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list steamapps folder: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
			continue
		}
		files = append(files, filepath.Join(steamAppsDir, name))
	}
	sort.Strings(files)
	return files, nil
}
