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

// Package steam scans installed Steam games from the client's library
// folders and app manifests.
package steam

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// Scanner implements library.Scanner for Steam.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

var _ library.Scanner = (*Scanner)(nil)

func (*Scanner) Source() library.Source {
	return library.SourceSteam
}

// FindRoot returns the first candidate root that contains a steamapps
// directory.
func FindRoot(roots []string) (root, steamApps string, err error) {
	existing, err := library.ExistingRoots(roots)
	if err != nil {
		return "", "", err
	}
	for _, r := range existing {
		if dir, ok := FindSteamAppsDir(r); ok {
			return r, dir, nil
		}
		log.Debug().Str("root", r).Msg("steam root has no steamapps directory")
	}
	return "", "", fmt.Errorf("%w: no steamapps directory under %v", library.ErrRootNotFound, existing)
}

// Scan lists every fully installed app across all Steam library folders.
func (*Scanner) Scan(ctx context.Context, roots []string) ([]library.Entry, error) {
	root, steamApps, err := FindRoot(roots)
	if err != nil {
		return nil, err
	}
	log.Info().Str("root", root).Bool("flatpak", IsFlatpakRoot(root)).Msg("scanning Steam library")

	var entries []library.Entry
	for _, dir := range LibraryDirs(steamApps) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("steam scan cancelled: %w", err)
		}

		manifests, err := ManifestFiles(dir)
		if err != nil {
			log.Warn().Err(err).Str("library", dir).Msg("skipping unreadable steam library")
			continue
		}

		libEntries := make([]library.Entry, 0, len(manifests))
		for _, mf := range manifests {
			info, err := ReadAppManifest(mf)
			if err != nil {
				log.Warn().Err(err).Str("manifest", mf).Msg("skipping steam manifest")
				continue
			}
			libEntries = append(libEntries, newEntry(root, info))
		}
		sort.SliceStable(libEntries, func(i, j int) bool {
			a, _ := strconv.ParseUint(libEntries[i].NativeID, 10, 32)
			b, _ := strconv.ParseUint(libEntries[j].NativeID, 10, 32)
			return a < b
		})
		entries = append(entries, libEntries...)
	}

	return library.Dedupe(entries), nil
}

func newEntry(root string, info AppInfo) library.Entry {
	cmd, workDir := LaunchCommand(root, info.AppID)
	log.Debug().Str("appid", info.AppID).Str("name", info.Name).Msg("found Steam app")
	return library.Entry{
		ID:            library.EntryID(library.SourceSteam, info.AppID),
		NativeID:      info.AppID,
		Name:          info.Name,
		Source:        library.SourceSteam,
		LaunchCommand: cmd,
		WorkingDir:    workDir,
		ArtHints: library.ArtHints{
			Local: LibraryCacheArt(root, info.AppID),
		},
	}
}
