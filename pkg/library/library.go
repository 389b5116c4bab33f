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

// Package library defines the uniform game entry produced by every launcher
// scanner and the registry that maps each source to its scanner.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Source identifies the launcher (or synthetic list) an entry was found in.
type Source string

const (
	SourceSteam          Source = "steam"
	SourceHeroicEpic     Source = "heroic-epic"
	SourceHeroicGOG      Source = "heroic-gog"
	SourceHeroicSideload Source = "heroic-sideload"
	SourceSystem         Source = "system"
)

// AllSources lists every known source in scan order.
var AllSources = []Source{
	SourceSteam,
	SourceHeroicEpic,
	SourceHeroicGOG,
	SourceHeroicSideload,
	SourceSystem,
}

// ErrRootNotFound is returned by scanners when none of their library roots
// exist. Callers treat it as "launcher not installed".
var ErrRootNotFound = errors.New("library root not found")

// ArtHints carries cover art locations discovered while scanning.
type ArtHints struct {
	// Local are on-disk images already materialised by the launcher, in
	// order of preference.
	Local []string
	// Remote are image URLs advertised by the launcher metadata.
	Remote []string
}

// Entry is one installed game (or system app) ready to be published as a
// Sunshine application.
type Entry struct {
	// HostFields are extra native Sunshine fields owned by this entry.
	HostFields map[string]any
	// ID is namespaced by source and stable across runs, e.g. "steam:730".
	ID string
	// NativeID is the launcher's own identifier, e.g. "730".
	NativeID      string
	Name          string
	Source        Source
	LaunchCommand string
	WorkingDir    string
	CoverArtPath  string
	ArtHints      ArtHints
}

// EntryID builds the namespaced identifier for a native launcher id.
func EntryID(source Source, nativeID string) string {
	return string(source) + ":" + nativeID
}

// SteamAppID returns the numeric Steam app id of a Steam entry.
func (e *Entry) SteamAppID() (string, bool) {
	if e.Source != SourceSteam || e.NativeID == "" {
		return "", false
	}
	for _, r := range e.NativeID {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return e.NativeID, true
}

// Scanner lists the installed games of a single source.
type Scanner interface {
	Source() Source
	// Scan reads the launcher's manifests under roots. It returns an error
	// wrapping ErrRootNotFound when no root exists; individual malformed
	// manifests are skipped.
	Scan(ctx context.Context, roots []string) ([]Entry, error)
}

// ExistingRoots filters roots down to the directories that exist. It
// returns ErrRootNotFound when none do.
func ExistingRoots(roots []string) ([]string, error) {
	found := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		found = append(found, root)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: tried %s", ErrRootNotFound, strings.Join(roots, ", "))
	}
	return found, nil
}

// Dedupe drops entries whose ID was already seen, keeping the first.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for i := range entries {
		if _, ok := seen[entries[i].ID]; ok {
			continue
		}
		seen[entries[i].ID] = struct{}{}
		out = append(out, entries[i])
	}
	return out
}
