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

// Package heroic scans games installed through Heroic Games Launcher. The
// Epic, GOG and sideloaded stores are separate sources sharing one parser.
package heroic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// Store describes where one Heroic store keeps its library list.
type Store struct {
	// File is relative to the Heroic config root.
	File string
	// Key is the top-level JSON key holding the game list.
	Key string
	// Runner is used when a record does not name its own.
	Runner string
	Source library.Source
}

var (
	EpicStore = Store{
		Source: library.SourceHeroicEpic,
		File:   filepath.Join("store_cache", "legendary_library.json"),
		Key:    "library",
		Runner: "legendary",
	}
	GOGStore = Store{
		Source: library.SourceHeroicGOG,
		File:   filepath.Join("store_cache", "gog_library.json"),
		Key:    "games",
		Runner: "gog",
	}
	SideloadStore = Store{
		Source: library.SourceHeroicSideload,
		File:   filepath.Join("sideload_apps", "library.json"),
		Key:    "games",
		Runner: "sideload",
	}
)

// Stores lists every Heroic store in scan order.
var Stores = []Store{EpicStore, GOGStore, SideloadStore}

// Scanner implements library.Scanner for a single Heroic store.
type Scanner struct {
	store Store
}

func NewScanner(store Store) *Scanner {
	return &Scanner{store: store}
}

var _ library.Scanner = (*Scanner)(nil)

func (s *Scanner) Source() library.Source {
	return s.store.Source
}

// Scan reads the store's library file from the first existing Heroic root.
// A Heroic install that has never used this store yields no entries.
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]library.Entry, error) {
	existing, err := library.ExistingRoots(roots)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("heroic scan cancelled: %w", err)
	}

	root := existing[0]
	path := filepath.Join(root, s.store.File)
	//nolint:gosec // path is built from the Heroic config dir
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Heroic library file not found")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read Heroic library file: %w", err)
	}

	games, err := parseLibrary(data, s.store.Key, path)
	if err != nil {
		return nil, err
	}

	entries := make([]library.Entry, 0, len(games))
	for i := range games {
		g := &games[i]
		if err := g.validate(); err != nil {
			if !errors.Is(err, errNotInstalled) {
				log.Warn().Err(err).Str("source", string(s.store.Source)).Msg("skipping Heroic game")
			}
			continue
		}
		entries = append(entries, s.newEntry(root, g))
	}

	log.Debug().Str("source", string(s.store.Source)).Msgf("found %d Heroic games", len(entries))
	return library.Dedupe(entries), nil
}

func (s *Scanner) newEntry(root string, g *gameInfo) library.Entry {
	runner := strings.TrimSpace(g.Runner)
	if runner == "" {
		runner = s.store.Runner
	}
	local, remote := artHints(root, g.ArtSquare, g.ArtCover)
	return library.Entry{
		ID:            library.EntryID(s.store.Source, g.AppName),
		NativeID:      g.AppName,
		Name:          strings.TrimSpace(g.Title),
		Source:        s.store.Source,
		LaunchCommand: LaunchCommand(root, runner, g.AppName),
		ArtHints: library.ArtHints{
			Local:  local,
			Remote: remote,
		},
	}
}
