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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

func writeStoreFile(t *testing.T, root string, store Store, content string) {
	t.Helper()
	path := filepath.Join(root, store.File)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestScanner_Source(t *testing.T) {
	t.Parallel()

	for _, store := range Stores {
		assert.Equal(t, store.Source, NewScanner(store).Source())
	}
}

func TestScanner_Epic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStoreFile(t, root, EpicStore, `{
		"library": [
			{"app_name": "Fortnite", "title": "Fortnite", "runner": "legendary", "is_installed": true,
			 "art_square": "https://cdn.example/fn.jpg"},
			{"app_name": "Other", "title": "Not Installed", "runner": "legendary", "is_installed": false},
			{"app_name": "", "title": "No App Name", "is_installed": true},
			{"app_name": "NoTitle", "title": "  ", "is_installed": true},
			{"app_name": 42, "title": "Broken", "is_installed": true},
			{"app_name": "Rocket", "title": "Rocket League", "is_installed": true}
		]
	}`)

	entries, err := NewScanner(EpicStore).Scan(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	fn := entries[0]
	assert.Equal(t, "heroic-epic:Fortnite", fn.ID)
	assert.Equal(t, "Fortnite", fn.NativeID)
	assert.Equal(t, library.SourceHeroicEpic, fn.Source)
	assert.Equal(t, `heroic --no-gui --no-sandbox "heroic://launch/legendary/Fortnite"`, fn.LaunchCommand)
	assert.Equal(t, []string{CachedImagePath(root, "https://cdn.example/fn.jpg")}, fn.ArtHints.Local)
	assert.Equal(t, []string{"https://cdn.example/fn.jpg"}, fn.ArtHints.Remote)

	rl := entries[1]
	assert.Equal(t, "Rocket League", rl.Name)
	assert.Contains(t, rl.LaunchCommand, "heroic://launch/legendary/Rocket", "store runner is the fallback")
}

func TestScanner_GOGFlatpak(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	root := filepath.Join(home, ".var", "app", FlatpakHeroicID, "config", "heroic")
	writeStoreFile(t, root, GOGStore, `{"games": [
		{"app_name": "1207658924", "title": "Unreal Tournament 2004", "runner": "gog", "is_installed": true,
		 "art_square": "https://images.gog.com/sq.jpg", "art_cover": "https://images.gog.com/cv.jpg"}
	]}`)

	roots := CandidateRoots(home, filepath.Join(home, ".config"), "")
	entries, err := NewScanner(GOGStore).Scan(context.Background(), roots)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "heroic-gog:1207658924", e.ID)
	assert.Equal(t,
		`flatpak run com.heroicgameslauncher.hgl --no-gui --no-sandbox "heroic://launch/gog/1207658924"`,
		e.LaunchCommand)
	assert.Equal(t, []string{
		CachedImagePath(root, "https://images.gog.com/sq.jpg"),
		CachedImagePath(root, "https://images.gog.com/cv.jpg"),
	}, e.ArtHints.Local)
}

func TestScanner_SideloadLocalArt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStoreFile(t, root, SideloadStore, `{"games": [
		{"app_name": "abc123", "title": "My Emulator", "runner": "sideload", "is_installed": true,
		 "art_square": "file:///home/deck/Pictures/emu.png"},
		{"app_name": "def456", "title": "Tool", "is_installed": true, "art_cover": "/opt/tool/cover.jpg"}
	]}`)

	entries, err := NewScanner(SideloadStore).Scan(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "heroic-sideload:abc123", entries[0].ID)
	assert.Equal(t, []string{"/home/deck/Pictures/emu.png"}, entries[0].ArtHints.Local)
	assert.Empty(t, entries[0].ArtHints.Remote)
	assert.Equal(t, []string{"/opt/tool/cover.jpg"}, entries[1].ArtHints.Local)
	assert.Contains(t, entries[1].LaunchCommand, "heroic://launch/sideload/def456")
}

func TestScanner_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no_root", func(t *testing.T) {
		t.Parallel()
		_, err := NewScanner(EpicStore).Scan(context.Background(), []string{filepath.Join(t.TempDir(), "x")})
		require.ErrorIs(t, err, library.ErrRootNotFound)
	})

	t.Run("store_never_used", func(t *testing.T) {
		t.Parallel()
		entries, err := NewScanner(GOGStore).Scan(context.Background(), []string{t.TempDir()})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing_key", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeStoreFile(t, root, EpicStore, `{"games": []}`)
		entries, err := NewScanner(EpicStore).Scan(context.Background(), []string{root})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("malformed_file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeStoreFile(t, root, EpicStore, `{"library": [`)
		_, err := NewScanner(EpicStore).Scan(context.Background(), []string{root})
		require.Error(t, err)
		assert.NotErrorIs(t, err, library.ErrRootNotFound)
	})

	t.Run("key_not_a_list", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeStoreFile(t, root, EpicStore, `{"library": {"a": 1}}`)
		_, err := NewScanner(EpicStore).Scan(context.Background(), []string{root})
		require.Error(t, err)
	})
}

func TestScanner_DuplicateAppNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStoreFile(t, root, EpicStore, `{"library": [
		{"app_name": "A", "title": "First", "is_installed": true},
		{"app_name": "A", "title": "Second", "is_installed": true}
	]}`)

	entries, err := NewScanner(EpicStore).Scan(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "First", entries[0].Name)
}
