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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// vdfEscapePath escapes backslashes in paths for VDF files.
func vdfEscapePath(path string) string {
	return strings.ReplaceAll(path, `\`, `\\`)
}

func writeManifest(t *testing.T, steamAppsDir, fileID, appID, name, flags string) {
	t.Helper()
	content := `"AppState"
{
	"appid"		"` + appID + `"
	"Universe"		"1"
	"name"		"` + name + `"
	"StateFlags"		"` + flags + `"
	"installdir"		"` + name + `"
}`
	path := filepath.Join(steamAppsDir, "appmanifest_"+fileID+".acf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writeLibraryFolders(t *testing.T, steamAppsDir string, paths ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("\"libraryfolders\"\n{\n")
	for i, p := range paths {
		b.WriteString("\t\"" + string(rune('0'+i)) + "\"\n\t{\n")
		b.WriteString("\t\t\"path\"\t\t\"" + vdfEscapePath(p) + "\"\n")
		b.WriteString("\t\t\"label\"\t\t\"\"\n\t}\n")
	}
	b.WriteString("}\n")
	require.NoError(t, os.WriteFile(filepath.Join(steamAppsDir, "libraryfolders.vdf"), []byte(b.String()), 0o600))
}

func newSteamRoot(t *testing.T) (root, steamApps string) {
	t.Helper()
	root = t.TempDir()
	steamApps = filepath.Join(root, "steamapps")
	require.NoError(t, os.MkdirAll(steamApps, 0o750))
	return root, steamApps
}

func TestScanner_Source(t *testing.T) {
	t.Parallel()
	assert.Equal(t, library.SourceSteam, NewScanner().Source())
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("missing_roots_report_not_found", func(t *testing.T) {
		t.Parallel()

		_, err := NewScanner().Scan(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
		require.ErrorIs(t, err, library.ErrRootNotFound)
	})

	t.Run("root_without_steamapps_reports_not_found", func(t *testing.T) {
		t.Parallel()

		_, err := NewScanner().Scan(context.Background(), []string{t.TempDir()})
		require.ErrorIs(t, err, library.ErrRootNotFound)
	})

	t.Run("scans_main_library_without_libraryfolders", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		writeManifest(t, steamApps, "730", "730", "Counter-Strike 2", "4")

		entries, err := NewScanner().Scan(context.Background(), []string{root})
		require.NoError(t, err)
		require.Len(t, entries, 1)

		e := entries[0]
		assert.Equal(t, "steam:730", e.ID)
		assert.Equal(t, "730", e.NativeID)
		assert.Equal(t, "Counter-Strike 2", e.Name)
		assert.Equal(t, library.SourceSteam, e.Source)
		assert.Equal(t, "steam -applaunch 730", e.LaunchCommand)
		assert.Equal(t, root, e.WorkingDir)
		assert.Equal(t, LibraryCacheArt(root, "730"), e.ArtHints.Local)
	})

	t.Run("id_comes_from_manifest_not_filename", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		writeManifest(t, steamApps, "999", "440", "Team Fortress 2", "4")

		entries, err := NewScanner().Scan(context.Background(), []string{root})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "steam:440", entries[0].ID)
	})

	t.Run("skips_malformed_and_partial_manifests", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		writeManifest(t, steamApps, "10", "10", "Counter-Strike", "4")
		writeManifest(t, steamApps, "20", "20", "Uninstalled Game", "1")
		writeManifest(t, steamApps, "30", "abc", "Bad Id", "4")
		require.NoError(t, os.WriteFile(filepath.Join(steamApps, "appmanifest_40.acf"), []byte("{{{ not vdf"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(steamApps, "appmanifest_50.acf"),
			[]byte("\"AppState\"\n{\n\t\"appid\"\t\"50\"\n}\n"), 0o600))

		entries, err := NewScanner().Scan(context.Background(), []string{root})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "steam:10", entries[0].ID)
	})

	t.Run("scans_extra_libraries_in_order_and_dedupes", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		extra := t.TempDir()
		extraApps := filepath.Join(extra, "steamapps")
		require.NoError(t, os.MkdirAll(extraApps, 0o750))

		writeLibraryFolders(t, steamApps, root, extra, filepath.Join(t.TempDir(), "unplugged"))
		writeManifest(t, steamApps, "730", "730", "Counter-Strike 2", "4")
		writeManifest(t, steamApps, "70", "70", "Half-Life", "4")
		writeManifest(t, extraApps, "220", "220", "Half-Life 2", "4")
		writeManifest(t, extraApps, "730", "730", "Counter-Strike 2 (copy)", "4")

		entries, err := NewScanner().Scan(context.Background(), []string{root})
		require.NoError(t, err)

		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"steam:70", "steam:730", "steam:220"}, ids)
		assert.Equal(t, "Counter-Strike 2", entries[1].Name)
	})

	t.Run("first_existing_root_wins", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		writeManifest(t, steamApps, "730", "730", "Counter-Strike 2", "4")

		entries, err := NewScanner().Scan(context.Background(), []string{
			filepath.Join(t.TempDir(), "missing"),
			root,
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		t.Parallel()

		root, steamApps := newSteamRoot(t)
		writeManifest(t, steamApps, "730", "730", "Counter-Strike 2", "4")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewScanner().Scan(ctx, []string{root})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestScanner_Idempotent(t *testing.T) {
	t.Parallel()

	root, steamApps := newSteamRoot(t)
	for _, id := range []string{"10", "730", "220", "440"} {
		writeManifest(t, steamApps, id, id, "Game "+id, "4")
	}

	first, err := NewScanner().Scan(context.Background(), []string{root})
	require.NoError(t, err)
	second, err := NewScanner().Scan(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
