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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateRoots(t *testing.T) {
	t.Parallel()

	roots := CandidateRoots("/home/bazzite", "")
	assert.Equal(t, []string{
		"/home/bazzite/.local/share/Steam",
		"/home/bazzite/.steam/steam",
		"/home/bazzite/.var/app/com.valvesoftware.Steam/.local/share/Steam",
		"/home/bazzite/.var/app/com.valvesoftware.Steam/.steam/steam",
	}, roots)

	withOverride := CandidateRoots("/home/bazzite", "/mnt/Steam")
	assert.Equal(t, "/mnt/Steam", withOverride[0])
	assert.Len(t, withOverride, 5)
}

func TestLaunchCommand(t *testing.T) {
	t.Parallel()

	cmd, wd := LaunchCommand("/home/bazzite/.local/share/Steam", "730")
	assert.Equal(t, "steam -applaunch 730", cmd)
	assert.Equal(t, "/home/bazzite/.local/share/Steam", wd)

	flatpakRoot := "/home/bazzite/.var/app/com.valvesoftware.Steam/.local/share/Steam"
	cmd, wd = LaunchCommand(flatpakRoot, "730")
	assert.Equal(t, "flatpak-spawn --host flatpak run com.valvesoftware.Steam steam -applaunch 730", cmd)
	assert.Equal(t, flatpakRoot, wd)
}

func TestIsFlatpakRoot(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFlatpakRoot("/home/u/.var/app/com.valvesoftware.Steam"))
	assert.True(t, IsFlatpakRoot("/home/u/.var/app/com.valvesoftware.Steam/.steam/steam"))
	assert.False(t, IsFlatpakRoot("/home/u/.local/share/Steam"))
	assert.False(t, IsFlatpakRoot("/home/u/.var/app/com.valvesoftware.SteamLink"))
}

func TestFindSteamAppsDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, ok := FindSteamAppsDir(root)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "SteamApps"), 0o750))
	dir, ok := FindSteamAppsDir(root)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "SteamApps"), dir)
}
