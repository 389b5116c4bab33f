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

package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "steam:730", EntryID(SourceSteam, "730"))
	assert.Equal(t, "heroic-gog:1207658924", EntryID(SourceHeroicGOG, "1207658924"))
}

func TestEntry_SteamAppID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		entry  Entry
		wantOK bool
	}{
		{
			name:   "steam numeric",
			entry:  Entry{Source: SourceSteam, NativeID: "730"},
			want:   "730",
			wantOK: true,
		},
		{
			name:  "steam non numeric",
			entry: Entry{Source: SourceSteam, NativeID: "abc"},
		},
		{
			name:  "steam empty",
			entry: Entry{Source: SourceSteam},
		},
		{
			name:  "other source",
			entry: Entry{Source: SourceHeroicEpic, NativeID: "730"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.entry.SteamAppID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExistingRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	found, err := ExistingRoots([]string{"", filepath.Join(dir, "missing"), file, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, found)

	_, err = ExistingRoots([]string{filepath.Join(dir, "missing")})
	require.ErrorIs(t, err, ErrRootNotFound)

	_, err = ExistingRoots(nil)
	require.ErrorIs(t, err, ErrRootNotFound)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	in := []Entry{
		{ID: "steam:1", Name: "first"},
		{ID: "steam:2"},
		{ID: "steam:1", Name: "second"},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Name)
	assert.Equal(t, "steam:2", out[1].ID)
	assert.Equal(t, "steam:1", in[2].ID, "input must not be modified")

	assert.Empty(t, Dedupe(nil))
}
