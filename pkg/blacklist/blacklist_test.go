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

package blacklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
	"pgregory.net/rapid"
)

func steamEntry(id, name string) library.Entry {
	return library.Entry{
		ID:       library.EntryID(library.SourceSteam, id),
		NativeID: id,
		Name:     name,
		Source:   library.SourceSteam,
	}
}

func ids(entries []library.Entry) []string {
	out := make([]string, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ID)
	}
	return out
}

func TestFilter_Determinism(t *testing.T) {
	t.Parallel()

	a := steamEntry("10", "Alpha")
	b := steamEntry("20", "Tool")
	entries := []library.Entry{a, b}

	byID, err := New(Options{IDs: []string{"10"}})
	require.NoError(t, err)
	kept, removed := byID.Apply(entries)
	assert.Equal(t, []library.Entry{b}, kept)
	assert.Equal(t, []library.Entry{a}, removed)

	byName, err := New(Options{NameRegex: []string{"^Tool$"}})
	require.NoError(t, err)
	kept, removed = byName.Apply(entries)
	assert.Equal(t, []library.Entry{a}, kept)
	assert.Equal(t, []library.Entry{b}, removed)
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry library.Entry
		opts  Options
		want  bool
	}{
		{
			name:  "namespaced id",
			opts:  Options{IDs: []string{"heroic-epic:Fortnite"}},
			entry: library.Entry{ID: "heroic-epic:Fortnite", NativeID: "Fortnite", Name: "Fortnite"},
			want:  true,
		},
		{
			name:  "id is exact",
			opts:  Options{IDs: []string{"73"}},
			entry: steamEntry("730", "Counter-Strike 2"),
		},
		{
			name:  "name is case insensitive",
			opts:  Options{NameRegex: []string{"counter"}},
			entry: steamEntry("730", "Counter-Strike 2"),
			want:  true,
		},
		{
			name:  "alternation",
			opts:  Options{NameRegex: []string{"foo|strike"}},
			entry: steamEntry("730", "Counter-Strike 2"),
			want:  true,
		},
		{
			name:  "empty pattern matches nothing",
			opts:  Options{NameRegex: []string{"", "   "}, IDs: []string{""}},
			entry: steamEntry("730", "Counter-Strike 2"),
		},
		{
			name:  "invalid regex falls back to substring",
			opts:  Options{NameRegex: []string{"Tool ("}},
			entry: steamEntry("1", "My tool (beta)"),
			want:  true,
		},
		{
			name:  "invalid regex without substring",
			opts:  Options{NameRegex: []string{"Tool ("}},
			entry: steamEntry("1", "Toolbox"),
		},
		{
			name:  "default proton",
			opts:  Options{UseDefault: true},
			entry: steamEntry("1493710", "Proton Experimental"),
			want:  true,
		},
		{
			name:  "default runtime",
			opts:  Options{UseDefault: true},
			entry: steamEntry("1628350", "Steam Linux Runtime 3.0 (sniper)"),
			want:  true,
		},
		{
			name:  "default keeps games",
			opts:  Options{UseDefault: true},
			entry: steamEntry("1145360", "Hades"),
		},
		{
			name:  "default keeps system apps",
			opts:  Options{UseDefault: true},
			entry: library.Entry{ID: "system:steam-big-picture", NativeID: "steam-big-picture", Name: "Steam Big Picture"},
		},
		{
			name:  "defaults off",
			opts:  Options{},
			entry: steamEntry("1493710", "Proton Experimental"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := New(tt.opts)
			require.NoError(t, err)
			got, _ := f.Match(&tt.entry)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_RulesAreUnion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "steam-import.blacklist")
	content := "# my exclusions\n\n440  # tf2\nBattlEye\n  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	f, err := New(Options{
		UseDefault: true,
		IDs:        []string{"10"},
		NameRegex:  []string{"^Portal"},
		File:       path,
	})
	require.NoError(t, err)

	entries := []library.Entry{
		steamEntry("10", "Counter-Strike"),
		steamEntry("20", "Team Fortress Classic"),
		steamEntry("400", "Portal"),
		steamEntry("440", "Team Fortress 2"),
		steamEntry("228980", "Steamworks Common Redistributables"),
		steamEntry("1", "BattlEye Service"),
		steamEntry("620", "Half-Life 2"),
	}
	kept, removed := f.Apply(entries)
	assert.Equal(t, []string{"steam:20", "steam:620"}, ids(kept))
	assert.Equal(t, []string{"steam:10", "steam:400", "steam:440", "steam:228980", "steam:1"}, ids(removed))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	gotIDs, gotPatterns, err := ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, gotIDs)
	assert.Empty(t, gotPatterns)

	path := filepath.Join(t.TempDir(), "rules")
	require.NoError(t, os.WriteFile(path, []byte("730\n#570\nSDK|Editor\n12a\n"), 0o600))
	gotIDs, gotPatterns, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"730"}, gotIDs)
	assert.Equal(t, []string{"SDK|Editor", "12a"}, gotPatterns)

	_, _, err = ReadFile(t.TempDir())
	require.Error(t, err)
}

func TestPropertyApplyPreservesOrder(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		entries := make([]library.Entry, 0, n)
		for range n {
			name := rapid.SampledFrom([]string{"Game", "Tool", "Proton 9.0", "Demo Disc", "Hades"}).Draw(t, "name")
			entries = append(entries, steamEntry(rapid.StringMatching(`[0-9]{1,3}`).Draw(t, "id"), name))
		}
		blocked := rapid.SliceOf(rapid.StringMatching(`[0-9]{1,3}`)).Draw(t, "blocked")

		f, err := New(Options{UseDefault: rapid.Bool().Draw(t, "default"), IDs: blocked})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		kept, removed := f.Apply(entries)
		if len(kept)+len(removed) != len(entries) {
			t.Fatalf("lost entries: %d + %d != %d", len(kept), len(removed), len(entries))
		}

		// kept and removed interleave back into the input order
		k, r := 0, 0
		for i := range entries {
			switch {
			case k < len(kept) && kept[k].ID == entries[i].ID && kept[k].Name == entries[i].Name:
				k++
			case r < len(removed) && removed[r].ID == entries[i].ID && removed[r].Name == entries[i].Name:
				r++
			default:
				t.Fatalf("entry %d out of order", i)
			}
		}

		again, _ := f.Apply(entries)
		if len(again) != len(kept) {
			t.Fatalf("filter is not deterministic")
		}
	})
}
