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

package sunshine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument_Skeleton(t *testing.T) {
	t.Parallel()

	out, err := NewDocument().Marshal()
	require.NoError(t, err)
	assert.Equal(t, `{
    "env": {
        "PATH": "$(PATH):$(HOME)/.local/bin"
    },
    "apps": []
}
`, string(out))
}

func TestParse_PreservesTopLevelKeys(t *testing.T) {
	t.Parallel()

	in := `{"custom":{"b":1,"a":2},"apps":[{"name":"Desktop","image-path":"desktop.png"}],"env":{"PATH":"x"}}`
	doc, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Len(t, doc.Apps, 1)
	assert.False(t, doc.Apps[0].Managed())
	assert.JSONEq(t, `{"PATH":"x"}`, string(doc.Env()))

	out, err := doc.Marshal()
	require.NoError(t, err)
	s := string(out)
	custom := strings.Index(s, `"custom"`)
	apps := strings.Index(s, `"apps"`)
	env := strings.Index(s, `"env"`)
	assert.Less(t, custom, apps)
	assert.Less(t, apps, env)
	assert.JSONEq(t, in, s)
	// object keys inside values keep their order
	assert.Less(t, strings.Index(s, `"b"`), strings.Index(s, `"a"`))
}

func TestParse_MarkerDetection(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`{"apps":[
		{"name":"Mine","x-bsm-id":"steam:730"},
		{"name":"Numeric","x-bsm-id":7},
		{"name":"Empty","x-bsm-id":""},
		{"name":"Plain"},
		{"name":"Dup","x-bsm-id":"steam:730"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.Apps, 5)

	assert.Equal(t, "steam:730", doc.Apps[0].ManagedID)
	assert.False(t, doc.Apps[1].Managed())
	assert.False(t, doc.Apps[2].Managed())
	assert.False(t, doc.Apps[3].Managed())

	managed := doc.Managed()
	require.Len(t, managed, 1)
	assert.Contains(t, string(managed["steam:730"].Raw), `"Mine"`)
	assert.Len(t, doc.Unmanaged(), 3)
}

func TestParse_MissingAppsKey(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`{"env":{}}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Apps)

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"env":{},"apps":[]}`, string(out))
}

func TestParse_BareAppList(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(` [{"name":"My Emulator","cmd":"retroarch"},{"name":"Portal","x-bsm-id":"steam:400"}]`))
	require.NoError(t, err)
	require.Len(t, doc.Apps, 2)
	assert.False(t, doc.Apps[0].Managed())
	assert.Equal(t, "steam:400", doc.Apps[1].ManagedID)
	assert.JSONEq(t, `{"PATH":"$(PATH):$(HOME)/.local/bin"}`, string(doc.Env()))

	out, err := doc.Marshal()
	require.NoError(t, err)
	reparsed, err := Parse(out)
	require.NoError(t, err)
	assert.Len(t, reparsed.Unmanaged(), 1)
	assert.Contains(t, string(out), `"My Emulator"`)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "garbage", in: "not json"},
		{name: "truncated_list", in: `[{"name":"x"}`},
		{name: "list_trailing_data", in: `[]{}`},
		{name: "apps_not_list", in: `{"apps":{}}`},
		{name: "duplicate_apps", in: `{"apps":[],"apps":[]}`},
		{name: "trailing_data", in: `{"apps":[]}{}`},
		{name: "truncated", in: `{"apps":[{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.in))
			require.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestMarshal_RoundTripIsStable(t *testing.T) {
	t.Parallel()

	in := `{"env":{"PATH":"$(PATH)"},"apps":[{"name":"Tom & Jerry <3","cmd":"a && b","exit-timeout":5}]}`
	doc, err := Parse([]byte(in))
	require.NoError(t, err)

	first, err := doc.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(first), "Tom & Jerry <3")
	assert.NotContains(t, string(first), `\u0026`)

	again, err := Parse(first)
	require.NoError(t, err)
	second, err := again.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
