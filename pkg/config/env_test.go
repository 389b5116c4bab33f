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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"1", "true", "TRUE", " yes ", "on", "y"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"0", "false", "no", "off", "n", ""} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBool("maybe")
	require.Error(t, err)
}

func TestSplitIDs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"10", "20", "30"}, SplitIDs(" 10, 20\n30 ,"))
	assert.Nil(t, SplitIDs("   "))
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	vals := BaseDefaults
	vals.Blacklist.IDs = []string{"1"}
	cfg, err := NewInstance(vals)
	require.NoError(t, err)

	err = cfg.ApplyEnv(envLookup(map[string]string{
		EnvImportSteam:          "0",
		EnvImportHeroic:         "0",
		EnvImportHeroicGOG:      "1",
		EnvImportSystemApps:     "yes",
		EnvBlacklistIDs:         "10,20",
		EnvBlacklistNameRegex:   "^Tool$",
		EnvSGDBEnable:           "1",
		EnvSGDBAPIKey:           " key ",
		EnvSGDBTimeout:          "5",
		EnvSunshineAppsJSON:     "/tmp/apps.json",
		EnvUseDefaultBlacklist:  "false",
		EnvImportHeroicSideload: "off",
	}))
	require.NoError(t, err)

	got := cfg.Snapshot()
	assert.False(t, got.Sources.Steam)
	assert.False(t, got.Sources.HeroicEpic)
	assert.True(t, got.Sources.HeroicGOG, "per-store toggle refines the umbrella toggle")
	assert.False(t, got.Sources.HeroicSideload)
	assert.True(t, got.Sources.SystemApps)
	assert.Equal(t, []string{"1", "10", "20"}, got.Blacklist.IDs)
	assert.Equal(t, []string{"^Tool$"}, got.Blacklist.NameRegex)
	assert.False(t, got.Blacklist.UseDefault)
	assert.Equal(t, "key", got.Art.SGDBAPIKey)
	assert.Equal(t, 5, got.Art.TimeoutSeconds)
	assert.True(t, cfg.SGDBEnabled())
	assert.Equal(t, "/tmp/apps.json", got.Sunshine.AppsJSON)
}

func TestApplyEnv_InvalidLeavesValuesUntouched(t *testing.T) {
	t.Parallel()

	cfg, err := NewInstance(BaseDefaults)
	require.NoError(t, err)

	err = cfg.ApplyEnv(envLookup(map[string]string{
		EnvImportSteam: "0",
		EnvSGDBEnable:  "sometimes",
		EnvSGDBTimeout: "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSGDBEnable)
	assert.Contains(t, err.Error(), EnvSGDBTimeout)
	assert.True(t, cfg.Snapshot().Sources.Steam)
}

func TestApplyEnv_ValidationFails(t *testing.T) {
	t.Parallel()

	cfg, err := NewInstance(BaseDefaults)
	require.NoError(t, err)

	err = cfg.ApplyEnv(envLookup(map[string]string{EnvArtWorkers: "500"}))
	require.Error(t, err)
	assert.Equal(t, 4, cfg.Snapshot().Art.Workers)
}
