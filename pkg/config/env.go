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
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Environment toggles understood by ApplyEnv. The CLI wrapper and the
// installer script both speak in these names.
const (
	EnvImportSteam          = "IMPORT_STEAM"
	EnvImportHeroic         = "IMPORT_HEROIC"
	EnvImportHeroicEpic     = "IMPORT_HEROIC_EPIC"
	EnvImportHeroicGOG      = "IMPORT_HEROIC_GOG"
	EnvImportHeroicSideload = "IMPORT_HEROIC_SIDELOAD"
	EnvImportSystemApps     = "IMPORT_SYSTEM_APPS"
	EnvUseDefaultBlacklist  = "USE_DEFAULT_BLACKLIST"
	EnvBlacklistIDs         = "BLACKLIST_IDS"
	EnvBlacklistNameRegex   = "BLACKLIST_NAME_REGEX"
	EnvBlacklistFile        = "BLACKLIST_FILE"
	EnvSGDBEnable           = "SGDB_ENABLE"
	EnvSGDBAPIKey           = "SGDB_API_KEY"
	EnvSGDBTimeout          = "SGDB_TIMEOUT"
	EnvArtWorkers           = "ART_WORKERS"
	EnvSunshineAppsJSON     = "SUNSHINE_APPS_JSON"
	EnvSunshineConfigDir    = "SUNSHINE_CONFIG_DIR"
	EnvSteamDir             = "STEAM_DIR"
	EnvHeroicDir            = "HEROIC_DIR"
	EnvSystemAppsFile       = "SYSTEM_APPS_FILE"
	EnvDebug                = "DEBUG"
)

var idSplitRegex = regexp.MustCompile(`[,\s]+`)

// ParseBool accepts the spellings the shell wrapper produces.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "y":
		return true, nil
	case "0", "false", "no", "off", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %q", s)
	}
}

// SplitIDs splits a comma or whitespace separated identifier list.
func SplitIDs(s string) []string {
	var ids []string
	for _, tok := range idSplitRegex.Split(strings.TrimSpace(s), -1) {
		if tok != "" {
			ids = append(ids, tok)
		}
	}
	return ids
}

// ApplyEnv overlays recognised environment toggles on top of the loaded
// values. lookup is usually os.LookupEnv. All malformed values are reported
// together and nothing is applied when any is malformed.
func (c *Instance) ApplyEnv(lookup func(string) (string, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	vals := c.vals
	vals.Blacklist.IDs = append([]string(nil), c.vals.Blacklist.IDs...)
	vals.Blacklist.NameRegex = append([]string(nil), c.vals.Blacklist.NameRegex...)

	var errs []error
	setBool := func(key string, dst ...*bool) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		for _, d := range dst {
			*d = v
		}
	}
	setString := func(key string, dst *string) {
		if raw, ok := lookup(key); ok {
			*dst = strings.TrimSpace(raw)
		}
	}
	setInt := func(key string, dst *int) {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, raw))
			return
		}
		*dst = v
	}

	setBool(EnvImportSteam, &vals.Sources.Steam)
	// the umbrella toggle goes first so per-store toggles can refine it
	setBool(EnvImportHeroic, &vals.Sources.HeroicEpic, &vals.Sources.HeroicGOG, &vals.Sources.HeroicSideload)
	setBool(EnvImportHeroicEpic, &vals.Sources.HeroicEpic)
	setBool(EnvImportHeroicGOG, &vals.Sources.HeroicGOG)
	setBool(EnvImportHeroicSideload, &vals.Sources.HeroicSideload)
	setBool(EnvImportSystemApps, &vals.Sources.SystemApps)
	setString(EnvSteamDir, &vals.Sources.SteamDir)
	setString(EnvHeroicDir, &vals.Sources.HeroicDir)
	setString(EnvSystemAppsFile, &vals.Sources.SystemAppsFile)

	setBool(EnvUseDefaultBlacklist, &vals.Blacklist.UseDefault)
	if raw, ok := lookup(EnvBlacklistIDs); ok {
		vals.Blacklist.IDs = append(vals.Blacklist.IDs, SplitIDs(raw)...)
	}
	if raw, ok := lookup(EnvBlacklistNameRegex); ok && strings.TrimSpace(raw) != "" {
		vals.Blacklist.NameRegex = append(vals.Blacklist.NameRegex, raw)
	}
	setString(EnvBlacklistFile, &vals.Blacklist.File)

	setBool(EnvSGDBEnable, &vals.Art.SGDBEnable)
	setString(EnvSGDBAPIKey, &vals.Art.SGDBAPIKey)
	setInt(EnvSGDBTimeout, &vals.Art.TimeoutSeconds)
	setInt(EnvArtWorkers, &vals.Art.Workers)

	setString(EnvSunshineAppsJSON, &vals.Sunshine.AppsJSON)
	setString(EnvSunshineConfigDir, &vals.Sunshine.ConfigDir)

	setBool(EnvDebug, &vals.DebugLogging)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	if err := Validate(vals); err != nil {
		return err
	}

	c.vals = vals
	return nil
}
