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
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/helpers/syncutil"
)

const (
	SchemaVersion = 1
	CfgEnv        = "BSM_CFG"
)

type Values struct {
	Sunshine     Sunshine  `toml:"sunshine"`
	Blacklist    Blacklist `toml:"blacklist"`
	Sources      Sources   `toml:"sources"`
	Art          Art       `toml:"art"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

// Sources toggles each launcher independently. Disabling a source removes
// its previously imported apps on the next run.
type Sources struct {
	// SteamDir overrides Steam root detection.
	SteamDir string `toml:"steam_dir,omitempty"`
	// HeroicDir overrides Heroic config directory detection.
	HeroicDir string `toml:"heroic_dir,omitempty"`
	// SystemAppsFile is a JSON list of extra apps. The built-in list is used
	// when empty or missing.
	SystemAppsFile string `toml:"system_apps_file,omitempty"`
	Steam          bool   `toml:"steam"`
	HeroicEpic     bool   `toml:"heroic_epic"`
	HeroicGOG      bool   `toml:"heroic_gog"`
	HeroicSideload bool   `toml:"heroic_sideload"`
	SystemApps     bool   `toml:"system_apps"`
}

type Blacklist struct {
	File       string   `toml:"file,omitempty"`
	IDs        []string `toml:"ids,omitempty,multiline"`
	NameRegex  []string `toml:"name_regex,omitempty,multiline"`
	UseDefault bool     `toml:"use_default"`
}

type Art struct {
	SGDBAPIKey     string `toml:"sgdb_api_key,omitempty"`
	ImagesDir      string `toml:"images_dir,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"min=1,max=300"`
	Workers        int    `toml:"workers" validate:"min=1,max=32"`
	CDNEnable      bool   `toml:"cdn_enable"`
	SGDBEnable     bool   `toml:"sgdb_enable"`
}

type Sunshine struct {
	// ConfigDir overrides Sunshine config directory detection.
	ConfigDir string `toml:"config_dir,omitempty"`
	// AppsJSON overrides the target document path entirely.
	AppsJSON    string `toml:"apps_json,omitempty"`
	BackupsKeep int    `toml:"backups_keep" validate:"min=0,max=1000"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Sources: Sources{
		Steam:          true,
		HeroicEpic:     true,
		HeroicGOG:      true,
		HeroicSideload: true,
	},
	Blacklist: Blacklist{
		UseDefault: true,
	},
	Art: Art{
		CDNEnable:      true,
		TimeoutSeconds: 12,
		Workers:        4,
	},
	Sunshine: Sunshine{
		BackupsKeep: 10,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig loads config.toml from configDir (or the BSM_CFG path), writing
// the defaults to disk first if the file doesn't exist yet.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewInstance wraps already resolved values without a backing file.
//
//nolint:gocritic // config struct copied for immutability
func NewInstance(vals Values) (*Instance, error) {
	if err := Validate(vals); err != nil {
		return nil, err
	}
	return &Instance{vals: vals, defaults: vals}, nil
}

// Validate checks value ranges.
//
//nolint:gocritic // config struct copied for immutability
func Validate(vals Values) error {
	if err := validate.Struct(vals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := Validate(newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current values that is safe to keep for
// the duration of a run.
func (c *Instance) Snapshot() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vals := c.vals
	vals.Blacklist.IDs = append([]string(nil), c.vals.Blacklist.IDs...)
	vals.Blacklist.NameRegex = append([]string(nil), c.vals.Blacklist.NameRegex...)
	return vals
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

// Update applies fn to a copy of the values and keeps the result only if
// it validates. Nothing is written to disk.
func (c *Instance) Update(fn func(*Values)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	vals := c.vals
	vals.Blacklist.IDs = append([]string(nil), c.vals.Blacklist.IDs...)
	vals.Blacklist.NameRegex = append([]string(nil), c.vals.Blacklist.NameRegex...)
	fn(&vals)
	if err := Validate(vals); err != nil {
		return err
	}
	c.vals = vals
	return nil
}

// AnySourceEnabled reports whether at least one source will be scanned.
func (c *Instance) AnySourceEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.vals.Sources
	return s.Steam || s.HeroicEpic || s.HeroicGOG || s.HeroicSideload || s.SystemApps
}

// ArtTimeout is the per-request timeout for cover art downloads.
func (c *Instance) ArtTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Art.TimeoutSeconds) * time.Second
}

// SGDBEnabled reports whether SteamGridDB lookups are both enabled and
// possible.
func (c *Instance) SGDBEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Art.SGDBEnable && c.vals.Art.SGDBAPIKey != ""
}
