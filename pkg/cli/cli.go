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

// Package cli holds the command line flags and startup wiring shared by
// the bazzite-sunshine-manager binary.
package cli

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/config"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/helpers"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/importer"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

type Flags struct {
	set        *flag.FlagSet
	Version    *bool
	Debug      *bool
	AppsJSON   *string
	SteamDir   *string
	HeroicDir  *string
	SystemApps *bool
	NoArt      *bool
}

// SetupFlags defines all CLI flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		AppsJSON: fs.String(
			"apps-json",
			"",
			"path of the Sunshine apps.json to update",
		),
		SteamDir: fs.String(
			"steam-dir",
			"",
			"Steam root directory, detected when empty",
		),
		HeroicDir: fs.String(
			"heroic-dir",
			"",
			"Heroic config directory, detected when empty",
		),
		SystemApps: fs.Bool(
			"system-apps",
			false,
			"also import the system apps list",
		),
		NoArt: fs.Bool(
			"no-art",
			false,
			"skip cover art downloads",
		),
	}
}

func (f *Flags) isPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Apply overlays explicitly passed flags on the configuration. Flags win
// over both the config file and the environment.
func (f *Flags) Apply(cfg *config.Instance) error {
	err := cfg.Update(func(v *config.Values) {
		if f.isPassed("debug") {
			v.DebugLogging = *f.Debug
		}
		if f.isPassed("apps-json") {
			v.Sunshine.AppsJSON = *f.AppsJSON
		}
		if f.isPassed("steam-dir") {
			v.Sources.SteamDir = *f.SteamDir
		}
		if f.isPassed("heroic-dir") {
			v.Sources.HeroicDir = *f.HeroicDir
		}
		if f.isPassed("system-apps") {
			v.Sources.SystemApps = *f.SystemApps
		}
		if f.isPassed("no-art") && *f.NoArt {
			v.Art.CDNEnable = false
			v.Art.SGDBEnable = false
		}
	})
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// Setup initialises logging, loads the user config from configDir and
// overlays the environment read through lookup.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	configDir, logDir string,
	defaults config.Values,
	lookup func(string) (string, bool),
	writers []io.Writer,
) (*config.Instance, error) {
	if err := helpers.InitLogging(logDir, false, writers...); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	SetLogLevel(cfg.DebugLogging())
	log.Debug().Str("version", config.AppVersion).Msg("config loaded")
	return cfg, nil
}

// SetLogLevel switches the global level between info and debug.
func SetLogLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// PrintSummary writes a human readable report of a run.
func PrintSummary(w io.Writer, s *importer.Summary) {
	_, _ = fmt.Fprintf(w, "Updated %s\n", s.Target)

	// known sources in scan order, anything else after them by name
	var extra []string
	for src := range s.PerSource {
		if !slices.Contains(library.AllSources, src) {
			extra = append(extra, string(src))
		}
	}
	sort.Strings(extra)
	parts := make([]string, 0, len(s.PerSource))
	for _, src := range library.AllSources {
		if n, ok := s.PerSource[src]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", src, n))
		}
	}
	for _, src := range extra {
		parts = append(parts, fmt.Sprintf("%s=%d", src, s.PerSource[library.Source(src)]))
	}
	if len(parts) > 0 {
		_, _ = fmt.Fprintf(w, "Scanned:     %d (%s)\n", s.Scanned, strings.Join(parts, ", "))
	} else {
		_, _ = fmt.Fprintf(w, "Scanned:     %d\n", s.Scanned)
	}

	_, _ = fmt.Fprintf(w, "Blacklisted: %d\n", s.Blacklisted)
	_, _ = fmt.Fprintf(w, "Cover art:   %d\n", s.ArtResolved)
	_, _ = fmt.Fprintf(w, "Written:     %d (%d new, %d removed)\n", s.Written, s.Added, s.Removed)
	_, _ = fmt.Fprintf(w, "Preserved:   %d\n", s.Preserved)
	if s.BackupPath != "" {
		_, _ = fmt.Fprintf(w, "Backup:      %s\n", s.BackupPath)
	}
	for _, warn := range s.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warn)
	}
}
