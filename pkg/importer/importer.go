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

// Package importer runs one import: scan the enabled launchers, filter,
// resolve cover art and merge the result into Sunshine's apps.json.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/art"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/art/steamgriddb"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/blacklist"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/config"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library/heroic"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library/steam"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library/sysapps"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/shared/httpclient"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/sunshine"
)

// BlacklistFile is the default blacklist file name inside the Sunshine
// config directory.
const BlacklistFile = "steam-import.blacklist"

var (
	// ErrNoSources is returned when every source is disabled.
	ErrNoSources = errors.New("no library source enabled")
	// ErrTargetNotWritable is returned when the apps document directory
	// can not be created or written to.
	ErrTargetNotWritable = errors.New("apps document location is not writable")
)

// Summary reports what a run did.
type Summary struct {
	PerSource   map[library.Source]int
	BackupPath  string
	Target      string
	Warnings    []string
	Scanned     int
	Blacklisted int
	ArtResolved int
	Written     int
	Added       int
	Updated     int
	Removed     int
	Preserved   int
}

// Paths are the locations a run reads and writes.
type Paths struct {
	SunshineDir string
	AppsJSON    string
	ImagesDir   string
	Blacklist   string
}

// ResolvePaths works out where the apps document, cover cache and default
// blacklist live for the given values.
//
//nolint:gocritic // config struct copied for immutability
func ResolvePaths(fs afero.Fs, vals config.Values, home, configHome string) Paths {
	p := Paths{SunshineDir: vals.Sunshine.ConfigDir}
	if p.SunshineDir == "" {
		p.SunshineDir = sunshine.DetectConfigDir(fs, home, configHome)
	}

	p.AppsJSON = vals.Sunshine.AppsJSON
	if p.AppsJSON == "" {
		p.AppsJSON = sunshine.AppsPath(p.SunshineDir)
	}

	p.ImagesDir = vals.Art.ImagesDir
	if p.ImagesDir == "" {
		p.ImagesDir = filepath.Join(p.SunshineDir, "covers")
	}

	p.Blacklist = vals.Blacklist.File
	if p.Blacklist == "" {
		p.Blacklist = filepath.Join(p.SunshineDir, BlacklistFile)
	}
	return p
}

// Run performs one import with the current configuration. Per-source and
// per-entry problems become warnings; failing to back up or write the apps
// document aborts the run with the document untouched.
func Run(ctx context.Context, cfg *config.Instance, opts ...Option) (Summary, error) {
	o := options{
		fs:         afero.NewOsFs(),
		clock:      clockwork.NewRealClock(),
		configHome: xdg.ConfigHome,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Summary{}, fmt.Errorf("failed to find home directory: %w", err)
		}
		o.home = home
	}

	vals := cfg.Snapshot()
	if o.registry == nil && !cfg.AnySourceEnabled() {
		return Summary{}, ErrNoSources
	}
	registry := o.registry
	if registry == nil {
		registry = NewRegistry(vals, o.home, o.configHome)
	}
	sources := registry.Sources()
	if len(sources) == 0 {
		return Summary{}, ErrNoSources
	}
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, string(src))
	}
	log.Info().Strs("sources", names).Msg("starting import")

	paths := ResolvePaths(o.fs, vals, o.home, o.configHome)
	summary := Summary{
		Target:    paths.AppsJSON,
		PerSource: make(map[library.Source]int),
	}
	if err := checkWritable(o.fs, filepath.Dir(paths.AppsJSON)); err != nil {
		return summary, fmt.Errorf("%w: %w", ErrTargetNotWritable, err)
	}

	filter, err := blacklist.New(blacklist.Options{
		File:       paths.Blacklist,
		IDs:        vals.Blacklist.IDs,
		NameRegex:  vals.Blacklist.NameRegex,
		UseDefault: vals.Blacklist.UseDefault,
	})
	if err != nil {
		return summary, fmt.Errorf("failed to load blacklist: %w", err)
	}

	var entries []library.Entry
	for _, res := range registry.ScanAll(ctx) {
		if res.Err != nil {
			summary.Warnings = append(summary.Warnings, res.Err.Error())
			continue
		}
		summary.PerSource[res.Source] = len(res.Entries)
		entries = append(entries, res.Entries...)
	}
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("import cancelled: %w", err)
	}
	entries = library.Dedupe(entries)
	summary.Scanned = len(entries)

	kept, removed := filter.Apply(entries)
	summary.Blacklisted = len(removed)

	resolver, err := newResolver(o, cfg, vals, paths.ImagesDir)
	if err != nil {
		log.Warn().Err(err).Msg("cover art disabled")
		summary.Warnings = append(summary.Warnings, err.Error())
	} else {
		summary.ArtResolved = resolver.ResolveAll(ctx, kept)
	}
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("import cancelled: %w", err)
	}

	store := sunshine.NewStore(o.fs, o.clock, paths.AppsJSON, vals.Sunshine.BackupsKeep)
	res, err := store.Apply(kept)
	if err != nil {
		return summary, err
	}
	if res.Recovered {
		summary.Warnings = append(summary.Warnings, "apps document was unparseable and has been replaced")
	}

	summary.BackupPath = res.BackupPath
	summary.Written = res.Written
	summary.Added = res.Added
	summary.Updated = res.Updated
	summary.Removed = res.Removed
	summary.Preserved = res.Preserved

	log.Info().
		Int("scanned", summary.Scanned).
		Int("blacklisted", summary.Blacklisted).
		Int("art", summary.ArtResolved).
		Int("written", summary.Written).
		Int("removed", summary.Removed).
		Int("preserved", summary.Preserved).
		Int("warnings", len(summary.Warnings)).
		Msg("import finished")
	return summary, nil
}

// NewRegistry registers a scanner for every enabled source.
//
//nolint:gocritic // config struct copied for immutability
func NewRegistry(vals config.Values, home, configHome string) *library.Registry {
	r := library.NewRegistry()
	src := vals.Sources

	if src.Steam {
		r.Register(steam.NewScanner(), steam.CandidateRoots(home, src.SteamDir)...)
	}

	heroicRoots := heroic.CandidateRoots(home, configHome, src.HeroicDir)
	enabled := map[library.Source]bool{
		library.SourceHeroicEpic:     src.HeroicEpic,
		library.SourceHeroicGOG:      src.HeroicGOG,
		library.SourceHeroicSideload: src.HeroicSideload,
	}
	for _, store := range heroic.Stores {
		if enabled[store.Source] {
			r.Register(heroic.NewScanner(store), heroicRoots...)
		}
	}

	if src.SystemApps {
		var roots []string
		if src.SystemAppsFile != "" {
			roots = append(roots, src.SystemAppsFile)
		}
		r.Register(sysapps.NewScanner(), roots...)
	}
	return r
}

// newResolver builds the provider chain from the art settings. The
// launcher cache is always consulted.
//
//nolint:gocritic // config struct copied for immutability
func newResolver(o options, cfg *config.Instance, vals config.Values, imagesDir string) (*art.Resolver, error) {
	timeout := cfg.ArtTimeout()
	providers := []art.Provider{art.NewLauncherCache(o.fs)}

	// cdn_enable covers every first-party download: launcher metadata
	// URLs and the Steam CDN
	if vals.Art.CDNEnable {
		client := httpclient.NewClient(timeout)
		if o.transport != nil {
			client = client.WithTransport(o.transport)
		}
		providers = append(providers,
			art.NewLauncherRemote(client),
			art.NewSteamCDN(client, o.steamCDN),
		)
	}

	switch {
	case vals.Art.SGDBEnable && !cfg.SGDBEnabled():
		log.Warn().Msg("SteamGridDB enabled without an API key, skipping it")
	case cfg.SGDBEnabled():
		var sgdbOpts []steamgriddb.Option
		if o.sgdbBaseURL != "" {
			sgdbOpts = append(sgdbOpts, steamgriddb.WithBaseURL(o.sgdbBaseURL))
		}
		if o.transport != nil {
			sgdbOpts = append(sgdbOpts, steamgriddb.WithTransport(o.transport))
		}
		client, err := steamgriddb.NewClient(vals.Art.SGDBAPIKey, timeout, sgdbOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create SteamGridDB client: %w", err)
		}
		providers = append(providers, art.NewSteamGridDB(client))
	}

	return art.NewResolver(art.NewCache(o.fs, imagesDir), vals.Art.Workers, providers...), nil
}

// checkWritable makes sure dir exists and accepts new files.
func checkWritable(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	f, err := afero.TempFile(fs, dir, ".bsm-write-check-*")
	if err != nil {
		return fmt.Errorf("failed to create file in %s: %w", dir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		log.Warn().Err(err).Str("path", name).Msg("error closing write check file")
	}
	if err := fs.Remove(name); err != nil {
		log.Warn().Err(err).Str("path", name).Msg("error removing write check file")
	}
	return nil
}
