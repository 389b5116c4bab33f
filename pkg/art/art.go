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

// Package art resolves a cover image for each library entry by trying the
// launcher's own cache, the Steam CDN and SteamGridDB in that order.
// Resolved covers are normalised to 600x900 PNGs and cached on disk.
package art

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/shared/httpclient"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent resolutions when none is configured.
const DefaultWorkers = 4

// Resolver runs the provider chain. Providers are tried in the order
// given; the first one producing a decodable image wins.
type Resolver struct {
	cache     *Cache
	providers []Provider
	workers   int
}

func NewResolver(cache *Cache, workers int, providers ...Provider) *Resolver {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Resolver{
		cache:     cache,
		providers: providers,
		workers:   workers,
	}
}

// Enabled reports whether any provider is configured.
func (r *Resolver) Enabled() bool {
	return len(r.providers) > 0
}

// Resolve returns a cover path for e. Provider failures are logged and
// skipped; ok is false when no provider had art.
func (r *Resolver) Resolve(ctx context.Context, e *library.Entry) (path string, ok bool) {
	for _, p := range r.providers {
		if ctx.Err() != nil {
			return "", false
		}

		cand, applies := p.Locate(e)
		if !applies {
			continue
		}

		if cached, hit := r.cache.Lookup(e.Source, cand.Key); hit {
			log.Debug().Str("id", e.ID).Str("provider", p.Name()).Msg("using cached cover")
			return cached, true
		}

		data, err := cand.Fetch(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoArt):
			log.Debug().Str("id", e.ID).Str("provider", p.Name()).Msg("provider has no cover")
			continue
		default:
			log.Warn().Err(err).Str("id", e.ID).Str("provider", p.Name()).
				Int("status", httpclient.StatusCode(err)).Msg("cover lookup failed")
			continue
		}

		png, err := Normalize(data)
		if err != nil {
			log.Warn().Err(err).Str("id", e.ID).Str("provider", p.Name()).Msg("unusable cover image")
			continue
		}

		stored, err := r.cache.Store(e.Source, cand.Key, png)
		if err != nil {
			log.Warn().Err(err).Str("id", e.ID).Msg("failed to cache cover")
			continue
		}
		log.Debug().Str("id", e.ID).Str("provider", p.Name()).Str("path", stored).Msg("resolved cover")
		return stored, true
	}
	return "", false
}

// ResolveAll resolves covers for entries with a bounded worker pool. Each
// worker writes only its own entry's CoverArtPath. Entries that already
// have a cover are left alone. It returns how many covers were resolved.
func (r *Resolver) ResolveAll(ctx context.Context, entries []library.Entry) int {
	if !r.Enabled() {
		return 0
	}

	var resolved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range entries {
		if entries[i].CoverArtPath != "" {
			continue
		}
		g.Go(func() error {
			if path, ok := r.Resolve(gctx, &entries[i]); ok {
				entries[i].CoverArtPath = path
				resolved.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	n := int(resolved.Load())
	log.Info().Int("resolved", n).Int("entries", len(entries)).Msg("cover art resolution finished")
	return n
}
