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

package importer

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

type options struct {
	fs          afero.Fs
	clock       clockwork.Clock
	transport   http.RoundTripper
	registry    *library.Registry
	home        string
	configHome  string
	steamCDN    string
	sgdbBaseURL string
}

// Option customises a Run.
type Option func(*options)

// WithFs sets the filesystem used for the apps document, its backups and
// the cover cache.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithClock sets the clock used for backup timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithTransport routes every art download through rt.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithRegistry replaces the scanners built from the configuration.
func WithRegistry(r *library.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithHome overrides the home and XDG config directories used for
// launcher and Sunshine detection.
func WithHome(home, configHome string) Option {
	return func(o *options) {
		o.home = home
		o.configHome = configHome
	}
}

// WithArtEndpoints points the Steam CDN and SteamGridDB providers at other
// hosts. Empty values keep the defaults.
func WithArtEndpoints(steamCDN, sgdbBaseURL string) Option {
	return func(o *options) {
		o.steamCDN = steamCDN
		o.sgdbBaseURL = sgdbBaseURL
	}
}
