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

package art

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/art/steamgriddb"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/helpers"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/shared/httpclient"
)

// ErrNoArt is returned by a fetch that completed but found nothing.
var ErrNoArt = errors.New("no art found")

// Candidate is a provider's plan for one entry: the cache key the art
// would be stored under and how to fetch it when not cached.
type Candidate struct {
	Fetch func(ctx context.Context) ([]byte, error)
	Key   string
}

// Provider is one art source. Locate must not do network I/O so cached art
// is reused without touching the network.
type Provider interface {
	Name() string
	Locate(e *library.Entry) (Candidate, bool)
}

// LauncherCache uses images the launcher already downloaded.
type LauncherCache struct {
	fs afero.Fs
}

func NewLauncherCache(fs afero.Fs) *LauncherCache {
	return &LauncherCache{fs: fs}
}

func (*LauncherCache) Name() string { return "launcher-cache" }

// Locate picks the first local hint that is a non-empty regular file. Its
// key changes whenever the file's size or mtime does.
func (p *LauncherCache) Locate(e *library.Entry) (Candidate, bool) {
	for _, path := range e.ArtHints.Local {
		info, err := p.fs.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			continue
		}
		sum := sha256.Sum256([]byte(path + "|" +
			strconv.FormatInt(info.Size(), 10) + "|" +
			strconv.FormatInt(info.ModTime().UnixNano(), 10)))
		return Candidate{
			Key: "local-" + hex.EncodeToString(sum[:8]),
			Fetch: func(context.Context) ([]byte, error) {
				data, err := afero.ReadFile(p.fs, path)
				if err != nil {
					return nil, fmt.Errorf("failed to read launcher art: %w", err)
				}
				return data, nil
			},
		}, true
	}
	return Candidate{}, false
}

// LauncherRemote downloads cover URLs advertised in launcher metadata,
// such as Heroic's art_square and art_cover for Epic and GOG games.
type LauncherRemote struct {
	client *httpclient.Client
}

func NewLauncherRemote(client *httpclient.Client) *LauncherRemote {
	return &LauncherRemote{client: client}
}

func (*LauncherRemote) Name() string { return "launcher-remote" }

// Locate applies when the entry has at least one http(s) hint. The URLs
// are tried in order and the first successful download wins.
func (p *LauncherRemote) Locate(e *library.Entry) (Candidate, bool) {
	var urls []string
	for _, u := range e.ArtHints.Remote {
		if strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return Candidate{}, false
	}
	sum := sha256.Sum256([]byte(strings.Join(urls, "\n")))
	return Candidate{
		Key: "remote-" + hex.EncodeToString(sum[:8]),
		Fetch: func(ctx context.Context) ([]byte, error) {
			var errs []error
			for _, u := range urls {
				data, err := p.client.Fetch(ctx, u, 0)
				if err == nil {
					return data, nil
				}
				errs = append(errs, err)
			}
			return nil, errors.Join(errs...)
		},
	}, true
}

// DefaultSteamCDN is the public Steam store asset host.
const DefaultSteamCDN = "https://steamcdn-a.akamaihd.net"

// SteamCDN downloads library_600x900 covers for Steam apps.
type SteamCDN struct {
	client  *httpclient.Client
	baseURL string
}

func NewSteamCDN(client *httpclient.Client, baseURL string) *SteamCDN {
	if baseURL == "" {
		baseURL = DefaultSteamCDN
	}
	return &SteamCDN{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (*SteamCDN) Name() string { return "steam-cdn" }

func (p *SteamCDN) Locate(e *library.Entry) (Candidate, bool) {
	appID, ok := e.SteamAppID()
	if !ok {
		return Candidate{}, false
	}
	url := p.baseURL + "/steam/apps/" + appID + "/library_600x900.jpg"
	return Candidate{
		Key: "cdn-" + appID,
		Fetch: func(ctx context.Context) ([]byte, error) {
			return p.client.Fetch(ctx, url, 0)
		},
	}, true
}

// SteamGridDB searches the community art database. Steam apps are looked
// up by app id; everything else by name.
type SteamGridDB struct {
	client *steamgriddb.Client
}

func NewSteamGridDB(client *steamgriddb.Client) *SteamGridDB {
	return &SteamGridDB{client: client}
}

func (*SteamGridDB) Name() string { return "steamgriddb" }

func (p *SteamGridDB) Locate(e *library.Entry) (Candidate, bool) {
	if appID, ok := e.SteamAppID(); ok {
		return Candidate{
			Key: "sgdb-steam-" + appID,
			Fetch: func(ctx context.Context) ([]byte, error) {
				return p.fetchSteam(ctx, appID)
			},
		}, true
	}
	// system apps carry their own icons
	if e.Source == library.SourceSystem || strings.TrimSpace(e.Name) == "" {
		return Candidate{}, false
	}
	name := e.Name
	return Candidate{
		Key: "sgdb-name-" + helpers.Slugify(name),
		Fetch: func(ctx context.Context) ([]byte, error) {
			return p.fetchByName(ctx, name)
		},
	}, true
}

func (p *SteamGridDB) fetchSteam(ctx context.Context, appID string) ([]byte, error) {
	lookups := []func(context.Context, string) ([]steamgriddb.Image, error){
		p.client.SteamGrids,
		p.client.SteamHeroes,
	}
	for _, lookup := range lookups {
		imgs, err := lookup(ctx, appID)
		if err != nil {
			return nil, err
		}
		if best, ok := steamgriddb.BestImage(imgs); ok {
			return p.client.Download(ctx, best.URL)
		}
	}
	return nil, ErrNoArt
}

func (p *SteamGridDB) fetchByName(ctx context.Context, name string) ([]byte, error) {
	games, err := p.client.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	game, ok := steamgriddb.BestMatch(name, games)
	if !ok {
		return nil, ErrNoArt
	}
	log.Debug().Str("name", name).Str("match", game.Name).Int("id", game.ID).Msg("SteamGridDB match")

	lookups := []func(context.Context) ([]steamgriddb.Image, error){
		func(ctx context.Context) ([]steamgriddb.Image, error) {
			return p.client.Grids(ctx, game.ID, steamgriddb.PortraitDimensions)
		},
		func(ctx context.Context) ([]steamgriddb.Image, error) {
			return p.client.Grids(ctx, game.ID, "")
		},
		func(ctx context.Context) ([]steamgriddb.Image, error) {
			return p.client.Heroes(ctx, game.ID)
		},
	}
	for _, lookup := range lookups {
		imgs, err := lookup(ctx)
		if err != nil {
			return nil, err
		}
		if best, ok := steamgriddb.BestImage(imgs); ok {
			return p.client.Download(ctx, best.URL)
		}
	}
	return nil, ErrNoArt
}
