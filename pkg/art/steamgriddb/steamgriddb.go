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

// Package steamgriddb is a small client for the SteamGridDB v2 API, limited
// to the endpoints needed to find portrait cover art.
package steamgriddb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/shared/httpclient"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.steamgriddb.com/api/v2"

	// PortraitDimensions is the grid size Sunshine displays.
	PortraitDimensions = "600x900"

	// MinNameSimilarity is the Jaro-Winkler score a search result needs to
	// be accepted as the same game.
	MinNameSimilarity float32 = 0.85

	defaultRequestsPerSecond = 4
	defaultBurst             = 4
)

type options struct {
	transport http.RoundTripper
	baseURL   string
	limit     rate.Limit
	burst     int
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithRateLimit sets the request rate against the API.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.limit = limit
		o.burst = burst
	}
}

// Client talks to SteamGridDB. It is safe for concurrent use; all API
// requests share one rate limiter.
type Client struct {
	http    *httpclient.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient creates a client authenticating with apiKey. Every request is
// bounded by timeout.
func NewClient(apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	o := options{
		baseURL: DefaultBaseURL,
		limit:   defaultRequestsPerSecond,
		burst:   defaultBurst,
	}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(o.baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid SteamGridDB base URL %q", o.baseURL)
	}

	hc := httpclient.NewBearerClient(timeout, apiKey, u.Hostname())
	if o.transport != nil {
		hc = hc.WithTransport(o.transport)
	}

	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(o.limit, o.burst),
		baseURL: o.baseURL,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	reqURL := c.baseURL + path
	log.Debug().Str("url", reqURL).Msg("SteamGridDB request")
	body, err := c.http.Fetch(ctx, reqURL, 0)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) images(ctx context.Context, path string) ([]Image, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	return decodeImages(data)
}

// SteamGrids lists grids for a Steam app id.
func (c *Client) SteamGrids(ctx context.Context, appID string) ([]Image, error) {
	return c.images(ctx, "/grids/steam/"+url.PathEscape(appID))
}

// SteamHeroes lists heroes for a Steam app id.
func (c *Client) SteamHeroes(ctx context.Context, appID string) ([]Image, error) {
	return c.images(ctx, "/heroes/steam/"+url.PathEscape(appID))
}

// Grids lists grids for a SteamGridDB game id, optionally filtered by
// dimensions such as PortraitDimensions.
func (c *Client) Grids(ctx context.Context, gameID int, dimensions string) ([]Image, error) {
	path := "/grids/game/" + strconv.Itoa(gameID)
	if dimensions != "" {
		path += "?" + url.Values{"dimensions": {dimensions}}.Encode()
	}
	return c.images(ctx, path)
}

// Heroes lists heroes for a SteamGridDB game id.
func (c *Client) Heroes(ctx context.Context, gameID int) ([]Image, error) {
	return c.images(ctx, "/heroes/game/"+strconv.Itoa(gameID))
}

// Search looks up games by name.
func (c *Client) Search(ctx context.Context, term string) ([]Game, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	body, err := c.get(ctx, "/search/autocomplete/"+url.PathEscape(term))
	if err != nil {
		return nil, err
	}
	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	var games []Game
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &games); err != nil {
			return nil, fmt.Errorf("failed to decode search results: %w", err)
		}
	}
	return games, nil
}

// Download fetches an asset URL returned by the API.
func (c *Client) Download(ctx context.Context, assetURL string) ([]byte, error) {
	return c.http.Fetch(ctx, assetURL, 0)
}

// BestImage returns the highest scoring image with a URL. Ties keep API
// order.
func BestImage(images []Image) (Image, bool) {
	candidates := make([]Image, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			candidates = append(candidates, img)
		}
	}
	if len(candidates) == 0 {
		return Image{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates[0], true
}

// BestMatch picks the search result whose name is closest to name by
// Jaro-Winkler similarity. Results below MinNameSimilarity are rejected.
func BestMatch(name string, games []Game) (Game, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	var (
		best      Game
		bestScore float32 = -1
	)
	for _, g := range games {
		similarity := edlib.JaroWinklerSimilarity(query, strings.ToLower(strings.TrimSpace(g.Name)))
		if similarity > bestScore {
			best, bestScore = g, similarity
		}
	}
	if bestScore < MinNameSimilarity {
		if bestScore >= 0 {
			log.Debug().
				Str("query", name).
				Str("candidate", best.Name).
				Float32("similarity", bestScore).
				Msg("no close SteamGridDB match")
		}
		return Game{}, false
	}
	return best, true
}
