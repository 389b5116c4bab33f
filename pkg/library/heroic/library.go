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

package heroic

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// gameInfo is one game record in a Heroic library JSON file.
type gameInfo struct {
	AppName     string `json:"app_name"` //nolint:tagliatelle // External JSON format from Heroic
	Title       string `json:"title"`
	Runner      string `json:"runner"`
	ArtSquare   string `json:"art_square"`   //nolint:tagliatelle // External JSON format from Heroic
	ArtCover    string `json:"art_cover"`    //nolint:tagliatelle // External JSON format from Heroic
	IsInstalled bool   `json:"is_installed"` //nolint:tagliatelle // External JSON format from Heroic
}

// parseLibrary decodes the game list stored under key in a Heroic library
// file. Records that fail to decode are logged and skipped; a file that is
// not a JSON object is an error.
func parseLibrary(data []byte, key, path string) ([]gameInfo, error) {
	// structure is { "library": [...] } or { "games": [...] }
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Heroic library JSON: %w", err)
	}

	raw, ok := doc[key]
	if !ok {
		log.Debug().Str("path", path).Msgf("Heroic library file missing expected key: %s", key)
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("heroic library key %q is not a list: %w", key, err)
	}

	games := make([]gameInfo, 0, len(records))
	for i, rec := range records {
		var g gameInfo
		if err := json.Unmarshal(rec, &g); err != nil {
			log.Warn().Err(err).Str("path", path).Int("index", i).Msg("skipping malformed Heroic game record")
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

var errNotInstalled = errors.New("game is not installed")

// validate reports why a record cannot become an entry.
func (g *gameInfo) validate() error {
	switch {
	case !g.IsInstalled:
		return errNotInstalled
	case strings.TrimSpace(g.AppName) == "":
		return errors.New("game is missing app_name")
	case strings.TrimSpace(g.Title) == "":
		return fmt.Errorf("game %s is missing a title", g.AppName)
	default:
		return nil
	}
}

// CachedImagePath returns where Heroic keeps its downloaded copy of an
// image URL: images-cache/<sha256 of the URL>.
func CachedImagePath(root, imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return filepath.Join(root, "images-cache", hex.EncodeToString(sum[:]))
}

// artHints splits the art fields of a record into local candidates and
// remote URLs. Sideloaded games may point art_square at a local file.
func artHints(root string, urls ...string) (local, remote []string) {
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		switch {
		case err != nil:
			log.Debug().Err(err).Str("url", raw).Msg("ignoring unparseable Heroic art url")
		case u.Scheme == "file":
			local = append(local, u.Path)
		case u.Scheme == "" && filepath.IsAbs(raw):
			local = append(local, raw)
		case u.Scheme == "http" || u.Scheme == "https":
			local = append(local, CachedImagePath(root, raw))
			remote = append(remote, raw)
		}
	}
	return local, remote
}
