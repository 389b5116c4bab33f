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

// Package sysapps publishes a fixed list of non-game launchers (desktop,
// Big Picture, reboot) as library entries.
package sysapps

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/helpers"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

//go:embed default_apps.json
var defaultApps []byte

// DefaultApps returns the embedded default list as raw JSON.
func DefaultApps() []byte {
	out := make([]byte, len(defaultApps))
	copy(out, defaultApps)
	return out
}

// Item is one system app. Any field other than the named ones is kept and
// published as-is.
type Item struct {
	Extra      map[string]any `mapstructure:",remain"`
	ID         string         `mapstructure:"id"`
	Name       string         `mapstructure:"name" validate:"required"`
	Cmd        string         `mapstructure:"cmd"`
	WorkingDir string         `mapstructure:"working-dir"`
	ImagePath  string         `mapstructure:"image-path"`
}

// reservedKeys are set by the merger and never taken from the list.
var reservedKeys = []string{"uuid", "x-bsm-id"}

// Scanner implements library.Scanner for the system-apps list. Its single
// optional root is the path of a JSON list file.
type Scanner struct {
	validate *validator.Validate
}

func NewScanner() *Scanner {
	return &Scanner{validate: validator.New()}
}

var _ library.Scanner = (*Scanner)(nil)

func (*Scanner) Source() library.Source {
	return library.SourceSystem
}

// Scan reads the first existing list file in roots, falling back to the
// embedded defaults when none is configured or present.
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]library.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("system apps scan cancelled: %w", err)
	}

	data, path, err := readList(roots)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse system apps list %s: %w", path, err)
	}

	entries := make([]library.Entry, 0, len(raw))
	for i, m := range raw {
		item, err := s.decode(m)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Int("index", i).Msg("skipping system app")
			continue
		}
		entries = append(entries, item.entry())
	}
	return library.Dedupe(entries), nil
}

func readList(roots []string) (data []byte, path string, err error) {
	for _, p := range roots {
		if p == "" {
			continue
		}
		//nolint:gosec // user-configured list path
		b, readErr := os.ReadFile(p)
		if errors.Is(readErr, os.ErrNotExist) {
			log.Warn().Str("path", p).Msg("system apps file not found, using defaults")
			continue
		} else if readErr != nil {
			return nil, p, fmt.Errorf("failed to read system apps list: %w", readErr)
		}
		return b, p, nil
	}
	return defaultApps, "embedded defaults", nil
}

func (s *Scanner) decode(m map[string]any) (Item, error) {
	var item Item
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &item,
		DecodeHook: commandListHook(),
	})
	if err != nil {
		return Item{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return Item{}, fmt.Errorf("failed to decode system app: %w", err)
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := s.validate.Struct(&item); err != nil {
		return Item{}, fmt.Errorf("invalid system app: %w", err)
	}
	return item, nil
}

// commandListHook accepts Sunshine's list form for string fields, so
// "cmd": ["systemctl", "reboot"] becomes "systemctl reboot".
func commandListHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.String || from.Kind() != reflect.Slice {
			return data, nil
		}
		items, ok := data.([]any)
		if !ok {
			return data, nil
		}
		parts := make([]string, 0, len(items))
		for _, v := range items {
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("command element %v is not a string", v)
			}
			parts = append(parts, str)
		}
		return strings.Join(parts, " "), nil
	}
}

func (i *Item) entry() library.Entry {
	id := strings.TrimSpace(i.ID)
	if id == "" {
		id = helpers.Slugify(i.Name)
	}

	host := make(map[string]any, len(i.Extra))
	for k, v := range i.Extra {
		host[k] = v
	}
	for _, k := range reservedKeys {
		delete(host, k)
	}
	if len(host) == 0 {
		host = nil
	}

	return library.Entry{
		ID:            library.EntryID(library.SourceSystem, id),
		NativeID:      id,
		Name:          i.Name,
		Source:        library.SourceSystem,
		LaunchCommand: i.Cmd,
		WorkingDir:    i.WorkingDir,
		CoverArtPath:  i.ImagePath,
		HostFields:    host,
	}
}
