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

// Package blacklist removes unwanted entries (tools, runtimes, user
// exclusions) before anything is published to Sunshine.
package blacklist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/helpers"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// Options configures a Filter.
type Options struct {
	// File is an optional rules file. Missing files are ignored.
	File string
	// IDs match an entry's ID or NativeID exactly.
	IDs []string
	// NameRegex are case-insensitive regular expressions matched against
	// entry names.
	NameRegex []string
	// UseDefault adds DefaultPatterns.
	UseDefault bool
}

type nameRule struct {
	re      *regexp.Regexp
	literal string
	pattern string
}

func (r *nameRule) match(name string) bool {
	if r.re != nil {
		return r.re.MatchString(name)
	}
	return strings.Contains(strings.ToLower(name), r.literal)
}

// Filter decides which entries are blacklisted. It is immutable once built
// and safe for concurrent use.
type Filter struct {
	ids   map[string]struct{}
	names []nameRule
}

// New builds a Filter. Invalid regular expressions fall back to plain
// case-insensitive substring matching.
func New(opts Options) (*Filter, error) {
	f := &Filter{ids: make(map[string]struct{})}

	var patterns []string
	if opts.UseDefault {
		patterns = append(patterns, DefaultPatterns...)
	}
	for _, id := range opts.IDs {
		f.addID(id)
	}
	patterns = append(patterns, opts.NameRegex...)

	if opts.File != "" {
		ids, filePatterns, err := ReadFile(opts.File)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			f.addID(id)
		}
		patterns = append(patterns, filePatterns...)
	}

	for _, p := range patterns {
		f.addPattern(p)
	}

	log.Debug().
		Int("ids", len(f.ids)).
		Int("patterns", len(f.names)).
		Msg("built blacklist")
	return f, nil
}

func (f *Filter) addID(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	f.ids[id] = struct{}{}
}

func (f *Filter) addPattern(p string) {
	p = strings.TrimSpace(p)
	if p == "" {
		return
	}
	re, err := helpers.CachedCompile("(?i)" + p)
	if err != nil {
		log.Warn().Err(err).Str("pattern", p).Msg("invalid blacklist regex, matching as plain text")
		f.names = append(f.names, nameRule{pattern: p, literal: strings.ToLower(p)})
		return
	}
	f.names = append(f.names, nameRule{pattern: p, re: re})
}

// Match reports whether e is blacklisted and by which rule.
func (f *Filter) Match(e *library.Entry) (bool, string) {
	if _, ok := f.ids[e.ID]; ok {
		return true, "id " + e.ID
	}
	if e.NativeID != "" {
		if _, ok := f.ids[e.NativeID]; ok {
			return true, "id " + e.NativeID
		}
	}
	for i := range f.names {
		if f.names[i].match(e.Name) {
			return true, "name " + f.names[i].pattern
		}
	}
	return false, ""
}

// Apply splits entries into kept and removed, preserving input order in
// both.
func (f *Filter) Apply(entries []library.Entry) (kept, removed []library.Entry) {
	kept = make([]library.Entry, 0, len(entries))
	for i := range entries {
		if ok, rule := f.Match(&entries[i]); ok {
			log.Info().
				Str("id", entries[i].ID).
				Str("name", entries[i].Name).
				Str("rule", rule).
				Msg("skipping blacklisted entry")
			removed = append(removed, entries[i])
			continue
		}
		kept = append(kept, entries[i])
	}
	return kept, removed
}

// ReadFile parses a blacklist rules file: one rule per line, "#" starts a
// comment, all-digit lines are ids and anything else is a name pattern. A
// missing file yields no rules.
func ReadFile(path string) (ids, patterns []string, err error) {
	//nolint:gosec // user-configured blacklist path
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no blacklist file")
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to read blacklist file: %w", err)
	}
	return parseRules(data)
}

func parseRules(data []byte) (ids, patterns []string, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isDigits(line) {
			ids = append(ids, line)
		} else {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to parse blacklist file: %w", err)
	}
	return ids, patterns, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
