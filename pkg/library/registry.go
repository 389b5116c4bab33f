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

package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type registration struct {
	scanner Scanner
	roots   []string
}

// Registry maps each enabled source to its scanner and library roots. It is
// built once at startup and then scanned in registration order.
type Registry struct {
	bySource map[Source]registration
	order    []Source
}

func NewRegistry() *Registry {
	return &Registry{
		bySource: make(map[Source]registration),
	}
}

// Register adds or replaces the scanner for its source.
func (r *Registry) Register(s Scanner, roots ...string) {
	src := s.Source()
	if _, ok := r.bySource[src]; !ok {
		r.order = append(r.order, src)
	}
	r.bySource[src] = registration{scanner: s, roots: roots}
}

// Sources returns the registered sources in registration order.
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.order))
	copy(out, r.order)
	return out
}

// SourceResult is the outcome of scanning one source.
type SourceResult struct {
	Err     error
	Source  Source
	Entries []Entry
}

// ScanAll runs every registered scanner in order. A failing source is
// reported in its SourceResult and never stops the remaining sources.
func (r *Registry) ScanAll(ctx context.Context) []SourceResult {
	results := make([]SourceResult, 0, len(r.order))
	for _, src := range r.order {
		if err := ctx.Err(); err != nil {
			results = append(results, SourceResult{Source: src, Err: err})
			continue
		}

		reg := r.bySource[src]
		entries, err := reg.scanner.Scan(ctx, reg.roots)
		switch {
		case errors.Is(err, ErrRootNotFound):
			log.Warn().Err(err).Str("source", string(src)).Msg("launcher not installed, skipping source")
		case err != nil:
			err = fmt.Errorf("failed to scan %s: %w", src, err)
			log.Warn().Err(err).Str("source", string(src)).Msg("source scan failed, skipping source")
		}
		if err != nil {
			entries = nil
		} else {
			log.Info().Str("source", string(src)).Int("count", len(entries)).Msg("scanned source")
		}
		results = append(results, SourceResult{Source: src, Entries: entries, Err: err})
	}
	return results
}
