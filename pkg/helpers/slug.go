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

package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9._-]+`)

// Slugify turns a title or launcher id into a filesystem and identifier
// safe token: width folded, diacritics removed, lower case, runs of other
// characters collapsed to "_". Empty results become "unnamed".
//
//	Slugify("Pokémon™ Legends: Arceus") == "pokemon_legends_arceus"
func Slugify(s string) string {
	t := transform.Chain(
		width.Fold,
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	slug := nonSlugRegex.ReplaceAllString(strings.ToLower(folded), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "unnamed"
	}
	return slug
}
