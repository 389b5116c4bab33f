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

package sunshine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

// uuidNamespace seeds the deterministic uuids of new managed apps.
var uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/wadiebs/bazzite-sunshine-manager"))

// keyOrder is the leading key order of managed apps. Other keys follow in
// alphabetical order.
var keyOrder = []string{
	"name",
	MarkerField,
	"uuid",
	"cmd",
	"working-dir",
	"image-path",
	"output",
	"elevated",
	"auto-detach",
	"wait-all",
	"exit-timeout",
}

// ownedFields are rewritten from the library entry on every merge and can
// not be overridden through host fields.
var ownedFields = map[string]struct{}{
	MarkerField:   {},
	"name":        {},
	"cmd":         {},
	"working-dir": {},
	"image-path":  {},
	"uuid":        {},
}

// newAppDefaults are applied to managed apps created by this merge.
func newAppDefaults() map[string]any {
	return map[string]any{
		"output":       "",
		"elevated":     false,
		"auto-detach":  true,
		"wait-all":     true,
		"exit-timeout": 5,
	}
}

// AppUUID returns the uuid a new managed app with id receives.
func AppUUID(id string) string {
	return strings.ToUpper(uuid.NewSHA1(uuidNamespace, []byte(id)).String())
}

// MergeStats counts what a merge did.
type MergeStats struct {
	// Written is the number of managed apps in the result.
	Written int
	Added   int
	Updated int
	// Removed counts previously managed apps absent from the entries.
	Removed int
	// Preserved counts unmanaged apps carried over untouched.
	Preserved int
}

// Merge reconciles doc with entries and returns the new document. It does
// not modify doc. Unmanaged apps keep their order and come first, followed
// by one managed app per entry in entry order. Fields of a previous
// managed app that this tool does not own are preserved.
func Merge(doc *Document, entries []library.Entry) (*Document, MergeStats, error) {
	var stats MergeStats
	previous := doc.Managed()

	out := &Document{fields: doc.fields}
	for _, a := range doc.Apps {
		if !a.Managed() {
			out.Apps = append(out.Apps, a)
			stats.Preserved++
		}
	}

	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if _, dup := seen[e.ID]; dup || e.ID == "" {
			continue
		}
		seen[e.ID] = struct{}{}

		prev, existed := previous[e.ID]
		raw, err := buildApp(e, prev.Raw, existed)
		if err != nil {
			return nil, MergeStats{}, fmt.Errorf("failed to build app %s: %w", e.ID, err)
		}
		out.Apps = append(out.Apps, App{ManagedID: e.ID, Raw: raw})
		if existed {
			stats.Updated++
		} else {
			stats.Added++
		}
	}
	stats.Written = len(seen)

	for id := range previous {
		if _, ok := seen[id]; !ok {
			stats.Removed++
		}
	}
	return out, stats, nil
}

func buildApp(e *library.Entry, prevRaw json.RawMessage, existed bool) (json.RawMessage, error) {
	values := make(map[string]json.RawMessage)
	fresh := !existed
	if existed {
		if err := json.Unmarshal(prevRaw, &values); err != nil {
			values = make(map[string]json.RawMessage)
			fresh = true
		}
	}

	set := func(key string, v any) error {
		b, err := marshalValue(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		values[key] = b
		return nil
	}

	// host fields only seed keys the app does not have yet, so edits made
	// in Sunshine survive a re-import
	for k, v := range e.HostFields {
		if _, owned := ownedFields[k]; owned {
			continue
		}
		if _, ok := values[k]; ok {
			continue
		}
		if err := set(k, v); err != nil {
			return nil, err
		}
	}
	if fresh {
		for k, v := range newAppDefaults() {
			if _, ok := values[k]; ok {
				continue
			}
			if err := set(k, v); err != nil {
				return nil, err
			}
		}
	}

	if _, ok := values["uuid"]; !ok {
		if err := set("uuid", AppUUID(e.ID)); err != nil {
			return nil, err
		}
	}
	if err := set(MarkerField, e.ID); err != nil {
		return nil, err
	}
	if err := set("name", e.Name); err != nil {
		return nil, err
	}
	if err := set("cmd", e.LaunchCommand); err != nil {
		return nil, err
	}
	if e.WorkingDir != "" {
		if err := set("working-dir", e.WorkingDir); err != nil {
			return nil, err
		}
	} else {
		delete(values, "working-dir")
	}
	// resolved art wins; otherwise whatever image the app already had
	// stays. System apps carry a static image that only seeds new apps.
	_, hasImage := values["image-path"]
	staticArt := e.Source == library.SourceSystem && hasImage
	if e.CoverArtPath != "" && !staticArt {
		if err := set("image-path", e.CoverArtPath); err != nil {
			return nil, err
		}
	}

	return encodeOrdered(values)
}

func marshalValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// encodeOrdered writes values as a compact object in keyOrder, then the
// remaining keys sorted.
func encodeOrdered(values map[string]json.RawMessage) (json.RawMessage, error) {
	keys := make([]string, 0, len(values))
	leading := make(map[string]int, len(keyOrder))
	for i, k := range keyOrder {
		leading[k] = i
	}
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := leading[keys[i]]
		rj, jok := leading[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, k); err != nil {
			return nil, err
		}
		if err := json.Compact(&buf, values[k]); err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
