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
	"errors"
	"fmt"
	"io"
)

// MarkerField is the app field identifying entries this tool manages. Its
// value is the library entry ID.
const MarkerField = "x-bsm-id"

// ErrUnparseable is returned by Parse for documents that are not a JSON
// object with an "apps" list.
var ErrUnparseable = errors.New("unparseable apps document")

// skeleton is written when no document exists yet.
const skeleton = `{"env":{"PATH":"$(PATH):$(HOME)/.local/bin"},"apps":[]}`

// field is one key of a JSON object, kept with its raw value so key order
// and formatting of values survive a round trip.
type field struct {
	Key   string
	Value json.RawMessage
}

// App is one element of the apps list. Raw is kept verbatim; ManagedID is
// the marker value, empty for apps this tool does not own.
type App struct {
	ManagedID string
	Raw       json.RawMessage
}

// Managed reports whether the app carries the marker field.
func (a *App) Managed() bool {
	return a.ManagedID != ""
}

// Document is a parsed Sunshine apps.json. Top-level keys other than
// "apps" are kept verbatim and in their original order.
type Document struct {
	fields []field
	Apps   []App
}

// NewDocument returns the skeleton document.
func NewDocument() *Document {
	doc, err := Parse([]byte(skeleton))
	if err != nil {
		panic(err)
	}
	return doc
}

// Env returns the raw "env" section, or nil when absent.
func (d *Document) Env() json.RawMessage {
	for _, f := range d.fields {
		if f.Key == "env" {
			return f.Value
		}
	}
	return nil
}

// Managed returns the managed apps keyed by ID. When an ID appears more
// than once the first occurrence wins.
func (d *Document) Managed() map[string]App {
	out := make(map[string]App)
	for _, a := range d.Apps {
		if !a.Managed() {
			continue
		}
		if _, ok := out[a.ManagedID]; !ok {
			out[a.ManagedID] = a
		}
	}
	return out
}

// Unmanaged returns the unmanaged apps in document order.
func (d *Document) Unmanaged() []App {
	var out []App
	for _, a := range d.Apps {
		if !a.Managed() {
			out = append(out, a)
		}
	}
	return out
}

// Parse reads an apps document. The result shares no memory with data. A
// bare JSON list is read as the apps of an otherwise empty document.
func Parse(data []byte) (*Document, error) {
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		return parseAppList(data)
	}

	fields, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	doc := &Document{}
	sawApps := false
	for _, f := range fields {
		if f.Key != "apps" {
			doc.fields = append(doc.fields, f)
			continue
		}
		if sawApps {
			return nil, fmt.Errorf("%w: duplicate apps key", ErrUnparseable)
		}
		sawApps = true
		// placeholder keeps the position of "apps" among the keys
		doc.fields = append(doc.fields, field{Key: "apps"})

		var raws []json.RawMessage
		if err := json.Unmarshal(f.Value, &raws); err != nil {
			return nil, fmt.Errorf("%w: apps is not a list: %w", ErrUnparseable, err)
		}
		for _, raw := range raws {
			doc.Apps = append(doc.Apps, App{Raw: raw, ManagedID: markerOf(raw)})
		}
	}
	if !sawApps {
		doc.fields = append(doc.fields, field{Key: "apps"})
	}
	return doc, nil
}

func parseAppList(data []byte) (*Document, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	doc := NewDocument()
	for _, raw := range raws {
		doc.Apps = append(doc.Apps, App{Raw: raw, ManagedID: markerOf(raw)})
	}
	return doc, nil
}

func markerOf(raw json.RawMessage) string {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	var id string
	if err := json.Unmarshal(probe[MarkerField], &id); err != nil {
		return ""
	}
	return id
}

// decodeObject splits a JSON object into its keys in document order.
func decodeObject(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("document is not a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("reading value of %q: %w", key, err)
		}
		fields = append(fields, field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}
	return fields, nil
}

// Marshal serialises the document with four-space indentation, the layout
// Sunshine itself writes.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.Key); err != nil {
			return nil, err
		}
		if f.Key == "apps" {
			buf.WriteByte('[')
			for j, a := range d.Apps {
				if j > 0 {
					buf.WriteByte(',')
				}
				buf.Write(a.Raw)
			}
			buf.WriteByte(']')
			continue
		}
		buf.Write(f.Value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, fmt.Errorf("failed to format apps document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return fmt.Errorf("failed to encode key %q: %w", key, err)
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	buf.WriteByte(':')
	return nil
}
