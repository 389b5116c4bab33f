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

package steamgriddb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Game is a search result.
type Game struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	Verified bool   `json:"verified"`
}

// Image is a grid or hero asset.
type Image struct {
	URL    string `json:"url"`
	Thumb  string `json:"thumb"`
	Style  string `json:"style"`
	Mime   string `json:"mime"`
	ID     int    `json:"id"`
	Score  int    `json:"score"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// APIResponse is the envelope every v2 endpoint returns.
type APIResponse struct {
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
	Success bool            `json:"success"`
}

func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !resp.Success {
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("API error: %s", resp.Errors[0])
		}
		return nil, errors.New("API error: request was not successful")
	}
	return resp.Data, nil
}

// decodeImages accepts both a list of images and a single image object.
func decodeImages(data json.RawMessage) ([]Image, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '{' {
		var img Image
		if err := json.Unmarshal(data, &img); err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return []Image{img}, nil
	}
	var imgs []Image
	if err := json.Unmarshal(data, &imgs); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	return imgs, nil
}
