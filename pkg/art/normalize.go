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
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	"image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	// CoverWidth and CoverHeight are the portrait size Sunshine displays.
	CoverWidth  = 600
	CoverHeight = 900
)

// Normalize decodes a JPEG, PNG or WebP image and re-encodes it as a
// CoverWidth×CoverHeight PNG.
func Normalize(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() != CoverWidth || b.Dy() != CoverHeight {
		img = resize.Resize(CoverWidth, CoverHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

// isCover reports whether r holds a PNG of the cover size. Only the header
// is read.
func isCover(r io.Reader) bool {
	cfg, format, err := image.DecodeConfig(r)
	return err == nil && format == "png" && cfg.Width == CoverWidth && cfg.Height == CoverHeight
}
