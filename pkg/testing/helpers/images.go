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
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// gradient draws a deterministic image so encoders produce realistic sizes.
func gradient(w, h int, tint uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / max(w, 1)),
				G: uint8((y * 255) / max(h, 1)),
				B: tint,
				A: 0xff,
			})
		}
	}
	return img
}

// JPEGImage returns an encoded w×h JPEG. Different tints give different
// bytes for the same size.
func JPEGImage(w, h int, tint uint8) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(w, h, tint), &jpeg.Options{Quality: 80}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGImage returns an encoded w×h PNG.
func PNGImage(w, h int, tint uint8) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(w, h, tint)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
