// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie writes the NIE (Naive) image file format: a fixed 16 byte header
// and then raw pixels. Decoded GVR levels are dumped this way so that they can
// be compared byte for byte with other decoders' output.
//
// Only the "bn8" variant is implemented: BGRA order, non-premultiplied alpha,
// 16 bits per channel.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"errors"
	"image"
	"image/color"
)

var (
	ErrBadArgument        = errors.New("nie: bad argument")
	ErrImageIsTooLarge    = errors.New("nie: image is too large")
	ErrUnsupportedPalette = errors.New("nie: unsupported palette")
)

const (
	headerSize    = 16
	bytesPerPixel = 8

	// maxDimension is the largest width or height that NIE allows.
	maxDimension = 0x7FFFFFFF
)

var magic = [8]byte{0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '8'}

// EncodeBN8 encodes m as a NIE file in BGRA order, non-premultiplied alpha, 8
// bytes per pixel (16 bits per channel).
//
// 8 bit channels are widened by replicating the byte, so that 0xFF becomes
// 0xFFFF. Any image type is accepted, with fast paths for *image.NRGBA (what
// the gvr package decodes to) and *image.Paletted.
func EncodeBN8(m image.Image) ([]byte, error) {
	if m == nil {
		return nil, ErrBadArgument
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if (w > maxDimension) || (h > maxDimension) {
		return nil, ErrImageIsTooLarge
	}

	ret := make([]byte, 0, headerSize+(bytesPerPixel*w*h))
	ret = append(ret, magic[:]...)
	ret = appendU32LE(ret, uint32(w))
	ret = appendU32LE(ret, uint32(h))

	switch m := m.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := m.PixOffset(b.Min.X, y)
			for row := m.Pix[i : i+(4*w)]; len(row) >= 4; row = row[4:] {
				ret = appendNRGBA(ret, color.NRGBA{R: row[0], G: row[1], B: row[2], A: row[3]})
			}
		}
		return ret, nil

	case *image.Paletted:
		palette := make([]color.NRGBA64, len(m.Palette))
		for i, c := range m.Palette {
			if c == nil {
				return nil, ErrUnsupportedPalette
			}
			palette[i] = color.NRGBA64Model.Convert(c).(color.NRGBA64)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				index := int(m.ColorIndexAt(x, y))
				if index >= len(palette) {
					return nil, ErrUnsupportedPalette
				}
				ret = appendNRGBA64(ret, palette[index])
			}
		}
		return ret, nil
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			ret = appendNRGBA64(ret, color.NRGBA64Model.Convert(m.At(x, y)).(color.NRGBA64))
		}
	}
	return ret, nil
}

func appendNRGBA(b []byte, c color.NRGBA) []byte {
	return append(b,
		c.B, c.B,
		c.G, c.G,
		c.R, c.R,
		c.A, c.A,
	)
}

func appendNRGBA64(b []byte, c color.NRGBA64) []byte {
	return append(b,
		uint8(c.B>>0), uint8(c.B>>8),
		uint8(c.G>>0), uint8(c.G>>8),
		uint8(c.R>>0), uint8(c.R>>8),
		uint8(c.A>>0), uint8(c.A>>8),
	)
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}
