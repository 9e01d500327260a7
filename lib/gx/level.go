// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

import (
	"image"
	"image/color"
)

// EncodeOptions are optional arguments to AppendLevel. The zero value is
// valid and means to use the default configuration.
type EncodeOptions struct {
	// Quality applies to FormatDXT1 only.
	Quality BlockQuality
}

// AppendLevel appends src, tiled and encoded in the direct color or DXT1
// Format f, to dst. Palette formats use AppendIndexLevel instead.
//
// src's width and height must pass f.CheckDimensions. A src that does not
// fill whole tiles is padded by repeating its right and bottom edges.
//
// options may be nil, which means to use the default configuration.
func AppendLevel(dst []byte, src *image.NRGBA, f Format, options *EncodeOptions) ([]byte, error) {
	if !f.Valid() || f.HasPalette() {
		return dst, ErrBadArgument
	}
	b := src.Bounds()
	if err := f.CheckDimensions(b.Dx(), b.Dy()); err != nil {
		return dst, err
	}
	pw, ph := f.PaddedSize(b.Dx(), b.Dy())
	src = padImage(src, pw, ph)

	if f == FormatDXT1 {
		quality := BlockQualityBest
		if options != nil {
			quality = options.Quality
		}
		return appendDXT1(dst, src, quality)
	}

	tw, th := f.TileSize()
	order, err := TiledOrder(pw, ph, tw, th)
	if err != nil {
		return dst, err
	}

	switch f.BitsPerPixel() {
	case 4:
		values := make([]uint8, len(order))
		for i, p := range order {
			values[i] = EncodeColor8(f, src.NRGBAAt(p.X, p.Y))
		}
		return appendPacked(dst, values, 4), nil

	case 8:
		for _, p := range order {
			dst = append(dst, EncodeColor8(f, src.NRGBAAt(p.X, p.Y)))
		}
		return dst, nil

	case 16:
		for _, p := range order {
			u := EncodeColor16(f, src.NRGBAAt(p.X, p.Y))
			dst = append(dst, uint8(u>>8), uint8(u>>0))
		}
		return dst, nil
	}

	// ARGB8888 splits each 4×4 tile into an AR half and a GB half.
	for i := 0; i < len(order); i += 16 {
		tile := order[i : i+16]
		for _, p := range tile {
			c := src.NRGBAAt(p.X, p.Y)
			dst = append(dst, c.A, c.R)
		}
		for _, p := range tile {
			c := src.NRGBAAt(p.X, p.Y)
			dst = append(dst, c.G, c.B)
		}
	}
	return dst, nil
}

// AppendIndexLevel appends width×height palette indexes, given in row-major
// order, tiled and bit-packed for the palette Format f, to dst.
//
// Indexes are masked to the Format's bit width. Sub-tile dimensions are
// padded the same way as AppendLevel pads.
func AppendIndexLevel(dst []byte, indices []uint8, width int, height int, f Format) ([]byte, error) {
	if !f.HasPalette() || (len(indices) != (width * height)) {
		return dst, ErrBadArgument
	}
	if err := f.CheckDimensions(width, height); err != nil {
		return dst, err
	}
	pw, ph := f.PaddedSize(width, height)
	tw, th := f.TileSize()
	order, err := TiledOrder(pw, ph, tw, th)
	if err != nil {
		return dst, err
	}

	values := make([]uint8, len(order))
	for i, p := range order {
		values[i] = indices[(min(height-1, p.Y)*width)+min(width-1, p.X)]
	}
	return appendPacked(dst, values, f.BitsPerPixel()), nil
}

// DecodeLevel decodes one width×height image plane, stored in Format f, from
// the start of src. palette is only used by palette formats; indexes beyond
// its end decode as transparent black.
//
// src must hold at least f.LevelSize(width, height) bytes.
func DecodeLevel(src []byte, width int, height int, f Format, palette Palette) (*image.NRGBA, error) {
	m, err := f.NewImage(width, height)
	if err != nil {
		return nil, err
	} else if len(src) < f.LevelSize(width, height) {
		return nil, ErrBadArgument
	}
	pw, ph := m.Bounds().Dx(), m.Bounds().Dy()

	if f == FormatDXT1 {
		if err := decodeDXT1(m, src); err != nil {
			return nil, err
		}
		return cropImage(m, width, height), nil
	}

	tw, th := f.TileSize()
	order, err := TiledOrder(pw, ph, tw, th)
	if err != nil {
		return nil, err
	}

	switch bpp := f.BitsPerPixel(); bpp {
	case 4, 8:
		values := make([]uint8, len(order))
		UnpackBits(values, src, bpp)
		for i, p := range order {
			if f.HasPalette() {
				m.SetNRGBA(p.X, p.Y, paletteAt(palette, values[i]))
			} else {
				m.SetNRGBA(p.X, p.Y, DecodeColor8(f, values[i]))
			}
		}

	case 16:
		for i, p := range order {
			m.SetNRGBA(p.X, p.Y, DecodeColor16(f, readU16BE(src[2*i:])))
		}

	case 32:
		for i := 0; i < len(order); i += 16 {
			ar, gb := src[4*i:], src[(4*i)+32:]
			for j, p := range order[i : i+16] {
				m.SetNRGBA(p.X, p.Y, color.NRGBA{
					R: ar[(2*j)+1],
					G: gb[(2*j)+0],
					B: gb[(2*j)+1],
					A: ar[(2*j)+0],
				})
			}
		}
	}

	return cropImage(m, width, height), nil
}

func paletteAt(palette Palette, index uint8) color.NRGBA {
	if int(index) < len(palette) {
		return palette[index]
	}
	return color.NRGBA{}
}

func appendPacked(dst []byte, values []uint8, bits int) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, ((len(values)*bits)+7)/8)...)
	PackBits(dst[n:], values, bits)
	return dst
}

// appendDXT1 encodes src, whose dimensions are multiples of 8, as 4×4 blocks
// grouped into 8×8 tiles of 2×2 blocks.
func appendDXT1(dst []byte, src *image.NRGBA, quality BlockQuality) ([]byte, error) {
	b := src.Bounds()
	order, err := TiledOrder(b.Dx()/4, b.Dy()/4, 2, 2)
	if err != nil {
		return dst, err
	}
	pixels := [16]color.NRGBA{}
	for _, p := range order {
		for y := range 4 {
			for x := range 4 {
				pixels[(4*y)+x] = src.NRGBAAt((4*p.X)+x, (4*p.Y)+y)
			}
		}
		block := CompressBlock(&pixels, quality)
		dst = block.AppendGX(dst)
	}
	return dst, nil
}

func decodeDXT1(dst *image.NRGBA, src []byte) error {
	b := dst.Bounds()
	order, err := TiledOrder(b.Dx()/4, b.Dy()/4, 2, 2)
	if err != nil {
		return err
	}
	for i, p := range order {
		block := ParseBlock(src[BlockSize*i:])
		pixels := block.Decompress()
		for y := range 4 {
			for x := range 4 {
				dst.SetNRGBA((4*p.X)+x, (4*p.Y)+y, pixels[(4*y)+x])
			}
		}
	}
	return nil
}
