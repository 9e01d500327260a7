// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

import (
	"image/color"
)

// Luminance returns the 8-bit intensity of c's color channels.
//
// It uses the ITU-R BT.601 weights, with the same fixed point constants as the
// Go standard library's color.GrayModel, so that a gray pixel (R == G == B)
// maps to exactly that gray value. Alpha is ignored.
func Luminance(c color.NRGBA) uint8 {
	y := ((19595 * uint32(c.R)) +
		(38470 * uint32(c.G)) +
		(7471 * uint32(c.B)) +
		(1 << 15)) >> 16
	return uint8(y)
}

// quantize maps an 8-bit value to n bits, rounding to nearest.
func quantize(v uint8, n uint) uint8 {
	m := (uint32(1) << n) - 1
	return uint8(((uint32(v) * m) + 127) / 255)
}

// expand maps an n-bit value to 8 bits by bit replication.
func expand(v uint8, n uint) uint8 {
	switch n {
	case 3:
		return (v << 5) | (v << 2) | (v >> 1)
	case 4:
		return (v << 4) | v
	case 5:
		return (v << 3) | (v >> 2)
	case 6:
		return (v << 2) | (v >> 4)
	}
	return v
}

// EncodeColor16 converts c to the 16-bit word of a 16 bits per pixel Format:
// FormatIntensityAlpha8, FormatRGB565 or FormatRGB5A3. It returns 0 for other
// formats.
func EncodeColor16(f Format, c color.NRGBA) uint16 {
	switch f {
	case FormatIntensityAlpha8:
		return (uint16(c.A) << 8) | uint16(Luminance(c))

	case FormatRGB565:
		return (uint16(quantize(c.R, 5)) << 11) |
			(uint16(quantize(c.G, 6)) << 5) |
			(uint16(quantize(c.B, 5)) << 0)

	case FormatRGB5A3:
		if a3 := quantize(c.A, 3); a3 < 7 {
			return (uint16(a3) << 12) |
				(uint16(quantize(c.R, 4)) << 8) |
				(uint16(quantize(c.G, 4)) << 4) |
				(uint16(quantize(c.B, 4)) << 0)
		}
		return 0x8000 |
			(uint16(quantize(c.R, 5)) << 10) |
			(uint16(quantize(c.G, 5)) << 5) |
			(uint16(quantize(c.B, 5)) << 0)
	}
	return 0
}

// DecodeColor16 is the inverse of EncodeColor16.
func DecodeColor16(f Format, u uint16) color.NRGBA {
	switch f {
	case FormatIntensityAlpha8:
		i := uint8(u)
		return color.NRGBA{R: i, G: i, B: i, A: uint8(u >> 8)}

	case FormatRGB565:
		return color.NRGBA{
			R: expand(uint8(u>>11)&0x1F, 5),
			G: expand(uint8(u>>5)&0x3F, 6),
			B: expand(uint8(u>>0)&0x1F, 5),
			A: 0xFF,
		}

	case FormatRGB5A3:
		if (u & 0x8000) != 0 {
			return color.NRGBA{
				R: expand(uint8(u>>10)&0x1F, 5),
				G: expand(uint8(u>>5)&0x1F, 5),
				B: expand(uint8(u>>0)&0x1F, 5),
				A: 0xFF,
			}
		}
		return color.NRGBA{
			R: expand(uint8(u>>8)&0x0F, 4),
			G: expand(uint8(u>>4)&0x0F, 4),
			B: expand(uint8(u>>0)&0x0F, 4),
			A: expand(uint8(u>>12)&0x07, 3),
		}
	}
	return color.NRGBA{}
}

// EncodeColor8 converts c to the per-pixel value of an 8 bits or fewer per
// pixel intensity Format: FormatIntensity4, FormatIntensity8 or
// FormatIntensityAlpha4. The FormatIntensity4 value uses the low 4 bits.
func EncodeColor8(f Format, c color.NRGBA) uint8 {
	switch f {
	case FormatIntensity4:
		return quantize(Luminance(c), 4)
	case FormatIntensity8:
		return Luminance(c)
	case FormatIntensityAlpha4:
		return (quantize(c.A, 4) << 4) | quantize(Luminance(c), 4)
	}
	return 0
}

// DecodeColor8 is the inverse of EncodeColor8.
func DecodeColor8(f Format, v uint8) color.NRGBA {
	switch f {
	case FormatIntensity4:
		i := expand(v&0x0F, 4)
		return color.NRGBA{R: i, G: i, B: i, A: 0xFF}
	case FormatIntensity8:
		return color.NRGBA{R: v, G: v, B: v, A: 0xFF}
	case FormatIntensityAlpha4:
		i := expand(v&0x0F, 4)
		return color.NRGBA{R: i, G: i, B: i, A: expand(v>>4, 4)}
	}
	return color.NRGBA{}
}

// RoundTrip returns c as it would decode after being stored in f. It is the
// identity for formats that are not direct color formats.
func RoundTrip(f Format, c color.NRGBA) color.NRGBA {
	switch f.BitsPerPixel() {
	case 16:
		return DecodeColor16(f, EncodeColor16(f, c))
	}
	switch f {
	case FormatIntensity4,
		FormatIntensity8,
		FormatIntensityAlpha4:
		return DecodeColor8(f, EncodeColor8(f, c))
	}
	return c
}
