// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package gx implements the texture data formats of the GameCube and Wii GPU
// (the "GX" graphics API): intensity, direct color, color-indexed and CMPR
// (DXT1) pixel data, stored in the GPU's block-tiled order.
//
// It is the pixel layer underneath texture containers such as GVR. It knows
// nothing about file headers.
package gx

import (
	"errors"
	"image"
)

var (
	ErrBadArgument           = errors.New("gx: bad argument")
	ErrUnsupportedDimensions = errors.New("gx: unsupported dimensions")
	ErrTooManyUniqueColors   = errors.New("gx: too many unique colors")
)

// Format is a GX texture data format.
//
// The zero value is FormatInvalid. The numerical values are this package's
// own and do not match any file format's codes.
type Format uint8

const (
	FormatInvalid = Format(0)

	FormatIntensity4      = Format(1)
	FormatIntensity8      = Format(2)
	FormatIntensityAlpha4 = Format(3)
	FormatIntensityAlpha8 = Format(4)
	FormatRGB565          = Format(5)
	FormatRGB5A3          = Format(6)
	FormatARGB8888        = Format(7)
	FormatIndex4          = Format(8)
	FormatIndex8          = Format(9)
	FormatDXT1            = Format(10)
)

// BitsPerPixel returns the number of stored bits per pixel, or 0 for an
// invalid Format.
func (f Format) BitsPerPixel() int {
	switch f {
	case FormatIntensity4,
		FormatIndex4,
		FormatDXT1:
		return 4

	case FormatIntensity8,
		FormatIntensityAlpha4,
		FormatIndex8:
		return 8

	case FormatIntensityAlpha8,
		FormatRGB565,
		FormatRGB5A3:
		return 16

	case FormatARGB8888:
		return 32
	}

	return 0
}

// TileSize returns the width and height of the Format's storage tile. Pixel
// data is laid out one tile after another.
//
// Every tile is 32 bytes, except for ARGB8888 whose 4×4 tiles are 64 bytes.
func (f Format) TileSize() (width int, height int) {
	switch f {
	case FormatIntensity4,
		FormatIndex4,
		FormatDXT1:
		return 8, 8

	case FormatIntensity8,
		FormatIntensityAlpha4,
		FormatIndex8:
		return 8, 4

	case FormatIntensityAlpha8,
		FormatRGB565,
		FormatRGB5A3,
		FormatARGB8888:
		return 4, 4
	}

	return 0, 0
}

// HasPalette returns whether the Format stores palette indexes instead of
// colors.
func (f Format) HasPalette() bool {
	return (f == FormatIndex4) || (f == FormatIndex8)
}

// PaletteEntries returns the number of palette entries that the Format's
// indexes can address, or 0 for non-palette formats.
func (f Format) PaletteEntries() int {
	switch f {
	case FormatIndex4:
		return 16
	case FormatIndex8:
		return 256
	}
	return 0
}

// CanBePaletteFormat returns whether palette entries can be stored in the
// Format.
func (f Format) CanBePaletteFormat() bool {
	switch f {
	case FormatIntensityAlpha8,
		FormatRGB565,
		FormatRGB5A3:
		return true
	}
	return false
}

// Valid returns whether f is one of the enumerated formats.
func (f Format) Valid() bool {
	return (FormatIntensity4 <= f) && (f <= FormatDXT1)
}

// PaddedSize rounds width and height up to whole tiles.
func (f Format) PaddedSize(width int, height int) (int, int) {
	tw, th := f.TileSize()
	if (tw == 0) || (th == 0) {
		return 0, 0
	}
	return ((width + tw - 1) / tw) * tw, ((height + th - 1) / th) * th
}

// LevelSize returns the number of bytes used by one width×height image
// plane, after padding to whole tiles.
func (f Format) LevelSize(width int, height int) int {
	pw, ph := f.PaddedSize(width, height)
	return (pw * ph * f.BitsPerPixel()) / 8
}

// AlignSize returns the granularity of the Format's encoded dimensions. It is
// the tile size, except for FormatDXT1 whose 4×4 blocks are the unit: its 8×8
// tiles of 2×2 blocks are padded with replicated blocks.
func (f Format) AlignSize() (width int, height int) {
	if f == FormatDXT1 {
		return 4, 4
	}
	return f.TileSize()
}

// CheckDimensions returns ErrUnsupportedDimensions unless each of width and
// height is positive and either a multiple of the AlignSize dimension or
// smaller than it. Images are padded up to whole tiles.
func (f Format) CheckDimensions(width int, height int) error {
	aw, ah := f.AlignSize()
	if (aw == 0) || (ah == 0) {
		return ErrBadArgument
	}
	if (width <= 0) || (height <= 0) {
		return ErrUnsupportedDimensions
	}
	if ((width >= aw) && ((width % aw) != 0)) ||
		((height >= ah) && ((height % ah) != 0)) {
		return ErrUnsupportedDimensions
	}
	return nil
}

// NewImage returns an image whose bounds are the Format's padded size for the
// requested width and height.
func (f Format) NewImage(width int, height int) (*image.NRGBA, error) {
	if (width <= 0) || (width >= 65536) ||
		(height <= 0) || (height >= 65536) || !f.Valid() {
		return nil, ErrBadArgument
	}
	pw, ph := f.PaddedSize(width, height)
	return image.NewNRGBA(image.Rect(0, 0, pw, ph)), nil
}

func (f Format) String() string {
	switch f {
	case FormatIntensity4:
		return "Intensity4"
	case FormatIntensity8:
		return "Intensity8"
	case FormatIntensityAlpha4:
		return "IntensityAlpha4"
	case FormatIntensityAlpha8:
		return "IntensityAlpha8"
	case FormatRGB565:
		return "RGB565"
	case FormatRGB5A3:
		return "RGB5A3"
	case FormatARGB8888:
		return "ARGB8888"
	case FormatIndex4:
		return "Index4"
	case FormatIndex8:
		return "Index8"
	case FormatDXT1:
		return "DXT1"
	}
	return "Invalid"
}
