// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package gvr implements the GVR texture file format, used by Sega games on
// the GameCube and Wii.
//
// A GVR file is an optional 16 byte GBIX (or GCIX) chunk, holding a global
// index, followed by a GVRT chunk: a small header stating the data format,
// flags, width and height, then an optional color palette and the GX pixel
// data of the base image and of any mipmaps.
//
// The pixel data formats themselves are implemented by package gx.
package gvr

import (
	"errors"
	"fmt"
	"image"

	"github.com/gvrtex/gvr/lib/gx"
)

const (
	MagicGBIX = "GBIX"
	MagicGCIX = "GCIX"
	MagicGVRT = "GVRT"
)

func init() {
	image.RegisterFormat("gvr", MagicGBIX, Decode, DecodeConfig)
	image.RegisterFormat("gvr", MagicGCIX, Decode, DecodeConfig)
	image.RegisterFormat("gvr", MagicGVRT, Decode, DecodeConfig)
}

var (
	ErrBadArgument        = errors.New("gvr: bad argument")
	ErrCorruptHeader      = errors.New("gvr: corrupt header")
	ErrExternalPalette    = errors.New("gvr: texture uses an external palette")
	ErrImageIsTooLarge    = errors.New("gvr: image is too large")
	ErrMipmapsUnsupported = errors.New("gvr: mipmaps are unsupported for this format")
	ErrUnknownPixelFormat = errors.New("gvr: unknown pixel format")

	ErrTooManyUniqueColors   = gx.ErrTooManyUniqueColors
	ErrUnsupportedDimensions = gx.ErrUnsupportedDimensions
)

const (
	globalIndexChunkSize = 16
	textureHeaderSize    = 16

	// maxDimension is the largest width or height that fits the header.
	maxDimension = 0xFFFF
)

// DataFlags are the low four bits of the GVRT chunk's flags byte.
type DataFlags uint8

const (
	FlagMipmaps         = DataFlags(0x01)
	FlagExternalPalette = DataFlags(0x02)
	FlagInternalPalette = DataFlags(0x08)

	flagsPalette = FlagExternalPalette | FlagInternalPalette
)

// HeaderKind selects the optional chunk before the GVRT chunk.
type HeaderKind uint8

const (
	HeaderGCIX = HeaderKind(0)
	HeaderGBIX = HeaderKind(1)
	HeaderNone = HeaderKind(2)
)

func (k HeaderKind) String() string {
	switch k {
	case HeaderGCIX:
		return MagicGCIX
	case HeaderGBIX:
		return MagicGBIX
	case HeaderNone:
		return "none"
	}
	return "invalid"
}

var gvrToGXFormats = [16]gx.Format{
	0x00: gx.FormatIntensity4,
	0x01: gx.FormatIntensity8,
	0x02: gx.FormatIntensityAlpha4,
	0x03: gx.FormatIntensityAlpha8,
	0x04: gx.FormatRGB565,
	0x05: gx.FormatRGB5A3,
	0x06: gx.FormatARGB8888,
	0x07: gx.FormatInvalid,
	0x08: gx.FormatIndex4,
	0x09: gx.FormatIndex8,
	0x0A: gx.FormatInvalid,
	0x0B: gx.FormatInvalid,
	0x0C: gx.FormatInvalid,
	0x0D: gx.FormatInvalid,
	0x0E: gx.FormatDXT1,
	0x0F: gx.FormatInvalid,
}

var gvrToGXPaletteFormats = [3]gx.Format{
	0x00: gx.FormatIntensityAlpha8,
	0x01: gx.FormatRGB565,
	0x02: gx.FormatRGB5A3,
}

func dataFormatCode(f gx.Format) (uint8, bool) {
	for i, g := range gvrToGXFormats {
		if (g == f) && (f != gx.FormatInvalid) {
			return uint8(i), true
		}
	}
	return 0, false
}

func paletteFormatCode(f gx.Format) (uint8, bool) {
	for i, g := range gvrToGXPaletteFormats {
		if g == f {
			return uint8(i), true
		}
	}
	return 0, false
}

// Header is the parsed metadata of a GVR file.
type Header struct {
	Kind        HeaderKind
	GlobalIndex uint32

	Format gx.Format
	// PaletteFormat is the format of the palette entries. It is
	// gx.FormatInvalid unless Format has a palette.
	PaletteFormat gx.Format
	Flags         DataFlags

	Width  int
	Height int
}

func (h Header) String() string {
	s := fmt.Sprintf("GVR %s %dx%d", h.Format, h.Width, h.Height)
	if h.Kind != HeaderNone {
		s += fmt.Sprintf(", %s global index %d", h.Kind, h.GlobalIndex)
	}
	if h.Format.HasPalette() {
		where := "internal"
		if (h.Flags & FlagExternalPalette) != 0 {
			where = "external"
		}
		s += fmt.Sprintf(", %s %s palette", where, h.PaletteFormat)
	}
	if (h.Flags & FlagMipmaps) != 0 {
		s += fmt.Sprintf(", %d mipmap levels", h.NumLevels())
	}
	return s
}

// NumLevels returns the number of stored image planes: 1, or the full chain
// down to 1×1 when the texture has mipmaps.
func (h Header) NumLevels() int {
	if (h.Flags & FlagMipmaps) == 0 {
		return 1
	}
	return gx.NumMipLevels(h.Width, h.Height)
}

// paletteSize returns the number of bytes of the internal palette.
func (h Header) paletteSize() int {
	if (h.Flags & FlagInternalPalette) == 0 {
		return 0
	}
	return 2 * h.Format.PaletteEntries()
}

// pixelDataSize returns the number of bytes of all stored image planes.
func (h Header) pixelDataSize() (n int) {
	for i := range h.NumLevels() {
		n += h.Format.LevelSize(gx.MipLevelSize(h.Width, h.Height, i))
	}
	return n
}

// ParseHeader parses the chunk headers at the start of a GVR file. Like
// DecodeTexture, it checks that the GVRT chunk's declared size matches the
// rest of data.
func ParseHeader(data []byte) (Header, error) {
	h, _, err := parseHeader(data)
	return h, err
}

// parseHeader returns the header and the payload (palette and pixel data).
func parseHeader(data []byte) (h Header, payload []byte, retErr error) {
	if len(data) < textureHeaderSize {
		return Header{}, nil, ErrCorruptHeader
	}

	h.Kind = HeaderNone
	switch string(data[:4]) {
	case MagicGBIX, MagicGCIX:
		if len(data) < (globalIndexChunkSize + textureHeaderSize) {
			return Header{}, nil, ErrCorruptHeader
		} else if readU32LE(data[4:]) != (globalIndexChunkSize - 8) {
			return Header{}, nil, ErrCorruptHeader
		}
		h.Kind = HeaderGBIX
		if string(data[:4]) == MagicGCIX {
			h.Kind = HeaderGCIX
		}
		h.GlobalIndex = readU32BE(data[8:])
		data = data[globalIndexChunkSize:]
	case MagicGVRT:
		// No-op.
	default:
		return Header{}, nil, ErrCorruptHeader
	}

	if string(data[:4]) != MagicGVRT {
		return Header{}, nil, ErrCorruptHeader
	} else if uint64(readU32LE(data[4:])) != uint64(len(data)-8) {
		return Header{}, nil, ErrCorruptHeader
	}

	h.Flags = DataFlags(data[0x0A] & 0x0F)
	h.Format = gvrToGXFormats[data[0x0B]&0x0F]
	if (data[0x0B] > 0x0F) || (h.Format == gx.FormatInvalid) {
		return Header{}, nil, ErrUnknownPixelFormat
	}

	if h.Format.HasPalette() {
		// Exactly one of the two palette flags.
		switch h.Flags & flagsPalette {
		case FlagExternalPalette, FlagInternalPalette:
			// No-op.
		default:
			return Header{}, nil, ErrCorruptHeader
		}
		if p := int(data[0x0A] >> 4); p < len(gvrToGXPaletteFormats) {
			h.PaletteFormat = gvrToGXPaletteFormats[p]
		} else {
			return Header{}, nil, ErrUnknownPixelFormat
		}
	} else if (h.Flags & flagsPalette) != 0 {
		return Header{}, nil, ErrCorruptHeader
	}

	h.Width = int(readU16BE(data[0x0C:]))
	h.Height = int(readU16BE(data[0x0E:]))
	if (h.Width == 0) || (h.Height == 0) {
		return Header{}, nil, ErrCorruptHeader
	}

	payload = data[textureHeaderSize:]
	if len(payload) != (h.paletteSize() + h.pixelDataSize()) {
		return Header{}, nil, ErrCorruptHeader
	}
	return h, payload, nil
}

func readU16BE(b []byte) uint16 {
	_ = b[1]
	return (uint16(b[0]) << 8) | uint16(b[1])
}

func readU32BE(b []byte) uint32 {
	_ = b[3]
	return (uint32(b[0]) << 24) | (uint32(b[1]) << 16) | (uint32(b[2]) << 8) | uint32(b[3])
}

func readU32LE(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | (uint32(b[1]) << 8) | (uint32(b[2]) << 16) | (uint32(b[3]) << 24)
}

func appendU16BE(b []byte, u uint16) []byte {
	return append(b, uint8(u>>8), uint8(u>>0))
}

func appendU32BE(b []byte, u uint32) []byte {
	return append(b, uint8(u>>24), uint8(u>>16), uint8(u>>8), uint8(u>>0))
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b, uint8(u>>0), uint8(u>>8), uint8(u>>16), uint8(u>>24))
}
