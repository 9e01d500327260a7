// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gvr

import (
	"image"
	"io"

	"github.com/gvrtex/gvr/lib/gx"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// If zero, the default is to use gx.FormatDXT1.
	Format gx.Format

	// PaletteFormat is the format of the palette entries of gx.FormatIndex4
	// and gx.FormatIndex8 textures: gx.FormatIntensityAlpha8, gx.FormatRGB565
	// or gx.FormatRGB5A3. If zero, the default is to use gx.FormatRGB5A3.
	PaletteFormat gx.Format

	// Mipmaps is whether to store the full mipmap chain. It is only
	// supported by gx.FormatDXT1, gx.FormatRGB565 and gx.FormatRGB5A3, and
	// needs power-of-two dimensions.
	Mipmaps bool

	// PaletteSize limits the number of distinct palette colors. If zero, the
	// default is the Format's full palette (16 or 256).
	PaletteSize int

	// Dither is whether to diffuse the palette quantization error.
	Dither bool

	// Strict rejects images with more unique colors than PaletteSize instead
	// of approximating them.
	Strict bool

	// Quality applies to gx.FormatDXT1 only.
	Quality gx.BlockQuality

	// Header is the optional chunk before the texture. If zero, the default
	// is HeaderGCIX.
	Header      HeaderKind
	GlobalIndex uint32
}

func supportsMipmaps(f gx.Format) bool {
	switch f {
	case gx.FormatDXT1,
		gx.FormatRGB565,
		gx.FormatRGB5A3:
		return true
	}
	return false
}

func isPowerOfTwo(n int) bool {
	return (n > 0) && ((n & (n - 1)) == 0)
}

// Encode writes src to w in the GVR format.
//
// Nothing is written if encoding fails: the file is assembled in memory and
// written with a single call to w.Write.
//
// options may be nil, which means to use the default configuration.
func Encode(w io.Writer, src image.Image, options *EncodeOptions) error {
	data, err := AppendEncode(nil, src, options)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// AppendEncode appends the GVR encoding of src to dst.
//
// options may be nil, which means to use the default configuration.
func AppendEncode(dst []byte, src image.Image, options *EncodeOptions) ([]byte, error) {
	o := EncodeOptions{}
	if options != nil {
		o = *options
	}
	if o.Format == gx.FormatInvalid {
		o.Format = gx.FormatDXT1
	}
	if o.PaletteFormat == gx.FormatInvalid {
		o.PaletteFormat = gx.FormatRGB5A3
	}

	if (src == nil) || !o.Format.Valid() || (o.Header > HeaderNone) {
		return dst, ErrBadArgument
	}
	formatCode, _ := dataFormatCode(o.Format)

	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	if (width > maxDimension) || (height > maxDimension) {
		return dst, ErrImageIsTooLarge
	} else if err := o.Format.CheckDimensions(width, height); err != nil {
		return dst, err
	} else if (o.Format == gx.FormatDXT1) && (((width % 4) != 0) || ((height % 4) != 0)) {
		// Only mipmap levels may be smaller than one 4×4 block.
		return dst, ErrUnsupportedDimensions
	}
	if o.Mipmaps {
		if !supportsMipmaps(o.Format) {
			return dst, ErrMipmapsUnsupported
		} else if !isPowerOfTwo(width) || !isPowerOfTwo(height) {
			return dst, ErrUnsupportedDimensions
		}
	}

	m := toNRGBA(src)
	flags := DataFlags(0)
	paletteCode := uint8(0)
	var payload []byte
	var err error

	if o.Format.HasPalette() {
		var ok bool
		if paletteCode, ok = paletteFormatCode(o.PaletteFormat); !ok {
			return dst, ErrBadArgument
		}
		flags |= FlagInternalPalette
		payload, err = encodePalettized(m, &o)
	} else {
		if o.Mipmaps {
			flags |= FlagMipmaps
		}
		payload, err = encodeLevels(m, &o)
	}
	if err != nil {
		return dst, err
	}

	switch o.Header {
	case HeaderGCIX, HeaderGBIX:
		dst = append(dst, o.Header.String()...)
		dst = appendU32LE(dst, globalIndexChunkSize-8)
		dst = appendU32BE(dst, o.GlobalIndex)
		dst = appendU32BE(dst, 0)
	}

	dst = append(dst, MagicGVRT...)
	dst = appendU32LE(dst, uint32(textureHeaderSize-8+len(payload)))
	dst = appendU16BE(dst, 0)
	dst = append(dst, (paletteCode<<4)|uint8(flags), formatCode)
	dst = appendU16BE(dst, uint16(width))
	dst = appendU16BE(dst, uint16(height))
	return append(dst, payload...), nil
}

// encodeLevels encodes the base image, and its mipmaps if requested. Levels
// are encoded concurrently and concatenated largest first.
func encodeLevels(m *image.NRGBA, o *EncodeOptions) ([]byte, error) {
	levels := []*image.NRGBA{m}
	if o.Mipmaps {
		levels = gx.BuildChain(m)
	}

	bufs := make([][]byte, len(levels))
	g := errgroup.Group{}
	for i, level := range levels {
		g.Go(func() (err error) {
			bufs[i], err = gx.AppendLevel(nil, level, o.Format, &gx.EncodeOptions{
				Quality: o.Quality,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, buf := range bufs {
		n += len(buf)
	}
	ret := make([]byte, 0, n)
	for _, buf := range bufs {
		ret = append(ret, buf...)
	}
	return ret, nil
}

// encodePalettized quantizes m and returns the palette followed by the index
// data.
//
// Indexes are assigned against the palette as it will decode, after the
// lossy conversion to the palette format, so that each pixel decodes to its
// nearest representable entry.
func encodePalettized(m *image.NRGBA, o *EncodeOptions) ([]byte, error) {
	numEntries := o.Format.PaletteEntries()
	paletteSize := o.PaletteSize
	if paletteSize == 0 {
		paletteSize = numEntries
	} else if (paletteSize < 0) || (paletteSize > numEntries) {
		return nil, ErrBadArgument
	}

	q, err := gx.Quantize(m, &gx.QuantizeOptions{
		MaxColors:   paletteSize,
		Strict:      o.Strict,
		PaletteOnly: true,
	})
	if err != nil {
		return nil, err
	}

	stored := make(gx.Palette, len(q.Palette))
	ret := make([]byte, 0, (2*numEntries)+o.Format.LevelSize(m.Bounds().Dx(), m.Bounds().Dy()))
	for i, c := range q.Palette {
		u := gx.EncodeColor16(o.PaletteFormat, c)
		stored[i] = gx.DecodeColor16(o.PaletteFormat, u)
		ret = appendU16BE(ret, u)
	}
	for range numEntries - len(q.Palette) {
		ret = appendU16BE(ret, 0)
	}

	indices := stored.Map(m, o.Dither)
	b := m.Bounds()
	return gx.AppendIndexLevel(ret, indices, b.Dx(), b.Dy(), o.Format)
}

// toNRGBA returns src as an *image.NRGBA whose bounds start at (0, 0),
// converting if necessary.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if m, ok := src.(*image.NRGBA); ok && (b.Min == image.Point{}) {
		return m
	}
	m := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(m, image.Point{}, src, b, draw.Src, nil)
	return m
}
