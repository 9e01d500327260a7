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
	"image/color"
	"io"

	"github.com/gvrtex/gvr/lib/gx"

	"golang.org/x/sync/errgroup"
)

// DecodeOptions are optional arguments to DecodeTexture. The zero value is
// valid and means to use the default configuration.
type DecodeOptions struct {
	// Palette supplies the colors of a texture flagged with
	// FlagExternalPalette, whose palette lives in a separate file.
	Palette gx.Palette

	// SkipMipmaps is whether to decode only the base image.
	SkipMipmaps bool
}

// Texture is a decoded GVR file.
type Texture struct {
	Header Header

	// Image is the base image.
	Image *image.NRGBA

	// Mipmaps holds the successively smaller images after the base image,
	// if the texture has mipmaps and they were not skipped.
	Mipmaps []*image.NRGBA

	// Palette is the decoded palette of a palette format texture.
	Palette gx.Palette
}

// Level returns image plane n: the base image for n == 0, otherwise a mipmap.
// It returns nil if there is no such level.
func (t *Texture) Level(n int) *image.NRGBA {
	if n == 0 {
		return t.Image
	} else if (n < 0) || (n > len(t.Mipmaps)) {
		return nil
	}
	return t.Mipmaps[n-1]
}

// DecodeTexture decodes a whole GVR file.
//
// options may be nil, which means to use the default configuration.
func DecodeTexture(data []byte, options *DecodeOptions) (*Texture, error) {
	h, payload, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	t := &Texture{Header: h}

	if h.Format.HasPalette() {
		if (h.Flags & FlagExternalPalette) != 0 {
			if (options == nil) || (len(options.Palette) == 0) {
				return nil, ErrExternalPalette
			}
			t.Palette = options.Palette
		} else {
			t.Palette = make(gx.Palette, h.Format.PaletteEntries())
			for i := range t.Palette {
				t.Palette[i] = gx.DecodeColor16(h.PaletteFormat, readU16BE(payload[2*i:]))
			}
			payload = payload[h.paletteSize():]
		}
	}

	numLevels := h.NumLevels()
	if (options != nil) && options.SkipMipmaps {
		numLevels = 1
	}

	levels := make([]*image.NRGBA, numLevels)
	g := errgroup.Group{}
	for i := range numLevels {
		lw, lh := gx.MipLevelSize(h.Width, h.Height, i)
		src := payload
		payload = payload[h.Format.LevelSize(lw, lh):]
		g.Go(func() (err error) {
			levels[i], err = gx.DecodeLevel(src, lw, lh, h.Format, t.Palette)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.Image, t.Mipmaps = levels[0], levels[1:]
	return t, nil
}

// DecodeConfig reads a GVR image configuration from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}

// Decode reads the base image of a GVR texture from r. A texture with an
// external palette cannot be decoded this way; use DecodeTexture.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	t, err := DecodeTexture(data, &DecodeOptions{SkipMipmaps: true})
	if err != nil {
		return nil, err
	}
	return t.Image, nil
}
