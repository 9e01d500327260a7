// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

import (
	"cmp"
	"image"
	"image/color"
	"slices"
)

// Palette is an ordered list of colors, addressed by the indexes of
// FormatIndex4 and FormatIndex8 pixel data.
type Palette []color.NRGBA

// Nearest returns the index of the entry closest to c by squared Euclidean
// distance over R, G, B and A. Ties go to the lowest index. It returns -1 for
// an empty Palette.
func (p Palette) Nearest(c color.NRGBA) int {
	bestI, bestD := -1, uint32(0xFFFF_FFFF)
	for i, e := range p {
		if d := sqDiffNRGBA(c, e); d < bestD {
			bestI, bestD = i, d
			if d == 0 {
				break
			}
		}
	}
	return bestI
}

// Map returns, for every pixel of m in row-major order, the index of a
// Palette entry. Without dithering that is the nearest entry. With dithering
// the quantization error is diffused to neighboring pixels (Floyd–Steinberg).
//
// The Palette must have between 1 and 256 entries.
func (p Palette) Map(m *image.NRGBA, dither bool) []uint8 {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	ret := make([]uint8, w*h)

	if !dither {
		cache := map[color.NRGBA]uint8{}
		for y := range h {
			for x := range w {
				c := m.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				index, ok := cache[c]
				if !ok {
					index = uint8(p.Nearest(c))
					cache[c] = index
				}
				ret[(y*w)+x] = index
			}
		}
		return ret
	}

	// Two rows of accumulated error, 4 channels per pixel, with one pixel of
	// slack on each side.
	curr := make([]int32, 4*(w+2))
	next := make([]int32, 4*(w+2))
	for y := range h {
		for x := range w {
			c := m.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			e := curr[4*(x+1):]
			want := color.NRGBA{
				R: clampU8(int32(c.R) + (e[0] / 16)),
				G: clampU8(int32(c.G) + (e[1] / 16)),
				B: clampU8(int32(c.B) + (e[2] / 16)),
				A: clampU8(int32(c.A) + (e[3] / 16)),
			}
			index := p.Nearest(want)
			ret[(y*w)+x] = uint8(index)

			got := p[index]
			diff := [4]int32{
				int32(want.R) - int32(got.R),
				int32(want.G) - int32(got.G),
				int32(want.B) - int32(got.B),
				int32(want.A) - int32(got.A),
			}
			for k, d := range diff {
				curr[(4*(x+2))+k] += 7 * d
				next[(4*(x+0))+k] += 3 * d
				next[(4*(x+1))+k] += 5 * d
				next[(4*(x+2))+k] += 1 * d
			}
		}
		curr, next = next, curr
		clear(next)
	}
	return ret
}

// QuantizeOptions are optional arguments to Quantize. The zero value is valid
// and means to use the default configuration.
type QuantizeOptions struct {
	// MaxColors is the palette size limit, between 1 and 256. If zero, the
	// default is 256.
	MaxColors int

	// Dither is whether to diffuse the quantization error when mapping
	// pixels to palette indexes.
	Dither bool

	// Strict disallows approximation. An image with more than MaxColors
	// unique colors is rejected with ErrTooManyUniqueColors.
	Strict bool

	// PaletteOnly skips assigning pixel indexes, leaving Quantized.Indices
	// nil. Callers that store the palette in a lossy format map pixels
	// themselves, with Palette.Map, against the palette as it will decode.
	PaletteOnly bool
}

// Quantized is an image reduced to a Palette.
type Quantized struct {
	Palette Palette

	// Indices holds one Palette index per pixel, in row-major order. It is
	// nil if QuantizeOptions.PaletteOnly was set.
	Indices []uint8

	Width  int
	Height int
}

// At returns the palette color of the pixel at (x, y).
func (q *Quantized) At(x int, y int) color.NRGBA {
	return q.Palette[q.Indices[(y*q.Width)+x]]
}

// Quantize reduces m to a palette of at most options.MaxColors colors.
//
// If m has no more unique colors than that, the palette is exactly those
// colors, in order of first appearance. Otherwise the palette is built by
// median cut over the RGBA histogram. The result only depends on the pixel
// values, so the same image always produces the same palette.
//
// options may be nil, which means to use the default configuration.
func Quantize(m *image.NRGBA, options *QuantizeOptions) (*Quantized, error) {
	maxColors, dither, strict, paletteOnly := 256, false, false, false
	if options != nil {
		if options.MaxColors != 0 {
			maxColors = options.MaxColors
		}
		dither, strict, paletteOnly = options.Dither, options.Strict, options.PaletteOnly
	}
	b := m.Bounds()
	if (maxColors < 1) || (maxColors > 256) || b.Empty() {
		return nil, ErrBadArgument
	}
	w, h := b.Dx(), b.Dy()

	hist := []histEntry{}
	lookup := map[color.NRGBA]int{}
	for y := range h {
		for x := range w {
			c := m.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if i, ok := lookup[c]; ok {
				hist[i].n++
			} else {
				lookup[c] = len(hist)
				hist = append(hist, histEntry{c, 1})
			}
		}
	}

	q := &Quantized{Width: w, Height: h}
	if len(hist) <= maxColors {
		q.Palette = make(Palette, len(hist))
		for i, e := range hist {
			q.Palette[i] = e.c
		}
		if paletteOnly {
			return q, nil
		}
		q.Indices = make([]uint8, w*h)
		for y := range h {
			for x := range w {
				q.Indices[(y*w)+x] = uint8(lookup[m.NRGBAAt(b.Min.X+x, b.Min.Y+y)])
			}
		}
		return q, nil
	} else if strict {
		return nil, ErrTooManyUniqueColors
	}

	q.Palette = medianCut(hist, maxColors)
	if !paletteOnly {
		q.Indices = q.Palette.Map(m, dither)
	}
	return q, nil
}

type histEntry struct {
	c color.NRGBA
	n int
}

func (e histEntry) channel(k int) uint8 {
	switch k {
	case 0:
		return e.c.R
	case 1:
		return e.c.G
	case 2:
		return e.c.B
	}
	return e.c.A
}

func packNRGBA(c color.NRGBA) uint32 {
	return (uint32(c.R) << 24) | (uint32(c.G) << 16) | (uint32(c.B) << 8) | uint32(c.A)
}

// widestChannel returns the channel (0=R, 1=G, 2=B, 3=A) with the largest
// range of values in entries, and that range.
func widestChannel(entries []histEntry) (channel int, width int) {
	lo := [4]uint8{0xFF, 0xFF, 0xFF, 0xFF}
	hi := [4]uint8{}
	for _, e := range entries {
		for k := range 4 {
			v := e.channel(k)
			lo[k], hi[k] = min(lo[k], v), max(hi[k], v)
		}
	}
	for k := range 4 {
		if w := int(hi[k]) - int(lo[k]); w > width {
			channel, width = k, w
		}
	}
	return channel, width
}

func medianCut(hist []histEntry, maxColors int) Palette {
	hist = slices.Clone(hist)
	slices.SortFunc(hist, func(a histEntry, b histEntry) int {
		return cmp.Compare(packNRGBA(a.c), packNRGBA(b.c))
	})

	boxes := [][]histEntry{hist}
	for len(boxes) < maxColors {
		bestI, bestChannel, bestWidth := -1, 0, 0
		for i, box := range boxes {
			if channel, width := widestChannel(box); width > bestWidth {
				bestI, bestChannel, bestWidth = i, channel, width
			}
		}
		if bestI < 0 {
			break
		}

		box := boxes[bestI]
		slices.SortFunc(box, func(a histEntry, b histEntry) int {
			if c := cmp.Compare(a.channel(bestChannel), b.channel(bestChannel)); c != 0 {
				return c
			}
			return cmp.Compare(packNRGBA(a.c), packNRGBA(b.c))
		})

		total := 0
		for _, e := range box {
			total += e.n
		}
		split, cumulative := len(box)-1, 0
		for i, e := range box[:len(box)-1] {
			cumulative += e.n
			if (2 * cumulative) >= total {
				split = i + 1
				break
			}
		}

		boxes = slices.Insert(boxes, bestI+1, box[split:])
		boxes[bestI] = box[:split]
	}

	ret := make(Palette, len(boxes))
	for i, box := range boxes {
		sum, n := [4]int{}, 0
		for _, e := range box {
			for k := range 4 {
				sum[k] += e.n * int(e.channel(k))
			}
			n += e.n
		}
		ret[i] = color.NRGBA{
			R: uint8((sum[0] + (n / 2)) / n),
			G: uint8((sum[1] + (n / 2)) / n),
			B: uint8((sum[2] + (n / 2)) / n),
			A: uint8((sum[3] + (n / 2)) / n),
		}
	}
	return ret
}

func sqDiffNRGBA(a color.NRGBA, b color.NRGBA) uint32 {
	dr := int32(a.R) - int32(b.R)
	dg := int32(a.G) - int32(b.G)
	db := int32(a.B) - int32(b.B)
	da := int32(a.A) - int32(b.A)
	return uint32((dr * dr) + (dg * dg) + (db * db) + (da * da))
}

func clampU8(v int32) uint8 {
	return uint8(max(0, min(255, v)))
}
