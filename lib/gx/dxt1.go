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
	"math"
)

// BlockQuality trades DXT1 encoding speed for quality. The zero value is
// BlockQualityBest.
type BlockQuality uint8

const (
	BlockQualityBest = BlockQuality(0)
	BlockQualityFast = BlockQuality(1)
)

func (q BlockQuality) String() string {
	if q == BlockQualityFast {
		return "fast"
	}
	return "best"
}

// BlockSize is the number of bytes in one DXT1 (CMPR) block.
const BlockSize = 8

// Block is one compressed 4×4 block: two RGB565 endpoints and a 2-bit index
// per pixel, in row-major order.
//
// When Color0 > Color1, the four palette colors are Color0, Color1 and the
// two colors at one and two thirds between them. Otherwise the palette is
// Color0, Color1, their midpoint and transparent black.
type Block struct {
	Color0  uint16
	Color1  uint16
	Indices [16]uint8
}

// ParseBlock decodes the 8 byte GX form of a block: two big-endian endpoints
// and then one byte per row, the leftmost pixel in the top two bits.
func ParseBlock(src []byte) Block {
	_ = src[BlockSize-1]
	b := Block{
		Color0: readU16BE(src[0:]),
		Color1: readU16BE(src[2:]),
	}
	UnpackBits(b.Indices[:], src[4:8], 2)
	return b
}

// AppendGX appends the 8 byte GX form of b to dst.
func (b *Block) AppendGX(dst []byte) []byte {
	buf := [BlockSize]byte{}
	writeU16BE(buf[0:], b.Color0)
	writeU16BE(buf[2:], b.Color1)
	PackBits(buf[4:], b.Indices[:], 2)
	return append(dst, buf[:]...)
}

// FourColorMode returns whether the block has no transparent palette entry.
func (b *Block) FourColorMode() bool {
	return b.Color0 > b.Color1
}

// Palette returns the block's four representable colors.
func (b *Block) Palette() (ret [4]color.NRGBA) {
	c0 := DecodeColor16(FormatRGB565, b.Color0)
	c1 := DecodeColor16(FormatRGB565, b.Color1)
	ret[0], ret[1] = c0, c1
	if b.FourColorMode() {
		ret[2] = color.NRGBA{
			R: uint8(((2 * uint32(c0.R)) + uint32(c1.R)) / 3),
			G: uint8(((2 * uint32(c0.G)) + uint32(c1.G)) / 3),
			B: uint8(((2 * uint32(c0.B)) + uint32(c1.B)) / 3),
			A: 0xFF,
		}
		ret[3] = color.NRGBA{
			R: uint8((uint32(c0.R) + (2 * uint32(c1.R))) / 3),
			G: uint8((uint32(c0.G) + (2 * uint32(c1.G))) / 3),
			B: uint8((uint32(c0.B) + (2 * uint32(c1.B))) / 3),
			A: 0xFF,
		}
	} else {
		ret[2] = color.NRGBA{
			R: uint8((uint32(c0.R) + uint32(c1.R)) / 2),
			G: uint8((uint32(c0.G) + uint32(c1.G)) / 2),
			B: uint8((uint32(c0.B) + uint32(c1.B)) / 2),
			A: 0xFF,
		}
		ret[3] = color.NRGBA{}
	}
	return ret
}

// Decompress returns the block's 16 pixels in row-major order.
func (b *Block) Decompress() (ret [16]color.NRGBA) {
	palette := b.Palette()
	for i, index := range b.Indices {
		ret[i] = palette[index&3]
	}
	return ret
}

// CompressBlock encodes 16 pixels, in row-major order, as a Block.
//
// Pixels whose alpha is below 0x80 are treated as fully transparent. A block
// with any such pixel uses the three color mode, whose fourth entry is
// transparent.
func CompressBlock(pixels *[16]color.NRGBA, quality BlockQuality) Block {
	e := blockEncoder{}
	for i := range pixels {
		if pixels[i].A < 0x80 {
			e.transparent = true
		} else {
			e.opaque = append(e.opaque, rgb{
				float64(pixels[i].R),
				float64(pixels[i].G),
				float64(pixels[i].B),
			})
		}
	}
	if len(e.opaque) == 0 {
		b := Block{}
		for i := range b.Indices {
			b.Indices[i] = 3
		}
		return b
	}

	candidates := [][2]rgb{e.farthestPair()}
	if quality != BlockQualityFast {
		if pair, ok := e.principalAxisPair(); ok {
			candidates = append(candidates, pair)
		}
		candidates = append(candidates, e.insetBoundingBoxPair())
	}

	bestBlock, bestLoss := Block{}, math.MaxInt
	for _, pair := range candidates {
		b, loss := e.fit(pixels, pair)
		if loss < bestLoss {
			bestBlock, bestLoss = b, loss
		}
	}
	return bestBlock
}

type rgb [3]float64

func (c rgb) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(max(0, min(255, c[0])))),
		G: uint8(math.Round(max(0, min(255, c[1])))),
		B: uint8(math.Round(max(0, min(255, c[2])))),
		A: 0xFF,
	}
}

type blockEncoder struct {
	opaque      []rgb
	transparent bool
}

func (e *blockEncoder) farthestPair() [2]rgb {
	ret, bestD := [2]rgb{e.opaque[0], e.opaque[0]}, -1.0
	for i := range e.opaque {
		for j := i + 1; j < len(e.opaque); j++ {
			d := sqDiffRGB(e.opaque[i], e.opaque[j])
			if d > bestD {
				ret, bestD = [2]rgb{e.opaque[i], e.opaque[j]}, d
			}
		}
	}
	return ret
}

// principalAxisPair projects the pixels onto the principal axis of their
// color covariance, found by power iteration, and returns the two extreme
// points along that axis.
func (e *blockEncoder) principalAxisPair() ([2]rgb, bool) {
	mean := rgb{}
	for _, c := range e.opaque {
		for k := range 3 {
			mean[k] += c[k]
		}
	}
	n := float64(len(e.opaque))
	for k := range 3 {
		mean[k] /= n
	}

	cov := [3][3]float64{}
	for _, c := range e.opaque {
		d := rgb{c[0] - mean[0], c[1] - mean[1], c[2] - mean[2]}
		for i := range 3 {
			for j := range 3 {
				cov[i][j] += d[i] * d[j]
			}
		}
	}

	axis := rgb{1, 1, 1}
	for range 8 {
		next := rgb{}
		for i := range 3 {
			next[i] = (cov[i][0] * axis[0]) + (cov[i][1] * axis[1]) + (cov[i][2] * axis[2])
		}
		norm := math.Sqrt((next[0] * next[0]) + (next[1] * next[1]) + (next[2] * next[2]))
		if norm < 1e-9 {
			return [2]rgb{}, false
		}
		for i := range 3 {
			axis[i] = next[i] / norm
		}
	}

	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, c := range e.opaque {
		t := ((c[0] - mean[0]) * axis[0]) +
			((c[1] - mean[1]) * axis[1]) +
			((c[2] - mean[2]) * axis[2])
		lo, hi = min(lo, t), max(hi, t)
	}
	return [2]rgb{
		{mean[0] + (hi * axis[0]), mean[1] + (hi * axis[1]), mean[2] + (hi * axis[2])},
		{mean[0] + (lo * axis[0]), mean[1] + (lo * axis[1]), mean[2] + (lo * axis[2])},
	}, true
}

// insetBoundingBoxPair returns the corners of the pixels' RGB bounding box,
// each pulled inwards by 1/16 of the box's extent.
func (e *blockEncoder) insetBoundingBoxPair() [2]rgb {
	lo := rgb{255, 255, 255}
	hi := rgb{0, 0, 0}
	for _, c := range e.opaque {
		for k := range 3 {
			lo[k], hi[k] = min(lo[k], c[k]), max(hi[k], c[k])
		}
	}
	for k := range 3 {
		inset := (hi[k] - lo[k]) / 16
		lo[k] += inset
		hi[k] -= inset
	}
	return [2]rgb{hi, lo}
}

// fit quantizes the endpoint pair, orders it for the block's mode, assigns
// every pixel its nearest palette index and returns the squared error summed
// over the opaque pixels.
func (e *blockEncoder) fit(pixels *[16]color.NRGBA, pair [2]rgb) (b Block, loss int) {
	b.Color0 = EncodeColor16(FormatRGB565, pair[0].toNRGBA())
	b.Color1 = EncodeColor16(FormatRGB565, pair[1].toNRGBA())
	if e.transparent == (b.Color0 > b.Color1) {
		b.Color0, b.Color1 = b.Color1, b.Color0
	}

	palette := b.Palette()
	numOpaqueEntries := 4
	if !b.FourColorMode() {
		numOpaqueEntries = 3
	}

	for i := range pixels {
		p := pixels[i]
		if p.A < 0x80 {
			b.Indices[i] = 3
			continue
		}
		bestJ, bestD := 0, math.MaxInt
		for j := range numOpaqueEntries {
			dr := int(p.R) - int(palette[j].R)
			dg := int(p.G) - int(palette[j].G)
			db := int(p.B) - int(palette[j].B)
			if d := (dr * dr) + (dg * dg) + (db * db); d < bestD {
				bestJ, bestD = j, d
			}
		}
		b.Indices[i] = uint8(bestJ)
		loss += bestD
	}
	return b, loss
}

func sqDiffRGB(a rgb, b rgb) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return (d0 * d0) + (d1 * d1) + (d2 * d2)
}
