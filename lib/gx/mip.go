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
)

// MipLevelSize returns the dimensions of mip level n of a width×height image.
// Each axis halves independently and stops at 1.
func MipLevelSize(width int, height int, n int) (int, int) {
	return max(1, width>>n), max(1, height>>n)
}

// NumMipLevels returns the number of levels, including the base level, in a
// chain that ends at 1×1.
func NumMipLevels(width int, height int) int {
	n := 1
	for (width > 1) || (height > 1) {
		width, height = max(1, width>>1), max(1, height>>1)
		n++
	}
	return n
}

// BuildChain returns the mipmap pyramid of base, largest first. The first
// element is base itself and the last is 1×1.
//
// Each level is a 2×2 box filter of the previous one. When a source dimension
// is odd, or already 1, the edge row or column is repeated.
func BuildChain(base *image.NRGBA) []*image.NRGBA {
	b := base.Bounds()
	ret := make([]*image.NRGBA, 0, NumMipLevels(b.Dx(), b.Dy()))
	ret = append(ret, base)
	for m := base; (m.Bounds().Dx() > 1) || (m.Bounds().Dy() > 1); {
		m = downsample(m)
		ret = append(ret, m)
	}
	return ret
}

func downsample(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	sW, sH := b.Dx(), b.Dy()
	dW, dH := max(1, sW/2), max(1, sH/2)
	dst := image.NewNRGBA(image.Rect(0, 0, dW, dH))

	for y := range dH {
		y0 := b.Min.Y + min(sH-1, (2*y)+0)
		y1 := b.Min.Y + min(sH-1, (2*y)+1)
		for x := range dW {
			x0 := b.Min.X + min(sW-1, (2*x)+0)
			x1 := b.Min.X + min(sW-1, (2*x)+1)

			p00 := src.Pix[src.PixOffset(x0, y0):]
			p01 := src.Pix[src.PixOffset(x1, y0):]
			p10 := src.Pix[src.PixOffset(x0, y1):]
			p11 := src.Pix[src.PixOffset(x1, y1):]
			d := dst.Pix[dst.PixOffset(x, y):]
			for k := range 4 {
				sum := uint32(p00[k]) + uint32(p01[k]) + uint32(p10[k]) + uint32(p11[k])
				d[k] = uint8((sum + 2) / 4)
			}
		}
	}
	return dst
}
