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

// TiledOrder returns every (x, y) coordinate of a width×height grid, in the
// order that the GPU stores them: tileW×tileH tiles from left to right and
// then top to bottom, with row-major order inside each tile.
//
// Width and height must be positive multiples of tileW and tileH. Encoding
// and decoding both walk the same sequence.
func TiledOrder(width int, height int, tileW int, tileH int) ([]image.Point, error) {
	if (tileW <= 0) || (tileH <= 0) {
		return nil, ErrBadArgument
	}
	if (width <= 0) || (height <= 0) ||
		((width % tileW) != 0) || ((height % tileH) != 0) {
		return nil, ErrUnsupportedDimensions
	}

	ret := make([]image.Point, 0, width*height)
	for ty := 0; ty < height; ty += tileH {
		for tx := 0; tx < width; tx += tileW {
			for y := range tileH {
				for x := range tileW {
					ret = append(ret, image.Point{X: tx + x, Y: ty + y})
				}
			}
		}
	}
	return ret, nil
}

// padImage returns src extended to width×height, replicating the right and
// bottom edges. It returns src itself if no padding is needed.
func padImage(src *image.NRGBA, width int, height int) *image.NRGBA {
	b := src.Bounds()
	if (b.Dx() == width) && (b.Dy() == height) && (b.Min == image.Point{}) {
		return src
	}
	mX1, mY1 := b.Dx()-1, b.Dy()-1
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			dst.SetNRGBA(x, y, src.NRGBAAt(b.Min.X+min(mX1, x), b.Min.Y+min(mY1, y)))
		}
	}
	return dst
}

// cropImage returns the top-left width×height of src as a new image.
func cropImage(src *image.NRGBA, width int, height int) *image.NRGBA {
	b := src.Bounds()
	if (b.Dx() == width) && (b.Dy() == height) {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:], src.Pix[i:i+(4*width)])
	}
	return dst
}
