// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package nie

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestEncodeBN8(tt *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.SetNRGBA(0, 0, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44})
	m.SetNRGBA(1, 0, color.NRGBA{R: 0xFF, G: 0x00, B: 0x80, A: 0xFF})

	got, err := EncodeBN8(m)
	if err != nil {
		tt.Fatalf("EncodeBN8: %v", err)
	}
	want := []byte{
		0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '8',
		0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x33, 0x33, 0x22, 0x22, 0x11, 0x11, 0x44, 0x44,
		0x80, 0x80, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF,
	}
	if !bytes.Equal(got, want) {
		tt.Fatalf("\ngot  % 02X\nwant % 02X", got, want)
	}
}

func TestEncodeBN8SubImage(tt *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x00, A: 0xFF})
		}
	}
	sub := m.SubImage(image.Rect(1, 2, 3, 3)).(*image.NRGBA)

	got, err := EncodeBN8(sub)
	if err != nil {
		tt.Fatalf("EncodeBN8: %v", err)
	}
	if len(got) != (16 + (2 * 8)) {
		tt.Fatalf("length: got %d", len(got))
	}
	if got[8] != 2 || got[12] != 1 {
		tt.Errorf("dimensions: got %d x %d", got[8], got[12])
	}
	// Pixel (1, 2): B=0, G=2, R=1.
	if want := []byte{0x00, 0x00, 0x02, 0x02, 0x01, 0x01, 0xFF, 0xFF}; !bytes.Equal(got[16:24], want) {
		tt.Errorf("first pixel: got % 02X, want % 02X", got[16:24], want)
	}
}

func TestEncodeBN8Paletted(tt *testing.T) {
	palette := color.Palette{
		color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
		color.NRGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF},
	}
	p := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
	p.SetColorIndex(1, 0, 1)

	n := image.NewNRGBA(p.Bounds())
	n.SetNRGBA(0, 0, palette[0].(color.NRGBA))
	n.SetNRGBA(1, 0, palette[1].(color.NRGBA))

	got, err := EncodeBN8(p)
	if err != nil {
		tt.Fatalf("EncodeBN8(paletted): %v", err)
	}
	want, err := EncodeBN8(n)
	if err != nil {
		tt.Fatalf("EncodeBN8(nrgba): %v", err)
	}
	if !bytes.Equal(got, want) {
		tt.Errorf("\ngot  % 02X\nwant % 02X", got, want)
	}
}

func TestEncodeBN8Gray(tt *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 1, 1))
	g.SetGray(0, 0, color.Gray{Y: 0x7B})
	got, err := EncodeBN8(g)
	if err != nil {
		tt.Fatalf("EncodeBN8: %v", err)
	}
	if want := []byte{0x7B, 0x7B, 0x7B, 0x7B, 0x7B, 0x7B, 0xFF, 0xFF}; !bytes.Equal(got[16:], want) {
		tt.Errorf("got % 02X, want % 02X", got[16:], want)
	}
}

func TestEncodeBN8Nil(tt *testing.T) {
	if _, err := EncodeBN8(nil); err != ErrBadArgument {
		tt.Errorf("got %v, want ErrBadArgument", err)
	}
}
